package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
)

const DefaultTopic = "cart.events"

// CartEvent is the message published for every cart change.
type CartEvent struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	ProductID  int64     `json:"product_id,omitempty"`
	ItemCount  int       `json:"item_count"`
	Subtotal   string    `json:"subtotal"`
	Total      string    `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// queueSize bounds the events waiting for the broker.
const queueSize = 256

// Publisher sends cart events to Kafka from a single goroutine, so events
// keep the order Listen received them in and slow brokers never hold up
// the change that produced the event.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
	now      func() time.Time

	mu     sync.RWMutex
	closed bool
	events chan app.Event
	done   chan struct{}
}

func NewPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Publisher{
		producer: producer,
		topic:    topic,
		log:      log,
		now:      time.Now,
		events:   make(chan app.Event, queueSize),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Publisher) run() {
	defer close(p.done)
	for ev := range p.events {
		if err := p.Publish(ev); err != nil {
			p.log.Error("publish cart event failed", zap.String("kind", string(ev.Kind)), zap.Error(err))
		}
	}
}

// NewSyncProducer dials the brokers, retrying until ctx is done.
func NewSyncProducer(ctx context.Context, brokers []string, log *zap.Logger) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3

	const attempts = 10
	var lastErr error
	for i := 1; i <= attempts; i++ {
		producer, err := sarama.NewSyncProducer(brokers, cfg)
		if err == nil {
			return producer, nil
		}
		lastErr = err
		log.Warn("waiting for kafka", zap.Int("attempt", i), zap.Int("max", attempts), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil, errors.Wrapf(lastErr, "kafka producer after %d attempts", attempts)
}

// Listen is an app.Listener. It only queues the event; when the queue is
// full or the publisher is closed the event is dropped and logged. The cart
// change has already been persisted either way.
func (p *Publisher) Listen(ev app.Event) {
	if ev.Kind == app.EventLoaded {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ev:
	default:
		p.log.Warn("cart event dropped, publish queue full", zap.String("kind", string(ev.Kind)), zap.Uint64("version", ev.Version))
	}
}

func (p *Publisher) Publish(ev app.Event) error {
	msg := CartEvent{
		ID:         uuid.NewString(),
		Kind:       string(ev.Kind),
		ProductID:  ev.ProductID,
		ItemCount:  ev.Cart.ItemCount(),
		Subtotal:   ev.Cart.Subtotal().StringFixed(2),
		Total:      ev.Cart.Total().StringFixed(2),
		OccurredAt: p.now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal cart event")
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(ev.ProductID, 10)),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return errors.Wrapf(err, "send to %s", p.topic)
	}

	p.log.Debug("published cart event", zap.String("kind", msg.Kind), zap.String("id", msg.ID))
	return nil
}

// Close stops accepting events, waits for queued ones to be sent and
// closes the producer.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()

	<-p.done
	return p.producer.Close()
}
