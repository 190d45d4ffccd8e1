package redis

import (
	"context"

	"github.com/go-faster/errors"
	goredis "github.com/redis/go-redis/v9"
)

type Slot struct {
	rdb *goredis.Client
	key string
}

func NewSlot(rdb *goredis.Client, key string) *Slot {
	return &Slot{rdb: rdb, key: key}
}

func (s *Slot) Get(ctx context.Context) (string, bool, error) {
	blob, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "redis get %s", s.key)
	}
	return blob, true, nil
}

func (s *Slot) Set(ctx context.Context, blob string) error {
	if err := s.rdb.Set(ctx, s.key, blob, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", s.key)
	}
	return nil
}

// Connect opens a client and checks it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrapf(err, "redis ping %s", addr)
	}
	return rdb, nil
}
