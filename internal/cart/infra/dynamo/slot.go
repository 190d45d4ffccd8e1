package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-faster/errors"
)

// Client is the part of *dynamodb.Client the slot needs.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type slotItem struct {
	SlotKey   string `dynamodbav:"slot_key"`
	Payload   string `dynamodbav:"payload"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// Slot keeps the cart in a table whose partition key is slot_key.
type Slot struct {
	client Client
	table  string
	key    string
}

func NewSlot(client Client, table, key string) *Slot {
	return &Slot{client: client, table: table, key: key}
}

// NewClient loads the default AWS config for region.
func NewClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (s *Slot) Get(ctx context.Context) (string, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"slot_key": &types.AttributeValueMemberS{Value: s.key},
		},
	})
	if err != nil {
		return "", false, errors.Wrapf(err, "dynamodb get %s", s.key)
	}
	if out.Item == nil {
		return "", false, nil
	}

	var item slotItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return "", false, errors.Wrap(err, "unmarshal slot item")
	}
	return item.Payload, true, nil
}

func (s *Slot) Set(ctx context.Context, blob string) error {
	av, err := attributevalue.MarshalMap(slotItem{
		SlotKey:   s.key,
		Payload:   blob,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errors.Wrap(err, "marshal slot item")
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return errors.Wrapf(err, "dynamodb put %s", s.key)
	}
	return nil
}
