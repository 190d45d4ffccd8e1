package dynamo

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient stores items by table and slot_key.
type fakeClient struct {
	items  map[string]map[string]types.AttributeValue
	putErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(table string, key map[string]types.AttributeValue) string {
	s, _ := key["slot_key"].(*types.AttributeValueMemberS)
	if s == nil {
		return table + "/"
	}
	return table + "/" + s.Value
}

func (f *fakeClient) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(aws.ToString(in.TableName), in.Key)]}, nil
}

func (f *fakeClient) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.items[keyOf(aws.ToString(in.TableName), in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestSlot(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	slot := NewSlot(client, "carts", "cart")

	_, ok, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, slot.Set(ctx, `[{"id":1}]`))
	require.NoError(t, slot.Set(ctx, `[{"id":2}]`))

	blob, ok, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":2}]`, blob)
	assert.Len(t, client.items, 1)

	other := NewSlot(client, "carts", "other")
	_, ok, err = other.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "slots with different keys are independent")
}

func TestSlotPutError(t *testing.T) {
	client := newFakeClient()
	client.putErr = errors.New("throttled")
	slot := NewSlot(client, "carts", "cart")

	err := slot.Set(context.Background(), "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
