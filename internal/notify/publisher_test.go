package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisherDeliversToEmployeeChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, ChannelFor(7))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewRedisPublisher(client)
	sent := Notification{
		ID:             42,
		RecipientEmpID: 7,
		TransactionID:  100,
		Kind:           KindBorrow,
		ItemID:         3,
		Quantity:       2,
		Message:        "Borrowing Request Submitted",
	}
	require.NoError(t, publisher.Publish(ctx, sent))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, "notify:emp:7", msg.Channel)

	var got Notification
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	require.Equal(t, sent.ID, got.ID)
	require.Equal(t, sent.Message, got.Message)
	require.Equal(t, KindBorrow, got.Kind)
}

func TestChannelFor(t *testing.T) {
	require.Equal(t, "notify:emp:1", ChannelFor(1))
	require.Equal(t, "notify:emp:250", ChannelFor(250))
}
