package service

import (
	"context"
	"testing"
	"time"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/repository/specification"
	"shop-chatbot-be/pkg/chatqueue"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerPersist(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	svc := NewConsumerService(nil, "", factory, logger.NewNopLogger())

	batch := []chatqueue.Record{
		chatqueue.NewMessage("p1", "user", "xin chào", "general", nil),
		chatqueue.NewMessage("p1", "assistant", "chào bạn", "general",
			map[string]any{"product_ids": []string{"prod_1"}}).WithResponseTime(120 * time.Millisecond),
		chatqueue.NewMessage("p2", "user", "đơn hàng", "order_tracking", nil),
		{Type: "typing", SessionID: "p1"},
		chatqueue.NewMessage("", "user", "orphan", "", nil),
	}
	require.NoError(t, svc.Persist(ctx, batch))

	uow := factory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sessions)

	messages, err := uow.ChatMessageRepository().FindAll(ctx, specification.BySessionID{SessionID: "p1"}, specification.Oldest())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "xin chào", messages[0].Content)
	assert.Equal(t, []string{"prod_1"}, messages[1].ProductIDs())
	require.NotNil(t, messages[1].ResponseTimeMs)
	assert.Equal(t, int64(120), *messages[1].ResponseTimeMs)

	total, err := uow.ChatMessageRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.Persist(ctx, nil))
		assert.NoError(t, svc.Persist(ctx, []chatqueue.Record{{Type: "typing"}}))
	})
}

func TestConsumerConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := newFactory(t)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	svc := NewConsumerService(pubSub, "chat_messages_test", factory, logger.NewNopLogger())
	require.NoError(t, svc.Consume(ctx))

	writer := chatqueue.NewWatermillWriter(pubSub, "chat_messages_test")
	require.NoError(t, pubSub.Publish("chat_messages_test", message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	require.NoError(t, writer.Enqueue(ctx, chatqueue.NewMessage("c1", "user", "còn hàng không", "product_inquiry", nil)))

	repo := factory.NewUnitOfWork(ctx).ChatMessageRepository()
	assert.Eventually(t, func() bool {
		n, err := repo.Count(ctx, specification.BySessionID{SessionID: "c1"})
		return err == nil && n == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestConsumerWithoutSubscriber(t *testing.T) {
	svc := NewConsumerService(nil, "", newFactory(t), logger.NewNopLogger())
	assert.Error(t, svc.Consume(context.Background()))
}
