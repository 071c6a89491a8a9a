package service

import (
	"context"
	"fmt"

	"shop-chatbot-be/internal/constant"
	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/repository/unitofwork"
	"shop-chatbot-be/pkg/chatqueue"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IConsumerService persists queued chat records.
type IConsumerService interface {
	// Consume subscribes to the in-process topic and persists in the
	// background until ctx is cancelled.
	Consume(ctx context.Context) error
	// Persist writes one batch in a single transaction. It is the handler
	// the NATS and Redis drivers call.
	Persist(ctx context.Context, batch []chatqueue.Record) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	if topicName == "" {
		topicName = chatqueue.DefaultTopic
	}
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	if cs.subscriber == nil {
		return fmt.Errorf("consumer has no subscriber")
	}
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	cs.logger.Info("Consumer", "Chat message consumer started", map[string]interface{}{"topic": cs.topicName})
	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	rec, err := chatqueue.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("Consumer", "Dropping malformed chat record", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	if err := cs.Persist(ctx, []chatqueue.Record{rec}); err != nil {
		cs.logger.Error("Consumer", "Failed to persist chat record", map[string]interface{}{
			"session_id": rec.SessionID,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

func (cs *consumerService) Persist(ctx context.Context, batch []chatqueue.Record) error {
	records := chatqueue.Messages(batch)
	if len(records) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	messages := make([]*entity.ChatMessage, 0, len(records))
	err := cs.uowFactory.Transaction(ctx, func(uow unitofwork.UnitOfWork) error {
		for _, rec := range records {
			if !seen[rec.SessionID] {
				seen[rec.SessionID] = true
				if _, err := uow.ChatSessionRepository().EnsureExists(ctx, &entity.ChatSession{
					SessionId: rec.SessionID,
					Status:    constant.ChatSessionStatusActive,
				}); err != nil {
					return fmt.Errorf("ensure session %s: %w", rec.SessionID, err)
				}
			}

			metadata := rec.Metadata
			if metadata == nil {
				metadata = map[string]interface{}{}
			}
			messages = append(messages, &entity.ChatMessage{
				SessionId:      rec.SessionID,
				Role:           rec.Role,
				Content:        rec.Content,
				Intent:         rec.Intent,
				ResponseTimeMs: rec.ResponseTimeMs,
				Metadata:       metadata,
				CreatedAt:      rec.CreatedAt,
			})
		}
		return uow.ChatMessageRepository().CreateBulk(ctx, messages)
	})
	if err != nil {
		return err
	}

	cs.logger.Debug("Consumer", "Persisted chat records", map[string]interface{}{
		"records":  len(messages),
		"sessions": len(seen),
	})
	return nil
}
