package service

import (
	"context"
	"time"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/pkg/mailer"
	"shop-chatbot-be/pkg/chatqueue"
	"shop-chatbot-be/pkg/events"
)

// EventEscalationNotifier publishes session_escalated events for services
// outside this process.
type EventEscalationNotifier struct {
	publisher chatqueue.EventPublisher
}

func NewEventEscalationNotifier(publisher chatqueue.EventPublisher) *EventEscalationNotifier {
	return &EventEscalationNotifier{publisher: publisher}
}

func (n *EventEscalationNotifier) NotifyEscalation(ctx context.Context, sessionID, customerID, reason string) error {
	return n.publisher.Publish(ctx, events.New(events.TypeSessionEscalated, map[string]interface{}{
		"session_id":   sessionID,
		"customer_id":  customerID,
		"reason":       reason,
		"requested_at": time.Now().UTC().Format(time.RFC3339),
	}))
}

// EmailEscalationNotifier mails the configured staff list.
type EmailEscalationNotifier struct {
	mailer mailer.IEmailService
	logger logger.ILogger
}

func NewEmailEscalationNotifier(m mailer.IEmailService, log logger.ILogger) *EmailEscalationNotifier {
	return &EmailEscalationNotifier{mailer: m, logger: log}
}

// NotifyEscalation sends in the background and logs failures.
func (n *EmailEscalationNotifier) NotifyEscalation(ctx context.Context, sessionID, customerID, reason string) error {
	e := mailer.Escalation{
		SessionID:   sessionID,
		CustomerID:  customerID,
		Reason:      reason,
		RequestedAt: time.Now(),
	}
	go func() {
		if err := n.mailer.SendEscalation(e); err != nil {
			n.logger.Error("SessionService", "Failed to send escalation email", map[string]interface{}{
				"session_id": e.SessionID,
				"error":      err.Error(),
			})
		}
	}()
	return nil
}
