package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/pkg/mailer"
	"shop-chatbot-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Escalation
	err  error
}

func (m *recordingMailer) SendEscalation(e mailer.Escalation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}

func TestEmailEscalationNotifier(t *testing.T) {
	t.Run("mails in the background", func(t *testing.T) {
		m := &recordingMailer{}
		n := NewEmailEscalationNotifier(m, logger.NewNopLogger())

		require.NoError(t, n.NotifyEscalation(context.Background(), "s1", "cus_1", "size"))
		assert.Eventually(t, func() bool { return m.count() == 1 }, time.Second, 10*time.Millisecond)

		m.mu.Lock()
		defer m.mu.Unlock()
		assert.Equal(t, "s1", m.sent[0].SessionID)
		assert.Equal(t, "size", m.sent[0].Reason)
	})

	t.Run("mail failure does not fail escalation", func(t *testing.T) {
		m := &recordingMailer{err: errBoom}
		n := NewEmailEscalationNotifier(m, logger.NewNopLogger())

		assert.NoError(t, n.NotifyEscalation(context.Background(), "s2", "", ""))
		assert.Eventually(t, func() bool { return m.count() == 1 }, time.Second, 10*time.Millisecond)
	})
}

func TestEventEscalationNotifier(t *testing.T) {
	p := &recordingPublisher{}
	require.NoError(t, NewEventEscalationNotifier(p).NotifyEscalation(context.Background(), "s1", "cus_1", "size"))

	require.Len(t, p.events, 1)
	assert.Equal(t, events.TypeSessionEscalated, p.events[0].EventType())
	assert.Equal(t, "cus_1", p.events[0].Payload()["customer_id"])
}
