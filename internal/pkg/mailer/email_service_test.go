package mailer

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestService(d *fakeDialer, recipients ...string) *emailService {
	return &emailService{
		dialer:      d,
		senderEmail: "bot@shop.test",
		senderName:  "Shop Assistant",
		recipients:  recipients,
		consoleURL:  "https://admin.shop.test/",
	}
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendEscalation(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("renders session and link", func(t *testing.T) {
		d := &fakeDialer{}
		svc := newTestService(d, "staff@shop.test")

		require.NoError(t, svc.SendEscalation(Escalation{SessionID: "s1", CustomerID: "cus_1", Reason: "<size>", RequestedAt: at}))
		require.Len(t, d.sent, 1)

		out := render(t, d.sent[0])
		assert.Contains(t, out, "Chat s1 needs a staff member")
		assert.Contains(t, out, "staff@shop.test")
		assert.Contains(t, out, "cus_1")
		assert.Contains(t, out, "&lt;size&gt;")
		assert.Contains(t, out, "https://admin.shop.test/sessions/s1")
	})

	t.Run("guest without reason", func(t *testing.T) {
		d := &fakeDialer{}
		require.NoError(t, newTestService(d, "staff@shop.test").SendEscalation(Escalation{SessionID: "s2", RequestedAt: at}))
		out := render(t, d.sent[0])
		assert.Contains(t, out, "guest")
		assert.Contains(t, out, "not given")
	})

	t.Run("no recipients is a no-op", func(t *testing.T) {
		d := &fakeDialer{}
		require.NoError(t, newTestService(d).SendEscalation(Escalation{SessionID: "s3"}))
		assert.Empty(t, d.sent)
	})

	t.Run("dial error is wrapped", func(t *testing.T) {
		d := &fakeDialer{err: errors.New("connection refused")}
		err := newTestService(d, "staff@shop.test").SendEscalation(Escalation{SessionID: "s4"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s4")
	})
}
