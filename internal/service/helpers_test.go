package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shop-chatbot-be/internal/repository/testdb"
	"shop-chatbot-be/internal/repository/unitofwork"
	"shop-chatbot-be/pkg/assistant/normalizer"
	"shop-chatbot-be/pkg/assistant/pipeline"
	"shop-chatbot-be/pkg/assistant/response"
	"shop-chatbot-be/pkg/chatqueue"
)

func newFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	return unitofwork.NewRepositoryFactory(testdb.New(t))
}

// recordingWriter keeps every enqueued record.
type recordingWriter struct {
	mu      sync.Mutex
	records []chatqueue.Record
	err     error
}

func (w *recordingWriter) Enqueue(ctx context.Context, rec chatqueue.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.records = append(w.records, rec)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func (w *recordingWriter) Records() []chatqueue.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]chatqueue.Record(nil), w.records...)
}

type stubPipeline struct {
	result pipeline.Result
	err    error
	got    normalizer.Request
}

func (p *stubPipeline) Run(ctx context.Context, req normalizer.Request) (pipeline.Result, error) {
	p.got = req
	return p.result, p.err
}

type stubFallback struct {
	calls int
}

func (f *stubFallback) Reply(ctx context.Context, sessionID, message, language string) (response.Reply, string) {
	f.calls++
	return response.Reply{
		Text:      "fallback answer",
		SessionID: sessionID,
		Products:  []response.Product{},
		Metadata:  map[string]any{"intent": "general", "fallback": true},
	}, "general"
}

type recordingNotifier struct {
	sessions []string
	reasons  []string
	err      error
}

func (n *recordingNotifier) NotifyEscalation(ctx context.Context, sessionID, customerID, reason string) error {
	n.sessions = append(n.sessions, sessionID)
	n.reasons = append(n.reasons, reason)
	return n.err
}

var errBoom = errors.New("boom")
