package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go duration", "1500ms", 1500 * time.Millisecond},
		{"plain seconds", "2", 2 * time.Second},
		{"fractional seconds", "0.5", 500 * time.Millisecond},
		{"garbage falls back", "soon", time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("QUEUE_DRIVER", "Redis")
	t.Setenv("AGENTS_ENABLED", "false")
	t.Setenv("BATCH_SIZE", "not-a-number")
	t.Setenv("LLM_PROVIDER", "OLLAMA")

	cfg := Load()

	assert.Equal(t, QueueRedis, cfg.Queue.Driver)
	assert.Equal(t, 50, cfg.Queue.BatchSize)
	assert.False(t, cfg.Ai.AgentsEnabled)
	assert.Equal(t, "ollama", cfg.Ai.LLMProvider)
	assert.Equal(t, 10, cfg.Assistant.HistoryLimit)
}

func TestEscalationMailConfig(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.shop.test")
	t.Setenv("ESCALATION_EMAILS", " lead@shop.test, ,ops@shop.test ")

	cfg := Load()

	assert.Equal(t, []string{"lead@shop.test", "ops@shop.test"}, cfg.SMTP.EscalationRecipients)
	assert.True(t, cfg.SMTP.Enabled())

	t.Setenv("ESCALATION_EMAILS", "")
	assert.False(t, Load().SMTP.Enabled())
}
