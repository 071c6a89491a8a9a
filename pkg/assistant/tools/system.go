package tools

import (
	"context"
	"time"

	"shop-chatbot-be/pkg/assistant"
)

func (t *Toolbox) Escalate(ctx context.Context, sessionID string) *assistant.ToolResults {
	return ok(Ack{Status: "escalated", Message: "Connecting to human agent...", Ref: sessionID}, "", time.Now())
}

func (t *Toolbox) Logout(ctx context.Context) *assistant.ToolResults {
	return ok(Ack{Status: "logged_out", Message: "You have been logged out."}, "", time.Now())
}

// UpdateConfig records a manager's configuration request verbatim; applying
// it is left to the admin API.
func (t *Toolbox) UpdateConfig(ctx context.Context, request string) *assistant.ToolResults {
	t.logger.Info("Tools", "Config update requested", map[string]interface{}{"request": request})
	return ok(Ack{Status: "requested", Message: "Config update request recorded", Ref: request}, "", time.Now())
}
