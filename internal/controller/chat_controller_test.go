package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shop-chatbot-be/internal/dto"
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/pkg/serverutils"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type stubChatService struct {
	req      *dto.ChatRequest
	verified assistant.Role
	err      error
}

func (s *stubChatService) Chat(ctx context.Context, req *dto.ChatRequest, verified assistant.Role) (*response.Reply, error) {
	s.req, s.verified = req, verified
	if s.err != nil {
		return nil, s.err
	}
	return &response.Reply{
		Text:         "Xin chào!",
		SessionID:    req.SessionId,
		Products:     []response.Product{},
		QuickReplies: []response.QuickReply{},
		Metadata:     map[string]any{"intent": "greeting"},
	}, nil
}

type stubSessionService struct {
	suggestionsRole assistant.Role
	escalated       *dto.EscalateRequest
	cleared         string
	historyErr      error
}

func (s *stubSessionService) Suggestions(ctx context.Context, req *dto.SuggestionsRequest, verified assistant.Role) *dto.SuggestionsResponse {
	s.suggestionsRole = verified
	return &dto.SuggestionsResponse{Suggestions: []dto.ContextNodeDTO{{Id: "orders", Label: "Orders", Type: "group", Children: []dto.ContextNodeDTO{}}}}
}

func (s *stubSessionService) History(ctx context.Context, sessionID string) (*dto.ChatHistoryResponse, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return &dto.ChatHistoryResponse{Messages: []dto.HistoryMessageDTO{{Role: "user", Content: "hi:" + sessionID, Products: []interface{}{}}}}, nil
}

func (s *stubSessionService) ActiveSession(ctx context.Context, customerID string) (*dto.ActiveSessionResponse, error) {
	if customerID == "cus_none" {
		return &dto.ActiveSessionResponse{}, nil
	}
	id := "sess_of_" + customerID
	return &dto.ActiveSessionResponse{SessionId: &id}, nil
}

func (s *stubSessionService) Clear(ctx context.Context, sessionID string) (*dto.ClearSessionResponse, error) {
	s.cleared = sessionID
	return &dto.ClearSessionResponse{SessionId: sessionID, Cleared: true, Message: "History cleared"}, nil
}

func (s *stubSessionService) Escalate(ctx context.Context, req *dto.EscalateRequest) (*dto.EscalateResponse, error) {
	s.escalated = req
	return &dto.EscalateResponse{Status: "escalated", SessionId: req.SessionId}, nil
}

func newChatApp(chat *stubChatService, sessions *stubSessionService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	app.Use(serverutils.OptionalJwtMiddleware(testSecret))
	NewChatController(chat, sessions, logger.NewNopLogger()).RegisterRoutes(app.Group("/api"))
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body, token string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestChatEndpoint(t *testing.T) {
	t.Run("raw reply body", func(t *testing.T) {
		chat := &stubChatService{}
		app := newChatApp(chat, &stubSessionService{})

		code, body := do(t, app, http.MethodPost, "/api/chat", `{"message":"xin chào","session_id":"s1","language":"vi"}`, "")
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "Xin chào!", body["response"])
		assert.Equal(t, "s1", body["session_id"])
		assert.NotContains(t, body, "success")
		assert.Equal(t, assistant.Role(""), chat.verified)
	})

	t.Run("verified role from token", func(t *testing.T) {
		chat := &stubChatService{}
		app := newChatApp(chat, &stubSessionService{})

		code, _ := do(t, app, http.MethodPost, "/api/chat", `{"message":"tồn kho","session_id":"s1"}`, signToken(t, "u1", "manager"))
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, assistant.RoleManager, chat.verified)
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing message", `{"session_id":"s1"}`},
		{"missing session", `{"message":"hi"}`},
		{"unsupported language", `{"message":"hi","session_id":"s1","language":"fr"}`},
		{"not json", `{"message":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, newChatApp(&stubChatService{}, &stubSessionService{}), http.MethodPost, "/api/chat", tt.body, "")
			assert.Equal(t, fiber.StatusBadRequest, code)
			assert.Equal(t, false, body["success"])
		})
	}

	t.Run("service error hides details", func(t *testing.T) {
		app := newChatApp(&stubChatService{err: assert.AnError}, &stubSessionService{})
		code, body := do(t, app, http.MethodPost, "/api/chat", `{"message":"hi","session_id":"s1"}`, "")
		assert.Equal(t, fiber.StatusInternalServerError, code)
		assert.Equal(t, "Internal server error", body["message"])
	})
}

func TestSessionEndpoints(t *testing.T) {
	sessions := &stubSessionService{}
	app := newChatApp(&stubChatService{}, sessions)

	t.Run("suggestions without body", func(t *testing.T) {
		code, body := do(t, app, http.MethodPost, "/api/chat/suggestions", "", signToken(t, "u1", "staff"))
		assert.Equal(t, fiber.StatusOK, code)
		assert.Len(t, body["suggestions"], 1)
		assert.Equal(t, assistant.RoleStaff, sessions.suggestionsRole)
	})

	t.Run("history", func(t *testing.T) {
		code, body := do(t, app, http.MethodGet, "/api/chat/history/abc", "", "")
		assert.Equal(t, fiber.StatusOK, code)
		messages := body["messages"].([]interface{})
		require.Len(t, messages, 1)
		assert.Equal(t, "hi:abc", messages[0].(map[string]interface{})["content"])
	})

	t.Run("active session", func(t *testing.T) {
		code, body := do(t, app, http.MethodGet, "/api/chat/session/active/cus_1", "", "")
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "sess_of_cus_1", body["session_id"])

		_, body = do(t, app, http.MethodGet, "/api/chat/session/active/cus_none", "", "")
		assert.Contains(t, body, "session_id")
		assert.Nil(t, body["session_id"])
	})

	t.Run("clear", func(t *testing.T) {
		code, body := do(t, app, http.MethodPost, "/api/chat/session/clear/abc", "", "")
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, true, body["cleared"])
		assert.Equal(t, "abc", sessions.cleared)
	})

	t.Run("escalate", func(t *testing.T) {
		code, body := do(t, app, http.MethodPost, "/api/chat/escalate", `{"session_id":"abc","reason":"size"}`, "")
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "escalated", body["status"])
		assert.Equal(t, "size", sessions.escalated.Reason)

		code, _ = do(t, app, http.MethodPost, "/api/chat/escalate", `{"reason":"size"}`, "")
		assert.Equal(t, fiber.StatusBadRequest, code)
	})

	t.Run("history failure", func(t *testing.T) {
		failing := newChatApp(&stubChatService{}, &stubSessionService{historyErr: assert.AnError})
		code, _ := do(t, failing, http.MethodGet, "/api/chat/history/abc", "", "")
		assert.Equal(t, fiber.StatusInternalServerError, code)
	})
}
