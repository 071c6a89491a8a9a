package controller

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/pkg/serverutils"
	"shop-chatbot-be/internal/repository/testdb"
	"shop-chatbot-be/internal/repository/unitofwork"
	"shop-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminApp(t *testing.T, log logger.ILogger) (*fiber.App, unitofwork.RepositoryFactory) {
	t.Helper()
	factory := unitofwork.NewRepositoryFactory(testdb.New(t))

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewAdminController(service.NewAdminService(factory, log), testSecret).RegisterRoutes(app.Group("/api"))
	return app, factory
}

func TestAdminAuth(t *testing.T) {
	app, _ := newAdminApp(t, logger.NewNopLogger())

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", fiber.StatusUnauthorized},
		{"bad token", "not-a-jwt", fiber.StatusUnauthorized},
		{"customer", signToken(t, "c1", "customer"), fiber.StatusForbidden},
		{"staff", signToken(t, "s1", "staff"), fiber.StatusOK},
		{"admin", signToken(t, "a1", "admin"), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, app, http.MethodGet, "/api/admin/stats", "", tt.token)
			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.want == fiber.StatusOK, body["success"])
		})
	}
}

func TestAdminSessionRoutes(t *testing.T) {
	ctx := context.Background()
	app, factory := newAdminApp(t, logger.NewNopLogger())
	token := signToken(t, "s1", "staff")

	uow := factory.NewUnitOfWork(ctx)
	_, err := uow.ChatSessionRepository().EnsureExists(ctx, &entity.ChatSession{SessionId: "x1", CustomerId: "cus_1"})
	require.NoError(t, err)
	require.NoError(t, uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{SessionId: "x1", Role: "user", Content: "hello", Intent: "greeting"}))

	t.Run("list", func(t *testing.T) {
		code, body := do(t, app, http.MethodGet, "/api/admin/sessions?limit=10", "", token)
		require.Equal(t, fiber.StatusOK, code)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, float64(1), data["total"])
		sessions := data["sessions"].([]interface{})
		require.Len(t, sessions, 1)
		assert.Equal(t, float64(1), sessions[0].(map[string]interface{})["message_count"])
	})

	t.Run("list rejects oversized page", func(t *testing.T) {
		code, _ := do(t, app, http.MethodGet, "/api/admin/sessions?limit=1000", "", token)
		assert.Equal(t, fiber.StatusBadRequest, code)
	})

	t.Run("messages", func(t *testing.T) {
		code, body := do(t, app, http.MethodGet, "/api/admin/sessions/x1/messages", "", token)
		require.Equal(t, fiber.StatusOK, code)
		messages := body["data"].(map[string]interface{})["messages"].([]interface{})
		require.Len(t, messages, 1)
		assert.Equal(t, "greeting", messages[0].(map[string]interface{})["intent"])
	})

	statusTests := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"query status", "/api/admin/sessions/x1/status?status=closed", "", fiber.StatusOK},
		{"body status", "/api/admin/sessions/x1/status", `{"status":"archived"}`, fiber.StatusOK},
		{"invalid status", "/api/admin/sessions/x1/status?status=waiting_for_staff", "", fiber.StatusBadRequest},
		{"missing status", "/api/admin/sessions/x1/status", "", fiber.StatusBadRequest},
		{"unknown session", "/api/admin/sessions/nope/status?status=closed", "", fiber.StatusNotFound},
	}
	for _, tt := range statusTests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := do(t, app, http.MethodPatch, tt.target, tt.body, token)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestAdminSettingsRoutes(t *testing.T) {
	app, _ := newAdminApp(t, logger.NewNopLogger())
	token := signToken(t, "s1", "manager")

	code, body := do(t, app, http.MethodPatch, "/api/admin/settings", `{"greeting":"Chào bạn","max_products":5}`, token)
	require.Equal(t, fiber.StatusOK, code)
	settings := body["data"].(map[string]interface{})["settings"].(map[string]interface{})
	assert.Equal(t, "5", settings["max_products"])

	code, body = do(t, app, http.MethodGet, "/api/admin/settings", "", token)
	require.Equal(t, fiber.StatusOK, code)
	settings = body["data"].(map[string]interface{})["settings"].(map[string]interface{})
	assert.Equal(t, "Chào bạn", settings["greeting"])

	code, _ = do(t, app, http.MethodPatch, "/api/admin/settings", `{}`, token)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestAdminLogRoutes(t *testing.T) {
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "app.log"))
	log.Info("ChatService", "Created chat session", map[string]interface{}{"session_id": "x1"})
	log.Error("ChatService", "Agent pipeline failed", map[string]interface{}{"error": "boom"})
	require.NoError(t, log.Sync())

	app, _ := newAdminApp(t, log)
	token := signToken(t, "s1", "staff")

	code, body := do(t, app, http.MethodGet, "/api/admin/logs?level=ERROR", "", token)
	require.Equal(t, fiber.StatusOK, code)
	logs := body["data"].([]interface{})
	require.Len(t, logs, 1)
	entry := logs[0].(map[string]interface{})
	assert.Equal(t, "Agent pipeline failed", entry["message"])
	assert.Equal(t, "ChatService", entry["module"])

	code, body = do(t, app, http.MethodGet, "/api/admin/logs/"+entry["id"].(string), "", token)
	require.Equal(t, fiber.StatusOK, code)
	details := body["data"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "boom", details["error"])

	code, _ = do(t, app, http.MethodGet, "/api/admin/logs/unknown", "", token)
	assert.Equal(t, fiber.StatusNotFound, code)
}
