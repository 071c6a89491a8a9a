package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"shop-chatbot-be/pkg/assistant"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signed(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		SessionID string `json:"session_id" validate:"required"`
		Message   string `json:"message" validate:"required,max=5"`
	}

	assert.NoError(t, ValidateRequest(req{SessionID: "s1", Message: "hi"}))

	err := ValidateRequest(req{Message: "too long"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"session_id: required", "message: max=5"}, vErr.Fields)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "Session not found") })
	app.Get("/validation", func(c *fiber.Ctx) error { return &ValidationError{Fields: []string{"message: required"}} })
	app.Get("/internal", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })

	tests := []struct {
		path    string
		code    int
		message string
	}{
		{"/fiber", 404, "Session not found"},
		{"/validation", 400, "validation failed: message: required"},
		{"/internal", 500, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestRequireRoles(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/admin", RequireRoles(testSecret, StaffRoles...), func(c *fiber.Ctx) error {
		return c.SendString(string(ClaimsFrom(c).Role))
	})

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name  string
		token string
		code  int
	}{
		{"no token", "", 401},
		{"bad signature", signed(t, jwt.MapClaims{"role": "staff", "exp": exp}, "other"), 401},
		{"expired", signed(t, jwt.MapClaims{"role": "staff", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret), 401},
		{"customer", signed(t, jwt.MapClaims{"role": "customer", "exp": exp}, testSecret), 403},
		{"no role claim", signed(t, jwt.MapClaims{"user_id": "u1", "exp": exp}, testSecret), 403},
		{"staff", signed(t, jwt.MapClaims{"role": "staff", "exp": exp}, testSecret), 200},
		{"manager", signed(t, jwt.MapClaims{"role": "manager", "exp": exp}, testSecret), 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestOptionalJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(OptionalJwtMiddleware(testSecret))
	app.Get("/chat", func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(string(claims.Role) + ":" + claims.UserID)
	})

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"anonymous", "", "anonymous"},
		{"garbage token", "not-a-jwt", "anonymous"},
		{"customer without role", signed(t, jwt.MapClaims{"sub": "cus_1", "exp": exp}, testSecret), "customer:cus_1"},
		{"unknown role is a customer", signed(t, jwt.MapClaims{"user_id": "u2", "role": "vip", "exp": exp}, testSecret), "customer:u2"},
		{"manager", signed(t, jwt.MapClaims{"user_id": "m1", "role": string(assistant.RoleManager), "exp": exp}, testSecret), "manager:m1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/chat", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
