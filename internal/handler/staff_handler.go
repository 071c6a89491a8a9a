package handler

import (
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/pkg/serverutils"
	internalWS "shop-chatbot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// StaffHandler upgrades staff consoles onto the escalation hub.
type StaffHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewStaffHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *StaffHandler {
	return &StaffHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

// ServeWs runs after RequireRoles, so the claims are always present.
func (h *StaffHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	claims := serverutils.ClaimsFrom(c)
	if claims == nil || claims.UserID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Token missing user_id")
	}

	userID, role := claims.UserID, string(claims.Role)
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("StaffHandler", "Starting staff console session", map[string]interface{}{"user_id": userID, "role": role})
		internalWS.ServeWs(h.hub, conn, userID, role)
		h.logger.Info("StaffHandler", "Staff console session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

func (h *StaffHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/staff", serverutils.RequireRoles(h.jwtSecret, serverutils.StaffRoles...), h.ServeWs)
}
