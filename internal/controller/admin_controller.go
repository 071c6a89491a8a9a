package controller

import (
	"errors"
	"strconv"

	"shop-chatbot-be/internal/dto"
	"shop-chatbot-be/internal/pkg/serverutils"
	"shop-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)

	// Session Monitoring
	GetSessions(ctx *fiber.Ctx) error
	GetSessionMessages(ctx *fiber.Ctx) error
	UpdateSessionStatus(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error

	// Settings
	GetSettings(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error

	// System Logs
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service   service.IAdminService
	jwtSecret string
}

func NewAdminController(service service.IAdminService, jwtSecret string) IAdminController {
	return &adminController{
		service:   service,
		jwtSecret: jwtSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.RequireRoles(c.jwtSecret, serverutils.StaffRoles...))

	h.Get("/sessions", c.GetSessions)
	h.Get("/sessions/:id/messages", c.GetSessionMessages)
	h.Patch("/sessions/:id/status", c.UpdateSessionStatus)
	h.Get("/stats", c.GetStats)

	h.Get("/settings", c.GetSettings)
	h.Patch("/settings", c.UpdateSettings)

	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *adminController) GetSessions(ctx *fiber.Ctx) error {
	req := dto.AdminSessionListRequest{Limit: 50}
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ListSessions(ctx.UserContext(), req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to list sessions"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat sessions", res))
}

func (c *adminController) GetSessionMessages(ctx *fiber.Ctx) error {
	res, err := c.service.SessionMessages(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to load messages"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session messages", res))
}

// UpdateSessionStatus takes the status from the query string or a JSON body.
func (c *adminController) UpdateSessionStatus(ctx *fiber.Ctx) error {
	var req dto.UpdateSessionStatusRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}
	if req.Status == "" && len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateSessionStatus(ctx.UserContext(), ctx.Params("id"), req.Status)
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	case errors.Is(err, service.ErrSessionNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	case err != nil:
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to update session"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session status updated", res))
}

func (c *adminController) GetStats(ctx *fiber.Ctx) error {
	res, err := c.service.GetStats(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to load stats"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chatbot stats", res))
}

func (c *adminController) GetSettings(ctx *fiber.Ctx) error {
	settings, err := c.service.GetSettings(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to load settings"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chatbot settings", dto.SettingsResponse{Settings: settings}))
}

func (c *adminController) UpdateSettings(ctx *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if len(req) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "No settings provided"))
	}

	updatedBy := ""
	if claims := serverutils.ClaimsFrom(ctx); claims != nil {
		updatedBy = claims.UserID
	}
	res, err := c.service.UpdateSettings(ctx.UserContext(), req, updatedBy)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to update settings"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chatbot settings updated", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	level := ctx.Query("level", "")

	logs, err := c.service.GetSystemLogs(ctx.UserContext(), page, limit, level)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	logId := ctx.Params("id") // MD5 of the log line

	l, err := c.service.GetLogDetail(ctx.UserContext(), logId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Log not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}
