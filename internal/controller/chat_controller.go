package controller

import (
	"shop-chatbot-be/internal/dto"
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/pkg/serverutils"
	"shop-chatbot-be/internal/service"
	"shop-chatbot-be/pkg/assistant"

	"github.com/gofiber/fiber/v2"
)

// IChatController serves the storefront widget. Its responses are raw
// bodies, not the admin envelope.
type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	ActiveSession(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	Escalate(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService    service.IChatService
	sessionService service.ISessionService
	logger         logger.ILogger
}

func NewChatController(chatService service.IChatService, sessionService service.ISessionService, log logger.ILogger) IChatController {
	return &chatController{
		chatService:    chatService,
		sessionService: sessionService,
		logger:         log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("", c.Chat)
	h.Post("/suggestions", c.Suggestions)
	h.Get("/history/:sessionId", c.History)
	h.Get("/session/active/:customerId", c.ActiveSession)
	h.Post("/session/clear/:sessionId", c.ClearSession)
	h.Post("/escalate", c.Escalate)
}

func verifiedRole(ctx *fiber.Ctx) assistant.Role {
	if claims := serverutils.ClaimsFrom(ctx); claims != nil {
		return claims.Role
	}
	return ""
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.UserContext(), &req, verifiedRole(ctx))
	if err != nil {
		c.logger.Error("ChatController", "Chat failed", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) Suggestions(ctx *fiber.Ctx) error {
	var req dto.SuggestionsRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	return ctx.JSON(c.sessionService.Suggestions(ctx.UserContext(), &req, verifiedRole(ctx)))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	res, err := c.sessionService.History(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) ActiveSession(ctx *fiber.Ctx) error {
	res, err := c.sessionService.ActiveSession(ctx.UserContext(), ctx.Params("customerId"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) ClearSession(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Clear(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) Escalate(ctx *fiber.Ctx) error {
	var req dto.EscalateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Escalate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
