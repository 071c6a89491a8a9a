package controller

import (
	"shop-chatbot-be/internal/config"
	"shop-chatbot-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	cfg *config.Config
}

func NewHealthController(cfg *config.Config) IHealthController {
	return &healthController{cfg: cfg}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{
		Status:        "healthy",
		Model:         c.cfg.Ai.LLMModel,
		Provider:      c.cfg.Ai.LLMProvider,
		AgentsEnabled: c.cfg.Ai.AgentsEnabled,
		QueueDriver:   c.cfg.Queue.Driver,
	})
}
