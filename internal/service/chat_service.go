package service

import (
	"context"
	"time"

	"shop-chatbot-be/internal/constant"
	"shop-chatbot-be/internal/dto"
	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/repository/unitofwork"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/normalizer"
	"shop-chatbot-be/pkg/assistant/pipeline"
	"shop-chatbot-be/pkg/assistant/response"
	"shop-chatbot-be/pkg/chatqueue"
)

// IChatService answers storefront messages.
type IChatService interface {
	// Chat answers one message. verified is the role proven by the caller's
	// token, empty for anonymous requests.
	Chat(ctx context.Context, req *dto.ChatRequest, verified assistant.Role) (*response.Reply, error)
}

// TurnRunner is the agent pipeline.
type TurnRunner interface {
	Run(ctx context.Context, req normalizer.Request) (pipeline.Result, error)
}

// FallbackResponder answers without agents.
type FallbackResponder interface {
	Reply(ctx context.Context, sessionID, message, language string) (response.Reply, string)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   TurnRunner
	fallback   FallbackResponder
	writer     chatqueue.Writer
	logger     logger.ILogger
}

// NewChatService wires the chat flow. A nil pipeline sends every message to
// the fallback responder.
func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline TurnRunner,
	fallback FallbackResponder,
	writer chatqueue.Writer,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		fallback:   fallback,
		writer:     writer,
		logger:     log,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest, verified assistant.Role) (*response.Reply, error) {
	started := time.Now()
	s.ensureSession(ctx, req)

	var (
		reply  response.Reply
		intent string
		done   bool
	)
	if s.pipeline != nil {
		res, err := s.pipeline.Run(ctx, normalizer.Request{
			SessionID:  req.SessionId,
			CustomerID: req.CustomerId,
			Message:    req.Message,
			Tag:        req.Tag,
			Language:   req.Language,
			Role:       resolveRole(req.MetadataString("user_type"), verified, req.CustomerId),
			CartID:     req.MetadataString("cart_id"),
		})
		if err != nil {
			s.logger.Error("ChatService", "Agent pipeline failed, using fallback", map[string]interface{}{
				"session_id": req.SessionId,
				"error":      err.Error(),
			})
		} else {
			reply, intent, done = res.Reply, res.Intent, true
		}
	}
	if !done {
		reply, intent = s.fallback.Reply(ctx, req.SessionId, req.Message, req.Language)
	}

	s.record(ctx, req, reply, intent, time.Since(started))
	return &reply, nil
}

func (s *chatService) ensureSession(ctx context.Context, req *dto.ChatRequest) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	created, err := uow.ChatSessionRepository().EnsureExists(ctx, &entity.ChatSession{
		SessionId:  req.SessionId,
		CustomerId: req.CustomerId,
		Status:     constant.ChatSessionStatusActive,
	})
	if err != nil {
		s.logger.Error("ChatService", "Failed to ensure chat session", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		return
	}
	if created {
		s.logger.Info("ChatService", "Created chat session", map[string]interface{}{"session_id": req.SessionId})
	}
}

// record queues both sides of the turn. Queue failures are logged only.
func (s *chatService) record(ctx context.Context, req *dto.ChatRequest, reply response.Reply, intent string, elapsed time.Duration) {
	userRec := chatqueue.NewMessage(req.SessionId, constant.ChatMessageRoleUser, req.Message, intent,
		map[string]any{"intent": intent})

	products := reply.Products
	if products == nil {
		products = []response.Product{}
	}
	assistantRec := chatqueue.NewMessage(req.SessionId, constant.ChatMessageRoleAssistant, reply.Text, intent,
		map[string]any{
			"intent":      intent,
			"products":    products,
			"product_ids": reply.ProductIDs(),
		}).WithResponseTime(elapsed)

	for _, rec := range []chatqueue.Record{userRec, assistantRec} {
		if err := s.writer.Enqueue(ctx, rec); err != nil {
			s.logger.Error("ChatService", "Failed to queue chat message", map[string]interface{}{
				"session_id": rec.SessionID,
				"role":       rec.Role,
				"error":      err.Error(),
			})
		}
	}
}

var roleRank = map[assistant.Role]int{
	assistant.RoleGuest:    0,
	assistant.RoleCustomer: 1,
	assistant.RoleStaff:    2,
	assistant.RoleManager:  3,
	assistant.RoleAdmin:    4,
}

// resolveRole picks the role a turn runs as. The client may ask for any
// role in metadata, but staff roles are granted only up to the verified one.
func resolveRole(requested string, verified assistant.Role, customerID string) assistant.Role {
	base := assistant.RoleGuest
	if customerID != "" {
		base = assistant.RoleCustomer
	}

	role := assistant.ParseRole(requested)
	if requested == "" {
		role = base
		if verified != "" {
			role = verified
		}
	}
	if role.IsStaff() && roleRank[role] > roleRank[verified] {
		return base
	}
	return role
}
