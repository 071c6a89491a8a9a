package service

import (
	"context"
	"fmt"

	"shop-chatbot-be/internal/constant"
	"shop-chatbot-be/internal/dto"
	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/repository/specification"
	"shop-chatbot-be/internal/repository/unitofwork"
	"shop-chatbot-be/pkg/assistant"
	"shop-chatbot-be/pkg/assistant/suggestion"
	"shop-chatbot-be/pkg/chatqueue"
)

// ISessionService serves the widget's session endpoints.
type ISessionService interface {
	Suggestions(ctx context.Context, req *dto.SuggestionsRequest, verified assistant.Role) *dto.SuggestionsResponse
	History(ctx context.Context, sessionID string) (*dto.ChatHistoryResponse, error)
	ActiveSession(ctx context.Context, customerID string) (*dto.ActiveSessionResponse, error)
	Clear(ctx context.Context, sessionID string) (*dto.ClearSessionResponse, error)
	Escalate(ctx context.Context, req *dto.EscalateRequest) (*dto.EscalateResponse, error)
}

// EscalationNotifier tells staff that a customer is waiting.
type EscalationNotifier interface {
	NotifyEscalation(ctx context.Context, sessionID, customerID, reason string) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	tree       *suggestion.Tree
	writer     chatqueue.Writer
	notifiers  []EscalationNotifier
	logger     logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	tree *suggestion.Tree,
	writer chatqueue.Writer,
	log logger.ILogger,
	notifiers ...EscalationNotifier,
) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		tree:       tree,
		writer:     writer,
		notifiers:  notifiers,
		logger:     log,
	}
}

func (s *sessionService) Suggestions(ctx context.Context, req *dto.SuggestionsRequest, verified assistant.Role) *dto.SuggestionsResponse {
	userType := req.UserType
	if userType == "" {
		userType = string(assistant.RoleGuest)
	}
	role := resolveRole(userType, verified, req.CustomerId)
	if req.Tag != "" {
		if _, found := s.tree.Node(role, req.Tag); !found {
			s.logger.Debug("SessionService", "Tag not available to role, using fallback", map[string]interface{}{
				"tag":  req.Tag,
				"role": role,
			})
		}
	}

	nodes := s.tree.Suggest(role, req.Tag, req.Intent)
	out := make([]dto.ContextNodeDTO, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, s.node(role, n))
	}
	return &dto.SuggestionsResponse{Suggestions: out}
}

func (s *sessionService) node(role assistant.Role, n suggestion.Suggestion) dto.ContextNodeDTO {
	d := dto.ContextNodeDTO{
		Id:       n.ID,
		Label:    n.Label,
		Type:     n.Type,
		Children: []dto.ContextNodeDTO{},
	}
	if d.Type == "" {
		d.Type = "group"
	}
	if n.Tag != "" {
		tag := n.Tag
		d.Tag = &tag
	}
	if n.Value != "" {
		value := n.Value
		d.Value = &value
	}
	for _, child := range s.tree.Children(role, n.ID) {
		d.Children = append(d.Children, s.node(role, child))
	}
	return d
}

func (s *sessionService) History(ctx context.Context, sessionID string) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.Oldest(),
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ChatHistoryResponse{Messages: make([]dto.HistoryMessageDTO, 0, len(messages))}
	for _, m := range messages {
		products := m.Products()
		if products == nil {
			products = []interface{}{}
		}
		res.Messages = append(res.Messages, dto.HistoryMessageDTO{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.CreatedAt,
			Products:  products,
		})
	}
	return res, nil
}

func (s *sessionService) ActiveSession(ctx context.Context, customerID string) (*dto.ActiveSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByCustomerID{CustomerID: customerID},
		specification.ByStatus{Status: constant.ChatSessionStatusActive},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &dto.ActiveSessionResponse{}, nil
	}
	return &dto.ActiveSessionResponse{SessionId: &session.SessionId}, nil
}

func (s *sessionService) Clear(ctx context.Context, sessionID string) (*dto.ClearSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	deleted, err := uow.ChatMessageRepository().DeleteBySessionId(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SessionService", "Session history cleared", map[string]interface{}{
		"session_id": sessionID,
		"deleted":    deleted,
	})
	return &dto.ClearSessionResponse{SessionId: sessionID, Cleared: true, Message: "History cleared"}, nil
}

// Escalate hands the session to staff. A session the widget never chatted
// in is created so staff can still see it.
func (s *sessionService) Escalate(ctx context.Context, req *dto.EscalateRequest) (*dto.EscalateResponse, error) {
	reason := req.Reason
	if reason == "" {
		reason = constant.DefaultEscalationReason
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.ChatSessionRepository()
	if _, err := repo.EnsureExists(ctx, &entity.ChatSession{SessionId: req.SessionId}); err != nil {
		return nil, fmt.Errorf("ensure session: %w", err)
	}
	session, err := repo.FindOne(ctx, specification.BySessionID{SessionID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s vanished during escalation", req.SessionId)
	}

	session.Status = constant.ChatSessionStatusWaitingForStaff
	if session.Metadata == nil {
		session.Metadata = map[string]interface{}{}
	}
	session.Metadata["escalation_reason"] = reason
	if err := repo.Update(ctx, session); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	rec := chatqueue.NewMessage(req.SessionId, constant.ChatMessageRoleSystem,
		"User requested staff support: "+reason, constant.IntentStaffEscalation,
		map[string]any{"intent": constant.IntentStaffEscalation})
	if err := s.writer.Enqueue(ctx, rec); err != nil {
		s.logger.Error("SessionService", "Failed to queue escalation message", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
	}

	for _, n := range s.notifiers {
		if err := n.NotifyEscalation(ctx, session.SessionId, session.CustomerId, reason); err != nil {
			s.logger.Warn("SessionService", "Escalation notification failed", map[string]interface{}{
				"session_id": req.SessionId,
				"error":      err.Error(),
			})
		}
	}

	s.logger.Info("SessionService", "Session escalated", map[string]interface{}{
		"session_id": req.SessionId,
		"reason":     reason,
	})
	return &dto.EscalateResponse{
		Status:    "escalated",
		Message:   constant.EscalationReply,
		SessionId: req.SessionId,
	}, nil
}
