package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"shop-chatbot-be/internal/constant"
	"shop-chatbot-be/internal/dto"
	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/repository/specification"
	"shop-chatbot-be/internal/repository/unitofwork"
	"shop-chatbot-be/pkg/assistant/tools"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidStatus   = errors.New("invalid status")
)

const defaultSessionPageSize = 50

type IAdminService interface {
	// Session Monitoring
	ListSessions(ctx context.Context, req dto.AdminSessionListRequest) (*dto.AdminSessionListResponse, error)
	SessionMessages(ctx context.Context, sessionID string) (*dto.AdminMessageListResponse, error)
	UpdateSessionStatus(ctx context.Context, sessionID, status string) (*dto.UpdateSessionStatusResponse, error)
	GetStats(ctx context.Context) (*dto.AdminStatsResponse, error)

	// Settings
	GetSettings(ctx context.Context) (map[string]string, error)
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, updatedBy string) (*dto.SettingsResponse, error)

	// System Logs
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)

	// ChatbotStats feeds the manager report tool.
	ChatbotStats(ctx context.Context) (tools.ChatbotStats, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// ============================================================================
// Session Monitoring
// ============================================================================

func (s *adminService) ListSessions(ctx context.Context, req dto.AdminSessionListRequest) (*dto.AdminSessionListResponse, error) {
	if req.Limit <= 0 {
		req.Limit = defaultSessionPageSize
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	var filters []specification.Specification
	if req.Status != "" {
		filters = append(filters, specification.ByStatus{Status: req.Status})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionRepo := uow.ChatSessionRepository()

	total, err := sessionRepo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	query := append(slices.Clone(filters),
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: req.Limit, Offset: req.Offset},
	)
	sessions, err := sessionRepo.FindAll(ctx, query...)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.SessionId)
	}
	aggregates, err := uow.ChatMessageRepository().AggregateBySession(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := &dto.AdminSessionListResponse{
		Sessions: make([]dto.AdminSessionResponse, 0, len(sessions)),
		Total:    total,
	}
	for _, session := range sessions {
		agg := aggregates[session.SessionId]
		item := dto.AdminSessionResponse{
			Id:            session.Id,
			SessionId:     session.SessionId,
			CustomerId:    session.CustomerId,
			CustomerEmail: session.CustomerEmail,
			CustomerName:  session.CustomerName,
			Status:        session.Status,
			Metadata:      session.Metadata,
			StartedAt:     session.StartedAt,
			EndedAt:       session.EndedAt,
			CreatedAt:     session.CreatedAt,
			UpdatedAt:     session.UpdatedAt,
			MessageCount:  agg.MessageCount,
			LastMessage:   agg.LastMessage,
		}
		if item.Metadata == nil {
			item.Metadata = map[string]interface{}{}
		}
		if agg.LastIntent != "" {
			intent := agg.LastIntent
			item.LastIntent = &intent
		}
		res.Sessions = append(res.Sessions, item)
	}
	return res, nil
}

func (s *adminService) SessionMessages(ctx context.Context, sessionID string) (*dto.AdminMessageListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.Oldest(),
	)
	if err != nil {
		return nil, err
	}

	res := &dto.AdminMessageListResponse{Messages: make([]dto.AdminMessageResponse, 0, len(messages))}
	for _, m := range messages {
		res.Messages = append(res.Messages, adminMessage(m))
	}
	return res, nil
}

func adminMessage(m *entity.ChatMessage) dto.AdminMessageResponse {
	out := dto.AdminMessageResponse{
		Id:             m.Id,
		SessionId:      m.SessionId,
		Role:           m.Role,
		Content:        m.Content,
		ResponseTimeMs: m.ResponseTimeMs,
		Timestamp:      m.CreatedAt,
		Products:       m.Products(),
	}
	if m.Intent != "" {
		intent := m.Intent
		out.Intent = &intent
	}
	if out.Products == nil {
		out.Products = []interface{}{}
	}
	return out
}

func (s *adminService) UpdateSessionStatus(ctx context.Context, sessionID, status string) (*dto.UpdateSessionStatusResponse, error) {
	if !slices.Contains(constant.AdminSettableSessionStatuses, status) {
		return nil, ErrInvalidStatus
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	found, err := uow.ChatSessionRepository().UpdateStatus(ctx, sessionID, status)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}

	s.logger.Info("AdminService", "Session status updated", map[string]interface{}{
		"session_id": sessionID,
		"status":     status,
	})
	return &dto.UpdateSessionStatusResponse{SessionId: sessionID, Status: status}, nil
}

func (s *adminService) GetStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionRepo := uow.ChatSessionRepository()
	messageRepo := uow.ChatMessageRepository()

	var (
		res dto.AdminStatsResponse
		err error
	)
	if res.TotalSessions, err = sessionRepo.Count(ctx); err != nil {
		return nil, err
	}
	if res.ActiveSessions, err = sessionRepo.Count(ctx, specification.ByStatus{Status: constant.ChatSessionStatusActive}); err != nil {
		return nil, err
	}
	if res.EscalatedSessions, err = sessionRepo.Count(ctx, specification.ByStatus{Status: constant.ChatSessionStatusWaitingForStaff}); err != nil {
		return nil, err
	}
	if res.TotalMessages, err = messageRepo.Count(ctx); err != nil {
		return nil, err
	}
	avg, err := messageRepo.AverageResponseTime(ctx, constant.ChatMessageRoleAssistant)
	if err != nil {
		return nil, err
	}
	res.AvgResponseTimeMs = math.Round(avg*100) / 100
	return &res, nil
}

func (s *adminService) ChatbotStats(ctx context.Context) (tools.ChatbotStats, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return tools.ChatbotStats{}, err
	}
	return tools.ChatbotStats{
		TotalSessions:     stats.TotalSessions,
		ActiveSessions:    stats.ActiveSessions,
		TotalMessages:     stats.TotalMessages,
		AvgResponseTimeMs: stats.AvgResponseTimeMs,
	}, nil
}

// ============================================================================
// Settings
// ============================================================================

func (s *adminService) GetSettings(ctx context.Context) (map[string]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	settings, err := uow.ChatSettingRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return copySettings(constant.DefaultChatbotSettings), nil
	}

	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

func copySettings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *adminService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, updatedBy string) (*dto.SettingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	written := make(map[string]string, len(req))
	for key, raw := range req {
		value, err := settingValue(raw)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", key, err)
		}
		if err := uow.ChatSettingRepository().Upsert(ctx, &entity.ChatSetting{
			Key:       key,
			Value:     value,
			UpdatedBy: updatedBy,
		}); err != nil {
			return nil, err
		}
		written[key] = value
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("AdminService", "Chatbot settings updated", map[string]interface{}{
		"keys":       len(written),
		"updated_by": updatedBy,
	})
	return &dto.SettingsResponse{Status: "updated", Settings: written}, nil
}

// settingValue stores scalars in their plain text form and anything else as
// JSON.
func settingValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool, float64, int, int64:
		return fmt.Sprint(val), nil
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

// ============================================================================
// System Logs
// ============================================================================

// zap's ISO8601 encoder writes the offset without a colon.
var logTimeLayouts = []string{"2006-01-02T15:04:05.000Z0700", time.RFC3339Nano}

func parseLogTime(s string) time.Time {
	for _, layout := range logTimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	if page < 1 {
		page = 1
	}
	logs, err := s.logger.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		ts := parseLogTime(l.Timestamp)
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		})
	}
	return res, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	l, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	ts := parseLogTime(l.Timestamp)
	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		},
		Details: l.Details,
	}, nil
}
