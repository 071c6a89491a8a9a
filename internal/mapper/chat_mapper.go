package mapper

import (
	"time"

	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:            s.Id,
		SessionId:     s.SessionId,
		CustomerId:    s.CustomerId,
		CustomerEmail: s.CustomerEmail,
		CustomerName:  s.CustomerName,
		Status:        s.Status,
		Metadata:      map[string]interface{}(s.Metadata),
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:            s.Id,
		SessionId:     s.SessionId,
		CustomerId:    s.CustomerId,
		CustomerEmail: s.CustomerEmail,
		CustomerName:  s.CustomerName,
		Status:        s.Status,
		Metadata:      jsonMap(s.Metadata),
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:             msg.Id,
		SessionId:      msg.SessionId,
		Role:           msg.Role,
		Content:        msg.Content,
		Intent:         msg.Intent,
		TokensUsed:     msg.TokensUsed,
		ResponseTimeMs: msg.ResponseTimeMs,
		Metadata:       map[string]interface{}(msg.Metadata),
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:             msg.Id,
		SessionId:      msg.SessionId,
		Role:           msg.Role,
		Content:        msg.Content,
		Intent:         msg.Intent,
		TokensUsed:     msg.TokensUsed,
		ResponseTimeMs: msg.ResponseTimeMs,
		Metadata:       jsonMap(msg.Metadata),
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	out := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = m.ChatMessageToEntity(msg)
	}
	return out
}

// Setting Mappers

func (m *ChatMapper) ChatSettingToEntity(s *model.ChatSetting) *entity.ChatSetting {
	if s == nil {
		return nil
	}
	return &entity.ChatSetting{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		UpdatedBy:   s.UpdatedBy,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *ChatMapper) ChatSettingToModel(s *entity.ChatSetting) *model.ChatSetting {
	if s == nil {
		return nil
	}
	return &model.ChatSetting{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		UpdatedBy:   s.UpdatedBy,
		UpdatedAt:   s.UpdatedAt,
	}
}

func jsonMap(m map[string]interface{}) datatypes.JSONMap {
	if m == nil {
		return nil
	}
	return datatypes.JSONMap(m)
}
