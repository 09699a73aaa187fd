package dto

import (
	"time"

	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
)

type SendMessageRequest struct {
	RoomID     uuid.UUID  `json:"room_id" binding:"required"`
	SenderType string     `json:"sender_type" binding:"required,oneof=admin player"`
	SenderID   *uuid.UUID `json:"sender_id"`
	SenderName string     `json:"sender_name" binding:"required"`
	Message    string     `json:"message" binding:"required"`
}

type UpdateMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type VerifyAccessRequest struct {
	ContactHandle string `json:"contact_handle" binding:"required"`
}

// MessageResponse — wire-формат сообщения для HTTP и WebSocket
type MessageResponse struct {
	ID         uuid.UUID  `json:"id"`
	RoomID     uuid.UUID  `json:"room_id"`
	SenderType string     `json:"sender_type"`
	SenderID   *uuid.UUID `json:"sender_id,omitempty"`
	SenderName string     `json:"sender_name"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"created_at"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
}

func NewMessageResponse(m models.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		RoomID:     m.RoomID,
		SenderType: m.SenderType,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Message:    m.Body,
		CreatedAt:  m.CreatedAt,
		EditedAt:   m.EditedAt,
	}
}

func NewMessageResponses(messages []models.Message) []MessageResponse {
	responses := make([]MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = NewMessageResponse(m)
	}
	return responses
}
