package models

import (
	"github.com/google/uuid"
	"time"
)

const (
	SenderAdmin  = "admin"
	SenderPlayer = "player"
)

type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderType string    `gorm:"not null;check:sender_type IN ('admin','player')"`
	// SenderID может быть nil (системные сообщения), пользователь
	// удаляется независимо от истории сообщений
	SenderID *uuid.UUID `gorm:"type:uuid"`
	// Имя отправителя фиксируется на момент отправки
	SenderName string `gorm:"not null"`
	Body       string `gorm:"not null"`
	// Seq разрешает ничьи по created_at, порядок выдачи всегда (created_at, seq)
	Seq       int64 `gorm:"autoIncrement;uniqueIndex"`
	CreatedAt time.Time
	EditedAt  *time.Time
}
