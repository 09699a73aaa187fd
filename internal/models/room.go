package models

import (
	"github.com/google/uuid"
	"time"
)

type Room struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	Capacity    int `gorm:"not null;check:capacity > 0"`
	CreatedAt   time.Time

	// Связи
	Memberships []Membership `gorm:"foreignKey:RoomID"`
	Messages    []Message    `gorm:"foreignKey:RoomID"`
}
