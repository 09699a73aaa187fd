package models

import (
	"github.com/google/uuid"
	"time"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"not null"`
	ContactHandle string    `gorm:"uniqueIndex;not null"`
	Department    string    `gorm:"not null;index"`
	CreatedAt     time.Time
}
