package models

import (
	"github.com/google/uuid"
	"time"
)

// Membership — членство пользователя в комнате, пара (room, user) уникальна
type Membership struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_user"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_user"`
	AddedAt time.Time `gorm:"not null"`

	// Связи
	User User `gorm:"foreignKey:UserID"`
	Room Room `gorm:"foreignKey:RoomID"`
}
