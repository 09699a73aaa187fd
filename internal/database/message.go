package database

import (
	"errors"

	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaveMessage пишет сообщение, timestamp и seq присваиваются при вставке
func (d *Database) SaveMessage(message *models.Message) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, "id = ?", message.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		return tx.Create(message).Error
	})
}

func (d *Database) GetMessage(id string) (*models.Message, error) {
	var message models.Message
	if err := d.db.First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (d *Database) UpdateMessage(message *models.Message) error {
	return d.db.Save(message).Error
}

func (d *Database) DeleteMessage(id string) error {
	result := d.db.Delete(&models.Message{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// ListRoomMessages возвращает историю комнаты по возрастанию
// (created_at, seq)
func (d *Database) ListRoomMessages(roomID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.Where("room_id = ?", roomID).
		Order("created_at ASC, seq ASC").
		Find(&messages).Error
	return messages, err
}
