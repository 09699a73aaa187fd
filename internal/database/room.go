package database

import (
	"errors"

	"github.com/B5plus/Random-user/internal/models"
	"gorm.io/gorm"
)

func (d *Database) CreateRoom(room *models.Room) error {
	return d.db.Create(room).Error
}

func (d *Database) GetRoom(id string) (*models.Room, error) {
	var room models.Room
	if err := d.db.First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (d *Database) GetAllRooms() ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.Order("created_at DESC").Find(&rooms).Error
	return rooms, err
}

func (d *Database) UpdateRoom(room *models.Room) error {
	return d.db.Save(room).Error
}

// DeleteRoom удаляет комнату вместе с членствами и сообщениями,
// сирот не оставляем
func (d *Database) DeleteRoom(id string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		if err := tx.Delete(&models.Message{}, "room_id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Membership{}, "room_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&room).Error
	})
}
