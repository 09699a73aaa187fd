package database

import (
	"errors"
	"time"

	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// planMemberAdd решает, какие пользователи реально вставляются: дубликаты в
// запросе и уже состоящие в комнате отбрасываются молча и вместимость не
// расходуют, переполнение отклоняет весь пакет целиком
func planMemberAdd(capacity int, existing []uuid.UUID, requested []uuid.UUID) ([]uuid.UUID, error) {
	member := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		member[id] = true
	}

	seen := make(map[uuid.UUID]bool, len(requested))
	var toInsert []uuid.UUID
	for _, id := range requested {
		if seen[id] || member[id] {
			continue
		}
		seen[id] = true
		toInsert = append(toInsert, id)
	}

	if len(existing)+len(toInsert) > capacity {
		return nil, ErrCapacityExceeded
	}

	return toInsert, nil
}

// AddRoomMembers добавляет пакет пользователей атомарно: строка комнаты
// блокируется FOR UPDATE, поэтому два конкурентных добавления не могут
// вдвоём пройти проверку вместимости
func (d *Database) AddRoomMembers(roomID uuid.UUID, userIDs []uuid.UUID) ([]models.Membership, error) {
	var inserted []models.Membership

	err := d.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, "id = ?", roomID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		var existing []uuid.UUID
		err = tx.Model(&models.Membership{}).
			Where("room_id = ?", roomID).
			Pluck("user_id", &existing).Error
		if err != nil {
			return err
		}

		toInsert, err := planMemberAdd(room.Capacity, existing, userIDs)
		if err != nil {
			return err
		}

		if len(toInsert) == 0 {
			return nil
		}

		var found int64
		err = tx.Model(&models.User{}).Where("id IN ?", toInsert).Count(&found).Error
		if err != nil {
			return err
		}
		if found != int64(len(toInsert)) {
			return ErrUserNotFound
		}

		now := time.Now()
		memberships := make([]models.Membership, len(toInsert))
		for i, userID := range toInsert {
			memberships[i] = models.Membership{
				RoomID:  roomID,
				UserID:  userID,
				AddedAt: now,
			}
		}

		if err := tx.Create(&memberships).Error; err != nil {
			return err
		}

		inserted = memberships
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Подгружаем пользователей для ответа
	for i := range inserted {
		d.db.Model(&inserted[i]).Association("User").Find(&inserted[i].User)
	}

	return inserted, nil
}

func (d *Database) RemoveRoomMember(roomID, userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := d.db.Preload("User").
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	if err := d.db.Delete(&membership).Error; err != nil {
		return nil, err
	}

	return &membership, nil
}

func (d *Database) ListRoomMembers(roomID uuid.UUID) ([]models.Membership, error) {
	var memberships []models.Membership
	err := d.db.Preload("User").
		Where("room_id = ?", roomID).
		Order("added_at ASC").
		Find(&memberships).Error
	return memberships, err
}

func (d *Database) CountRoomMembers(roomID uuid.UUID) (int, error) {
	var count int64
	err := d.db.Model(&models.Membership{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return int(count), err
}

func (d *Database) HasMember(roomID, userID uuid.UUID) (bool, error) {
	var count int64
	err := d.db.Model(&models.Membership{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

// FindMembership ищет членство по комнате и контактному номеру пользователя
func (d *Database) FindMembership(roomID uuid.UUID, contactHandle string) (*models.Membership, error) {
	var membership models.Membership
	err := d.db.Preload("User").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.room_id = ? AND users.contact_handle = ?", roomID, contactHandle).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

// MembershipsForHandle возвращает членства пользователя по номеру,
// сначала самые свежие
func (d *Database) MembershipsForHandle(contactHandle string) ([]models.Membership, error) {
	var memberships []models.Membership
	err := d.db.Preload("User").Preload("Room").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("users.contact_handle = ?", contactHandle).
		Order("memberships.added_at DESC").
		Find(&memberships).Error
	return memberships, err
}
