package database

import (
	"errors"
	"math/rand"

	"github.com/B5plus/Random-user/internal/models"
	"gorm.io/gorm"
)

func (d *Database) SaveUser(user *models.User) error {
	return d.db.Create(user).Error
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByHandle(contactHandle string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("contact_handle = ?", contactHandle).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *Database) GetAllUsers() ([]models.User, error) {
	var users []models.User
	err := d.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (d *Database) GetUsersByDepartment(department string) ([]models.User, error) {
	var users []models.User
	err := d.db.Where("department = ?", department).Order("created_at DESC").Find(&users).Error
	return users, err
}

// GetRandomUsers возвращает случайную выборку для массового добавления в комнату
func (d *Database) GetRandomUsers(count int) ([]models.User, int, error) {
	var users []models.User
	if err := d.db.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	total := len(users)
	rand.Shuffle(total, func(i, j int) {
		users[i], users[j] = users[j], users[i]
	})

	if count < total {
		users = users[:count]
	}

	return users, total, nil
}

func (d *Database) UpdateUser(user *models.User) error {
	return d.db.Save(user).Error
}

// DeleteUser удаляет пользователя и его членства, история сообщений остаётся
func (d *Database) DeleteUser(id string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := tx.Delete(&models.Membership{}, "user_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}
