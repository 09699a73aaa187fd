package database

import (
	"errors"

	"github.com/B5plus/Random-user/internal/models"
	"gorm.io/gorm"
)

func (d *Database) SaveAdmin(admin *models.Admin) error {
	return d.db.Create(admin).Error
}

func (d *Database) FindAdminByUsername(username string) (*models.Admin, error) {
	admin := models.Admin{}
	if err := d.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}
