package database

import (
	"errors"

	"proxyvet/internal/domain"

	"gorm.io/gorm"
)

func GetUserFromId(userID uint) domain.User {
	var user domain.User
	DB.First(&user, userID)
	return user
}

func GetUserByEmail(email string) (domain.User, error) {
	var user domain.User
	err := DB.Where("email = ?", email).First(&user).Error
	return user, err
}

func EmailTaken(email string) (bool, error) {
	var user domain.User
	err := DB.Select("id").Where("email = ?", email).First(&user).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// CreateUser stores a new user. The first account becomes the admin.
func CreateUser(user *domain.User) error {
	var count int64
	if err := DB.Model(&domain.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		user.Role = "admin"
	} else if user.Role == "" {
		user.Role = "user"
	}

	return DB.Create(user).Error
}

func ChangePassword(userID uint, hashedPassword string) error {
	return DB.Model(&domain.User{}).Where("id = ?", userID).
		Update("password", hashedPassword).Error
}
