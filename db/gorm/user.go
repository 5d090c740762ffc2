package gorm

import (
	"errors"

	"github.com/ichigozero/taskdash/auth"
	stdgorm "gorm.io/gorm"
)

type userRow struct {
	ID           uint64 `gorm:"primaryKey"`
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
}

func (userRow) TableName() string { return "users" }

func (r userRow) user() auth.User {
	return auth.User{ID: r.ID, Name: r.Name, Email: r.Email}
}

type userRepository struct {
	db *stdgorm.DB
}

func NewUserRepository(db *stdgorm.DB) auth.UserRepository {
	return &userRepository{db}
}

func (u *userRepository) Create(name, email, passwordHash string) (auth.User, error) {
	var count int64
	if err := u.db.Model(&userRow{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return auth.User{}, err
	}
	if count > 0 {
		return auth.User{}, auth.ErrEmailTaken
	}

	row := userRow{Name: name, Email: email, PasswordHash: passwordHash}
	if err := u.db.Create(&row).Error; err != nil {
		return auth.User{}, err
	}
	return row.user(), nil
}

func (u *userRepository) FindByEmail(email string) (auth.User, string, error) {
	var row userRow
	err := u.db.Where("email = ?", email).First(&row).Error
	if errors.Is(err, stdgorm.ErrRecordNotFound) {
		return auth.User{}, "", auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, "", err
	}
	return row.user(), row.PasswordHash, nil
}
