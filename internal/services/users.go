package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"EstateHub/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// RoleOf looks up the current role of a user.
func (s *UserService) RoleOf(ctx context.Context, userID uint) (models.Role, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "role").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return user.Role, nil
}
