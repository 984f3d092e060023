package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/trentd187/golf-wagers/internal/models"
)

// UserStore implements the lazy user sync behind the auth middleware.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// SyncUser returns the user with the given Clerk id. The first request from a new
// Clerk user creates their row; later requests only update the role when it changed.
// An empty role leaves the stored one alone and creates new users as regular users.
func (s *UserStore) SyncUser(ctx context.Context, clerkID, email, name string, role models.UserRole) (models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("clerk_id = ?", clerkID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if role == "" {
			role = models.UserRoleUser
		}
		user = models.User{ClerkID: &clerkID, DisplayName: name, Email: email, Role: role}
		if err := db.Create(&user).Error; err != nil {
			return models.User{}, err
		}
		return user, nil
	case err != nil:
		return models.User{}, err
	}

	if role != "" && user.Role != role {
		if err := db.Model(&user).Update("role", role).Error; err != nil {
			return models.User{}, err
		}
		user.Role = role
	}
	return user, nil
}
