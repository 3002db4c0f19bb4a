package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Wikid82/phishwatch/internal/models"
)

// UserList is the admin view of known users.
type UserList struct {
	Users      []models.User `json:"users"`
	TotalUsers int           `json:"total_users"`
	AdminCount int           `json:"admin_count"`
}

// UserService reads the display identities recorded from token claims.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// List returns every known user, newest first.
func (s *UserService) List(ctx context.Context) (*UserList, error) {
	users := []models.User{}
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	list := &UserList{Users: users, TotalUsers: len(users)}
	for i := range users {
		if users[i].IsAdmin() {
			list.AdminCount++
		}
	}
	return list, nil
}
