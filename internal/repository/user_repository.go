package repository

import (
	"context"

	"github.com/yukikurage/kanban-board-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Memberships returns the user's orgIds, boardIds and cardIds. They are read
// from the same join rows as the forward sets.
func (r *GormUserRepository) Memberships(ctx context.Context, id string) (*UserMemberships, error) {
	m := &UserMemberships{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.OrganizationMember{}).Where("user_id = ?", id).
		Order("joined_at ASC").Pluck("organization_id", &m.OrgIDs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.BoardMember{}).Where("user_id = ?", id).
		Order("joined_at ASC").Pluck("board_id", &m.BoardIDs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.CardMember{}).Where("user_id = ?", id).
		Order("joined_at ASC").Pluck("card_id", &m.CardIDs).Error; err != nil {
		return nil, err
	}
	return m, nil
}
