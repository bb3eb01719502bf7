package services

import (
	"context"
	"strings"

	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
)

// UserService handles user business logic
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Name  string
	Email string
	Image string
}

// UserWithMemberships is a user together with the inverse membership sets.
type UserWithMemberships struct {
	User        *models.User
	Memberships *repository.UserMemberships
}

// CreateUser creates a user. A duplicate email is a Conflict.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}

	user := &models.User{
		Name:  name,
		Email: email,
		Image: input.Image,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, classify(err, nil, "Failed to create user")
	}
	return user, nil
}

// GetUser returns a user with orgIds, boardIds and cardIds.
func (s *UserService) GetUser(ctx context.Context, id string) (*UserWithMemberships, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, ErrUserNotFound, "Failed to get user")
	}

	memberships, err := s.userRepo.Memberships(ctx, id)
	if err != nil {
		return nil, classify(err, nil, "Failed to get user")
	}

	return &UserWithMemberships{User: user, Memberships: memberships}, nil
}
