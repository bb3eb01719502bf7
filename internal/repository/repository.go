package repository

import (
	"context"

	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/utils"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(ctx context.Context, org *models.Organization) error

	// FindByID finds an organization by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Organization, error)

	// List returns every organization, newest first
	List(ctx context.Context) ([]models.Organization, error)

	// Delete deletes an organization and all boards, lists, cards and memberships under it
	Delete(ctx context.Context, id string) (*models.Organization, error)

	// IsMember reports whether the user belongs to the organization
	IsMember(ctx context.Context, orgID, userID string) (bool, error)

	// ListNonMembers lists users that do not belong to the organization
	ListNonMembers(ctx context.Context, orgID string) ([]models.User, error)

	// SetMemberships replaces the user's orgIds and the organization's userIds in one
	// transaction, cascading removals to the organization's boards and cards
	SetMemberships(ctx context.Context, userID, orgID string, orgIDs, userIDs []string) (*models.User, *models.Organization, error)

	// RemoveMemberCascade removes the user from the organization and from every
	// board and card of that organization in one transaction
	RemoveMemberCascade(ctx context.Context, orgID, userID string) (*MembershipCascade, error)
}

// BoardRepository defines the interface for board and list data access
type BoardRepository interface {
	// Create creates a board inside an existing organization
	Create(ctx context.Context, board *models.Board) error

	// FindByID finds a board by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Board, error)

	// FindWithContent loads a board with its lists and cards in order
	FindWithContent(ctx context.Context, id string) (*models.Board, error)

	// ListByOrganization lists the boards of an organization
	ListByOrganization(ctx context.Context, orgID string) ([]models.Board, error)

	// Delete deletes a board with its lists, cards and memberships
	Delete(ctx context.Context, id string) (*models.Board, error)

	// CreateList appends a list to the end of a board
	CreateList(ctx context.Context, list *models.List) error

	// FindList finds a list by ID
	FindList(ctx context.Context, id string) (*models.List, error)

	// AddMember adds a user to a board
	AddMember(ctx context.Context, boardID, userID string) error

	// IsMember reports whether the user belongs to the board
	IsMember(ctx context.Context, boardID, userID string) (bool, error)

	// ListNonMembers lists members of the board's organization that are not on the board
	ListNonMembers(ctx context.Context, board *models.Board) ([]models.User, error)
}

// CardUpdate holds the fields of a partial card update; nil fields are left untouched
type CardUpdate struct {
	Title       *string
	Description *string
	// ClearDescription sets the description to NULL and wins over Description
	ClearDescription bool
}

// CardRepository defines the interface for card data access
type CardRepository interface {
	// FindByID finds a card by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Card, error)

	// NextOrder returns the order a card appended to the list would receive
	NextOrder(ctx context.Context, listID string) (int, error)

	// CreateInList verifies the list, assigns the next order and inserts the card atomically
	CreateInList(ctx context.Context, card *models.Card) error

	// Update applies a partial update
	Update(ctx context.Context, id string, fields CardUpdate) (*models.Card, error)

	// Delete deletes a card and returns the deleted row
	Delete(ctx context.Context, id string) (*models.Card, error)

	// AddMember adds a user to a card
	AddMember(ctx context.Context, cardID, userID string) error

	// ListNonMembers lists members of the board that are not on the card
	ListNonMembers(ctx context.Context, boardID, cardID string) ([]models.User, error)
}

// UserMemberships holds the inverse side of every membership relation
type UserMemberships struct {
	OrgIDs   []string
	BoardIDs []string
	CardIDs  []string
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// Memberships returns the user's orgIds, boardIds and cardIds
	Memberships(ctx context.Context, id string) (*UserMemberships, error)
}

// AuditLogRepository defines the interface for the append-only audit log
type AuditLogRepository interface {
	// Create appends an entry
	Create(ctx context.Context, entry *models.AuditLog) error

	// ListByOrganization lists entries of an organization, newest first
	ListByOrganization(ctx context.Context, orgID string, params utils.PaginationParams) ([]models.AuditLog, int64, error)
}
