package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/yukikurage/kanban-board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrRemoveOrganizationMember is returned when the organization membership row cannot be removed.
	ErrRemoveOrganizationMember = errors.New("organization repository: remove organization member failed")
	// ErrRemoveBoardMembers is returned when the board membership rows cannot be removed.
	ErrRemoveBoardMembers = errors.New("organization repository: remove board members failed")
	// ErrRemoveCardMembers is returned when the card membership rows cannot be removed.
	ErrRemoveCardMembers = errors.New("organization repository: remove card members failed")
)

// MembershipCascade describes what a RemoveMemberCascade touched.
type MembershipCascade struct {
	OrganizationID    string
	OrganizationTitle string
	UserID            string
	BoardIDs          []string
	CardIDs           []string
	BoardsUpdated     int64
	CardsUpdated      int64
}

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

// FindByID finds an organization by ID with optional preloading
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.Organization, error) {
	var org models.Organization
	query := r.db.WithContext(ctx)
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// List returns every organization, newest first
func (r *GormOrganizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := r.db.WithContext(ctx).Preload("Members").Order("created_at DESC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// Delete deletes an organization and all related data in a transaction
func (r *GormOrganizationRepository) Delete(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Members").Where("id = ?", id).First(&org).Error; err != nil {
			return err
		}

		var boardIDs []string
		if err := tx.Model(&models.Board{}).Where("org_id = ?", id).Pluck("id", &boardIDs).Error; err != nil {
			return err
		}

		if len(boardIDs) > 0 {
			if err := deleteBoardContents(tx, boardIDs); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", boardIDs).Delete(&models.Board{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("organization_id = ?", id).Delete(&models.OrganizationMember{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Organization{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// IsMember reports whether the user belongs to the organization
func (r *GormOrganizationRepository) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrganizationMember{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListNonMembers lists users that do not belong to the organization
func (r *GormOrganizationRepository) ListNonMembers(ctx context.Context, orgID string) ([]models.User, error) {
	memberSubQuery := r.db.Model(&models.OrganizationMember{}).
		Select("1").
		Where("organization_members.user_id = users.id AND organization_members.organization_id = ?", orgID)

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("NOT EXISTS (?)", memberSubQuery).
		Order("users.name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetMemberships replaces the user's orgIds and the organization's userIds in one transaction.
// Both sides live in the same join table; the organization side is applied last.
// A user dropped from an organization is also dropped from its boards and cards.
func (r *GormOrganizationRepository) SetMemberships(ctx context.Context, userID, orgID string, orgIDs, userIDs []string) (*models.User, *models.Organization, error) {
	var (
		user models.User
		org  models.Organization
	)
	orgIDs = uniqueIDs(orgIDs)
	userIDs = uniqueIDs(userIDs)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", orgID).First(&org).Error; err != nil {
			return err
		}
		if err := requireAll(tx, &models.Organization{}, orgIDs); err != nil {
			return err
		}
		if err := requireAll(tx, &models.User{}, userIDs); err != nil {
			return err
		}

		now := time.Now()

		// User side
		var currentOrgIDs []string
		if err := tx.Model(&models.OrganizationMember{}).Where("user_id = ?", userID).
			Pluck("organization_id", &currentOrgIDs).Error; err != nil {
			return err
		}
		// userIDs decides the (userID, orgID) pair; only cascade pairs absent at the end.
		dropped := difference(currentOrgIDs, orgIDs)
		if slices.Contains(userIDs, userID) {
			dropped = difference(dropped, []string{orgID})
		}
		for _, id := range dropped {
			if _, err := removeMembers(tx, id, []string{userID}); err != nil {
				return err
			}
		}
		if err := insertOrgMembers(tx, orgIDs, func(id string) models.OrganizationMember {
			return models.OrganizationMember{OrganizationID: id, UserID: userID, JoinedAt: now}
		}); err != nil {
			return err
		}

		// Organization side
		var currentUserIDs []string
		if err := tx.Model(&models.OrganizationMember{}).Where("organization_id = ?", orgID).
			Pluck("user_id", &currentUserIDs).Error; err != nil {
			return err
		}
		if _, err := removeMembers(tx, orgID, difference(currentUserIDs, userIDs)); err != nil {
			return err
		}
		return insertOrgMembers(tx, userIDs, func(id string) models.OrganizationMember {
			return models.OrganizationMember{OrganizationID: orgID, UserID: id, JoinedAt: now}
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, &org, nil
}

// RemoveMemberCascade removes the user from the organization and from every
// board and card of that organization. Any failure rolls the whole removal back.
func (r *GormOrganizationRepository) RemoveMemberCascade(ctx context.Context, orgID, userID string) (*MembershipCascade, error) {
	var cascade *MembershipCascade

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org models.Organization
		if err := tx.Where("id = ?", orgID).First(&org).Error; err != nil {
			return err
		}

		var err error
		cascade, err = removeMembers(tx, orgID, []string{userID})
		if err != nil {
			return err
		}
		cascade.UserID = userID
		cascade.OrganizationTitle = org.Title
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cascade, nil
}

// removeMembers collects the organization's board and card IDs first, then
// deletes the users' membership rows top-down: organization, boards, cards.
func removeMembers(tx *gorm.DB, orgID string, userIDs []string) (*MembershipCascade, error) {
	cascade := &MembershipCascade{OrganizationID: orgID}
	if len(userIDs) == 0 {
		return cascade, nil
	}

	if err := tx.Model(&models.Board{}).Where("org_id = ?", orgID).Pluck("id", &cascade.BoardIDs).Error; err != nil {
		return nil, err
	}
	if len(cascade.BoardIDs) > 0 {
		if err := tx.Model(&models.Card{}).Where("board_id IN ?", cascade.BoardIDs).Pluck("id", &cascade.CardIDs).Error; err != nil {
			return nil, err
		}
	}

	if err := tx.Where("organization_id = ? AND user_id IN ?", orgID, userIDs).
		Delete(&models.OrganizationMember{}).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoveOrganizationMember, err)
	}

	if len(cascade.BoardIDs) > 0 {
		res := tx.Where("board_id IN ? AND user_id IN ?", cascade.BoardIDs, userIDs).Delete(&models.BoardMember{})
		if res.Error != nil {
			return nil, fmt.Errorf("%w: %w", ErrRemoveBoardMembers, res.Error)
		}
		cascade.BoardsUpdated = res.RowsAffected
	}

	if len(cascade.CardIDs) > 0 {
		res := tx.Where("card_id IN ? AND user_id IN ?", cascade.CardIDs, userIDs).Delete(&models.CardMember{})
		if res.Error != nil {
			return nil, fmt.Errorf("%w: %w", ErrRemoveCardMembers, res.Error)
		}
		cascade.CardsUpdated = res.RowsAffected
	}

	return cascade, nil
}

// deleteBoardContents removes cards, lists and memberships of the given boards.
func deleteBoardContents(tx *gorm.DB, boardIDs []string) error {
	var cardIDs []string
	if err := tx.Model(&models.Card{}).Where("board_id IN ?", boardIDs).Pluck("id", &cardIDs).Error; err != nil {
		return err
	}
	if len(cardIDs) > 0 {
		if err := tx.Where("card_id IN ?", cardIDs).Delete(&models.CardMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", cardIDs).Delete(&models.Card{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("board_id IN ?", boardIDs).Delete(&models.List{}).Error; err != nil {
		return err
	}
	return tx.Where("board_id IN ?", boardIDs).Delete(&models.BoardMember{}).Error
}

// difference returns the elements of a that are not in b.
func difference(a, b []string) []string {
	keep := make(map[string]struct{}, len(b))
	for _, id := range b {
		keep[id] = struct{}{}
	}
	var out []string
	for _, id := range a {
		if _, ok := keep[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// requireAll returns gorm.ErrRecordNotFound unless every id exists in model's table.
func requireAll(tx *gorm.DB, model interface{}, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func insertOrgMembers(tx *gorm.DB, ids []string, build func(id string) models.OrganizationMember) error {
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.OrganizationMember, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, build(id))
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&rows).Error
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
