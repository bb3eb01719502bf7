package repository

import (
	"context"
	"time"

	"github.com/yukikurage/kanban-board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCardRepository is a GORM implementation of CardRepository
type GormCardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &GormCardRepository{db: db}
}

// FindByID finds a card by ID with optional preloading
func (r *GormCardRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.Card, error) {
	var card models.Card
	query := r.db.WithContext(ctx)
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// NextOrder returns the order a card appended to the list would receive
func (r *GormCardRepository) NextOrder(ctx context.Context, listID string) (int, error) {
	return nextPosition(r.db.WithContext(ctx), &models.Card{}, "list_id", listID)
}

// CreateInList verifies that the list belongs to card.BoardID, assigns the next
// order and inserts the card in one transaction. A concurrent insert that took
// the same order surfaces as gorm.ErrDuplicatedKey.
func (r *GormCardRepository) CreateInList(ctx context.Context, card *models.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list models.List
		if err := tx.Select("id").
			Where("id = ? AND board_id = ?", card.ListID, card.BoardID).
			First(&list).Error; err != nil {
			return err
		}

		next, err := nextPosition(tx, &models.Card{}, "list_id", card.ListID)
		if err != nil {
			return err
		}
		card.Order = next

		return tx.Omit(clause.Associations).Create(card).Error
	})
}

// Update applies a partial update
func (r *GormCardRepository) Update(ctx context.Context, id string, fields CardUpdate) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&card).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if fields.Title != nil {
			updates["title"] = *fields.Title
		}
		switch {
		case fields.ClearDescription:
			updates["description"] = nil
		case fields.Description != nil:
			updates["description"] = *fields.Description
		}

		if len(updates) > 0 {
			if err := tx.Model(&card).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Members").Where("id = ?", id).First(&card).Error
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Delete deletes a card and returns the deleted row
func (r *GormCardRepository) Delete(ctx context.Context, id string) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Members").Where("id = ?", id).First(&card).Error; err != nil {
			return err
		}
		if err := tx.Where("card_id = ?", id).Delete(&models.CardMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Card{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// AddMember adds a user to a card. An existing membership surfaces as gorm.ErrDuplicatedKey.
func (r *GormCardRepository) AddMember(ctx context.Context, cardID, userID string) error {
	member := &models.CardMember{CardID: cardID, UserID: userID, JoinedAt: time.Now()}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}

// ListNonMembers lists members of the board that are not on the card
func (r *GormCardRepository) ListNonMembers(ctx context.Context, boardID, cardID string) ([]models.User, error) {
	cardSubQuery := r.db.Model(&models.CardMember{}).
		Select("1").
		Where("card_members.user_id = users.id AND card_members.card_id = ?", cardID)

	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN board_members ON board_members.user_id = users.id").
		Where("board_members.board_id = ?", boardID).
		Where("NOT EXISTS (?)", cardSubQuery).
		Order("users.name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
