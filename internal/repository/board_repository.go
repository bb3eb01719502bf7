package repository

import (
	"context"
	"time"

	"github.com/yukikurage/kanban-board-api/internal/database"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a board inside an existing organization
func (r *GormBoardRepository) Create(ctx context.Context, board *models.Board) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org models.Organization
		if err := tx.Select("id").Where("id = ?", board.OrgID).First(&org).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(board).Error
	})
}

// FindByID finds a board by ID with optional preloading
func (r *GormBoardRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.Board, error) {
	var board models.Board
	query := r.db.WithContext(ctx)
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindWithContent loads a board with its lists and cards in order
func (r *GormBoardRepository) FindWithContent(ctx context.Context, id string) (*models.Board, error) {
	var board models.Board
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Lists", database.ByPosition).
		Preload("Lists.Cards", database.ByPosition).
		Preload("Lists.Cards.Members").
		Where("id = ?", id).
		First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListByOrganization lists the boards of an organization
func (r *GormBoardRepository) ListByOrganization(ctx context.Context, orgID string) ([]models.Board, error) {
	var boards []models.Board
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Delete deletes a board with its lists, cards and memberships
func (r *GormBoardRepository) Delete(ctx context.Context, id string) (*models.Board, error) {
	var board models.Board
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Members").Where("id = ?", id).First(&board).Error; err != nil {
			return err
		}
		if err := deleteBoardContents(tx, []string{id}); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Board{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// CreateList appends a list to the end of a board
func (r *GormBoardRepository) CreateList(ctx context.Context, list *models.List) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board models.Board
		if err := tx.Select("id").Where("id = ?", list.BoardID).First(&board).Error; err != nil {
			return err
		}

		next, err := nextPosition(tx, &models.List{}, "board_id", list.BoardID)
		if err != nil {
			return err
		}
		list.Order = next

		return tx.Omit(clause.Associations).Create(list).Error
	})
}

// FindList finds a list by ID
func (r *GormBoardRepository) FindList(ctx context.Context, id string) (*models.List, error) {
	var list models.List
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// AddMember adds a user to a board. An existing membership surfaces as gorm.ErrDuplicatedKey.
func (r *GormBoardRepository) AddMember(ctx context.Context, boardID, userID string) error {
	member := &models.BoardMember{BoardID: boardID, UserID: userID, JoinedAt: time.Now()}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}

// IsMember reports whether the user belongs to the board
func (r *GormBoardRepository) IsMember(ctx context.Context, boardID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BoardMember{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListNonMembers lists members of the board's organization that are not on the board
func (r *GormBoardRepository) ListNonMembers(ctx context.Context, board *models.Board) ([]models.User, error) {
	boardSubQuery := r.db.Model(&models.BoardMember{}).
		Select("1").
		Where("board_members.user_id = users.id AND board_members.board_id = ?", board.ID)

	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN organization_members ON organization_members.user_id = users.id").
		Where("organization_members.organization_id = ?", board.OrgID).
		Where("NOT EXISTS (?)", boardSubQuery).
		Order("users.name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// nextPosition returns max(position)+1 within the scope column, or 1 when the scope is empty.
func nextPosition(tx *gorm.DB, model interface{}, column, value string) (int, error) {
	var max int
	if err := tx.Model(model).
		Select("COALESCE(MAX(position), 0)").
		Where(column+" = ?", value).
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}
