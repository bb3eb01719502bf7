package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/kanban-board-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ByPosition sorts lists and cards by their order within the parent.
func ByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
