package models

import "time"

type Board struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Image     string    `gorm:"type:text" json:"image"`
	OrgID     string    `gorm:"type:varchar(36);not null" json:"org_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Members []BoardMember `gorm:"foreignKey:BoardID" json:"members,omitempty"`
	Lists   []List        `gorm:"foreignKey:BoardID" json:"lists,omitempty"`
}

type List struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	BoardID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_lists_board_position,priority:1" json:"board_id"`
	Order     int       `gorm:"column:position;not null;uniqueIndex:idx_lists_board_position,priority:2" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cards []Card `gorm:"foreignKey:ListID" json:"cards,omitempty"`
}
