package models

import "time"

type Card struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	ListID      string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cards_list_position,priority:1" json:"list_id"`
	BoardID     string    `gorm:"type:varchar(36);not null" json:"board_id"`
	Order       int       `gorm:"column:position;not null;uniqueIndex:idx_cards_list_position,priority:2" json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Members []CardMember `gorm:"foreignKey:CardID" json:"members,omitempty"`
}
