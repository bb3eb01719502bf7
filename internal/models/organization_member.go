package models

import "time"

// OrganizationMember is one element of both Organization.userIds and User.orgIds.
type OrganizationMember struct {
	OrganizationID string    `gorm:"type:varchar(36);primaryKey" json:"organization_id"`
	UserID         string    `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	JoinedAt       time.Time `json:"joined_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BoardMember is one element of both Board.userIds and User.boardIds.
type BoardMember struct {
	BoardID  string    `gorm:"type:varchar(36);primaryKey" json:"board_id"`
	UserID   string    `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// CardMember is one element of both Card.userIds and User.cardIds.
type CardMember struct {
	CardID   string    `gorm:"type:varchar(36);primaryKey" json:"card_id"`
	UserID   string    `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
