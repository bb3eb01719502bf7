package models

import "time"

type EntityType string

const (
	EntityBoard        EntityType = "BOARD"
	EntityCard         EntityType = "CARD"
	EntityList         EntityType = "LIST"
	EntityOrganization EntityType = "ORGANIZATION"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// AuditLog is write-once.
type AuditLog struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	EntityID    string     `gorm:"type:varchar(36);not null" json:"entity_id"`
	EntityTitle string     `gorm:"type:varchar(255)" json:"entity_title"`
	EntityType  EntityType `gorm:"type:varchar(20);not null" json:"entity_type"`
	Action      Action     `gorm:"type:varchar(20);not null" json:"action"`
	OrgID       string     `gorm:"type:varchar(36)" json:"org_id"`
	CreatedAt   time.Time  `json:"created_at"`
}
