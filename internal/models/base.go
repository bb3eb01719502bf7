package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID assigns a UUID to an empty primary key before insert.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	newID(&o.ID)
	return nil
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	newID(&b.ID)
	return nil
}

func (l *List) BeforeCreate(tx *gorm.DB) error {
	newID(&l.ID)
	return nil
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return nil
}

// All returns every model managed by AutoMigrate, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Organization{},
		&OrganizationMember{},
		&Board{},
		&BoardMember{},
		&List{},
		&Card{},
		&CardMember{},
		&AuditLog{},
	}
}
