package model

import "time"

// Organization is the tenant boundary. All content and users belong to exactly one.
type Organization struct {
	ID        string `gorm:"primaryKey;size:36;not null"`
	Name      string `gorm:"not null"`
	Slug      string `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Organization) TableName() string {
	return "organizations"
}
