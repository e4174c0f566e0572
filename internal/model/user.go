package model

import "time"

type UserRole string

const (
	UserRoleOwner  UserRole = "owner"
	UserRoleEditor UserRole = "editor"
)

type User struct {
	ID             string `gorm:"primaryKey;size:36;not null"`
	OrganizationID string `gorm:"size:36;not null;index"`
	Email          string `gorm:"not null;uniqueIndex"`
	Name           string
	PasswordHash   string   `gorm:"not null"`
	Role           UserRole `gorm:"size:16;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (User) TableName() string {
	return "users"
}
