package model

import (
	"time"
)

// ContentStatus is the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "DRAFT"
	ContentStatusPublished ContentStatus = "PUBLISHED"
	ContentStatusArchived  ContentStatus = "ARCHIVED"
)

// Valid reports whether s is one of the known statuses.
func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusArchived:
		return true
	}
	return false
}

// Content is the unit of publishable material. Every row belongs to exactly one organization
// and the slug is unique within that organization.
type Content struct {
	ID             string `gorm:"primaryKey;size:36;not null"`
	OrganizationID string `gorm:"size:36;not null;index;uniqueIndex:idx_contents_org_slug"`
	AuthorID       string `gorm:"size:36;not null;index"`
	Title          string `gorm:"not null"`
	Slug           string `gorm:"not null;uniqueIndex:idx_contents_org_slug"`
	Excerpt        *string
	Body           string        `gorm:"not null"`
	Status         ContentStatus `gorm:"size:16;not null;index"`
	Kind           ContentKind   `gorm:"size:16;not null"`
	FeaturedImage  *string
	SEOTitle       *string  `gorm:"column:seo_title"`
	SEODescription *string  `gorm:"column:seo_description"`
	Tags           []string `gorm:"serializer:json"`
	ViewCount      int64    `gorm:"not null;default:0"`
	Version        int64    `gorm:"not null;default:0"`
	PublishedAt    *time.Time
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

func (Content) TableName() string {
	return "contents"
}

// IsPublished returns true if the content item is in published status.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}
