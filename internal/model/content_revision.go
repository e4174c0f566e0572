package model

import "time"

// ContentRevision is a snapshot of a content item taken right before it was updated.
// Revisions are written in the same transaction as the update they precede.
type ContentRevision struct {
	ContentID      string `gorm:"primaryKey;size:36"`
	Version        int64  `gorm:"primaryKey"`
	OrganizationID string `gorm:"size:36;not null;index"`
	Title          string
	Slug           string
	Body           string
	Excerpt        *string
	Status         ContentStatus `gorm:"size:16"`
	UpdatedBy      string        `gorm:"size:36"`
	CreatedAt      time.Time
}

func (ContentRevision) TableName() string {
	return "content_revisions"
}

// NewContentRevision captures the current state of c.
func NewContentRevision(c *Content, updatedBy string) *ContentRevision {
	return &ContentRevision{
		ContentID:      c.ID,
		Version:        c.Version,
		OrganizationID: c.OrganizationID,
		Title:          c.Title,
		Slug:           c.Slug,
		Body:           c.Body,
		Excerpt:        c.Excerpt,
		Status:         c.Status,
		UpdatedBy:      updatedBy,
	}
}
