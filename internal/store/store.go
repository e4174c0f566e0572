package store

import (
	"context"
	"errors"

	"github.com/emrgen/cms/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist in the requested scope.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	ContentStore
	ContentRevisionStore
	OrganizationStore
	UserStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

// ContentQuery describes a filtered, paginated and sorted content listing.
// OrganizationID is mandatory; the remaining filters are optional.
type ContentQuery struct {
	OrganizationID string
	Status         model.ContentStatus
	Kind           model.ContentKind
	AuthorID       string
	Search         string
	Offset         int
	Limit          int
	SortColumn     string
	Descending     bool
}

type ContentStore interface {
	// CreateContent creates a new content item.
	CreateContent(ctx context.Context, content *model.Content) error
	// GetContent retrieves a content item by ID within an organization.
	GetContent(ctx context.Context, organizationID, id string) (*model.Content, error)
	// UpdateContent overwrites every column of an existing content item.
	UpdateContent(ctx context.Context, content *model.Content) error
	// DeleteContent permanently deletes a content item, returning false when nothing matched.
	DeleteContent(ctx context.Context, organizationID, id string) (bool, error)
	// ListContents retrieves a page of content items and the total matching count.
	ListContents(ctx context.Context, query ContentQuery) ([]*model.Content, int64, error)
	// SlugExists reports whether the slug is taken in the organization by a record other than excludeID.
	SlugExists(ctx context.Context, organizationID, slug, excludeID string) (bool, error)
	// IncrementViewCount adds one to the view counter of a published item and returns the new
	// value. Items in any other status are ErrNotFound.
	IncrementViewCount(ctx context.Context, organizationID, id string) (int64, error)
	// CountContentsByStatus counts the organization's content items per status.
	CountContentsByStatus(ctx context.Context, organizationID string) (map[model.ContentStatus]int64, error)
}

type ContentRevisionStore interface {
	// CreateContentRevision stores a snapshot of a content item.
	CreateContentRevision(ctx context.Context, revision *model.ContentRevision) error
	// ListContentRevisions lists the revisions of a content item, newest first.
	ListContentRevisions(ctx context.Context, organizationID, contentID string) ([]*model.ContentRevision, error)
	// GetContentRevision retrieves a revision by content ID and version.
	GetContentRevision(ctx context.Context, organizationID, contentID string, version int64) (*model.ContentRevision, error)
	// PruneContentRevisions deletes all but the newest keep revisions of every content item.
	PruneContentRevisions(ctx context.Context, keep int) (int64, error)
}

type OrganizationStore interface {
	CreateOrganization(ctx context.Context, org *model.Organization) error
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*model.Organization, error)
	OrganizationSlugExists(ctx context.Context, slug string) (bool, error)
	ListOrganizations(ctx context.Context) ([]*model.Organization, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}
