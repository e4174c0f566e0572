package cache

import (
	"context"

	"github.com/emrgen/cms/internal/model"
)

// ContentList is a cached page of a public listing.
type ContentList struct {
	Items []*model.Content `json:"items"`
	Total int64            `json:"total"`
}

// Generation is the organization cache state a lookup observed. A fill written with the
// generation of its miss is invisible once the organization has been invalidated since.
type Generation int64

// NoGeneration marks a lookup that could not read the cache state; fills with it are dropped.
const NoGeneration Generation = -1

// PublicCache caches the anonymous read surface. Implementations swallow and log their own
// errors: a cache failure degrades to a store read, never to a failed request.
type PublicCache interface {
	// GetContent returns a cached published content item, or the generation to fill it under.
	GetContent(ctx context.Context, organizationID, id string) (*model.Content, Generation, bool)
	// SetContent caches a published content item under the generation of the miss.
	SetContent(ctx context.Context, gen Generation, content *model.Content)
	// GetList returns a cached listing for the query key, or the generation to fill it under.
	GetList(ctx context.Context, organizationID, key string) (*ContentList, Generation, bool)
	// SetList caches a listing under the query key and the generation of the miss.
	SetList(ctx context.Context, organizationID, key string, gen Generation, list *ContentList)
	// Invalidate drops every cached entry of the organization.
	Invalidate(ctx context.Context, organizationID string)
}

var _ PublicCache = Nop{}

// Nop is used when no redis address is configured.
type Nop struct{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) GetContent(context.Context, string, string) (*model.Content, Generation, bool) {
	return nil, NoGeneration, false
}

func (Nop) SetContent(context.Context, Generation, *model.Content) {}

func (Nop) GetList(context.Context, string, string) (*ContentList, Generation, bool) {
	return nil, NoGeneration, false
}

func (Nop) SetList(context.Context, string, string, Generation, *ContentList) {}

func (Nop) Invalidate(context.Context, string) {}
