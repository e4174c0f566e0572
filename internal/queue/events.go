package queue

import (
	"context"
	"time"
)

type ContentEventType string

const (
	ContentCreated     ContentEventType = "content.created"
	ContentUpdated     ContentEventType = "content.updated"
	ContentPublished   ContentEventType = "content.published"
	ContentUnpublished ContentEventType = "content.unpublished"
	ContentDeleted     ContentEventType = "content.deleted"
)

// ContentEvent is emitted after a content write has been committed.
type ContentEvent struct {
	Type           ContentEventType `json:"type"`
	ContentID      string           `json:"contentId"`
	OrganizationID string           `json:"organizationId"`
	Slug           string           `json:"slug,omitempty"`
	At             time.Time        `json:"at"`
}

// ContentEvents publishes content lifecycle events to downstream consumers.
type ContentEvents interface {
	Publish(ctx context.Context, event ContentEvent) error
	Close()
}

var _ ContentEvents = Nop{}

type Nop struct{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) Publish(context.Context, ContentEvent) error { return nil }
func (Nop) Close()                                      {}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []ContentEvent
}

func (r *Recorder) Publish(_ context.Context, event ContentEvent) error {
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Close() {}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []ContentEventType {
	types := make([]ContentEventType, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}
