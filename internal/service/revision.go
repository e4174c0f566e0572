package service

import (
	"context"
	"errors"

	"github.com/emrgen/cms/internal/model"
	"github.com/emrgen/cms/internal/store"
)

// ListRevisions lists the snapshots of a content item, newest first. It returns (nil, nil)
// when the content item does not exist in the organization.
func (s *ContentService) ListRevisions(ctx context.Context, id, organizationID string) ([]*model.ContentRevision, error) {
	if _, err := s.store.GetContent(ctx, organizationID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	revisions, err := s.store.ListContentRevisions(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if revisions == nil {
		revisions = []*model.ContentRevision{}
	}

	return revisions, nil
}

// GetRevision returns one snapshot of a content item, or (nil, nil) when it does not exist.
func (s *ContentService) GetRevision(ctx context.Context, id string, version int64, organizationID string) (*model.ContentRevision, error) {
	revision, err := s.store.GetContentRevision(ctx, organizationID, id, version)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return revision, nil
}

// RestoreRevision writes the title, slug, body and excerpt of a snapshot back onto the
// content item as a regular update. The status is left untouched.
func (s *ContentService) RestoreRevision(ctx context.Context, id string, version int64, organizationID, updatedBy string) (*model.Content, error) {
	revision, err := s.GetRevision(ctx, id, version, organizationID)
	if err != nil || revision == nil {
		return nil, err
	}

	excerpt := ""
	if revision.Excerpt != nil {
		excerpt = *revision.Excerpt
	}

	return s.Update(ctx, id, UpdateContentParams{
		Title:     &revision.Title,
		Slug:      &revision.Slug,
		Body:      &revision.Body,
		Excerpt:   &excerpt,
		UpdatedBy: updatedBy,
	}, organizationID)
}
