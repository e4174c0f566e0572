package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/emrgen/cms/internal/cache"
	"github.com/emrgen/cms/internal/model"
	"github.com/emrgen/cms/internal/store"
	"github.com/sirupsen/logrus"
)

// ListPublished lists the published content of the organization addressed by slug or ID.
// The author filter is ignored. It returns (nil, nil) when the organization does not exist.
func (s *ContentService) ListPublished(ctx context.Context, organization string, filter ListFilter, page Page, sort Sort) (*ContentPage, error) {
	org, err := s.resolveOrganization(ctx, organization)
	if err != nil || org == nil {
		return nil, err
	}

	filter.OrganizationID = org.ID
	filter.Status = model.ContentStatusPublished
	filter.AuthorID = ""

	query, page, err := buildQuery(filter, page, sort)
	if err != nil {
		return nil, err
	}

	key := listKey(query)
	list, gen, ok := s.cache.GetList(ctx, org.ID, key)
	if ok {
		return &ContentPage{Items: list.Items, Pagination: newPagination(page, list.Total)}, nil
	}

	items, total, err := s.store.ListContents(ctx, query)
	if err != nil {
		logrus.Errorf("list published content for organization %s: %v", org.ID, err)
		return nil, err
	}
	s.cache.SetList(ctx, org.ID, key, gen, &cache.ContentList{Items: items, Total: total})

	return &ContentPage{Items: items, Pagination: newPagination(page, total)}, nil
}

// GetPublished returns a published content item and counts the read as a view.
// Drafts, archived items and items of other organizations are reported as (nil, nil).
func (s *ContentService) GetPublished(ctx context.Context, organization, id string) (*model.Content, error) {
	org, err := s.resolveOrganization(ctx, organization)
	if err != nil || org == nil {
		return nil, err
	}

	content, gen, ok := s.cache.GetContent(ctx, org.ID, id)
	if !ok {
		content, err = s.store.GetContent(ctx, org.ID, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if !content.IsPublished() {
			return nil, nil
		}
		s.cache.SetContent(ctx, gen, content)
	}

	// the counter only moves for published rows, which also catches a stale cached copy
	views, err := s.store.IncrementViewCount(ctx, org.ID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		logrus.Errorf("increment views of %s: %v", id, err)
		return nil, err
	}
	content.ViewCount = views

	return content, nil
}

// resolveOrganization accepts either an organization slug or its ID.
func (s *ContentService) resolveOrganization(ctx context.Context, organization string) (*model.Organization, error) {
	if organization == "" {
		return nil, nil
	}

	org, err := s.store.GetOrganizationBySlug(ctx, organization)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	org, err = s.store.GetOrganization(ctx, organization)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return org, err
}

func listKey(q store.ContentQuery) string {
	raw := fmt.Sprintf("%s|%s|%s|%d|%d|%s|%t", q.Kind, q.Status, q.Search, q.Offset, q.Limit, q.SortColumn, q.Descending)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}
