package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/cms/internal/cache"
	"github.com/emrgen/cms/internal/model"
	"github.com/emrgen/cms/internal/queue"
	"github.com/emrgen/cms/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	recentLimit      = 5
)

// sort keys accepted from callers, mapped to store columns
var sortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
	"title":       "title",
	"viewCount":   "view_count",
}

// CreateContentParams carries the fields of a new content item. Title and Body are required.
type CreateContentParams struct {
	Title          string
	Slug           string
	Excerpt        *string
	Body           string
	Status         model.ContentStatus
	Type           model.ContentType
	FeaturedImage  *string
	SEOTitle       *string
	SEODescription *string
	Tags           []string
}

// UpdateContentParams is a partial update: nil fields keep their stored value.
// A pointer to an empty string clears an optional field.
type UpdateContentParams struct {
	Title          *string
	Slug           *string
	Excerpt        *string
	Body           *string
	Status         *model.ContentStatus
	Type           *model.ContentType
	FeaturedImage  *string
	SEOTitle       *string
	SEODescription *string
	Tags           *[]string
	// UpdatedBy is recorded on the revision snapshot.
	UpdatedBy string
}

type ListFilter struct {
	OrganizationID string
	Status         model.ContentStatus
	Type           model.ContentType
	Search         string
	AuthorID       string
}

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

type Sort struct {
	Field      string
	Descending bool
}

// DefaultSort orders by creation time, newest first.
var DefaultSort = Sort{Field: "createdAt", Descending: true}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ContentPage struct {
	Items      []*model.Content
	Pagination Pagination
}

type ContentStats struct {
	Total     int64
	Published int64
	Draft     int64
	Archived  int64
	Recent    []*model.Content
}

// NewContentService creates a new ContentService.
func NewContentService(store store.Store, cache cache.PublicCache, events queue.ContentEvents) *ContentService {
	return &ContentService{
		store:  store,
		cache:  cache,
		events: events,
		now:    time.Now,
	}
}

// ContentService owns the content lifecycle: slug assignment, status bookkeeping and
// organization-scoped reads and writes.
type ContentService struct {
	store  store.Store
	cache  cache.PublicCache
	events queue.ContentEvents
	now    func() time.Time
}

// Create creates a new content item in the organization.
func (s *ContentService) Create(ctx context.Context, params CreateContentParams, authorID, organizationID string) (*model.Content, error) {
	if strings.TrimSpace(organizationID) == "" {
		return nil, invalid("organizationId", "is required")
	}
	if strings.TrimSpace(authorID) == "" {
		return nil, invalid("authorId", "is required")
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if strings.TrimSpace(params.Body) == "" {
		return nil, invalid("body", "is required")
	}

	status := params.Status
	if status == "" {
		status = model.ContentStatusDraft
	}
	if !status.Valid() {
		return nil, invalid("status", "must be one of DRAFT, PUBLISHED, ARCHIVED")
	}

	contentType := params.Type
	if contentType == "" {
		contentType = model.ContentTypeArticle
	}

	content := &model.Content{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		AuthorID:       authorID,
		Title:          title,
		Excerpt:        optional(params.Excerpt),
		Body:           params.Body,
		Status:         status,
		Kind:           contentType.Kind(),
		FeaturedImage:  optional(params.FeaturedImage),
		SEOTitle:       optional(params.SEOTitle),
		SEODescription: optional(params.SEODescription),
		Tags:           normalizeTags(params.Tags),
	}
	if status == model.ContentStatusPublished {
		now := s.now()
		content.PublishedAt = &now
	}

	base := Slugify(params.Slug)
	if base == "" {
		base = Slugify(title)
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		slug, err := uniqueSlug(ctx, base, slugTaken(tx, organizationID, ""))
		if err != nil {
			return err
		}
		content.Slug = slug

		return tx.CreateContent(ctx, content)
	})
	if err != nil {
		return nil, writeError("create", content, err)
	}

	logrus.Infof("content created: %s (%s) in organization %s", content.ID, content.Slug, organizationID)
	s.afterWrite(ctx, content, queue.ContentCreated)
	if content.IsPublished() {
		s.emit(ctx, content, queue.ContentPublished)
	}

	return content, nil
}

// Update applies a partial update. It returns (nil, nil) when the content item does not exist
// in the organization.
func (s *ContentService) Update(ctx context.Context, id string, params UpdateContentParams, organizationID string) (*model.Content, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var updated *model.Content
	var previous model.ContentStatus
	attempted := &model.Content{ID: id, OrganizationID: organizationID}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		content, err := tx.GetContent(ctx, organizationID, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		previous = content.Status

		// snapshot the state being replaced; the (content, version) key is taken when another
		// update of the same version committed first
		if err := tx.CreateContentRevision(ctx, model.NewContentRevision(content, params.UpdatedBy)); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("%w: content %s was updated concurrently, reload and retry", ErrConflict, id)
			}
			return err
		}
		attempted = content

		titleChanged := false
		if params.Title != nil {
			title := strings.TrimSpace(*params.Title)
			titleChanged = title != content.Title
			content.Title = title
		}
		if params.Body != nil {
			content.Body = *params.Body
		}
		if params.Excerpt != nil {
			content.Excerpt = optional(params.Excerpt)
		}
		if params.FeaturedImage != nil {
			content.FeaturedImage = optional(params.FeaturedImage)
		}
		if params.SEOTitle != nil {
			content.SEOTitle = optional(params.SEOTitle)
		}
		if params.SEODescription != nil {
			content.SEODescription = optional(params.SEODescription)
		}
		if params.Type != nil {
			content.Kind = params.Type.Kind()
		}
		if params.Tags != nil {
			content.Tags = normalizeTags(*params.Tags)
		}

		var base string
		switch {
		case params.Slug != nil && Slugify(*params.Slug) != "":
			base = Slugify(*params.Slug)
		case titleChanged:
			base = Slugify(content.Title)
		}
		if base != "" {
			slug, err := uniqueSlug(ctx, base, slugTaken(tx, organizationID, content.ID))
			if err != nil {
				return err
			}
			content.Slug = slug
		}

		if params.Status != nil {
			applyStatus(content, *params.Status, s.now())
		}

		content.Version++
		if err := tx.UpdateContent(ctx, content); err != nil {
			return err
		}

		updated = content
		return nil
	})
	if err != nil {
		return nil, writeError("update", attempted, err)
	}
	if updated == nil {
		return nil, nil
	}

	logrus.Infof("content updated: %s version %d", updated.ID, updated.Version)
	s.afterWrite(ctx, updated, queue.ContentUpdated)
	switch {
	case previous != model.ContentStatusPublished && updated.IsPublished():
		s.emit(ctx, updated, queue.ContentPublished)
	case previous == model.ContentStatusPublished && !updated.IsPublished():
		s.emit(ctx, updated, queue.ContentUnpublished)
	}

	return updated, nil
}

// Publish sets the status to PUBLISHED. Publishing an already published item keeps its
// original publish time.
func (s *ContentService) Publish(ctx context.Context, id, organizationID string) (*model.Content, error) {
	status := model.ContentStatusPublished
	return s.Update(ctx, id, UpdateContentParams{Status: &status}, organizationID)
}

// Unpublish moves the content back to DRAFT and clears its publish time.
func (s *ContentService) Unpublish(ctx context.Context, id, organizationID string) (*model.Content, error) {
	status := model.ContentStatusDraft
	return s.Update(ctx, id, UpdateContentParams{Status: &status}, organizationID)
}

// Delete permanently deletes a content item and its revisions. It returns false when the
// item does not exist in the organization.
func (s *ContentService) Delete(ctx context.Context, id, organizationID string) (bool, error) {
	var deleted bool
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		deleted, err = tx.DeleteContent(ctx, organizationID, id)
		return err
	})
	if err != nil {
		return false, writeError("delete", &model.Content{ID: id, OrganizationID: organizationID}, err)
	}
	if !deleted {
		return false, nil
	}

	logrus.Infof("content deleted: %s in organization %s", id, organizationID)
	s.afterWrite(ctx, &model.Content{ID: id, OrganizationID: organizationID}, queue.ContentDeleted)

	return true, nil
}

// Get retrieves a content item. It returns (nil, nil) both when the item does not exist and
// when it belongs to another organization.
func (s *ContentService) Get(ctx context.Context, id, organizationID string) (*model.Content, error) {
	content, err := s.store.GetContent(ctx, organizationID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		logrus.Errorf("get content %s: %v", id, err)
		return nil, err
	}

	return content, nil
}

// List returns one page of the organization's content matching the filter.
func (s *ContentService) List(ctx context.Context, filter ListFilter, page Page, sort Sort) (*ContentPage, error) {
	if strings.TrimSpace(filter.OrganizationID) == "" {
		return nil, invalid("organizationId", "is required")
	}

	query, page, err := buildQuery(filter, page, sort)
	if err != nil {
		return nil, err
	}

	items, total, err := s.store.ListContents(ctx, query)
	if err != nil {
		logrus.Errorf("list content for organization %s: %v", filter.OrganizationID, err)
		return nil, err
	}

	return &ContentPage{Items: items, Pagination: newPagination(page, total)}, nil
}

// Stats aggregates the organization's content by status along with the latest items.
func (s *ContentService) Stats(ctx context.Context, organizationID string) (*ContentStats, error) {
	if strings.TrimSpace(organizationID) == "" {
		return nil, invalid("organizationId", "is required")
	}

	counts, err := s.store.CountContentsByStatus(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.store.ListContents(ctx, store.ContentQuery{
		OrganizationID: organizationID,
		Limit:          recentLimit,
		SortColumn:     "created_at",
		Descending:     true,
	})
	if err != nil {
		return nil, err
	}

	stats := &ContentStats{
		Published: counts[model.ContentStatusPublished],
		Draft:     counts[model.ContentStatusDraft],
		Archived:  counts[model.ContentStatusArchived],
		Recent:    recent,
	}
	for _, count := range counts {
		stats.Total += count
	}

	return stats, nil
}

func (p UpdateContentParams) validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if p.Body != nil && strings.TrimSpace(*p.Body) == "" {
		return invalid("body", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "must be one of DRAFT, PUBLISHED, ARCHIVED")
	}
	return nil
}

// applyStatus keeps PublishedAt consistent with the status: set on entering PUBLISHED,
// cleared on every non-published status.
func applyStatus(content *model.Content, next model.ContentStatus, now time.Time) {
	if next == model.ContentStatusPublished {
		if !content.IsPublished() || content.PublishedAt == nil {
			content.PublishedAt = &now
		}
	} else {
		content.PublishedAt = nil
	}
	content.Status = next
}

func buildQuery(filter ListFilter, page Page, sort Sort) (store.ContentQuery, Page, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return store.ContentQuery{}, page, invalid("status", "must be one of DRAFT, PUBLISHED, ARCHIVED")
	}

	if sort.Field == "" {
		sort = DefaultSort
	}
	column, ok := sortFields[sort.Field]
	if !ok {
		return store.ContentQuery{}, page, invalid("sort", fmt.Sprintf("unknown field %q", sort.Field))
	}

	page = normalizePage(page)
	query := store.ContentQuery{
		OrganizationID: filter.OrganizationID,
		Status:         filter.Status,
		AuthorID:       filter.AuthorID,
		Search:         strings.TrimSpace(filter.Search),
		Offset:         (page.Page - 1) * page.Limit,
		Limit:          page.Limit,
		SortColumn:     column,
		Descending:     sort.Descending,
	}
	if filter.Type != "" {
		query.Kind = filter.Type.Kind()
	}

	return query, page, nil
}

func normalizePage(page Page) Page {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = DefaultPageLimit
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	return page
}

func newPagination(page Page, total int64) Pagination {
	limit := int64(page.Limit)
	return Pagination{
		Page:  page.Page,
		Limit: page.Limit,
		Total: total,
		Pages: int((total + limit - 1) / limit),
	}
}

func slugTaken(tx store.Store, organizationID, excludeID string) func(ctx context.Context, slug string) (bool, error) {
	return func(ctx context.Context, slug string) (bool, error) {
		return tx.SlugExists(ctx, organizationID, slug, excludeID)
	}
}

// normalizeTags trims tags and drops blanks and repeats, keeping the first occurrence order.
func normalizeTags(tags []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen.Contains(tag) {
			continue
		}
		seen.Add(tag)
		out = append(out, tag)
	}
	return out
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func writeError(op string, content *model.Content, err error) error {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return err
	}
	if errors.Is(err, ErrConflict) {
		logrus.Warnf("%s content %s: %v", op, content.ID, err)
		return err
	}
	if errors.Is(err, store.ErrDuplicate) {
		logrus.Warnf("%s content %s: slug %q collided at write time", op, content.ID, content.Slug)
		return fmt.Errorf("%w: slug %q is already in use", ErrConflict, content.Slug)
	}

	logrus.Errorf("%s content %s: %v", op, content.ID, err)
	return fmt.Errorf("%s content: %w", op, err)
}

func (s *ContentService) afterWrite(ctx context.Context, content *model.Content, eventType queue.ContentEventType) {
	s.cache.Invalidate(ctx, content.OrganizationID)
	s.emit(ctx, content, eventType)
}

func (s *ContentService) emit(ctx context.Context, content *model.Content, eventType queue.ContentEventType) {
	err := s.events.Publish(ctx, queue.ContentEvent{
		Type:           eventType,
		ContentID:      content.ID,
		OrganizationID: content.OrganizationID,
		Slug:           content.Slug,
		At:             s.now(),
	})
	if err != nil {
		logrus.Errorf("publish %s event for %s: %v", eventType, content.ID, err)
	}
}
