package server

import (
	"strings"
	"time"

	"github.com/emrgen/cms/internal/model"
	"github.com/emrgen/cms/internal/service"
)

type contentResponse struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organizationId"`
	AuthorID       string              `json:"authorId"`
	Title          string              `json:"title"`
	Slug           string              `json:"slug"`
	Excerpt        *string             `json:"excerpt"`
	Body           string              `json:"body"`
	Status         model.ContentStatus `json:"status"`
	Type           model.ContentType   `json:"type"`
	FeaturedImage  *string             `json:"featuredImage"`
	SEOTitle       *string             `json:"seoTitle"`
	SEODescription *string             `json:"seoDescription"`
	Tags           []string            `json:"tags"`
	ViewCount      int64               `json:"viewCount"`
	Version        int64               `json:"version"`
	PublishedAt    *time.Time          `json:"publishedAt"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func newContentResponse(c *model.Content) contentResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return contentResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		AuthorID:       c.AuthorID,
		Title:          c.Title,
		Slug:           c.Slug,
		Excerpt:        c.Excerpt,
		Body:           c.Body,
		Status:         c.Status,
		Type:           c.Kind.Type(),
		FeaturedImage:  c.FeaturedImage,
		SEOTitle:       c.SEOTitle,
		SEODescription: c.SEODescription,
		Tags:           tags,
		ViewCount:      c.ViewCount,
		Version:        c.Version,
		PublishedAt:    c.PublishedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// publicContentResponse is what anonymous readers see: no author, tenant or version.
type publicContentResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Slug           string            `json:"slug"`
	Excerpt        *string           `json:"excerpt"`
	Body           string            `json:"body"`
	Type           model.ContentType `json:"type"`
	FeaturedImage  *string           `json:"featuredImage"`
	SEOTitle       *string           `json:"seoTitle"`
	SEODescription *string           `json:"seoDescription"`
	Tags           []string          `json:"tags"`
	ViewCount      int64             `json:"viewCount"`
	PublishedAt    *time.Time        `json:"publishedAt"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func newPublicContentResponse(c *model.Content) publicContentResponse {
	full := newContentResponse(c)
	return publicContentResponse{
		ID:             full.ID,
		Title:          full.Title,
		Slug:           full.Slug,
		Excerpt:        full.Excerpt,
		Body:           full.Body,
		Type:           full.Type,
		FeaturedImage:  full.FeaturedImage,
		SEOTitle:       full.SEOTitle,
		SEODescription: full.SEODescription,
		Tags:           full.Tags,
		ViewCount:      full.ViewCount,
		PublishedAt:    full.PublishedAt,
		CreatedAt:      full.CreatedAt,
		UpdatedAt:      full.UpdatedAt,
	}
}

type listResponse[T any] struct {
	Items      []T                `json:"items"`
	Pagination service.Pagination `json:"pagination"`
}

func newListResponse[T any](page *service.ContentPage, convert func(*model.Content) T) listResponse[T] {
	items := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convert(item))
	}
	return listResponse[T]{Items: items, Pagination: page.Pagination}
}

type statsResponse struct {
	Total     int64             `json:"total"`
	Published int64             `json:"published"`
	Draft     int64             `json:"draft"`
	Archived  int64             `json:"archived"`
	Recent    []contentResponse `json:"recent"`
}

type revisionResponse struct {
	ContentID string              `json:"contentId"`
	Version   int64               `json:"version"`
	Title     string              `json:"title"`
	Slug      string              `json:"slug"`
	Body      string              `json:"body"`
	Excerpt   *string             `json:"excerpt"`
	Status    model.ContentStatus `json:"status"`
	UpdatedBy string              `json:"updatedBy"`
	CreatedAt time.Time           `json:"createdAt"`
}

func newRevisionResponse(r *model.ContentRevision) revisionResponse {
	return revisionResponse{
		ContentID: r.ContentID,
		Version:   r.Version,
		Title:     r.Title,
		Slug:      r.Slug,
		Body:      r.Body,
		Excerpt:   r.Excerpt,
		Status:    r.Status,
		UpdatedBy: r.UpdatedBy,
		CreatedAt: r.CreatedAt,
	}
}

// contentRequest is the body of create and update. "content" is accepted as an alias of
// "body" and resolved here, so the service only ever sees Body.
type contentRequest struct {
	Title          *string   `json:"title"`
	Slug           *string   `json:"slug"`
	Excerpt        *string   `json:"excerpt"`
	Body           *string   `json:"body"`
	Content        *string   `json:"content"`
	Status         *string   `json:"status"`
	Type           *string   `json:"type"`
	FeaturedImage  *string   `json:"featuredImage"`
	SEOTitle       *string   `json:"seoTitle"`
	SEODescription *string   `json:"seoDescription"`
	Tags           *[]string `json:"tags"`
}

func (r contentRequest) body() *string {
	if r.Body != nil {
		return r.Body
	}
	return r.Content
}

func (r contentRequest) status() *model.ContentStatus {
	if r.Status == nil {
		return nil
	}
	status := model.ContentStatus(strings.ToUpper(strings.TrimSpace(*r.Status)))
	return &status
}

func (r contentRequest) contentType() *model.ContentType {
	if r.Type == nil {
		return nil
	}
	t := model.ParseContentType(*r.Type)
	return &t
}

func (r contentRequest) createParams() service.CreateContentParams {
	params := service.CreateContentParams{
		Excerpt:        r.Excerpt,
		FeaturedImage:  r.FeaturedImage,
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
	}
	if r.Title != nil {
		params.Title = *r.Title
	}
	if r.Slug != nil {
		params.Slug = *r.Slug
	}
	if body := r.body(); body != nil {
		params.Body = *body
	}
	if status := r.status(); status != nil {
		params.Status = *status
	}
	if t := r.contentType(); t != nil {
		params.Type = *t
	}
	if r.Tags != nil {
		params.Tags = *r.Tags
	}
	return params
}

func (r contentRequest) updateParams(updatedBy string) service.UpdateContentParams {
	return service.UpdateContentParams{
		Title:          r.Title,
		Slug:           r.Slug,
		Excerpt:        r.Excerpt,
		Body:           r.body(),
		Status:         r.status(),
		Type:           r.contentType(),
		FeaturedImage:  r.FeaturedImage,
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
		Tags:           r.Tags,
		UpdatedBy:      updatedBy,
	}
}

type registerRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	OrganizationName string `json:"organizationName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organizationId"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Role           model.UserRole `json:"role"`
}

type organizationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type sessionResponse struct {
	Token        string               `json:"token"`
	ExpiresAt    time.Time            `json:"expiresAt"`
	User         userResponse         `json:"user"`
	Organization organizationResponse `json:"organization"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, OrganizationID: u.OrganizationID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func newOrganizationResponse(o *model.Organization) organizationResponse {
	return organizationResponse{ID: o.ID, Name: o.Name, Slug: o.Slug}
}

func newSessionResponse(s *service.Session) sessionResponse {
	return sessionResponse{
		Token:        s.Token,
		ExpiresAt:    s.ExpiresAt,
		User:         newUserResponse(s.User),
		Organization: newOrganizationResponse(s.Organization),
	}
}

type listRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type improveRequest struct {
	Content      string   `json:"content"`
	Improvements []string `json:"improvements"`
}

type improveResponse struct {
	OriginalContent string   `json:"originalContent"`
	ImprovedContent string   `json:"improvedContent"`
	Improvements    []string `json:"improvements"`
}

type generationMetadata struct {
	QualityScore        int  `json:"qualityScore"`
	ResearchSourceCount int  `json:"researchSourceCount"`
	Regenerated         bool `json:"regenerated"`
}
