package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

type Client interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, req RegisterRequest) (*Session, error)

	ListContent(ctx context.Context, query ListQuery) (*ContentList, error)
	GetContent(ctx context.Context, id string) (*Content, error)
	CreateContent(ctx context.Context, req ContentRequest) (*Content, error)
	UpdateContent(ctx context.Context, id string, req ContentRequest) (*Content, error)
	PublishContent(ctx context.Context, id string) (*Content, error)
	UnpublishContent(ctx context.Context, id string) (*Content, error)
	DeleteContent(ctx context.Context, id string) error

	GenerateIdeas(ctx context.Context, topic string, count int) ([]string, error)
	GenerateTitles(ctx context.Context, topic string, count int) ([]string, error)
}

type Content struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
	Tags        []string   `json:"tags"`
	ViewCount   int64      `json:"viewCount"`
	Version     int64      `json:"version"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ContentList struct {
	Items      []*Content `json:"items"`
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int   `json:"pages"`
	} `json:"pagination"`
}

// ContentRequest creates or partially updates a content item; nil fields are left out.
type ContentRequest struct {
	Title   *string   `json:"title,omitempty"`
	Slug    *string   `json:"slug,omitempty"`
	Excerpt *string   `json:"excerpt,omitempty"`
	Body    *string   `json:"body,omitempty"`
	Status  *string   `json:"status,omitempty"`
	Type    *string   `json:"type,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

type ListQuery struct {
	Status string
	Type   string
	Search string
	Page   int
	Limit  int
	Sort   string
	Order  string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("status", q.Status)
	set("type", q.Type)
	set("search", q.Search)
	set("sort", q.Sort)
	set("order", q.Order)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	OrganizationName string `json:"organizationName"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
	Organization struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"organization"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL (for example http://localhost:4001).
// token may be empty for the login and register calls.
func NewClient(baseURL, token string) Client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": password}, &session)
	return &session, err
}

func (c *client) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &session)
	return &session, err
}

func (c *client) ListContent(ctx context.Context, query ListQuery) (*ContentList, error) {
	path := "/api/v1/content"
	if v := query.values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var list ContentList
	err := c.do(ctx, http.MethodGet, path, nil, &list)
	return &list, err
}

func (c *client) GetContent(ctx context.Context, id string) (*Content, error) {
	return c.content(ctx, http.MethodGet, "/api/v1/content/"+url.PathEscape(id), nil)
}

func (c *client) CreateContent(ctx context.Context, req ContentRequest) (*Content, error) {
	return c.content(ctx, http.MethodPost, "/api/v1/content", req)
}

func (c *client) UpdateContent(ctx context.Context, id string, req ContentRequest) (*Content, error) {
	return c.content(ctx, http.MethodPut, "/api/v1/content/"+url.PathEscape(id), req)
}

func (c *client) PublishContent(ctx context.Context, id string) (*Content, error) {
	return c.content(ctx, http.MethodPost, "/api/v1/content/"+url.PathEscape(id)+"/publish", nil)
}

func (c *client) UnpublishContent(ctx context.Context, id string) (*Content, error) {
	return c.content(ctx, http.MethodPost, "/api/v1/content/"+url.PathEscape(id)+"/unpublish", nil)
}

func (c *client) DeleteContent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/content/"+url.PathEscape(id), nil, nil)
}

func (c *client) GenerateIdeas(ctx context.Context, topic string, count int) ([]string, error) {
	var out struct {
		Ideas []string `json:"ideas"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/ai/ideas", map[string]any{"topic": topic, "count": count}, &out)
	return out.Ideas, err
}

func (c *client) GenerateTitles(ctx context.Context, topic string, count int) ([]string, error) {
	var out struct {
		Titles []string `json:"titles"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/ai/titles", map[string]any{"topic": topic, "count": count}, &out)
	return out.Titles, err
}

func (c *client) content(ctx context.Context, method, path string, body any) (*Content, error) {
	var content Content
	if err := c.do(ctx, method, path, body, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var reply struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&reply)
		return &APIError{StatusCode: res.StatusCode, Message: reply.Error}
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
