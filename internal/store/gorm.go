package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/emrgen/cms/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

// sortable columns, keyed by the column name accepted in ContentQuery.SortColumn
var sortColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"published_at": true,
	"title":        true,
	"view_count":   true,
}

func (g *GormStore) CreateContent(ctx context.Context, content *model.Content) error {
	return translate(g.db.WithContext(ctx).Create(content).Error)
}

func (g *GormStore) GetContent(ctx context.Context, organizationID, id string) (*model.Content, error) {
	var content model.Content
	err := g.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&content).Error
	if err != nil {
		return nil, translate(err)
	}
	return &content, nil
}

func (g *GormStore) UpdateContent(ctx context.Context, content *model.Content) error {
	return translate(g.db.WithContext(ctx).Save(content).Error)
}

func (g *GormStore) DeleteContent(ctx context.Context, organizationID, id string) (bool, error) {
	res := g.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		Delete(&model.Content{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	err := g.db.WithContext(ctx).
		Where("content_id = ? AND organization_id = ?", id, organizationID).
		Delete(&model.ContentRevision{}).Error
	return true, err
}

func (g *GormStore) ListContents(ctx context.Context, query ContentQuery) ([]*model.Content, int64, error) {
	q := g.db.WithContext(ctx).Model(&model.Content{}).
		Where("organization_id = ?", query.OrganizationID)

	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.Kind != "" {
		q = q.Where("kind = ?", query.Kind)
	}
	if query.AuthorID != "" {
		q = q.Where("author_id = ?", query.AuthorID)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		// tags are stored as a JSON array, so the quoted value matches one element exactly
		tag, err := json.Marshal(search)
		if err != nil {
			return nil, 0, err
		}
		q = q.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(excerpt) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, "%"+escapeLike(string(tag))+"%",
		)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := query.SortColumn
	if !sortColumns[column] {
		column = "created_at"
	}

	contents := make([]*model.Content, 0)
	err := q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: query.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: query.Descending}).
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}

	return contents, total, nil
}

func (g *GormStore) SlugExists(ctx context.Context, organizationID, slug, excludeID string) (bool, error) {
	q := g.db.WithContext(ctx).Model(&model.Content{}).
		Where("organization_id = ? AND slug = ?", organizationID, slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *GormStore) IncrementViewCount(ctx context.Context, organizationID, id string) (int64, error) {
	res := g.db.WithContext(ctx).Model(&model.Content{}).
		Where("id = ? AND organization_id = ? AND status = ?", id, organizationID, model.ContentStatusPublished).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var views int64
	err := g.db.WithContext(ctx).Model(&model.Content{}).
		Where("id = ?", id).
		Pluck("view_count", &views).Error
	return views, err
}

func (g *GormStore) CountContentsByStatus(ctx context.Context, organizationID string) (map[model.ContentStatus]int64, error) {
	var rows []struct {
		Status model.ContentStatus
		Count  int64
	}
	err := g.db.WithContext(ctx).Model(&model.Content{}).
		Select("status, COUNT(*) AS count").
		Where("organization_id = ?", organizationID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.ContentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (g *GormStore) CreateContentRevision(ctx context.Context, revision *model.ContentRevision) error {
	return translate(g.db.WithContext(ctx).Create(revision).Error)
}

func (g *GormStore) ListContentRevisions(ctx context.Context, organizationID, contentID string) ([]*model.ContentRevision, error) {
	revisions := make([]*model.ContentRevision, 0)
	err := g.db.WithContext(ctx).
		Where("content_id = ? AND organization_id = ?", contentID, organizationID).
		Order("version desc").
		Find(&revisions).Error
	return revisions, err
}

func (g *GormStore) GetContentRevision(ctx context.Context, organizationID, contentID string, version int64) (*model.ContentRevision, error) {
	var revision model.ContentRevision
	err := g.db.WithContext(ctx).
		Where("content_id = ? AND organization_id = ? AND version = ?", contentID, organizationID, version).
		First(&revision).Error
	if err != nil {
		return nil, translate(err)
	}
	return &revision, nil
}

func (g *GormStore) PruneContentRevisions(ctx context.Context, keep int) (int64, error) {
	// versions of one content item are contiguous, so the newest keep are the ones above max-keep
	res := g.db.WithContext(ctx).Exec(
		`DELETE FROM content_revisions WHERE version <= (
			SELECT MAX(r.version) FROM content_revisions r WHERE r.content_id = content_revisions.content_id
		) - ?`, keep)
	return res.RowsAffected, res.Error
}

func (g *GormStore) CreateOrganization(ctx context.Context, org *model.Organization) error {
	return translate(g.db.WithContext(ctx).Create(org).Error)
}

func (g *GormStore) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	var org model.Organization
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

func (g *GormStore) GetOrganizationBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	var org model.Organization
	if err := g.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

func (g *GormStore) OrganizationSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Organization{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (g *GormStore) ListOrganizations(ctx context.Context) ([]*model.Organization, error) {
	orgs := make([]*model.Organization, 0)
	err := g.db.WithContext(ctx).Order("created_at").Find(&orgs).Error
	return orgs, err
}

func (g *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	return translate(g.db.WithContext(ctx).Create(user).Error)
}

func (g *GormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *GormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}

	// drivers opened without TranslateError still report the violation in the message
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern declared with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
