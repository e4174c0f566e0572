package service

import (
	"context"
	"testing"

	"github.com/emrgen/cms/internal/model"
	"github.com/emrgen/cms/internal/queue"
	"github.com/emrgen/cms/internal/store"
	"github.com/emrgen/cms/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrganization(t *testing.T, s store.Store, slug string) *model.Organization {
	t.Helper()

	org := &model.Organization{ID: uuid.New().String(), Name: slug, Slug: slug}
	require.NoError(t, s.CreateOrganization(context.TODO(), org))
	return org
}

func TestContentService_GetPublishedCountsViews(t *testing.T) {
	tester.Setup()
	t.Cleanup(tester.RemoveDBFile)

	redis, _ := tester.Redis(t)
	s := store.NewGormStore(tester.TestDB())
	svc := NewContentService(s, redis, &queue.Recorder{})
	org := newTestOrganization(t, s, "acme")

	content := createContent(t, svc, "Public Post", org.ID)
	_, err := svc.Publish(context.TODO(), content.ID, org.ID)
	require.NoError(t, err)

	before, err := svc.Get(context.TODO(), content.ID, org.ID)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := svc.GetPublished(context.TODO(), "acme", content.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, before.ViewCount+int64(i+1), got.ViewCount)
	}

	after, err := svc.Get(context.TODO(), content.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, before.ViewCount+2, after.ViewCount)

	// the organization can be addressed by id as well
	got, err := svc.GetPublished(context.TODO(), org.ID, content.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, before.ViewCount+3, got.ViewCount)
}

func TestContentService_GetPublishedHidesDrafts(t *testing.T) {
	tester.Setup()
	t.Cleanup(tester.RemoveDBFile)

	redis, _ := tester.Redis(t)
	s := store.NewGormStore(tester.TestDB())
	svc := NewContentService(s, redis, &queue.Recorder{})
	org := newTestOrganization(t, s, "acme")
	other := newTestOrganization(t, s, "globex")

	draft := createContent(t, svc, "Draft", org.ID)
	got, err := svc.GetPublished(context.TODO(), "acme", draft.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	live := createContent(t, svc, "Live", org.ID)
	_, err = svc.Publish(context.TODO(), live.ID, org.ID)
	require.NoError(t, err)

	// cached while published, gone after unpublish
	got, err = svc.GetPublished(context.TODO(), "acme", live.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	_, err = svc.Unpublish(context.TODO(), live.ID, org.ID)
	require.NoError(t, err)
	got, err = svc.GetPublished(context.TODO(), "acme", live.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetPublished(context.TODO(), other.Slug, live.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetPublished(context.TODO(), "missing", live.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestContentService_ListPublished(t *testing.T) {
	tester.Setup()
	t.Cleanup(tester.RemoveDBFile)

	redis, _ := tester.Redis(t)
	s := store.NewGormStore(tester.TestDB())
	svc := NewContentService(s, redis, &queue.Recorder{})
	org := newTestOrganization(t, s, "acme")

	createContent(t, svc, "Draft", org.ID)
	live := createContent(t, svc, "Live", org.ID)
	_, err := svc.Publish(context.TODO(), live.ID, org.ID)
	require.NoError(t, err)

	page, err := svc.ListPublished(context.TODO(), "acme", ListFilter{Status: model.ContentStatusDraft}, Page{}, Sort{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, live.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Pagination.Total)

	// served from cache, then refreshed once a write invalidates it
	page, err = svc.ListPublished(context.TODO(), "acme", ListFilter{}, Page{}, Sort{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	second := createContent(t, svc, "Second", org.ID)
	_, err = svc.Publish(context.TODO(), second.ID, org.ID)
	require.NoError(t, err)

	page, err = svc.ListPublished(context.TODO(), "acme", ListFilter{}, Page{}, Sort{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Pagination.Total)

	page, err = svc.ListPublished(context.TODO(), "missing", ListFilter{}, Page{}, Sort{})
	assert.NoError(t, err)
	assert.Nil(t, page)
}

func TestContentService_GetPublishedIgnoresStaleFill(t *testing.T) {
	tester.Setup()
	t.Cleanup(tester.RemoveDBFile)

	redis, _ := tester.Redis(t)
	s := store.NewGormStore(tester.TestDB())
	svc := NewContentService(s, redis, &queue.Recorder{})
	org := newTestOrganization(t, s, "acme")

	live := createContent(t, svc, "Live", org.ID)
	_, err := svc.Publish(context.TODO(), live.ID, org.ID)
	require.NoError(t, err)

	// a reader misses the cache and loads the row while it is still published
	_, gen, ok := redis.GetContent(context.TODO(), org.ID, live.ID)
	require.False(t, ok)
	stale, err := s.GetContent(context.TODO(), org.ID, live.ID)
	require.NoError(t, err)

	_, err = svc.Unpublish(context.TODO(), live.ID, org.ID)
	require.NoError(t, err)

	// its fill lands after the unpublish invalidated the organization
	redis.SetContent(context.TODO(), gen, stale)

	got, err := svc.GetPublished(context.TODO(), "acme", live.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	// a stale copy under the current generation is still refused, and no view is counted
	_, current, _ := redis.GetContent(context.TODO(), org.ID, live.ID)
	redis.SetContent(context.TODO(), current, stale)

	got, err = svc.GetPublished(context.TODO(), "acme", live.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	stored, err := s.GetContent(context.TODO(), org.ID, live.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContentStatusDraft, stored.Status)
	assert.Equal(t, int64(0), stored.ViewCount)
}
