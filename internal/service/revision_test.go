package service

import (
	"context"
	"testing"

	"github.com/emrgen/cms/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentService_Revisions(t *testing.T) {
	svc, _ := newTestContentService(t)
	orgID := uuid.New().String()
	editor := uuid.New().String()
	content := createContent(t, svc, "First Title", orgID)

	for _, title := range []string{"Second Title", "Third Title"} {
		title := title
		_, err := svc.Update(context.TODO(), content.ID, UpdateContentParams{Title: &title, UpdatedBy: editor}, orgID)
		require.NoError(t, err)
	}

	revisions, err := svc.ListRevisions(context.TODO(), content.ID, orgID)
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	assert.Equal(t, int64(1), revisions[0].Version)
	assert.Equal(t, "Second Title", revisions[0].Title)
	assert.Equal(t, int64(0), revisions[1].Version)
	assert.Equal(t, "first-title", revisions[1].Slug)
	assert.Equal(t, editor, revisions[1].UpdatedBy)

	revision, err := svc.GetRevision(context.TODO(), content.ID, 0, orgID)
	require.NoError(t, err)
	require.NotNil(t, revision)
	assert.Equal(t, "First Title", revision.Title)

	missing, err := svc.GetRevision(context.TODO(), content.ID, 42, orgID)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	// revisions are scoped to the organization too
	foreign, err := svc.ListRevisions(context.TODO(), content.ID, uuid.New().String())
	assert.NoError(t, err)
	assert.Nil(t, foreign)
}

func TestContentService_RestoreRevision(t *testing.T) {
	svc, _ := newTestContentService(t)
	orgID := uuid.New().String()
	content := createContent(t, svc, "Original", orgID)
	_, err := svc.Publish(context.TODO(), content.ID, orgID)
	require.NoError(t, err)

	title := "Rewritten"
	body := "<p>new</p>"
	_, err = svc.Update(context.TODO(), content.ID, UpdateContentParams{Title: &title, Body: &body}, orgID)
	require.NoError(t, err)

	restored, err := svc.RestoreRevision(context.TODO(), content.ID, 1, orgID, "u1")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "Original", restored.Title)
	assert.Equal(t, "original", restored.Slug)
	assert.Equal(t, "<p>x</p>", restored.Body)
	assert.Equal(t, model.ContentStatusPublished, restored.Status)
	assert.Equal(t, int64(3), restored.Version)

	missing, err := svc.RestoreRevision(context.TODO(), content.ID, 99, orgID, "u1")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
