package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/emrgen/cms/internal/compress"
	"github.com/emrgen/cms/internal/model"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, encoder compress.Compress) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisFromClient(client, encoder, time.Minute), mr
}

func TestRedis_ContentRoundTrip(t *testing.T) {
	for _, name := range []string{"nop", "gzip", "lz4"} {
		t.Run(name, func(t *testing.T) {
			encoder, err := compress.New(name)
			require.NoError(t, err)
			r, _ := newTestRedis(t, encoder)
			ctx := context.Background()

			content := &model.Content{
				ID:             "c1",
				OrganizationID: "o1",
				Title:          "Hello",
				Slug:           "hello",
				Status:         model.ContentStatusPublished,
				Tags:           []string{"go"},
			}

			_, gen, ok := r.GetContent(ctx, "o1", "c1")
			assert.False(t, ok)

			r.SetContent(ctx, gen, content)
			got, _, ok := r.GetContent(ctx, "o1", "c1")
			require.True(t, ok)
			assert.Equal(t, content.Title, got.Title)
			assert.Equal(t, content.Tags, got.Tags)
		})
	}
}

func TestRedis_InvalidateDropsOrganizationOnly(t *testing.T) {
	r, _ := newTestRedis(t, compress.NewNop())
	ctx := context.Background()

	r.SetList(ctx, "o1", "page=1", 0, &ContentList{Total: 1, Items: []*model.Content{{ID: "a"}}})
	r.SetList(ctx, "o2", "page=1", 0, &ContentList{Total: 2})

	r.Invalidate(ctx, "o1")

	_, _, ok := r.GetList(ctx, "o1", "page=1")
	assert.False(t, ok)

	list, _, ok := r.GetList(ctx, "o2", "page=1")
	require.True(t, ok)
	assert.Equal(t, int64(2), list.Total)
}

func TestRedis_ExpiresAfterTTL(t *testing.T) {
	r, mr := newTestRedis(t, compress.NewNop())
	ctx := context.Background()

	r.SetContent(ctx, 0, &model.Content{ID: "c1", OrganizationID: "o1"})
	mr.FastForward(2 * time.Minute)

	_, _, ok := r.GetContent(ctx, "o1", "c1")
	assert.False(t, ok)
}

func TestRedis_UnavailableIsAMiss(t *testing.T) {
	r, mr := newTestRedis(t, compress.NewNop())
	mr.Close()

	_, gen, ok := r.GetContent(context.Background(), "o1", "c1")
	assert.False(t, ok)
	assert.Equal(t, NoGeneration, gen)
	r.Invalidate(context.Background(), "o1")
}

func TestRedis_FillAfterInvalidateIsDropped(t *testing.T) {
	r, _ := newTestRedis(t, compress.NewNop())
	ctx := context.Background()

	_, gen, ok := r.GetContent(ctx, "o1", "c1")
	require.False(t, ok)
	_, listGen, ok := r.GetList(ctx, "o1", "page=1")
	require.False(t, ok)

	// the item is unpublished while the reader is still loading it
	r.Invalidate(ctx, "o1")
	r.SetContent(ctx, gen, &model.Content{ID: "c1", OrganizationID: "o1", Status: model.ContentStatusPublished})
	r.SetList(ctx, "o1", "page=1", listGen, &ContentList{Total: 1})

	_, _, ok = r.GetContent(ctx, "o1", "c1")
	assert.False(t, ok)
	_, _, ok = r.GetList(ctx, "o1", "page=1")
	assert.False(t, ok)

	_, current, _ := r.GetContent(ctx, "o1", "c1")
	r.SetContent(ctx, current, &model.Content{ID: "c1", OrganizationID: "o1"})
	_, _, ok = r.GetContent(ctx, "o1", "c1")
	assert.True(t, ok)
}

func TestNop_NeverHits(t *testing.T) {
	n := NewNop()
	n.SetContent(context.Background(), 0, &model.Content{ID: "c1", OrganizationID: "o1"})
	_, gen, ok := n.GetContent(context.Background(), "o1", "c1")
	assert.False(t, ok)
	assert.Equal(t, NoGeneration, gen)
}
