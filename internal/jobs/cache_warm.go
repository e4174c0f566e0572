package jobs

import (
	"context"

	"github.com/emrgen/cms/internal/service"
	"github.com/emrgen/cms/internal/store"
	"github.com/sirupsen/logrus"
)

// CacheWarmTask loads the first page of every organization's public listing so the first
// anonymous reader after an invalidation hits the cache.
type CacheWarmTask struct {
	content *service.ContentService
	orgs    store.OrganizationStore
	cron    string
}

func NewCacheWarmTask(schedule string, orgs store.OrganizationStore, content *service.ContentService) *CacheWarmTask {
	return &CacheWarmTask{
		content: content,
		orgs:    orgs,
		cron:    schedule,
	}
}

func (c *CacheWarmTask) Name() string {
	return "cache_warm"
}

func (c *CacheWarmTask) Schedule() string {
	return c.cron
}

func (c *CacheWarmTask) Run() {
	ctx := context.Background()

	orgs, err := c.orgs.ListOrganizations(ctx)
	if err != nil {
		logrus.Errorf("cache warm: list organizations: %v", err)
		return
	}

	warmed := 0
	for _, org := range orgs {
		_, err := c.content.ListPublished(ctx, org.Slug, service.ListFilter{}, service.Page{Page: 1}, service.DefaultSort)
		if err != nil {
			logrus.Errorf("cache warm: organization %s: %v", org.Slug, err)
			continue
		}
		warmed++
	}

	logrus.Debugf("cache warm: %d of %d organizations", warmed, len(orgs))
}
