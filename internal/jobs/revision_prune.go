package jobs

import (
	"context"

	"github.com/emrgen/cms/internal/store"
	"github.com/sirupsen/logrus"
)

// RevisionPruneTask keeps only the newest revisions of every content item.
type RevisionPruneTask struct {
	revisions store.ContentRevisionStore
	keep      int
	cron      string
}

func NewRevisionPruneTask(schedule string, keep int, revisions store.ContentRevisionStore) *RevisionPruneTask {
	return &RevisionPruneTask{
		revisions: revisions,
		keep:      keep,
		cron:      schedule,
	}
}

func (r *RevisionPruneTask) Name() string {
	return "revision_prune"
}

func (r *RevisionPruneTask) Schedule() string {
	return r.cron
}

func (r *RevisionPruneTask) Run() {
	if r.keep <= 0 {
		return
	}

	removed, err := r.revisions.PruneContentRevisions(context.Background(), r.keep)
	if err != nil {
		logrus.Errorf("revision prune: %v", err)
		return
	}
	if removed > 0 {
		logrus.Infof("revision prune: removed %d revisions", removed)
	}
}
