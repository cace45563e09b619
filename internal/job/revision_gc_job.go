package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type orphanPurger interface {
	Kind() string
	PurgeOrphans(ctx context.Context) (int64, error)
}

// RevisionGCJob removes revisions whose parent entry no longer exists.
type RevisionGCJob struct {
	purger orphanPurger
}

func NewRevisionGCJob(purger orphanPurger) *RevisionGCJob {
	return &RevisionGCJob{purger: purger}
}

func (j *RevisionGCJob) Name() string {
	return "revision_gc_" + j.purger.Kind()
}

func (j *RevisionGCJob) Run(ctx context.Context) error {
	removed, err := j.purger.PurgeOrphans(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("orphan revisions purged",
			zap.String("kind", j.purger.Kind()), zap.Int64("removed", removed))
	}
	return nil
}
