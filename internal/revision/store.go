package revision

import (
	"context"

	"github.com/xxxsen/kado/internal/model"
)

// EntryStore persists live entries. GetByID and GetActiveByURI return
// errors.ErrNotFound when nothing matches. Delete of a missing id is a no-op.
type EntryStore interface {
	GetByID(ctx context.Context, id int64) (*model.Entry, error)
	// GetActiveByURI returns the most recently updated active entry at uri.
	GetActiveByURI(ctx context.Context, uri string) (*model.Entry, error)
	Create(ctx context.Context, entry *model.Entry) error
	Update(ctx context.Context, entry *model.Entry) error
	List(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error)
	Delete(ctx context.Context, id int64) error
}

// RevisionStore persists revisions. Create returns errors.ErrConflict when a
// revision with the same (ParentID, Hash) already exists.
type RevisionStore interface {
	GetByID(ctx context.Context, id int64) (*model.Revision, error)
	FindByHash(ctx context.Context, parentID int64, hash string) (*model.Revision, error)
	Create(ctx context.Context, rev *model.Revision) error
	ListByParent(ctx context.Context, parentID int64) ([]model.Revision, error)
	DeleteByParent(ctx context.Context, parentID int64) error
	DeleteOrphans(ctx context.Context) (int64, error)
}
