package revision

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/kado/internal/model"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
)

// Service keeps an entry's live body and its content-addressed revision
// history in step. One Service exists per content kind.
type Service struct {
	kind      string
	entries   EntryStore
	revisions RevisionStore
	hasher    Hasher
	onChange  func(ctx context.Context, kind string)
	locks     *keyedMutex
}

type Option func(*Service)

func WithHasher(h Hasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithOnChange registers a callback fired after every successful write.
func WithOnChange(fn func(ctx context.Context, kind string)) Option {
	return func(s *Service) {
		s.onChange = fn
	}
}

func NewService(kind string, entries EntryStore, revisions RevisionStore, opts ...Option) *Service {
	s := &Service{
		kind:      kind,
		entries:   entries,
		revisions: revisions,
		hasher:    Fingerprint,
		locks:     newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Kind() string {
	return s.kind
}

// SaveInput holds the submitted fields; nil means the field was not sent.
type SaveInput struct {
	Title   *string
	URI     *string
	Active  *bool
	Content *string
	HTML    *string
}

type SaveResult struct {
	Entry         *model.Entry `json:"entry"`
	IsNew         bool         `json:"is_new"`
	IsNewRevision bool         `json:"is_new_revision"`
}

// Save creates (id <= 0 or unknown id) or updates an entry. A revision is
// minted only when the body fingerprint is new for the entry; the live body
// is overwritten either way.
func (s *Service) Save(ctx context.Context, id int64, in SaveInput) (*SaveResult, error) {
	if id > 0 {
		unlock := s.locks.Lock(id)
		defer unlock()
	}
	var entry *model.Entry
	if id > 0 {
		found, err := s.entries.GetByID(ctx, id)
		if err != nil && !appErr.IsNotFound(err) {
			return nil, fmt.Errorf("load %s entry: %w", s.kind, err)
		}
		entry = found
	}
	isNew := entry == nil
	if isNew {
		if stringValue(in.Title) == "" {
			return nil, appErr.Invalid(s.kind + " title is required")
		}
		entry = &model.Entry{}
	}
	if title := stringValue(in.Title); title != "" {
		entry.Title = title
	}
	if uri := stringValue(in.URI); uri != "" {
		entry.URI = uri
	}
	entry.Active = in.Active != nil && *in.Active

	content := stringValue(in.Content)
	html := stringValue(in.HTML)
	hash := s.hasher(content, html)

	if isNew {
		if err := s.entries.Create(ctx, entry); err != nil {
			return nil, fmt.Errorf("create %s entry: %w", s.kind, err)
		}
	}
	isNewRevision, err := s.ensureRevision(ctx, entry.ID, content, html, hash)
	if err != nil {
		return nil, err
	}
	entry.Content = content
	entry.HTML = html
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update %s entry: %w", s.kind, err)
	}
	logutil.GetLogger(ctx).Info("entry saved",
		zap.String("kind", s.kind),
		zap.Int64("id", entry.ID),
		zap.Bool("is_new", isNew),
		zap.Bool("is_new_revision", isNewRevision),
		zap.String("hash", hash),
	)
	s.changed(ctx)
	return &SaveResult{Entry: entry, IsNew: isNew, IsNewRevision: isNewRevision}, nil
}

func (s *Service) ensureRevision(ctx context.Context, parentID int64, content, html, hash string) (bool, error) {
	_, err := s.revisions.FindByHash(ctx, parentID, hash)
	if err == nil {
		return false, nil
	}
	if !appErr.IsNotFound(err) {
		return false, fmt.Errorf("find %s revision: %w", s.kind, err)
	}
	rev := &model.Revision{
		ParentID: parentID,
		Content:  content,
		HTML:     html,
		Hash:     hash,
	}
	if err := s.revisions.Create(ctx, rev); err != nil {
		if !appErr.IsConflict(err) {
			return false, fmt.Errorf("create %s revision: %w", s.kind, err)
		}
		// another writer stored the same body first
		if _, err := s.revisions.FindByHash(ctx, parentID, hash); err != nil {
			return false, fmt.Errorf("reload %s revision: %w", s.kind, err)
		}
		logutil.GetLogger(ctx).Debug("revision conflict resolved by reuse",
			zap.String("kind", s.kind), zap.Int64("parent_id", parentID), zap.String("hash", hash))
		return false, nil
	}
	return true, nil
}

// Revert copies a stored revision body onto its entry. Metadata is left
// untouched and no revision is created.
func (s *Service) Revert(ctx context.Context, entryID, revisionID int64) (*model.Entry, error) {
	if entryID > 0 {
		unlock := s.locks.Lock(entryID)
		defer unlock()
	}
	rev, err := s.revisions.GetByID(ctx, revisionID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.NotFound("revision not found")
		}
		return nil, fmt.Errorf("load %s revision: %w", s.kind, err)
	}
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.NotFound(s.kind + " not found")
		}
		return nil, fmt.Errorf("load %s entry: %w", s.kind, err)
	}
	if rev.ParentID != entry.ID {
		return nil, appErr.NotFound("revision not found")
	}
	entry.Content = rev.Content
	entry.HTML = rev.HTML
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update %s entry: %w", s.kind, err)
	}
	logutil.GetLogger(ctx).Info("entry reverted",
		zap.String("kind", s.kind), zap.Int64("id", entry.ID), zap.Int64("revision_id", rev.ID))
	s.changed(ctx)
	return entry, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.EntryDetail, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	revisions, err := s.revisions.ListByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.EntryDetail{Entry: *entry, Revisions: revisions}, nil
}

func (s *Service) GetRevision(ctx context.Context, id int64) (*model.Revision, error) {
	return s.revisions.GetByID(ctx, id)
}

// GetByURI returns the published entry mounted at uri.
func (s *Service) GetByURI(ctx context.Context, uri string) (*model.Entry, error) {
	if uri == "" {
		return nil, appErr.ErrNotFound
	}
	return s.entries.GetActiveByURI(ctx, uri)
}

func (s *Service) List(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error) {
	return s.entries.List(ctx, filter)
}

// Remove deletes every entry whose id is positive together with its
// revisions. Other ids are skipped without error.
func (s *Service) Remove(ctx context.Context, ids []int64) (int, error) {
	removed := 0
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if err := s.removeOne(ctx, id); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("entries removed", zap.String("kind", s.kind), zap.Int("count", removed))
		s.changed(ctx)
	}
	return removed, nil
}

func (s *Service) removeOne(ctx context.Context, id int64) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	if err := s.revisions.DeleteByParent(ctx, id); err != nil {
		return fmt.Errorf("delete %s revisions: %w", s.kind, err)
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s entry: %w", s.kind, err)
	}
	return nil
}

// PurgeOrphans drops revisions whose entry no longer exists.
func (s *Service) PurgeOrphans(ctx context.Context) (int64, error) {
	return s.revisions.DeleteOrphans(ctx)
}

func (s *Service) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx, s.kind)
	}
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
