// Package revisiontest provides in-memory stores satisfying the revision
// store interfaces.
package revisiontest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xxxsen/kado/internal/model"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
	"github.com/xxxsen/kado/internal/pkg/timeutil"
)

type EntryStore struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]model.Entry
	writes  int
}

type RevisionStore struct {
	mu        sync.Mutex
	nextID    int64
	revisions map[int64]model.Revision
	entries   *EntryStore
}

// New returns an entry store and a revision store bound to it.
func New() (*EntryStore, *RevisionStore) {
	entries := &EntryStore{entries: make(map[int64]model.Entry)}
	return entries, &RevisionStore{revisions: make(map[int64]model.Revision), entries: entries}
}

func (s *EntryStore) GetByID(_ context.Context, id int64) (*model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &entry, nil
}

func (s *EntryStore) GetActiveByURI(_ context.Context, uri string) (*model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *model.Entry
	for _, entry := range s.entries {
		if entry.URI != uri || !entry.Active {
			continue
		}
		if found == nil || entry.UpdatedAt > found.UpdatedAt || (entry.UpdatedAt == found.UpdatedAt && entry.ID > found.ID) {
			e := entry
			found = &e
		}
	}
	if found == nil {
		return nil, appErr.ErrNotFound
	}
	return found, nil
}

func (s *EntryStore) Create(_ context.Context, entry *model.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := timeutil.NowUnix()
	entry.ID = s.nextID
	entry.CreatedAt = now
	entry.UpdatedAt = now
	s.entries[entry.ID] = *entry
	s.writes++
	return nil
}

func (s *EntryStore) Update(_ context.Context, entry *model.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.ID]; !ok {
		return appErr.ErrNotFound
	}
	entry.UpdatedAt = timeutil.NowUnix()
	s.entries[entry.ID] = *entry
	s.writes++
	return nil
}

func (s *EntryStore) List(_ context.Context, filter model.EntryFilter) ([]model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Entry, 0, len(s.entries))
	query := strings.ToLower(filter.Query)
	for _, entry := range s.entries {
		if filter.Active != nil && entry.Active != *filter.Active {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(entry.Title), query) && !strings.Contains(strings.ToLower(entry.URI), query) {
			continue
		}
		out = append(out, entry)
	}
	asc := strings.HasSuffix(strings.ToLower(filter.OrderBy), " asc")
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	if filter.Offset > 0 {
		if int(filter.Offset) >= len(out) {
			return []model.Entry{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && int(filter.Limit) < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *EntryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; ok {
		delete(s.entries, id)
		s.writes++
	}
	return nil
}

// Writes counts successful mutations.
func (s *EntryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *EntryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *EntryStore) exists(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

func (s *RevisionStore) GetByID(_ context.Context, id int64) (*model.Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rev, ok := s.revisions[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &rev, nil
}

func (s *RevisionStore) FindByHash(_ context.Context, parentID int64, hash string) (*model.Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rev := range s.revisions {
		if rev.ParentID == parentID && rev.Hash == hash {
			r := rev
			return &r, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *RevisionStore) Create(_ context.Context, rev *model.Revision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.revisions {
		if existing.ParentID == rev.ParentID && existing.Hash == rev.Hash {
			return appErr.ErrConflict
		}
	}
	s.nextID++
	rev.ID = s.nextID
	rev.CreatedAt = timeutil.NowUnix()
	s.revisions[rev.ID] = *rev
	return nil
}

func (s *RevisionStore) ListByParent(_ context.Context, parentID int64) ([]model.Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Revision, 0)
	for _, rev := range s.revisions {
		if rev.ParentID == parentID {
			out = append(out, rev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *RevisionStore) DeleteByParent(_ context.Context, parentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rev := range s.revisions {
		if rev.ParentID == parentID {
			delete(s.revisions, id)
		}
	}
	return nil
}

func (s *RevisionStore) DeleteOrphans(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, rev := range s.revisions {
		if s.entries != nil && s.entries.exists(rev.ParentID) {
			continue
		}
		delete(s.revisions, id)
		removed++
	}
	return removed, nil
}

// Insert stores rev as-is, bypassing uniqueness checks.
func (s *RevisionStore) Insert(rev model.Revision) model.Revision {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	rev.ID = s.nextID
	s.revisions[rev.ID] = rev
	return rev
}

func (s *RevisionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revisions)
}
