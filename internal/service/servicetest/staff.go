// Package servicetest provides in-memory stores for service and handler tests.
package servicetest

import (
	"context"
	"sync"

	"github.com/xxxsen/kado/internal/model"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
)

type StaffStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*model.Staff
}

func NewStaffStore() *StaffStore {
	return &StaffStore{rows: make(map[int64]*model.Staff)}
}

func (m *StaffStore) Create(_ context.Context, staff *model.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Email == staff.Email {
			return appErr.ErrConflict
		}
	}
	m.nextID++
	staff.ID = m.nextID
	cp := *staff
	m.rows[staff.ID] = &cp
	return nil
}

func (m *StaffStore) GetByEmail(_ context.Context, email string) (*model.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Email == email {
			cp := *row
			return &cp, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (m *StaffStore) GetByID(_ context.Context, id int64) (*model.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *StaffStore) List(context.Context) ([]model.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Staff, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (m *StaffStore) RecordLogin(_ context.Context, id, now int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id].LoginCount++
	m.rows[id].DateSeen = now
	return nil
}

func (m *StaffStore) RecordLoginFailure(_ context.Context, id, now int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id].LoginFailCount++
	m.rows[id].DateFail = now
	return nil
}

func (m *StaffStore) UpdatePassword(_ context.Context, id int64, hash string, now int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return appErr.ErrNotFound
	}
	row.PasswordHash = hash
	row.DatePassword = now
	return nil
}

func (m *StaffStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// SetActive flips the active flag of a stored account.
func (m *StaffStore) SetActive(id int64, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[id]; ok {
		row.Active = active
	}
}

func (m *StaffStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
