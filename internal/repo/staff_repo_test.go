package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/kado/internal/model"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
	"github.com/xxxsen/kado/internal/pkg/timeutil"
	"github.com/xxxsen/kado/internal/repo"
	"github.com/xxxsen/kado/internal/testutil"
)

func TestStaffRepoLifecycle(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	staffRepo := repo.NewStaffRepo(db)
	now := timeutil.NowUnix()
	staff := &model.Staff{Email: "admin@example.com", PasswordHash: "x", Name: "Admin", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, staffRepo.Create(ctx, staff))
	require.Positive(t, staff.ID)

	dup := &model.Staff{Email: "admin@example.com", PasswordHash: "y", CreatedAt: now, UpdatedAt: now}
	require.ErrorIs(t, staffRepo.Create(ctx, dup), appErr.ErrConflict)

	require.NoError(t, staffRepo.RecordLogin(ctx, staff.ID, now))
	require.NoError(t, staffRepo.RecordLoginFailure(ctx, staff.ID, now))
	require.NoError(t, staffRepo.UpdatePassword(ctx, staff.ID, "z", now))

	fetched, err := staffRepo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, fetched.LoginCount)
	require.Equal(t, 1, fetched.LoginFailCount)
	require.Equal(t, "z", fetched.PasswordHash)
	require.Equal(t, now, fetched.DatePassword)

	list, err := staffRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, staffRepo.Delete(ctx, staff.ID))
	_, err = staffRepo.GetByID(ctx, staff.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
