package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/kado/internal/model"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
	"github.com/xxxsen/kado/internal/repo"
	"github.com/xxxsen/kado/internal/testutil"
)

func TestSanitizeOrderBy(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "id desc"},
		{in: "title", want: "title asc"},
		{in: "UPDATED_AT DESC", want: "updated_at desc"},
		{in: "created_at asc", want: "created_at asc"},
		{in: "password desc", want: "id desc"},
		{in: "id; drop table blogs", want: "id desc"},
		{in: "id sideways", want: "id desc"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, repo.SanitizeOrderBy(tt.in), tt.in)
	}
}

func TestEntryRepoCRUD(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	entries := repo.NewEntryRepo(db, repo.BlogTables)
	entry := &model.Entry{Title: "hello", URI: "hello"}
	require.NoError(t, entries.Create(ctx, entry))
	require.Positive(t, entry.ID)
	require.Positive(t, entry.CreatedAt)

	entry.Content = "body"
	entry.Active = true
	require.NoError(t, entries.Update(ctx, entry))

	fetched, err := entries.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, "body", fetched.Content)
	require.True(t, fetched.Active)

	byURI, err := entries.GetActiveByURI(ctx, "hello")
	require.NoError(t, err)
	require.Equal(t, entry.ID, byURI.ID)

	draft := &model.Entry{Title: "hello draft", URI: "hello"}
	require.NoError(t, entries.Create(ctx, draft))
	require.NoError(t, entries.Update(ctx, draft))
	byURI, err = entries.GetActiveByURI(ctx, "hello")
	require.NoError(t, err)
	require.Equal(t, entry.ID, byURI.ID)
	require.NoError(t, entries.Delete(ctx, draft.ID))

	active := true
	list, err := entries.List(ctx, model.EntryFilter{Active: &active, Query: "hel", Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, entries.Delete(ctx, entry.ID))
	require.NoError(t, entries.Delete(ctx, entry.ID))
	_, err = entries.GetByID(ctx, entry.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	err = entries.Update(ctx, entry)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestEntryTablesAreIsolated(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	blogs := repo.NewEntryRepo(db, repo.BlogTables)
	contents := repo.NewEntryRepo(db, repo.ContentTables)
	entry := &model.Entry{Title: "only blog"}
	require.NoError(t, blogs.Create(ctx, entry))

	list, err := contents.List(ctx, model.EntryFilter{})
	require.NoError(t, err)
	require.Empty(t, list)
}
