package dbutil

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalizeRebindsPlaceholders(t *testing.T) {
	query, args := Finalize("SELECT id FROM blogs WHERE active = ? AND uri = ?", []interface{}{true, "home"})
	require.Equal(t, "SELECT id FROM blogs WHERE active = $1 AND uri = $2", query)
	require.Equal(t, []interface{}{true, "home"}, args)
}

func TestFinalizeRewritesLimit(t *testing.T) {
	query, args := Finalize("SELECT id FROM blogs WHERE active = ? ORDER BY id desc LIMIT ?,?", []interface{}{true, uint(20), uint(10)})
	require.Equal(t, "SELECT id FROM blogs WHERE active = $1 ORDER BY id desc LIMIT $2 OFFSET $3", query)
	require.Equal(t, []interface{}{true, uint(10), uint(20)}, args)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.True(t, IsConflict(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.False(t, IsConflict(fmt.Errorf("boom")))
}

func TestFinalizeDropsBackticks(t *testing.T) {
	query, _ := Finalize("SELECT `id`,`title` FROM blogs WHERE (`uri`=?)", []interface{}{"home"})
	require.Equal(t, "SELECT id,title FROM blogs WHERE (uri=$1)", query)
}
