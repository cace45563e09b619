package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/kado/internal/model"
	"github.com/xxxsen/kado/internal/pkg/dbutil"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
	"github.com/xxxsen/kado/internal/pkg/timeutil"
)

var revisionColumns = []string{"id", "parent_id", "content", "html", "hash", "created_at"}

type RevisionRepo struct {
	db     *sql.DB
	tables Tables
}

func NewRevisionRepo(db *sql.DB, tables Tables) *RevisionRepo {
	return &RevisionRepo{db: db, tables: tables}
}

func (r *RevisionRepo) Create(ctx context.Context, rev *model.Revision) error {
	now := timeutil.NowUnix()
	data := map[string]interface{}{
		"parent_id":  rev.ParentID,
		"content":    rev.Content,
		"html":       rev.HTML,
		"hash":       rev.Hash,
		"created_at": now,
	}
	sqlStr, args, err := builder.BuildInsert(r.tables.Revisions, []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr+" RETURNING id", args)
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&rev.ID); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	rev.CreatedAt = now
	return nil
}

func (r *RevisionRepo) GetByID(ctx context.Context, id int64) (*model.Revision, error) {
	return r.getOne(ctx, map[string]interface{}{"id": id})
}

func (r *RevisionRepo) FindByHash(ctx context.Context, parentID int64, hash string) (*model.Revision, error) {
	return r.getOne(ctx, map[string]interface{}{
		"parent_id": parentID,
		"hash":      hash,
	})
}

func (r *RevisionRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Revision, error) {
	sqlStr, args, err := builder.BuildSelect(r.tables.Revisions, where, revisionColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, appErr.ErrNotFound
	}
	var rev model.Revision
	if err := rows.Scan(&rev.ID, &rev.ParentID, &rev.Content, &rev.HTML, &rev.Hash, &rev.CreatedAt); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *RevisionRepo) ListByParent(ctx context.Context, parentID int64) ([]model.Revision, error) {
	where := map[string]interface{}{
		"parent_id": parentID,
		"_orderby":  "id desc",
	}
	sqlStr, args, err := builder.BuildSelect(r.tables.Revisions, where, revisionColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	revisions := make([]model.Revision, 0)
	for rows.Next() {
		var rev model.Revision
		if err := rows.Scan(&rev.ID, &rev.ParentID, &rev.Content, &rev.HTML, &rev.Hash, &rev.CreatedAt); err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

func (r *RevisionRepo) DeleteByParent(ctx context.Context, parentID int64) error {
	sqlStr, args, err := builder.BuildDelete(r.tables.Revisions, map[string]interface{}{"parent_id": parentID})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *RevisionRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	sqlStr := fmt.Sprintf(`
		DELETE FROM %s
		WHERE NOT EXISTS (
			SELECT 1 FROM %s WHERE %s.id = %s.parent_id
		)
	`, r.tables.Revisions, r.tables.Entries, r.tables.Entries, r.tables.Revisions)
	result, err := r.db.ExecContext(ctx, sqlStr)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
