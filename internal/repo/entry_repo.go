package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/kado/internal/model"
	"github.com/xxxsen/kado/internal/pkg/dbutil"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
	"github.com/xxxsen/kado/internal/pkg/timeutil"
)

var entryColumns = []string{"id", "title", "uri", "content", "html", "active", "created_at", "updated_at"}

var orderableColumns = map[string]struct{}{
	"id":         {},
	"title":      {},
	"uri":        {},
	"active":     {},
	"created_at": {},
	"updated_at": {},
}

const defaultEntryOrder = "id desc"

type EntryRepo struct {
	db    *sql.DB
	table string
}

func NewEntryRepo(db *sql.DB, tables Tables) *EntryRepo {
	return &EntryRepo{db: db, table: tables.Entries}
}

func (r *EntryRepo) Create(ctx context.Context, entry *model.Entry) error {
	now := timeutil.NowUnix()
	data := map[string]interface{}{
		"title":      entry.Title,
		"uri":        entry.URI,
		"content":    entry.Content,
		"html":       entry.HTML,
		"active":     entry.Active,
		"created_at": now,
		"updated_at": now,
	}
	sqlStr, args, err := builder.BuildInsert(r.table, []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr+" RETURNING id", args)
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&entry.ID); err != nil {
		return err
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return nil
}

func (r *EntryRepo) Update(ctx context.Context, entry *model.Entry) error {
	now := timeutil.NowUnix()
	where := map[string]interface{}{
		"id": entry.ID,
	}
	update := map[string]interface{}{
		"title":      entry.Title,
		"uri":        entry.URI,
		"content":    entry.Content,
		"html":       entry.HTML,
		"active":     entry.Active,
		"updated_at": now,
	}
	sqlStr, args, err := builder.BuildUpdate(r.table, where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	entry.UpdatedAt = now
	return nil
}

func (r *EntryRepo) GetByID(ctx context.Context, id int64) (*model.Entry, error) {
	return r.getOne(ctx, map[string]interface{}{"id": id})
}

// GetActiveByURI returns the most recently updated active entry mounted at uri.
func (r *EntryRepo) GetActiveByURI(ctx context.Context, uri string) (*model.Entry, error) {
	return r.getOne(ctx, map[string]interface{}{
		"uri":      uri,
		"active":   true,
		"_orderby": "updated_at desc, id desc",
		"_limit":   []uint{0, 1},
	})
}

func (r *EntryRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Entry, error) {
	sqlStr, args, err := builder.BuildSelect(r.table, where, entryColumns)
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
	var entry model.Entry
	if err := scanEntry(rows, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepo) List(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error) {
	where := map[string]interface{}{
		"_orderby": SanitizeOrderBy(filter.OrderBy),
	}
	if filter.Active != nil {
		where["active"] = *filter.Active
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		where["_custom_search"] = builder.Custom("(title ILIKE ? OR uri ILIKE ?)", like, like)
	}
	if filter.Limit > 0 {
		where["_limit"] = []uint{filter.Offset, filter.Limit}
	}
	sqlStr, args, err := builder.BuildSelect(r.table, where, entryColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	entries := make([]model.Entry, 0)
	for rows.Next() {
		var entry model.Entry
		if err := scanEntry(rows, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *EntryRepo) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := builder.BuildDelete(r.table, map[string]interface{}{"id": id})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func scanEntry(rows *sql.Rows, entry *model.Entry) error {
	return rows.Scan(&entry.ID, &entry.Title, &entry.URI, &entry.Content, &entry.HTML, &entry.Active, &entry.CreatedAt, &entry.UpdatedAt)
}

// SanitizeOrderBy accepts "column [asc|desc]" for known columns and falls
// back to the default order for anything else.
func SanitizeOrderBy(orderBy string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(orderBy)))
	if len(fields) == 0 || len(fields) > 2 {
		return defaultEntryOrder
	}
	if _, ok := orderableColumns[fields[0]]; !ok {
		return defaultEntryOrder
	}
	dir := "asc"
	if len(fields) == 2 {
		if fields[1] != "asc" && fields[1] != "desc" {
			return defaultEntryOrder
		}
		dir = fields[1]
	}
	return fields[0] + " " + dir
}
