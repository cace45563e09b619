package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/kado/internal/model"
	"github.com/xxxsen/kado/internal/pkg/dbutil"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
)

const staffTable = "staff"

var staffColumns = []string{"id", "email", "password_hash", "name", "active", "login_count", "login_fail_count", "date_seen", "date_fail", "date_password", "created_at", "updated_at"}

type StaffRepo struct {
	db *sql.DB
}

func NewStaffRepo(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

func (r *StaffRepo) Create(ctx context.Context, staff *model.Staff) error {
	data := map[string]interface{}{
		"email":         staff.Email,
		"password_hash": staff.PasswordHash,
		"name":          staff.Name,
		"active":        staff.Active,
		"date_password": staff.DatePassword,
		"created_at":    staff.CreatedAt,
		"updated_at":    staff.UpdatedAt,
	}
	sqlStr, args, err := builder.BuildInsert(staffTable, []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr+" RETURNING id", args)
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&staff.ID); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *StaffRepo) GetByID(ctx context.Context, id int64) (*model.Staff, error) {
	return r.getOne(ctx, map[string]interface{}{"id": id})
}

func (r *StaffRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Staff, error) {
	sqlStr, args, err := builder.BuildSelect(staffTable, where, staffColumns)
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
	var staff model.Staff
	if err := scanStaff(rows, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepo) List(ctx context.Context) ([]model.Staff, error) {
	where := map[string]interface{}{
		"_orderby": "id asc",
	}
	sqlStr, args, err := builder.BuildSelect(staffTable, where, staffColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	staff := make([]model.Staff, 0)
	for rows.Next() {
		var s model.Staff
		if err := scanStaff(rows, &s); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func (r *StaffRepo) RecordLogin(ctx context.Context, id, now int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE staff SET login_count = login_count + 1, date_seen = $1, updated_at = $2 WHERE id = $3",
		now, now, id)
	return err
}

func (r *StaffRepo) RecordLoginFailure(ctx context.Context, id, now int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE staff SET login_fail_count = login_fail_count + 1, date_fail = $1, updated_at = $2 WHERE id = $3",
		now, now, id)
	return err
}

func (r *StaffRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string, now int64) error {
	where := map[string]interface{}{"id": id}
	update := map[string]interface{}{
		"password_hash": passwordHash,
		"date_password": now,
		"updated_at":    now,
	}
	sqlStr, args, err := builder.BuildUpdate(staffTable, where, update)
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
	return nil
}

func (r *StaffRepo) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := builder.BuildDelete(staffTable, map[string]interface{}{"id": id})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func scanStaff(rows *sql.Rows, s *model.Staff) error {
	return rows.Scan(&s.ID, &s.Email, &s.PasswordHash, &s.Name, &s.Active, &s.LoginCount, &s.LoginFailCount,
		&s.DateSeen, &s.DateFail, &s.DatePassword, &s.CreatedAt, &s.UpdatedAt)
}
