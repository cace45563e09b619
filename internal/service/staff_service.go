package service

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/kado/internal/model"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
	"github.com/xxxsen/kado/internal/pkg/jwt"
	"github.com/xxxsen/kado/internal/pkg/password"
	"github.com/xxxsen/kado/internal/pkg/timeutil"
)

const defaultStaffName = "Kado Admin"

var staffNamePattern = regexp.MustCompile(`(?i)^[a-z0-9\s]+$`)

type StaffStore interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByEmail(ctx context.Context, email string) (*model.Staff, error)
	GetByID(ctx context.Context, id int64) (*model.Staff, error)
	List(ctx context.Context) ([]model.Staff, error)
	RecordLogin(ctx context.Context, id, now int64) error
	RecordLoginFailure(ctx context.Context, id, now int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string, now int64) error
	Delete(ctx context.Context, id int64) error
}

type StaffService struct {
	staff     StaffStore
	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewStaffService(staff StaffStore, secret []byte, ttl time.Duration) *StaffService {
	return &StaffService{staff: staff, jwtSecret: secret, jwtTTL: ttl}
}

type StaffCreateInput struct {
	Email    string
	Password string
	Name     string
}

func (s *StaffService) Create(ctx context.Context, input StaffCreateInput) (*model.Staff, error) {
	email := strings.TrimSpace(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, appErr.Invalid("invalid email")
	}
	if input.Password == "" {
		return nil, appErr.Invalid("password required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = defaultStaffName
	}
	if !staffNamePattern.MatchString(name) {
		return nil, appErr.Invalid("name may only contain letters, digits and spaces")
	}
	hash := input.Password
	if !password.IsHashed(hash) {
		var err error
		hash, err = password.Hash(input.Password)
		if err != nil {
			return nil, err
		}
	}
	now := timeutil.NowUnix()
	staff := &model.Staff{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Active:       true,
		DatePassword: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// Login checks credentials and returns a signed token. Failed attempts are
// counted against the account.
func (s *StaffService) Login(ctx context.Context, email, plainPassword string) (*model.Staff, string, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("email", email))
	staff, err := s.staff.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, "", appErr.Unauthorized("invalid login")
		}
		return nil, "", err
	}
	if !staff.Active {
		logger.Warn("login attempt on inactive staff")
		return nil, "", appErr.Unauthorized("invalid login")
	}
	now := timeutil.NowUnix()
	if err := password.Compare(staff.PasswordHash, plainPassword); err != nil {
		if recErr := s.staff.RecordLoginFailure(ctx, staff.ID, now); recErr != nil {
			logger.Error("record login failure failed", zap.Error(recErr))
		}
		return nil, "", appErr.Unauthorized("invalid login")
	}
	if err := s.staff.RecordLogin(ctx, staff.ID, now); err != nil {
		return nil, "", err
	}
	staff.LoginCount++
	staff.DateSeen = now
	token, err := jwt.GenerateToken(staff.ID, staff.Email, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	logger.Info("staff logged in", zap.Int64("staff_id", staff.ID))
	return staff, token, nil
}

func (s *StaffService) Get(ctx context.Context, id int64) (*model.Staff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *StaffService) List(ctx context.Context) ([]model.Staff, error) {
	return s.staff.List(ctx)
}

func (s *StaffService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return appErr.Invalid("password required")
	}
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := password.Compare(staff.PasswordHash, oldPassword); err != nil {
		return appErr.Unauthorized("invalid password")
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.staff.UpdatePassword(ctx, id, hash, timeutil.NowUnix())
}

// Remove deletes staff accounts by id; non-positive ids are ignored.
func (s *StaffService) Remove(ctx context.Context, ids []int64) (int, error) {
	removed := 0
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if err := s.staff.Delete(ctx, id); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
