package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/kado/internal/model"
	"github.com/xxxsen/kado/internal/pkg/errcode"
)

func TestLoginRejectsBadPassword(t *testing.T) {
	env := setupRouter(t, 0)
	res := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": testEmail, "password": "nope"})
	require.Equal(t, errcode.ErrUnauthorized, res.Code)
}

func TestLoginRateLimited(t *testing.T) {
	env := setupRouter(t, time.Hour)
	res := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": testEmail, "password": testPassword})
	require.Equal(t, errcode.ErrTooMany, res.Code)
}

func TestStaffRoutes(t *testing.T) {
	env := setupRouter(t, 0)

	res := env.authed(t, http.MethodPost, "/api/v1/staff", map[string]string{"email": "ed@example.com", "password": "pw", "name": "Ed"})
	require.Equal(t, 0, res.Code, res.Msg)
	var created model.Staff
	require.NoError(t, json.Unmarshal(res.Data, &created))
	require.NotContains(t, string(res.Data), "password_hash")

	res = env.authed(t, http.MethodGet, "/api/v1/staff", nil)
	var all []model.Staff
	require.NoError(t, json.Unmarshal(res.Data, &all))
	require.Len(t, all, 2)

	res = env.authed(t, http.MethodPut, "/api/v1/staff/password", map[string]string{"old_password": testPassword, "new_password": "fresh"})
	require.Equal(t, 0, res.Code, res.Msg)
	res = env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": testEmail, "password": "fresh"})
	require.Equal(t, 0, res.Code)

	res = env.authed(t, http.MethodDelete, "/api/v1/staff?id="+itoa(created.ID), nil)
	require.Equal(t, 0, res.Code)
	res = env.authed(t, http.MethodGet, "/api/v1/staff", nil)
	require.NoError(t, json.Unmarshal(res.Data, &all))
	require.Len(t, all, 1)
}
