package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/kado/internal/handler"
	"github.com/xxxsen/kado/internal/middleware"
	"github.com/xxxsen/kado/internal/pagecache"
	"github.com/xxxsen/kado/internal/render"
	"github.com/xxxsen/kado/internal/revision"
	"github.com/xxxsen/kado/internal/revision/revisiontest"
	"github.com/xxxsen/kado/internal/service"
	"github.com/xxxsen/kado/internal/service/servicetest"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "secret"
)

type testEnv struct {
	router http.Handler
	blogs  *revisiontest.EntryStore
	cache  *pagecache.Cache
	token  string
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T, loginWindow time.Duration) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cache := pagecache.New(16, time.Minute)
	blogEntries, blogRevisions := revisiontest.New()
	contentEntries, contentRevisions := revisiontest.New()
	blogs := revision.NewService("blog", blogEntries, blogRevisions, revision.WithOnChange(cache.Invalidate))
	contents := revision.NewService("content", contentEntries, contentRevisions, revision.WithOnChange(cache.Invalidate))

	jwtSecret := []byte("test-secret")
	staffService := service.NewStaffService(servicetest.NewStaffStore(), jwtSecret, time.Hour)
	_, err := staffService.Create(context.Background(), service.StaffCreateInput{Email: testEmail, Password: testPassword})
	require.NoError(t, err)

	renderer := render.New()
	deps := handler.RouterDeps{
		Auth:  handler.NewAuthHandler(staffService),
		Staff: handler.NewStaffHandler(staffService),
		Entries: []*handler.EntryHandler{
			handler.NewEntryHandler(blogs, renderer),
			handler.NewEntryHandler(contents, nil),
		},
		Public: []*handler.PublicHandler{
			handler.NewPublicHandler(blogs, cache),
			handler.NewPublicHandler(contents, cache),
		},
		JWTSecret:      jwtSecret,
		LoginRateLimit: loginWindow,
	}
	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	env := &testEnv{router: engine, blogs: blogEntries, cache: cache}
	res := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": testEmail, "password": testPassword})
	require.Equal(t, 0, res.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &login))
	require.NotEmpty(t, login.Token)
	env.token = login.Token
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) envelope {
	t.Helper()
	return e.send(t, method, path, body, "")
}

func (e *testEnv) authed(t *testing.T, method, path string, body interface{}) envelope {
	t.Helper()
	return e.send(t, method, path, body, e.token)
}

func (e *testEnv) send(t *testing.T, method, path string, body interface{}, token string) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var out envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}
