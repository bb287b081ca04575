package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"share-system/config"
	"share-system/internal/service"
	"share-system/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 100, Window: time.Minute},
	}
	if mutate != nil {
		mutate(cfg)
	}

	orm := testutil.OpenDB(t)
	router := NewRouter(cfg, orm, service.NewServices(orm, cfg.Sharing))
	t.Cleanup(router.Close)
	return &testServer{t: t, handler: router.Handler(cfg.CORS.AllowedOrigins)}
}

func (s *testServer) do(method, path string, body interface{}, out interface{}) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	if out != nil {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

type userResp struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type errResp struct {
	Error string `json:"error"`
}

func (s *testServer) register(name string) userResp {
	s.t.Helper()
	var u userResp
	code := s.do(http.MethodPost, "/api/register", gin.H{
		"username": name, "email": name + "@example.com", "password": name + "-pw",
	}, &u)
	require.Equal(s.t, http.StatusOK, code)
	return u
}

func TestRouter_ExampleScenario(t *testing.T) {
	s := newTestServer(t, nil)

	admin := s.register("admin")
	bob := s.register("bob")
	assert.Equal(t, "admin@example.com", admin.Email)

	var login userResp
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "admin-pw"}, &login))
	assert.Equal(t, admin.ID, login.ID)

	var e errResp
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "nope"}, &e))
	assert.NotEmpty(t, e.Error)

	// 好友
	var created struct {
		ID uint `json:"id"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/friend-request", gin.H{"fromUserId": admin.ID, "toUsername": "bob"}, &created))

	var pending []map[string]interface{}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/friend-requests/%d", bob.ID), nil, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "admin", pending[0]["fromUsername"])
	assert.NotEmpty(t, pending[0]["createdAt"])

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, fmt.Sprintf("/api/friend-request/%d/accept", created.ID), nil, nil))

	var friends []map[string]interface{}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/friends/%d", bob.ID), nil, &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, "admin", friends[0]["username"])
	assert.Contains(t, friends[0], "friendshipId")

	// 分享
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/share", gin.H{
		"userId": admin.ID, "title": "Example", "content": "https://example.com", "sharedWith": []uint{bob.ID},
	}, &created))
	shareID := created.ID

	var mine []map[string]interface{}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/my-shares/%d", admin.ID), nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "link", mine[0]["type"])
	assert.Equal(t, []interface{}{float64(bob.ID)}, mine[0]["sharedWith"])

	var received []map[string]interface{}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/received-shares/%d", bob.ID), nil, &received))
	require.Len(t, received, 1)
	assert.Equal(t, "admin", received[0]["authorName"])

	// 收藏
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/folder-content", gin.H{
		"shareId": shareID, "folderIds": []string{"favorites"}, "userId": bob.ID,
	}, nil))

	var ids []uint
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/folder-content/%d/favorites", bob.ID), nil, &ids))
	assert.Equal(t, []uint{shareID}, ids)

	var folderIDs []string
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/share-folders/%d/%d", bob.ID, shareID), nil, &folderIDs))
	assert.Equal(t, []string{"favorites"}, folderIDs)

	var toggled struct {
		Success   bool     `json:"success"`
		FolderIDs []string `json:"folderIds"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/folder-content/toggle", gin.H{
		"shareId": shareID, "folderId": "important", "userId": bob.ID,
	}, &toggled))
	assert.True(t, toggled.Success)
	assert.Equal(t, []string{"favorites", "important"}, toggled.FolderIDs)

	var inFolder []map[string]interface{}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/folder-shares/%d/important", bob.ID), nil, &inFolder))
	require.Len(t, inFolder, 1)
	assert.Equal(t, "https://example.com", inFolder[0]["content"])

	// 非作者删除被拒绝，作者删除成功
	require.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, fmt.Sprintf("/api/shares/%d?userId=%d", shareID, bob.ID), nil, nil))
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, fmt.Sprintf("/api/shares/%d?userId=%d", shareID, admin.ID), nil, nil))
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/folder-content/%d/favorites", bob.ID), nil, &ids))
	assert.Empty(t, ids)
}

func TestRouter_Folders(t *testing.T) {
	s := newTestServer(t, nil)
	u := s.register("alice")

	var created struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/folders", gin.H{
		"id": "work", "name": "Work", "icon": "💼", "type": "system", "parentId": nil, "userId": u.ID,
	}, &created))
	assert.True(t, created.Success)
	assert.Equal(t, "work", created.ID)

	var folders []map[string]interface{}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/folders/%d", u.ID), nil, &folders))
	require.Len(t, folders, 3)
	assert.Equal(t, "system", folders[0]["type"])
	assert.Equal(t, "user", folders[2]["type"], "client supplied type is ignored")
	assert.Nil(t, folders[2]["parentId"])
	assert.Equal(t, true, folders[2]["expanded"])

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/folders/work", gin.H{"name": "Job", "userId": u.ID}, nil))
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/folders/work/expanded", gin.H{"expanded": false, "userId": u.ID}, nil))

	var e errResp
	require.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/folders/favorites", gin.H{"name": "x", "userId": u.ID}, &e))
	assert.Contains(t, e.Error, "system folder")
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/folders/work", gin.H{"name": "", "userId": u.ID}, nil))
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/folders", gin.H{"id": "work", "name": "Dup", "userId": u.ID}, nil))

	require.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/api/folders/work", nil, nil), "userId query required")
	require.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/folders/favorites?userId="+fmt.Sprint(u.ID), nil, nil))
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/folders/work?userId="+fmt.Sprint(u.ID), nil, nil))

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, fmt.Sprintf("/api/init-folders/%d", u.ID), nil, nil))
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/folders/%d", u.ID), nil, &folders))
	assert.Len(t, folders, 2)
}

func TestRouter_Users(t *testing.T) {
	s := newTestServer(t, nil)
	u := s.register("alice")
	s.register("bob")

	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/register", gin.H{"username": "bob", "email": "b2@example.com", "password": "x"}, nil))
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/register", gin.H{"username": "", "email": "", "password": ""}, nil))

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, fmt.Sprintf("/api/users/%d", u.ID), gin.H{"username": "alicia", "email": "alicia@example.com"}, nil))
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/login", gin.H{"username": "alicia", "password": "alice-pw"}, nil))

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", u.ID), nil, nil))
	require.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", u.ID), nil, nil))
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/login", gin.H{"username": "alicia", "password": "alice-pw"}, nil))
}

func TestRouter_InvalidPathIDs(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{
		"/api/friends/abc",
		"/api/friends/0",
		"/api/friend-requests/-1",
		"/api/my-shares/1.5",
		"/api/received-shares/x",
		"/api/folders/x",
		"/api/share-folders/1/x",
	} {
		t.Run(path, func(t *testing.T) {
			var e errResp
			assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, path, nil, &e))
			assert.NotEmpty(t, e.Error)
		})
	}

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/friend-request/1/maybe", nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/friend-request/99/accept", nil, nil))
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit = config.RateLimitConfig{MaxRequests: 2, Window: time.Hour}
	})

	body := gin.H{"username": "x", "password": "y"}
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/login", body, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/login", body, nil))
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/login", body, nil))
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	var health map[string]interface{}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "disabled", health["cache"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRouter_CORS(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
