package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/server-craftsman/manage-post/internal/auth"
	"github.com/server-craftsman/manage-post/internal/middleware"
	"github.com/server-craftsman/manage-post/internal/models"
	"github.com/server-craftsman/manage-post/internal/notify"
	"github.com/server-craftsman/manage-post/internal/posts"
	"github.com/server-craftsman/manage-post/internal/remote"
	"github.com/server-craftsman/manage-post/internal/remotetest"
	"github.com/server-craftsman/manage-post/internal/session"
)

type testEnv struct {
	router   *gin.Engine
	store    *remotetest.Server
	sessions *session.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := remotetest.NewServer()
	t.Cleanup(store.Close)

	client := remote.New(store.URL(), "", 2*time.Second)
	authService := auth.NewService(client)
	postManager := posts.NewManager(client, 1<<20)
	poller := notify.NewPoller(client, time.Minute)
	sessions := session.NewMemoryStore()

	h := NewHandler(authService, postManager, sessions, poller, time.Hour)
	authMW := middleware.NewAuthMiddleware(sessions)

	router := gin.New()
	router.POST("/auth/login", h.Login)
	router.POST("/auth/register", h.Register)
	router.POST("/auth/logout", h.Logout)
	router.GET("/auth/check-email", h.CheckEmail)
	router.GET("/posts", h.ListPosts)
	router.GET("/posts/user/:userId", h.PostsByUser)
	router.GET("/posts/:id", h.GetPost)

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMW))
	api.GET("/me", h.Me)
	api.PUT("/me", h.UpdateMe)
	api.POST("/posts", h.CreatePost)
	api.PUT("/posts/:id", h.UpdatePost)
	api.DELETE("/posts/:id", h.DeletePost)
	api.GET("/notifications", h.Notifications)

	admin := router.Group("/api/admin")
	admin.Use(middleware.GinRequireRole(authMW, models.RoleAdmin))
	admin.GET("/users", h.ListUsers)
	admin.GET("/dashboard", h.Dashboard)

	return &testEnv{router: router, store: store, sessions: sessions}
}

func (e *testEnv) seedUser(t *testing.T, id, email, password, role string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	u := models.User{
		ID: id, Name: "user " + id, Email: email,
		Password: hash, Role: role,
		CreateDate: time.Now().Add(-time.Hour),
		UpdateDate: time.Now().Add(-time.Hour),
	}
	e.store.AddUser(u)
	return u
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestLoginFlow(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleCustomer)

	w := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}

	if strings.Contains(w.Body.String(), `"password"`) {
		t.Error("response must not leak the credential hash")
	}

	cookie := sessionCookie(t, w)

	me := e.do(t, http.MethodGet, "/api/me", "", cookie)
	if me.Code != http.StatusOK {
		t.Fatalf("me status = %d", me.Code)
	}
	var body struct {
		User models.PublicUser `json:"user"`
	}
	if err := json.Unmarshal(me.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.User.ID != "1" || body.User.Role != models.RoleCustomer {
		t.Errorf("me = %+v", body.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleCustomer)

	w := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLoginUnknownRoleGetsNoSession(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", "superuser")

	w := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"secret"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			t.Error("no session cookie may be issued for an unauthorized role")
		}
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleCustomer)

	login := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"secret"}`)
	cookie := sessionCookie(t, login)

	out := e.do(t, http.MethodPost, "/auth/logout", "", cookie)
	if out.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", out.Code)
	}

	// Persisted copy must be gone.
	rec, err := e.sessions.Get(context.Background(), cookie.Value)
	if err != nil || rec != nil {
		t.Errorf("persisted session after logout: %+v, err %v", rec, err)
	}

	me := e.do(t, http.MethodGet, "/api/me", "", cookie)
	if me.Code != http.StatusUnauthorized {
		t.Errorf("me after logout = %d, want 401", me.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleCustomer)

	w := e.do(t, http.MethodPost, "/auth/register",
		`{"name":"Imposter","email":"a@test.com","password":"password1"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestRegisterValidationRunsBeforeNetwork(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/auth/register",
		`{"name":"","email":"a@test.com","password":"password1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(e.store.Requests()) != 0 {
		t.Error("validation failures must not reach the store")
	}
}

func TestCreatePostRequiresSession(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/posts",
		`{"title":"Hello","description":"x","status":"draft"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCreateAndListPost(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleCustomer)

	login := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"secret"}`)
	cookie := sessionCookie(t, login)

	created := e.do(t, http.MethodPost, "/api/posts",
		`{"title":"Hello","description":"first","status":"draft"}`, cookie)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", created.Code, created.Body.String())
	}

	list := e.do(t, http.MethodGet, "/posts?status=draft", "")
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	var body struct {
		Posts []models.Post `json:"posts"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 1 || body.Posts[0].Title != "Hello" || body.Posts[0].UserID != "1" {
		t.Errorf("list = %+v", body)
	}
}

func TestCustomerCannotEditForeignPost(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleCustomer)
	e.store.AddPost(models.Post{
		ID: "p9", UserID: "someone-else", Title: "Theirs",
		Description: "x", Status: models.StatusPublished,
	})

	login := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"secret"}`)
	cookie := sessionCookie(t, login)

	w := e.do(t, http.MethodPut, "/api/posts/p9",
		`{"userId":"someone-else","title":"Mine now","description":"x","status":"published"}`, cookie)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}

	del := e.do(t, http.MethodDelete, "/api/posts/p9", "", cookie)
	if del.Code != http.StatusForbidden {
		t.Errorf("delete status = %d, want 403", del.Code)
	}
}

func TestAdminGate(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleCustomer)
	e.seedUser(t, "2", "root@test.com", "secret", models.RoleAdmin)

	login := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"secret"}`)
	cookie := sessionCookie(t, login)

	if w := e.do(t, http.MethodGet, "/api/admin/users", "", cookie); w.Code != http.StatusForbidden {
		t.Errorf("customer on admin route: %d, want 403", w.Code)
	}

	adminLogin := e.do(t, http.MethodPost, "/auth/login", `{"email":"root@test.com","password":"secret"}`)
	adminCookie := sessionCookie(t, adminLogin)

	if w := e.do(t, http.MethodGet, "/api/admin/users", "", adminCookie); w.Code != http.StatusOK {
		t.Errorf("admin on admin route: %d, want 200", w.Code)
	}
}

func TestPasswordChangeReconcilesSession(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleCustomer)

	login := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"secret"}`)
	cookie := sessionCookie(t, login)

	w := e.do(t, http.MethodPut, "/api/me",
		`{"oldPassword":"secret","newPassword":"evenmoresecret"}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}

	// Old session still valid, and the snapshot carries the new hash:
	// a second change must verify against the new password.
	again := e.do(t, http.MethodPut, "/api/me",
		`{"oldPassword":"evenmoresecret","newPassword":"yetanother1"}`, cookie)
	if again.Code != http.StatusOK {
		t.Errorf("second change status = %d, body %s", again.Code, again.Body.String())
	}

	// And login works with the latest password only.
	if w := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"secret"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("old password still accepted: %d", w.Code)
	}
	if w := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"yetanother1"}`); w.Code != http.StatusOK {
		t.Errorf("new password rejected: %d", w.Code)
	}
}

func TestDashboardTotals(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleAdmin)
	e.seedUser(t, "2", "b@test.com", "secret", models.RoleCustomer)
	e.store.AddPost(models.Post{ID: "p1", UserID: "2", Status: models.StatusPublished})
	e.store.AddPost(models.Post{ID: "p2", UserID: "2", Status: models.StatusDraft})

	login := e.do(t, http.MethodPost, "/auth/login", `{"email":"a@test.com","password":"secret"}`)
	cookie := sessionCookie(t, login)

	w := e.do(t, http.MethodGet, "/api/admin/dashboard", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}

	var body struct {
		TotalUsers int `json:"totalUsers"`
		TotalPosts int `json:"totalPosts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.TotalUsers != 2 || body.TotalPosts != 2 {
		t.Errorf("totals = %+v", body)
	}
}

func TestCheckEmailAdvisory(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "1", "a@test.com", "secret", models.RoleCustomer)

	w := e.do(t, http.MethodGet, "/auth/check-email?email=a@test.com", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"exists":true`) {
		t.Errorf("status %d body %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/auth/check-email?email=new@test.com", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"exists":false`) {
		t.Errorf("status %d body %s", w.Code, w.Body.String())
	}
}
