package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/config"
	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/internal/session"
	"github.com/slashroll/slashroll/internal/testutil"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Session.Secret = "test-secret"
	cfg.Session.CookieName = "slashroll_session"
	cfg.Session.TTLHours = 1
	return cfg
}

func setupRouter(db *gorm.DB) (*gin.Engine, *config.Config) {
	cfg := testConfig()
	svc := access.NewService(db)
	store := session.NewDBRevocationStore(db)

	r := gin.New()
	api := r.Group("/api", middleware.SessionAuth(cfg.Session.Secret, cfg.Session.CookieName, svc, store))
	RegisterAuthRoutes(&r.RouterGroup, api, db, svc, store, cfg)
	return r, cfg
}

func login(t *testing.T, r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/login",
		map[string]string{"username": username, "password": password}, nil))
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("response did not set cookie %q", name)
	return nil
}

func withCookie(method, path string, ck *http.Cookie) *http.Request {
	req := testutil.MakeRequest(method, path, nil, nil)
	req.AddCookie(ck)
	return req
}

func TestMemberSessionLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alpha := testutil.CreateTeam(t, db, "Alpha")
	testutil.CreateTeam(t, db, "Bravo")
	testutil.CreateUser(t, db, "nova", "password123", alpha.ID)
	r, cfg := setupRouter(db)

	w := login(t, r, "nova", "password123")
	testutil.AssertStatus(t, w, http.StatusOK)
	var status StatusResponse
	testutil.AssertJSON(t, w, &status)
	if !status.Authenticated || status.User == nil || status.User.Kind != access.KindMember {
		t.Fatalf("unexpected login response %+v", status)
	}
	if len(status.Teams) != 1 || status.Teams[0].ID != alpha.ID {
		t.Errorf("expected only Alpha, got %+v", status.Teams)
	}

	ck := sessionCookie(t, w, cfg.Session.CookieName)
	if !ck.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withCookie(http.MethodGet, "/api/auth/status", ck))
	testutil.AssertStatus(t, w, http.StatusOK)
	var current StatusResponse
	testutil.AssertJSON(t, w, &current)
	if current.User == nil || current.User.Username != "nova" || current.ExpiresAt == nil {
		t.Errorf("unexpected status %+v", current)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withCookie(http.MethodPost, "/logout", ck))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withCookie(http.MethodGet, "/api/auth/teams", ck))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestAdminLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTeam(t, db, "Alpha")
	testutil.CreateTeam(t, db, "Bravo")
	testutil.CreateAdmin(t, db, "root", "password123", true)
	testutil.CreateAdmin(t, db, "ops", "password123", false)
	r, cfg := setupRouter(db)

	w := login(t, r, "root", "password123")
	testutil.AssertStatus(t, w, http.StatusOK)
	var status StatusResponse
	testutil.AssertJSON(t, w, &status)
	if !status.User.Superadmin || len(status.Teams) != 2 {
		t.Errorf("superadmin should see every team, got %+v", status)
	}

	w = login(t, r, "ops", "password123")
	testutil.AssertStatus(t, w, http.StatusOK)
	ck := sessionCookie(t, w, cfg.Session.CookieName)

	var teams []interface{}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withCookie(http.MethodGet, "/api/auth/teams", ck))
	testutil.AssertJSON(t, w, &teams)
	if len(teams) != 0 {
		t.Errorf("plain admin should see no teams, got %d", len(teams))
	}
}

func TestLoginFailures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "nova", "password123")
	r, _ := setupRouter(db)

	tests := []struct {
		name     string
		username string
		password string
		want     int
	}{
		{"wrong password", "nova", "nope-nope", http.StatusUnauthorized},
		{"unknown user", "ghost", "password123", http.StatusUnauthorized},
		{"missing password", "nova", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertStatus(t, login(t, r, tt.username, tt.password), tt.want)
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/api/auth/status", nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(http.MethodPost, "/logout", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}
