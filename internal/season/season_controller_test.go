package season

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/internal/testutil"
)

func setupRouter(db *gorm.DB, p access.Principal) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set(common.ContextPrincipalKey, p)
		c.Next()
	})
	SeasonRoutes(api, db, access.NewService(db))
	return r
}

func serve(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest(method, path, body, nil))
	return w
}

func TestSeasonCRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alpha := testutil.CreateTeam(t, db, "Alpha")
	bravo := testutil.CreateTeam(t, db, "Bravo")
	foreign := testutil.CreateSeason(t, db, bravo.ID, "Foreign")
	user := testutil.CreateUser(t, db, "captain", "password123", alpha.ID)
	r := setupRouter(db, access.Member(user.ID, user.Username))

	w := serve(r, http.MethodPost, fmt.Sprintf("/api/seasons?team_id=%d", alpha.ID), map[string]string{"name": "Spring"})
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created models.Season
	testutil.AssertJSON(t, w, &created)
	if created.TeamID == nil || *created.TeamID != alpha.ID {
		t.Fatalf("expected season in team %d, got %+v", alpha.ID, created)
	}

	w = serve(r, http.MethodPut, fmt.Sprintf("/api/seasons/%d?team_id=%d", created.ID, alpha.ID), map[string]string{"name": "Spring Cup"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var list []models.Season
	w = serve(r, http.MethodGet, fmt.Sprintf("/api/seasons?team_id=%d", alpha.ID), nil)
	testutil.AssertJSON(t, w, &list)
	if len(list) != 1 || list[0].Name != "Spring Cup" {
		t.Errorf("unexpected season list %+v", list)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"missing name", http.MethodPost, fmt.Sprintf("/api/seasons?team_id=%d", alpha.ID), map[string]string{}, http.StatusBadRequest},
		{"season of another team", http.MethodPut, fmt.Sprintf("/api/seasons/%d?team_id=%d", foreign.ID, alpha.ID), map[string]string{"name": "X"}, http.StatusNotFound},
		{"unauthorized team", http.MethodGet, fmt.Sprintf("/api/seasons?team_id=%d", bravo.ID), nil, http.StatusForbidden},
		{"bad id", http.MethodDelete, fmt.Sprintf("/api/seasons/abc?team_id=%d", alpha.ID), nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertStatus(t, serve(r, tt.method, tt.path, tt.body), tt.status)
		})
	}
}

func TestDeleteSeasonCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alpha := testutil.CreateTeam(t, db, "Alpha")
	s1 := testutil.CreateSeason(t, db, alpha.ID, "S1")
	s2 := testutil.CreateSeason(t, db, alpha.ID, "S2")
	nova := testutil.CreatePlayer(t, db, alpha.ID, "Nova", models.PlayerActive)
	zed := testutil.CreatePlayer(t, db, alpha.ID, "Zed", models.PlayerActive)
	db.Model(&nova).Update("season_id", s1.ID)

	b1 := testutil.CreateBattle(t, db, alpha.ID, &s1.ID, "Raiders",
		models.BattleParticipant{PlayerID: nova.ID, DamageDone: 10},
		models.BattleParticipant{PlayerID: zed.ID, DamageDone: 20})
	b2 := testutil.CreateBattle(t, db, alpha.ID, &s1.ID, "Reavers",
		models.BattleParticipant{PlayerID: nova.ID, DamageDone: 30})
	kept := testutil.CreateBattle(t, db, alpha.ID, &s2.ID, "Others",
		models.BattleParticipant{PlayerID: zed.ID, DamageDone: 40})
	testutil.AssignSlot(t, db, s1.ID, nova.ID, 1)
	testutil.AssignSlot(t, db, s2.ID, nova.ID, 1)

	user := testutil.CreateUser(t, db, "captain", "password123", alpha.ID)
	r := setupRouter(db, access.Member(user.ID, user.Username))

	w := serve(r, http.MethodDelete, fmt.Sprintf("/api/seasons/%d?team_id=%d", s1.ID, alpha.ID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	if n := testutil.CountRows(t, db, &models.BattleParticipant{}, "battle_id IN ?", []uint{b1.ID, b2.ID}); n != 0 {
		t.Errorf("expected participants of deleted battles gone, found %d", n)
	}
	if n := testutil.CountRows(t, db, &models.Battle{}, "id IN ?", []uint{b1.ID, b2.ID}); n != 0 {
		t.Errorf("expected battles gone, found %d", n)
	}
	if n := testutil.CountRows(t, db, &models.SeasonRoster{}, "season_id = ?", s1.ID); n != 0 {
		t.Errorf("expected roster rows gone, found %d", n)
	}
	if n := testutil.CountRows(t, db, &models.Season{}, "id = ?", s1.ID); n != 0 {
		t.Error("season still present")
	}

	var reloaded models.Player
	db.First(&reloaded, nova.ID)
	if reloaded.SeasonID != nil {
		t.Errorf("expected legacy season link cleared, got %d", *reloaded.SeasonID)
	}

	if n := testutil.CountRows(t, db, &models.BattleParticipant{}, "battle_id = ?", kept.ID); n != 1 {
		t.Error("other seasons' battles must be untouched")
	}
	if n := testutil.CountRows(t, db, &models.SeasonRoster{}, "season_id = ?", s2.ID); n != 1 {
		t.Error("other seasons' roster must be untouched")
	}
	if n := testutil.CountRows(t, db, &models.Player{}, ""); n != 2 {
		t.Error("players must survive season deletion")
	}
}

func TestCurrentSeason(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alpha := testutil.CreateTeam(t, db, "Alpha")
	bravo := testutil.CreateTeam(t, db, "Bravo")
	user := testutil.CreateUser(t, db, "captain", "password123", alpha.ID)
	r := setupRouter(db, access.Member(user.ID, user.Username))

	w := serve(r, http.MethodGet, "/api/seasons/current", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	old := models.Season{Name: "Old", TeamID: &alpha.ID, DateCreated: time.Now().Add(-48 * time.Hour)}
	db.Create(&old)
	testutil.CreateSeason(t, db, alpha.ID, "Alpha Now")
	time.Sleep(10 * time.Millisecond)
	testutil.CreateSeason(t, db, bravo.ID, "Bravo Now")

	var season models.Season
	w = serve(r, http.MethodGet, fmt.Sprintf("/api/seasons/current?team_id=%d", alpha.ID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &season)
	if season.Name != "Alpha Now" {
		t.Errorf("expected Alpha Now, got %s", season.Name)
	}

	// Without a team the newest season overall is returned.
	season = models.Season{}
	w = serve(r, http.MethodGet, "/api/seasons/current", nil)
	testutil.AssertJSON(t, w, &season)
	if season.Name != "Bravo Now" {
		t.Errorf("expected Bravo Now, got %s", season.Name)
	}

	testutil.AssertStatus(t, serve(r, http.MethodGet, fmt.Sprintf("/api/seasons/current?team_id=%d", bravo.ID), nil), http.StatusForbidden)
}
