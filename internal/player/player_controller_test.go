package player

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/internal/testutil"
)

type env struct {
	db     *gorm.DB
	router *gin.Engine
	team   models.Team
	season models.Season
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	team := testutil.CreateTeam(t, db, "Alpha")
	user := testutil.CreateUser(t, db, "captain", "password123", team.ID)

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set(common.ContextPrincipalKey, access.Member(user.ID, user.Username))
		c.Next()
	})
	PlayerRoutes(api, db, access.NewService(db))

	return env{db: db, router: r, team: team, season: testutil.CreateSeason(t, db, team.ID, "S1")}
}

func (e env) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, testutil.MakeRequest(method, fmt.Sprintf("%s%steam_id=%d", path, sep, e.team.ID), body, nil))
	return w
}

func TestCreatePlayer(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/api/players", map[string]string{"name": "Nova", "game_id": "  NV-1 "})
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created models.Player
	testutil.AssertJSON(t, w, &created)
	if created.GameID == nil || *created.GameID != "NV-1" {
		t.Errorf("expected trimmed game id, got %v", created.GameID)
	}
	if created.Status != models.PlayerActive || created.TeamID != e.team.ID {
		t.Errorf("unexpected player %+v", created)
	}

	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"duplicate game id", map[string]string{"name": "Copy", "game_id": "NV-1"}, http.StatusBadRequest},
		{"missing name", map[string]string{"game_id": "X"}, http.StatusBadRequest},
		{"blank name", map[string]string{"name": "   "}, http.StatusBadRequest},
		{"bad status", map[string]string{"name": "Y", "status": "retired"}, http.StatusBadRequest},
		{"blank game id allowed twice", map[string]string{"name": "A", "game_id": " "}, http.StatusCreated},
		{"blank game id again", map[string]string{"name": "B", "game_id": ""}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertStatus(t, e.do(t, http.MethodPost, "/api/players", tt.body), tt.status)
		})
	}

	// The same game id is fine in another team.
	other := testutil.CreateTeam(t, e.db, "Bravo")
	gameID := "NV-1"
	if err := e.db.Create(&models.Player{Name: "Twin", GameID: &gameID, TeamID: other.ID}).Error; err != nil {
		t.Errorf("game id should be unique per team only: %v", err)
	}
}

func TestListPlayers(t *testing.T) {
	e := setup(t)
	nova := testutil.CreatePlayer(t, e.db, e.team.ID, "Nova", models.PlayerActive)
	testutil.CreatePlayer(t, e.db, e.team.ID, "Ghost", models.PlayerInactive)
	other := testutil.CreateTeam(t, e.db, "Bravo")
	testutil.CreatePlayer(t, e.db, other.ID, "Stranger", models.PlayerActive)
	testutil.AssignSlot(t, e.db, e.season.ID, nova.ID, 3)

	var active []models.Player
	w := e.do(t, http.MethodGet, "/api/players", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &active)
	if len(active) != 1 || active[0].Name != "Nova" {
		t.Errorf("expected only Nova, got %+v", active)
	}

	var all []PlayerWithSeasons
	w = e.do(t, http.MethodGet, "/api/players?status=all", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 players, got %d", len(all))
	}
	for _, p := range all {
		switch p.Name {
		case "Nova":
			if len(p.Seasons) != 1 || p.Seasons[0].Name != "S1" {
				t.Errorf("expected Nova in S1, got %+v", p.Seasons)
			}
		case "Ghost":
			if len(p.Seasons) != 0 {
				t.Errorf("expected Ghost without seasons, got %+v", p.Seasons)
			}
		}
	}

	var inSeason []models.Player
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/players?status=all&season_id=%d", e.season.ID), nil)
	testutil.AssertJSON(t, w, &inSeason)
	if len(inSeason) != 1 {
		t.Errorf("expected 1 player in season, got %d", len(inSeason))
	}

	testutil.AssertStatus(t, e.do(t, http.MethodGet, "/api/players?status=benched", nil), http.StatusBadRequest)
}

func TestUpdatePlayer(t *testing.T) {
	e := setup(t)
	nova := testutil.CreatePlayer(t, e.db, e.team.ID, "Nova", models.PlayerActive)
	zed := testutil.CreatePlayer(t, e.db, e.team.ID, "Zed", models.PlayerActive)
	e.db.Model(&zed).Update("game_id", "ZD")

	w := e.do(t, http.MethodPut, fmt.Sprintf("/api/players/%d", nova.ID), map[string]string{"name": "Nova Prime", "game_id": "NP"})
	testutil.AssertStatus(t, w, http.StatusOK)
	var updated models.Player
	testutil.AssertJSON(t, w, &updated)
	if updated.Name != "Nova Prime" || updated.GameID == nil || *updated.GameID != "NP" {
		t.Errorf("unexpected update result %+v", updated)
	}

	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/players/%d", nova.ID), map[string]string{"game_id": "ZD"})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Re-saving its own game id is not a conflict.
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/players/%d", nova.ID), map[string]string{"game_id": "NP"})
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.AssertStatus(t, e.do(t, http.MethodPut, "/api/players/9999", map[string]string{"name": "X"}), http.StatusNotFound)
}

func TestPlayerStatusClearsRoster(t *testing.T) {
	e := setup(t)
	nova := testutil.CreatePlayer(t, e.db, e.team.ID, "Nova", models.PlayerActive)
	testutil.AssignSlot(t, e.db, e.season.ID, nova.ID, 4)
	e.db.Model(&nova).Update("roster_position", 4)

	w := e.do(t, http.MethodPut, fmt.Sprintf("/api/players/%d/status", nova.ID), map[string]string{"status": "inactive"})
	testutil.AssertStatus(t, w, http.StatusOK)

	if n := testutil.CountRows(t, e.db, &models.SeasonRoster{}, "player_id = ?", nova.ID); n != 0 {
		t.Errorf("expected slots cleared, found %d", n)
	}
	var reloaded models.Player
	e.db.First(&reloaded, nova.ID)
	if reloaded.Status != models.PlayerInactive || reloaded.RosterPosition != nil {
		t.Errorf("unexpected player after deactivation %+v", reloaded)
	}

	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/players/%d/status", nova.ID), map[string]string{"status": "benched"})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestDeletePlayerCascades(t *testing.T) {
	e := setup(t)
	nova := testutil.CreatePlayer(t, e.db, e.team.ID, "Nova", models.PlayerActive)
	testutil.AssignSlot(t, e.db, e.season.ID, nova.ID, 1)
	testutil.CreateBattle(t, e.db, e.team.ID, &e.season.ID, "Raiders",
		models.BattleParticipant{PlayerID: nova.ID, DamageDone: 100})

	testutil.AssertStatus(t, e.do(t, http.MethodDelete, fmt.Sprintf("/api/players/%d", nova.ID), nil), http.StatusOK)

	if n := testutil.CountRows(t, e.db, &models.Player{}, "id = ?", nova.ID); n != 0 {
		t.Error("player still present")
	}
	if n := testutil.CountRows(t, e.db, &models.SeasonRoster{}, "player_id = ?", nova.ID); n != 0 {
		t.Error("roster rows still present")
	}
	if n := testutil.CountRows(t, e.db, &models.BattleParticipant{}, "player_id = ?", nova.ID); n != 0 {
		t.Error("participations still present")
	}
	if n := testutil.CountRows(t, e.db, &models.Battle{}, ""); n != 1 {
		t.Error("battle must survive its participant")
	}

	testutil.AssertStatus(t, e.do(t, http.MethodDelete, fmt.Sprintf("/api/players/%d", nova.ID), nil), http.StatusNotFound)
}

func TestBattleStats(t *testing.T) {
	e := setup(t)
	nova := testutil.CreatePlayer(t, e.db, e.team.ID, "Nova", models.PlayerActive)
	s2 := testutil.CreateSeason(t, e.db, e.team.ID, "S2")
	testutil.CreateBattle(t, e.db, e.team.ID, &e.season.ID, "Raiders",
		models.BattleParticipant{PlayerID: nova.ID, DamageDone: 100, ShieldsBroken: 2})
	testutil.CreateBattle(t, e.db, e.team.ID, &s2.ID, "Reavers",
		models.BattleParticipant{PlayerID: nova.ID, DamageDone: 50, ShieldsBroken: 1})

	var stats BattleStats
	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/players/%d/battle-stats", nova.ID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &stats)
	if stats.TotalDamage != 150 || stats.TotalShieldsBroken != 3 || stats.BattlesParticipated != 2 {
		t.Errorf("unexpected totals %+v", stats)
	}

	stats = BattleStats{}
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/players/%d/battle-stats?season_id=%d", nova.ID, s2.ID), nil)
	testutil.AssertJSON(t, w, &stats)
	if stats.TotalDamage != 50 || stats.BattlesParticipated != 1 || stats.PlayerName != "Nova" {
		t.Errorf("unexpected season totals %+v", stats)
	}
}
