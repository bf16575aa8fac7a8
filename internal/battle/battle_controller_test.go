package battle

import (
	"fmt"
	"net/http"
	"net/http/httptest"
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
	nova   models.Player
	zed    models.Player
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	team := testutil.CreateTeam(t, db, "Alpha")
	admin := testutil.CreateAdmin(t, db, "root", "password123", true)

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set(common.ContextPrincipalKey, access.Admin(admin.ID, admin.Username, true))
		c.Next()
	})
	BattleRoutes(api, db, access.NewService(db))

	return env{
		db:     db,
		router: r,
		team:   team,
		season: testutil.CreateSeason(t, db, team.ID, "S1"),
		nova:   testutil.CreatePlayer(t, db, team.ID, "Nova", models.PlayerActive),
		zed:    testutil.CreatePlayer(t, db, team.ID, "Zed", models.PlayerActive),
	}
}

func (e env) serve(method, path string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, testutil.MakeRequest(method, path, body, nil))
	return w
}

func TestCreateBattle(t *testing.T) {
	e := setup(t)
	url := fmt.Sprintf("/api/battles?team_id=%d", e.team.ID)

	body := map[string]interface{}{
		"enemy_name":          "Raiders",
		"enemy_power_ranking": 12,
		"our_score":           3,
		"their_score":         0,
		"season_id":           e.season.ID,
		"participants": []map[string]interface{}{
			{"player_id": e.nova.ID, "damage_done": 1200, "shields_broken": 2},
			{"player_id": e.zed.ID, "damage_done": 800},
		},
	}
	w := e.serve(http.MethodPost, url, body)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created BattleResponse
	testutil.AssertJSON(t, w, &created)
	if created.TotalDamage != 2000 || created.TheirScore != 0 || created.TeamID != e.team.ID {
		t.Errorf("unexpected battle %+v", created)
	}

	w = e.serve(http.MethodGet, fmt.Sprintf("/api/battles/%d?team_id=%d", created.ID, e.team.ID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var fetched BattleResponse
	testutil.AssertJSON(t, w, &fetched)
	if len(fetched.Participants) != 2 || fetched.Participants[0].PlayerName != "Nova" {
		t.Errorf("unexpected participants %+v", fetched.Participants)
	}
}

func TestCreateBattleValidation(t *testing.T) {
	e := setup(t)
	url := fmt.Sprintf("/api/battles?team_id=%d", e.team.ID)

	other := testutil.CreateTeam(t, e.db, "Bravo")
	stranger := testutil.CreatePlayer(t, e.db, other.ID, "Stranger", models.PlayerActive)
	foreignSeason := testutil.CreateSeason(t, e.db, other.ID, "B1")

	base := func() map[string]interface{} {
		return map[string]interface{}{
			"enemy_name":          "Raiders",
			"enemy_power_ranking": 5,
			"our_score":           1,
			"their_score":         2,
			"participants":        []map[string]interface{}{},
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing enemy", func(b map[string]interface{}) { delete(b, "enemy_name") }},
		{"missing score", func(b map[string]interface{}) { delete(b, "our_score") }},
		{"negative ranking", func(b map[string]interface{}) { b["enemy_power_ranking"] = -1 }},
		{"missing participants", func(b map[string]interface{}) { delete(b, "participants") }},
		{"negative damage", func(b map[string]interface{}) {
			b["participants"] = []map[string]interface{}{{"player_id": e.nova.ID, "damage_done": -5}}
		}},
		{"participant of another team", func(b map[string]interface{}) {
			b["participants"] = []map[string]interface{}{{"player_id": stranger.ID}}
		}},
		{"duplicate participant", func(b map[string]interface{}) {
			b["participants"] = []map[string]interface{}{{"player_id": e.nova.ID}, {"player_id": e.nova.ID}}
		}},
		{"season of another team", func(b map[string]interface{}) { b["season_id"] = foreignSeason.ID }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := base()
			tt.mutate(body)
			testutil.AssertStatus(t, e.serve(http.MethodPost, url, body), http.StatusBadRequest)
		})
	}

	if n := testutil.CountRows(t, e.db, &models.Battle{}, ""); n != 0 {
		t.Errorf("rejected battles must not be stored, found %d", n)
	}
}

func TestListBattles(t *testing.T) {
	e := setup(t)
	s2 := testutil.CreateSeason(t, e.db, e.team.ID, "S2")
	testutil.CreateBattle(t, e.db, e.team.ID, &e.season.ID, "First",
		models.BattleParticipant{PlayerID: e.nova.ID, DamageDone: 10})
	testutil.CreateBattle(t, e.db, e.team.ID, &s2.ID, "Second")
	other := testutil.CreateTeam(t, e.db, "Bravo")
	testutil.CreateBattle(t, e.db, other.ID, nil, "Elsewhere")

	var all []BattleResponse
	w := e.serve(http.MethodGet, fmt.Sprintf("/api/battles?team_id=%d", e.team.ID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 team battles, got %d", len(all))
	}
	if all[0].EnemyName != "Second" {
		t.Errorf("expected newest first, got %s", all[0].EnemyName)
	}

	var filtered []BattleResponse
	w = e.serve(http.MethodGet, fmt.Sprintf("/api/battles?team_id=%d&season_id=%d", e.team.ID, e.season.ID), nil)
	testutil.AssertJSON(t, w, &filtered)
	if len(filtered) != 1 || filtered[0].TotalDamage != 10 {
		t.Errorf("unexpected season battles %+v", filtered)
	}
}

func TestUpdateBattleReplacesParticipants(t *testing.T) {
	e := setup(t)
	b := testutil.CreateBattle(t, e.db, e.team.ID, &e.season.ID, "Raiders",
		models.BattleParticipant{PlayerID: e.nova.ID, DamageDone: 10},
		models.BattleParticipant{PlayerID: e.zed.ID, DamageDone: 20})
	url := fmt.Sprintf("/api/battles/%d?team_id=%d", b.ID, e.team.ID)

	w := e.serve(http.MethodPut, url, map[string]interface{}{"our_score": 9})
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp BattleResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.OurScore != 9 || resp.EnemyName != "Raiders" || len(resp.Participants) != 2 {
		t.Errorf("partial update changed too much: %+v", resp)
	}

	w = e.serve(http.MethodPut, url, map[string]interface{}{
		"participants": []map[string]interface{}{{"player_id": e.zed.ID, "damage_done": 500, "shields_broken": 4}},
	})
	testutil.AssertStatus(t, w, http.StatusOK)
	resp = BattleResponse{}
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Participants) != 1 || resp.Participants[0].PlayerName != "Zed" || resp.TotalDamage != 500 {
		t.Errorf("participants not replaced: %+v", resp)
	}
	if n := testutil.CountRows(t, e.db, &models.BattleParticipant{}, "battle_id = ?", b.ID); n != 1 {
		t.Errorf("expected 1 participant row, got %d", n)
	}
}

func TestDeleteBattle(t *testing.T) {
	e := setup(t)
	b := testutil.CreateBattle(t, e.db, e.team.ID, nil, "Raiders",
		models.BattleParticipant{PlayerID: e.nova.ID, DamageDone: 10})
	other := testutil.CreateTeam(t, e.db, "Bravo")

	// A battle is invisible from another team.
	w := e.serve(http.MethodDelete, fmt.Sprintf("/api/battles/%d?team_id=%d", b.ID, other.ID), nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = e.serve(http.MethodDelete, fmt.Sprintf("/api/battles/%d?team_id=%d", b.ID, e.team.ID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	if n := testutil.CountRows(t, e.db, &models.BattleParticipant{}, ""); n != 0 {
		t.Errorf("expected participants removed, found %d", n)
	}
}
