// Package testutil builds hermetic SQLite-backed databases and fixtures for
// package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slashroll/slashroll/internal/database"
	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// SetupTestDB opens a fresh SQLite database in the test's temp dir with the
// full production schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "slashroll_test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func CreateTeam(t *testing.T, db *gorm.DB, name string) models.Team {
	t.Helper()
	team := models.Team{Name: name}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("Failed to create test team: %v", err)
	}
	return team
}

func CreateSeason(t *testing.T, db *gorm.DB, teamID uint, name string) models.Season {
	t.Helper()
	season := models.Season{Name: name, TeamID: &teamID}
	if err := db.Create(&season).Error; err != nil {
		t.Fatalf("Failed to create test season: %v", err)
	}
	return season
}

func CreatePlayer(t *testing.T, db *gorm.DB, teamID uint, name string, status models.PlayerStatus) models.Player {
	t.Helper()
	player := models.Player{Name: name, TeamID: teamID, Status: status}
	if err := db.Create(&player).Error; err != nil {
		t.Fatalf("Failed to create test player: %v", err)
	}
	return player
}

// AssignSlot writes a roster row directly, bypassing the roster service.
func AssignSlot(t *testing.T, db *gorm.DB, seasonID, playerID uint, position int) models.SeasonRoster {
	t.Helper()
	slot := models.SeasonRoster{SeasonID: seasonID, PlayerID: playerID, RosterPosition: position}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("Failed to create test roster slot: %v", err)
	}
	return slot
}

func CreateBattle(t *testing.T, db *gorm.DB, teamID uint, seasonID *uint, enemy string, participants ...models.BattleParticipant) models.Battle {
	t.Helper()
	battle := models.Battle{
		EnemyName:         enemy,
		EnemyPowerRanking: 10,
		OurScore:          3,
		TheirScore:        1,
		TeamID:            teamID,
		SeasonID:          seasonID,
		Participants:      participants,
	}
	if err := db.Create(&battle).Error; err != nil {
		t.Fatalf("Failed to create test battle: %v", err)
	}
	return battle
}

// CreateUser creates a team member assigned to teamIDs.
func CreateUser(t *testing.T, db *gorm.DB, username, password string, teamIDs ...uint) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{Username: username, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	for _, teamID := range teamIDs {
		if err := db.Create(&models.UserTeam{UserID: user.ID, TeamID: teamID}).Error; err != nil {
			t.Fatalf("Failed to assign test user to team: %v", err)
		}
	}
	return user
}

func CreateAdmin(t *testing.T, db *gorm.DB, username, password string, superadmin bool) models.AdminUser {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	admin := models.AdminUser{Username: username, PasswordHash: hash, IsSuperadmin: superadmin}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
	return admin
}

// MakeRequest creates an HTTP test request with an optional JSON body.
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// AssertStatus checks that the response has the expected status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into v.
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// CountRows counts rows of model matching the optional where clause.
func CountRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
