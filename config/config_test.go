package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_TTL_HOURS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.App.Port != "8088" {
		t.Errorf("expected default port 8088, got %s", cfg.App.Port)
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("expected 24h session ttl, got %s", cfg.SessionTTL())
	}
	if cfg.Session.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost 12, got %d", cfg.Session.BcryptCost)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DB.Driver != DriverMySQL || cfg.SessionTTL() != 2*time.Hour || !cfg.Session.CookieSecure {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected redis addr %q", cfg.Redis.Addr)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"DB_DRIVER", "oracle"},
		{"SESSION_TTL_HOURS", "soon"},
		{"BCRYPT_COST", "x"},
		{"SESSION_COOKIE_SECURE", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("DB_DRIVER", "sqlite")
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestConnectDBSQLite(t *testing.T) {
	cfg := Config{}
	cfg.App.Env = "test"
	cfg.DB.Driver = DriverSQLite
	cfg.DB.SQLitePath = t.TempDir() + "/config_test.db"

	db, err := ConnectDB(cfg)
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()
	if err := sqlDB.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}
}
