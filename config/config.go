package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV" envDefault:"development"`
		Port        string `env:"PORT"    envDefault:"8088"`
		FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
		LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	}
	DB struct {
		Driver     string `env:"DB_DRIVER"   envDefault:"postgres"`
		URL        string `env:"DATABASE_URL"`
		Host       string `env:"DB_HOST"     envDefault:"localhost"`
		Port       string `env:"DB_PORT"     envDefault:"5432"`
		User       string `env:"DB_USER"     envDefault:"postgres"`
		Password   string `env:"DB_PASSWORD" envDefault:"password"`
		Name       string `env:"DB_NAME"     envDefault:"slashroll"`
		SSLMode    string `env:"DB_SSLMODE"  envDefault:"disable"`
		SQLitePath string `env:"SQLITE_PATH" envDefault:"slashroll.db"`
	}
	Session struct {
		Secret       string `env:"JWT_SESSION_SECRET"`
		TTLHours     int    `env:"SESSION_TTL_HOURS" envDefault:"24"`
		CookieName   string `env:"SESSION_COOKIE_NAME" envDefault:"slashroll_session"`
		CookieSecure bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
		BcryptCost   int    `env:"BCRYPT_COST" envDefault:"12"`
	}
	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}
	Superadmin struct {
		Username string `env:"SUPERADMIN_USERNAME" envDefault:"superadmin"`
		Password string `env:"SUPERADMIN_PASSWORD"`
	}
}

// SessionTTL is the lifetime of an issued session token.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// Global DB instance, set by Initialize.
var DB *gorm.DB

var appConfig *Config
var once sync.Once

const defaultSessionSecret = "change-me-session-secret"

// LoadConfig loads configuration from environment variables into the Config struct.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on system environment variables")
	}

	cfg := &Config{}

	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnv("PORT", "8088")
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")
	cfg.App.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.DB.Driver = getEnv("DB_DRIVER", DriverPostgres)
	cfg.DB.URL = getEnv("DATABASE_URL", "")
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "password")
	cfg.DB.Name = getEnv("DB_NAME", "slashroll")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.SQLitePath = getEnv("SQLITE_PATH", "slashroll.db")

	cfg.Session.Secret = getEnv("JWT_SESSION_SECRET", defaultSessionSecret)
	cfg.Session.CookieName = getEnv("SESSION_COOKIE_NAME", "slashroll_session")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")

	cfg.Superadmin.Username = getEnv("SUPERADMIN_USERNAME", "superadmin")
	cfg.Superadmin.Password = getEnv("SUPERADMIN_PASSWORD", "")

	var err error
	if cfg.Session.TTLHours, err = getEnvAsInt("SESSION_TTL_HOURS", 24); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %w", err)
	}
	if cfg.Session.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12); err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cfg.Session.CookieSecure, err = getEnvAsBool("SESSION_COOKIE_SECURE", false); err != nil {
		return nil, fmt.Errorf("invalid SESSION_COOKIE_SECURE: %w", err)
	}
	if cfg.Redis.DB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	if cfg.Session.Secret == defaultSessionSecret {
		log.Warn().Msg("using default JWT_SESSION_SECRET; set it for production")
	}
	if cfg.DB.Password == "password" && cfg.App.Env == "production" {
		log.Warn().Msg("using default DB password in production; set DB_PASSWORD")
	}

	appConfig = cfg
	return cfg, nil
}

// Dialector picks the GORM driver for the configured database.
func Dialector(cfg Config) gorm.Dialector {
	switch cfg.DB.Driver {
	case DriverSQLite:
		return sqlite.Open(cfg.DB.SQLitePath)
	case DriverMySQL:
		dsn := cfg.DB.URL
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
		}
		return mysql.Open(dsn)
	default:
		dsn := cfg.DB.URL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
				cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port, cfg.DB.SSLMode)
		}
		return postgres.Open(dsn)
	}
}

// ConnectDB opens the database described by cfg and sets the global DB.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey on every driver.
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	if cfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	gormDB, err := gorm.Open(Dialector(cfg), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.DB.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	DB = gormDB
	log.Info().Str("driver", cfg.DB.Driver).Msg("connected to database")
	return gormDB, nil
}

// Initialize loads all configuration and connects to the database.
// Call it once from main.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		appConfig = loadedCfg

		if _, err = ConnectDB(*appConfig); err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
			return
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
func GetConfig() *Config {
	if appConfig == nil {
		log.Fatal().Msg("configuration not loaded; call config.Initialize() first")
	}
	return appConfig
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected boolean, got '%s'", key, valueStr)
	}
	return value, nil
}
