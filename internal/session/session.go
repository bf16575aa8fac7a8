// Package session keeps the logout denylist for session tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slashroll/slashroll/config"
	"github.com/slashroll/slashroll/internal/models"
)

// RevocationStore remembers revoked session ids until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// DBRevocationStore keeps revoked ids in the revoked_sessions table.
type DBRevocationStore struct {
	db *gorm.DB
}

func NewDBRevocationStore(db *gorm.DB) *DBRevocationStore {
	return &DBRevocationStore{db: db}
}

func (s *DBRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return errors.New("session id is empty")
	}
	db := s.db.WithContext(ctx)
	row := models.RevokedSession{JTI: jti, ExpiresAt: until.UTC()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	// Expired entries can never match a valid token again.
	if err := db.Where("expires_at < ?", time.Now().UTC()).Delete(&models.RevokedSession{}).Error; err != nil {
		log.Warn().Err(err).Msg("failed to prune expired revoked sessions")
	}
	return nil
}

func (s *DBRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RevokedSession{}).
		Where("jti = ?", jti).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}
	return count > 0, nil
}

const redisKeyPrefix = "slashroll:revoked:"

// RedisRevocationStore keeps revoked ids as keys expiring with the token.
type RedisRevocationStore struct {
	rdb *redis.Client
}

func NewRedisRevocationStore(rdb *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{rdb: rdb}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return errors.New("session id is empty")
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}
	return n > 0, nil
}

// NewRedisClient connects to the configured Redis and pings it.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: 20,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connection established")
	return rdb, nil
}

// NewStore picks Redis when REDIS_ADDR is set and the database otherwise.
// A Redis that cannot be reached falls back to the database.
func NewStore(cfg *config.Config, db *gorm.DB) (RevocationStore, func()) {
	if cfg.Redis.Addr == "" {
		return NewDBRevocationStore(db), func() {}
	}
	rdb, err := NewRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("using database session revocation store")
		return NewDBRevocationStore(db), func() {}
	}
	return NewRedisRevocationStore(rdb), func() { rdb.Close() }
}
