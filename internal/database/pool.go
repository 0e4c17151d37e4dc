package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolConfig controls the sql connection pool behind the gorm handle.
type PoolConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        logger.LogLevel
}

// DefaultPoolConfig returns pool settings sized for a single API instance.
// The DSN must still be supplied by the caller.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		LogLevel:        logger.Info,
	}
}

// DatabasePool wraps a gorm connection whose underlying pool has been
// configured with explicit limits.
type DatabasePool struct {
	DB     *gorm.DB
	config *PoolConfig
}

// NewDatabasePool opens a postgres connection and applies the pool limits
// from config. A nil config falls back to DefaultPoolConfig.
func NewDatabasePool(config *PoolConfig) (*DatabasePool, error) {
	if config == nil {
		config = DefaultPoolConfig()
	}

	if config.DSN == "" {
		return nil, errors.New("database DSN is required")
	}

	if config.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("MaxOpenConns must be positive, got %d", config.MaxOpenConns)
	}

	if config.MaxIdleConns <= 0 {
		return nil, fmt.Errorf("MaxIdleConns must be positive, got %d", config.MaxIdleConns)
	}

	// TranslateError maps driver errors to gorm sentinels, e.g. unique
	// violations to gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(config.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	return &DatabasePool{DB: db, config: config}, nil
}

// Health pings the database with a short deadline so health endpoints
// cannot hang on a stalled connection.
func (p *DatabasePool) Health() error {
	if p == nil || p.DB == nil {
		return errors.New("database connection is not initialized")
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Stats reports connection pool counters for diagnostics.
func (p *DatabasePool) Stats() map[string]interface{} {
	if p == nil || p.DB == nil {
		return map[string]interface{}{
			"error": "database connection is not initialized",
		}
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return map[string]interface{}{
			"error": err.Error(),
		}
	}

	stats := sqlDB.Stats()
	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_open_connections": stats.MaxOpenConnections,
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

// Close releases the underlying pool. Closing an unopened pool is a no-op.
func (p *DatabasePool) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection pool: %w", err)
	}

	return sqlDB.Close()
}
