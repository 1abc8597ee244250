package database

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Ping checks the database answers within 5 seconds.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases the pool. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		log.Println("[DATABASE] Pool is already closed or was never initialized")
		return nil
	}

	log.Println("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
	log.Println("[DATABASE] Connection pool closed")
	return nil
}

// PoolStats is the subset of pgxpool statistics exposed on /health.
type PoolStats struct {
	TotalConns        int32         `json:"totalConns"`
	IdleConns         int32         `json:"idleConns"`
	AcquiredConns     int32         `json:"acquiredConns"`
	MaxConns          int32         `json:"maxConns"`
	AcquireCount      int64         `json:"acquireCount"`
	EmptyAcquireCount int64         `json:"emptyAcquireCount"`
	AvgAcquireTime    time.Duration `json:"avgAcquireTime"`
}

// Stats snapshots the pool statistics.
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	s := db.Pool.Stat()
	stats := &PoolStats{
		TotalConns:        s.TotalConns(),
		IdleConns:         s.IdleConns(),
		AcquiredConns:     s.AcquiredConns(),
		MaxConns:          s.MaxConns(),
		AcquireCount:      s.AcquireCount(),
		EmptyAcquireCount: s.EmptyAcquireCount(),
	}
	if s.AcquireCount() > 0 {
		stats.AvgAcquireTime = s.AcquireDuration() / time.Duration(s.AcquireCount())
	}
	return stats, nil
}
