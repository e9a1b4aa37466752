// Package store persists built framework models and territory evaluation
// results. Two implementations exist: a single-file SQLite store for local
// use and a Postgres store for shared deployments.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Snapshot is one persisted framework model with its summary attributes.
// Payload is the encoded model (framework.EncodeModel).
type Snapshot struct {
	ID                     string    `json:"id"`
	Region                 string    `json:"region"`
	CostThreshold          float64   `json:"cost_threshold"`
	AgglomerationThreshold float64   `json:"agglomeration_threshold"`
	Localities             int       `json:"localities"`
	Edges                  int       `json:"edges"`
	Agglomerations         int       `json:"agglomerations"`
	Payload                []byte    `json:"-"`
	CreatedAt              time.Time `json:"created_at"`
}

// Evaluation is one persisted territory evaluation against a snapshot.
// Result holds the serialized TerritoryScore.
type Evaluation struct {
	ID            string    `json:"id"`
	SnapshotID    string    `json:"snapshot_id"`
	LocationScore int       `json:"location_score"`
	Result        []byte    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// SnapshotFilter narrows ListSnapshots.
type SnapshotFilter struct {
	Region string `json:"region,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store is the persistence interface for framework snapshots and territory
// evaluations.
type Store interface {
	// Snapshots
	CreateSnapshot(ctx context.Context, snap Snapshot) (*Snapshot, error)
	GetSnapshot(ctx context.Context, id string) (*Snapshot, error)
	LatestSnapshot(ctx context.Context, region string) (*Snapshot, error)
	ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]Snapshot, error)
	DeleteSnapshot(ctx context.Context, id string) error

	// Evaluations
	CreateEvaluation(ctx context.Context, eval Evaluation) (*Evaluation, error)
	ListEvaluations(ctx context.Context, snapshotID string, limit int) ([]Evaluation, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Pool is the subset of pgxpool.Pool the Postgres store needs; pgxmock
// implements it for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}
