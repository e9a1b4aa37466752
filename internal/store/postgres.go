package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_snapshot": `INSERT INTO snapshots
		 (id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
	"get_snapshot": `SELECT id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at
		 FROM snapshots WHERE id = $1`,
	"latest_snapshot": `SELECT id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at
		 FROM snapshots WHERE region = $1 ORDER BY created_at DESC, id LIMIT 1`,
	"insert_evaluation": `INSERT INTO evaluations (id, snapshot_id, location_score, result, created_at) VALUES ($1, $2, $3, $4, $5)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                      TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	region                  TEXT NOT NULL,
	cost_threshold          DOUBLE PRECISION NOT NULL,
	agglomeration_threshold DOUBLE PRECISION NOT NULL,
	localities              INTEGER NOT NULL,
	edges                   INTEGER NOT NULL,
	agglomerations          INTEGER NOT NULL,
	payload                 JSONB NOT NULL,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS evaluations (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	snapshot_id    TEXT NOT NULL REFERENCES snapshots(id),
	location_score INTEGER NOT NULL,
	result         JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_snapshots_region ON snapshots(region);
CREATE INDEX IF NOT EXISTS idx_snapshots_region_created ON snapshots(region, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_evaluations_snapshot_id ON evaluations(snapshot_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateSnapshot(ctx context.Context, snap Snapshot) (*Snapshot, error) {
	snap.ID = uuid.New().String()
	snap.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO snapshots
		 (id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		snap.ID, snap.Region, snap.CostThreshold, snap.AgglomerationThreshold,
		snap.Localities, snap.Edges, snap.Agglomerations, snap.Payload, snap.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert snapshot")
	}
	return &snap, nil
}

func (s *PostgresStore) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at
		 FROM snapshots WHERE id = $1`, id,
	)
	snap, err := scanPgSnapshot(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get snapshot %s", id)
	}
	return snap, nil
}

func (s *PostgresStore) LatestSnapshot(ctx context.Context, region string) (*Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at
		 FROM snapshots WHERE region = $1 ORDER BY created_at DESC, id LIMIT 1`, region,
	)
	snap, err := scanPgSnapshot(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: latest snapshot for %s", region)
	}
	return snap, nil
}

func (s *PostgresStore) ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]Snapshot, error) {
	query := `SELECT id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at
	          FROM snapshots WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Region != "" {
		query += fmt.Sprintf(` AND region = $%d`, argIdx)
		args = append(args, filter.Region)
		argIdx++
	}
	query += ` ORDER BY created_at DESC, id`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list snapshots")
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanPgSnapshot(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot")
		}
		snaps = append(snaps, *snap)
	}
	return snaps, eris.Wrap(rows.Err(), "postgres: list snapshots iterate")
}

func (s *PostgresStore) DeleteSnapshot(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM evaluations WHERE snapshot_id = $1`, id); err != nil {
		return eris.Wrapf(err, "postgres: delete evaluations for %s", id)
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM snapshots WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete snapshot %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("snapshot not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) CreateEvaluation(ctx context.Context, eval Evaluation) (*Evaluation, error) {
	eval.ID = uuid.New().String()
	eval.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO evaluations (id, snapshot_id, location_score, result, created_at) VALUES ($1, $2, $3, $4, $5)`,
		eval.ID, eval.SnapshotID, eval.LocationScore, eval.Result, eval.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert evaluation for snapshot %s", eval.SnapshotID)
	}
	return &eval, nil
}

func (s *PostgresStore) ListEvaluations(ctx context.Context, snapshotID string, limit int) ([]Evaluation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, snapshot_id, location_score, result, created_at
		 FROM evaluations WHERE snapshot_id = $1 ORDER BY created_at DESC, id LIMIT $2`,
		snapshotID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list evaluations")
	}
	defer rows.Close()

	var evals []Evaluation
	for rows.Next() {
		var e Evaluation
		if err := rows.Scan(&e.ID, &e.SnapshotID, &e.LocationScore, &e.Result, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan evaluation")
		}
		evals = append(evals, e)
	}
	return evals, eris.Wrap(rows.Err(), "postgres: list evaluations iterate")
}

func scanPgSnapshot(row pgx.Row) (*Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.Region, &snap.CostThreshold, &snap.AgglomerationThreshold,
		&snap.Localities, &snap.Edges, &snap.Agglomerations, &snap.Payload, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.New("snapshot not found")
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
