package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                      TEXT PRIMARY KEY,
	region                  TEXT NOT NULL,
	cost_threshold          REAL NOT NULL,
	agglomeration_threshold REAL NOT NULL,
	localities              INTEGER NOT NULL,
	edges                   INTEGER NOT NULL,
	agglomerations          INTEGER NOT NULL,
	payload                 TEXT NOT NULL,
	created_at              DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS evaluations (
	id             TEXT PRIMARY KEY,
	snapshot_id    TEXT NOT NULL REFERENCES snapshots(id),
	location_score INTEGER NOT NULL,
	result         TEXT NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_snapshots_region ON snapshots(region);
CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
CREATE INDEX IF NOT EXISTS idx_evaluations_snapshot_id ON evaluations(snapshot_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateSnapshot(ctx context.Context, snap Snapshot) (*Snapshot, error) {
	snap.ID = uuid.New().String()
	snap.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots
		 (id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Region, snap.CostThreshold, snap.AgglomerationThreshold,
		snap.Localities, snap.Edges, snap.Agglomerations, string(snap.Payload), snap.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert snapshot")
	}
	return &snap, nil
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at
		 FROM snapshots WHERE id = ?`, id,
	)
	return scanSnapshot(row)
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context, region string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at
		 FROM snapshots WHERE region = ? ORDER BY created_at DESC, id LIMIT 1`, region,
	)
	return scanSnapshot(row)
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]Snapshot, error) {
	query := `SELECT id, region, cost_threshold, agglomeration_threshold, localities, edges, agglomerations, payload, created_at
	          FROM snapshots WHERE 1=1`
	var args []any

	if filter.Region != "" {
		query += ` AND region = ?`
		args = append(args, filter.Region)
	}
	query += ` ORDER BY created_at DESC, id`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: list snapshots iterate")
}

func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM evaluations WHERE snapshot_id = ?`, id); err != nil {
		return eris.Wrapf(err, "sqlite: delete evaluations for %s", id)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete snapshot %s", id)
	}
	return checkRowsAffected(res, "snapshot", id)
}

func (s *SQLiteStore) CreateEvaluation(ctx context.Context, eval Evaluation) (*Evaluation, error) {
	eval.ID = uuid.New().String()
	eval.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, snapshot_id, location_score, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		eval.ID, eval.SnapshotID, eval.LocationScore, string(eval.Result), eval.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert evaluation for snapshot %s", eval.SnapshotID)
	}
	return &eval, nil
}

func (s *SQLiteStore) ListEvaluations(ctx context.Context, snapshotID string, limit int) ([]Evaluation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, snapshot_id, location_score, result, created_at
		 FROM evaluations WHERE snapshot_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		snapshotID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list evaluations")
	}
	defer rows.Close()

	var evals []Evaluation
	for rows.Next() {
		var e Evaluation
		var result string
		if err := rows.Scan(&e.ID, &e.SnapshotID, &e.LocationScore, &result, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan evaluation")
		}
		e.Result = []byte(result)
		evals = append(evals, e)
	}
	return evals, eris.Wrap(rows.Err(), "sqlite: list evaluations iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scannable) (*Snapshot, error) {
	var snap Snapshot
	var payload string

	err := row.Scan(&snap.ID, &snap.Region, &snap.CostThreshold, &snap.AgglomerationThreshold,
		&snap.Localities, &snap.Edges, &snap.Agglomerations, &payload, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("snapshot not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan snapshot")
	}
	snap.Payload = []byte(payload)
	return &snap, nil
}
