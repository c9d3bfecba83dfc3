// Package persistence provides SQLite-based storage of finished runs.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/groupsim/internal/config"
	"github.com/talgya/groupsim/internal/engine"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		state TEXT NOT NULL,
		ticks INTEGER NOT NULL,
		population INTEGER NOT NULL,
		final_fraction REAL NOT NULL,
		config_json TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		prosocial_fraction REAL NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS tick_reports (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		unsatisfied INTEGER NOT NULL,
		moved INTEGER NOT NULL,
		switched INTEGER NOT NULL,
		prosocial_fraction REAL NOT NULL,
		mean_score REAL NOT NULL,
		mean_group_size REAL NOT NULL,
		largest_group INTEGER NOT NULL,
		isolated INTEGER NOT NULL,
		converged INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunRow is one stored run.
type RunRow struct {
	ID            string  `db:"id" json:"id"`
	CreatedAt     int64   `db:"created_at" json:"created_at"` // Unix seconds
	Seed          int64   `db:"seed" json:"seed"`
	State         string  `db:"state" json:"state"`
	Ticks         int     `db:"ticks" json:"ticks"`
	Population    int     `db:"population" json:"population"`
	FinalFraction float64 `db:"final_fraction" json:"final_fraction"`
	ConfigJSON    string  `db:"config_json" json:"-"`
	Error         string  `db:"error" json:"error,omitempty"`
}

// Created returns the creation time.
func (r RunRow) Created() time.Time {
	return time.Unix(r.CreatedAt, 0)
}

// Config decodes the stored configuration.
func (r RunRow) Config() (config.Config, error) {
	var cfg config.Config
	err := json.Unmarshal([]byte(r.ConfigJSON), &cfg)
	return cfg, err
}

// TickRow is one stored tick report.
type TickRow struct {
	RunID             string  `db:"run_id" json:"-"`
	Tick              int     `db:"tick" json:"tick"`
	Unsatisfied       int     `db:"unsatisfied" json:"unsatisfied"`
	Moved             int     `db:"moved" json:"moved"`
	Switched          int     `db:"switched" json:"switched"`
	ProsocialFraction float64 `db:"prosocial_fraction" json:"prosocial_fraction"`
	MeanScore         float64 `db:"mean_score" json:"mean_score"`
	MeanGroupSize     float64 `db:"mean_group_size" json:"mean_group_size"`
	LargestGroup      int     `db:"largest_group" json:"largest_group"`
	Isolated          int     `db:"isolated" json:"isolated"`
	Converged         bool    `db:"converged" json:"converged"`
}

// SaveRun stores a run with its series and tick reports in one transaction
// and returns the new run id. runErr, if any, is recorded with the run.
func (db *DB) SaveRun(cfg config.Config, res engine.Result, reports []engine.TickReport, runErr error) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	id := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, seed, state, ticks, population, final_fraction, config_json, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().Unix(), res.Seed, res.State.String(), res.Ticks, res.Population,
		res.FinalFraction(), string(cfgJSON), errText,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	sampleStmt, err := tx.Preparex("INSERT INTO samples (run_id, tick, prosocial_fraction) VALUES (?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer sampleStmt.Close()
	for _, s := range res.Series {
		if _, err := sampleStmt.Exec(id, s.Tick, s.ProsocialFraction); err != nil {
			return "", fmt.Errorf("insert sample %d: %w", s.Tick, err)
		}
	}

	tickStmt, err := tx.Preparex(`INSERT INTO tick_reports
		(run_id, tick, unsatisfied, moved, switched, prosocial_fraction,
		 mean_score, mean_group_size, largest_group, isolated, converged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer tickStmt.Close()
	for _, r := range reports {
		_, err := tickStmt.Exec(
			id, r.Tick, r.Unsatisfied, r.Moved, r.Switched, r.ProsocialFraction,
			r.MeanScore, r.Groups.MeanSize, r.Groups.Largest, r.Groups.Isolated, r.Converged,
		)
		if err != nil {
			return "", fmt.Errorf("insert tick %d: %w", r.Tick, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Debug("run saved", "id", id, "samples", len(res.Series), "ticks", len(reports))
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunRow, error) {
	var rows []RunRow
	err := db.conn.Select(&rows,
		"SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return rows, err
}

// LoadRun returns one run by id.
func (db *DB) LoadRun(id string) (RunRow, error) {
	var row RunRow
	err := db.conn.Get(&row, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return row, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return row, err
}

// LoadSeries returns a run's prosocial-fraction series in tick order.
func (db *DB) LoadSeries(id string) ([]engine.Sample, error) {
	if _, err := db.LoadRun(id); err != nil {
		return nil, err
	}
	var series []engine.Sample
	err := db.conn.Select(&series,
		"SELECT tick, prosocial_fraction FROM samples WHERE run_id = ? ORDER BY tick",
		id,
	)
	return series, err
}

// LoadTickReports returns a run's tick reports in tick order.
func (db *DB) LoadTickReports(id string) ([]TickRow, error) {
	if _, err := db.LoadRun(id); err != nil {
		return nil, err
	}
	var rows []TickRow
	err := db.conn.Select(&rows,
		"SELECT * FROM tick_reports WHERE run_id = ? ORDER BY tick",
		id,
	)
	return rows, err
}
