package runs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/seeder/internal/domain"
)

var ErrRunNotFound = errors.New("run not found")

type SQLiteRepository struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Init() error {
	if dir := filepath.Dir(r.dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create runs db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}
	r.db = db

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		project TEXT NOT NULL,
		target_name TEXT NOT NULL,
		target_kind TEXT NOT NULL,
		seeders TEXT NOT NULL,
		options TEXT NOT NULL,
		seed INTEGER NOT NULL,
		config_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		completed_at TEXT,
		error TEXT
	)`

	_, err = r.db.Exec(createTableSQL)
	return err
}

func (r *SQLiteRepository) Create(run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	seedersJSON, err := json.Marshal(run.Seeders)
	if err != nil {
		return err
	}
	optionsJSON, err := json.Marshal(run.Options)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO runs (
			id, operation, project, target_name, target_kind,
			seeders, options, seed, config_hash, status,
			started_at, completed_at, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID, run.Operation, run.Project, run.TargetName, run.TargetKind,
		string(seedersJSON), string(optionsJSON), run.Seed, run.ConfigHash, run.Status,
		formatTime(run.StartedAt), formatTimePtr(run.CompletedAt), run.Error,
	)
	return err
}

func (r *SQLiteRepository) Update(run *domain.Run) error {
	seedersJSON, err := json.Marshal(run.Seeders)
	if err != nil {
		return err
	}

	query := `
		UPDATE runs SET
			seeders = ?, status = ?, completed_at = ?, error = ?
		WHERE id = ?
	`

	res, err := r.db.Exec(query, string(seedersJSON), run.Status, formatTimePtr(run.CompletedAt), run.Error, run.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	return nil
}

const selectRuns = `
	SELECT id, operation, project, target_name, target_kind,
	       seeders, options, seed, config_hash, status,
	       started_at, completed_at, error
	FROM runs
`

func (r *SQLiteRepository) Get(id string) (*domain.Run, error) {
	run, err := scanRun(r.db.QueryRow(selectRuns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

func (r *SQLiteRepository) List(limit int, status string) ([]*domain.Run, error) {
	query := selectRuns
	args := make([]interface{}, 0)
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	query += " ORDER BY started_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var seedersStr, optionsStr, startedAtStr string
	var completedAtStr sql.NullString
	var errorStr sql.NullString

	err := row.Scan(
		&run.ID, &run.Operation, &run.Project, &run.TargetName, &run.TargetKind,
		&seedersStr, &optionsStr, &run.Seed, &run.ConfigHash, &run.Status,
		&startedAtStr, &completedAtStr, &errorStr,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(seedersStr), &run.Seeders); err != nil {
		return nil, fmt.Errorf("decode seeders of run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(optionsStr), &run.Options); err != nil {
		return nil, fmt.Errorf("decode options of run %s: %w", run.ID, err)
	}
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAtStr)
	if completedAtStr.Valid {
		t, _ := time.Parse(time.RFC3339Nano, completedAtStr.String)
		run.CompletedAt = &t
	}
	if errorStr.Valid {
		run.Error = errorStr.String
	}
	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
