package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/seeder/internal/domain"
)

type SQLiteTarget struct {
	path string
	db   *sql.DB
}

func NewSQLiteTarget(path string) *SQLiteTarget {
	return &SQLiteTarget{path: path}
}

func (t *SQLiteTarget) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite3", t.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	t.db = db
	return nil
}

func (t *SQLiteTarget) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

func (t *SQLiteTarget) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := t.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}

func (t *SQLiteTarget) CreateTableIfNotExists(ctx context.Context, table string, columns []domain.Column) error {
	query := `SELECT name FROM sqlite_master WHERE type='table' AND name=?`
	var name string
	err := t.db.QueryRowContext(ctx, query, table).Scan(&name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	columnDefs := make([]string, len(columns))
	for i, col := range columns {
		colType := t.mapColumnType(col.Type)
		nullable := ""
		if !col.Nullable {
			nullable = " NOT NULL"
		}
		columnDefs[i] = fmt.Sprintf("%s %s%s", col.Name, colType, nullable)
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(columnDefs, ", "))

	_, err = t.db.ExecContext(ctx, createSQL)
	return err
}

func (t *SQLiteTarget) mapColumnType(colType domain.ColumnType) string {
	switch colType {
	case domain.ColumnTypeInt, domain.ColumnTypeBigInt, domain.ColumnTypeBool:
		return "INTEGER"
	case domain.ColumnTypeFloat, domain.ColumnTypeDouble:
		return "REAL"
	default:
		return "TEXT"
	}
}

func (t *SQLiteTarget) DropTable(ctx context.Context, table string) error {
	_, err := t.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	return err
}

func (t *SQLiteTarget) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := t.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	return n, err
}

func (t *SQLiteTarget) TruncateTable(ctx context.Context, table string) error {
	_, err := t.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table))
	return err
}

// ColumnValues returns every value of column in insertion order.
func (t *SQLiteTarget) ColumnValues(ctx context.Context, table, column string) ([]any, error) {
	rows, err := t.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", column, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]any, 0)
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (t *SQLiteTarget) InsertBatch(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "?"
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		args := make([]any, len(row))
		for i, val := range row {
			switch v := val.(type) {
			case time.Time:
				args[i] = v.Format(time.RFC3339)
			case bool:
				if v {
					args[i] = 1
				} else {
					args[i] = 0
				}
			default:
				args[i] = val
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
