package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/mmrzaf/seeder/internal/domain"
)

type PostgresTarget struct {
	dsn    string
	schema string
	db     *sql.DB
}

func NewPostgresTarget(dsn, schema string) *PostgresTarget {
	if schema == "" {
		schema = "public"
	}
	return &PostgresTarget{
		dsn:    dsn,
		schema: schema,
	}
}

// NewPostgresTargetWithDB wraps an already open connection pool. Connect is a
// no-op ping for such targets.
func NewPostgresTargetWithDB(db *sql.DB, schema string) *PostgresTarget {
	t := NewPostgresTarget("", schema)
	t.db = db
	return t
}

func (t *PostgresTarget) Connect(ctx context.Context) error {
	if t.db != nil {
		return t.db.PingContext(ctx)
	}
	db, err := sql.Open("postgres", t.dsn)
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

func (t *PostgresTarget) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

func (t *PostgresTarget) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := t.db.QueryRowContext(ctx, "SHOW server_version").Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}

func (t *PostgresTarget) qualified(table string) string {
	return t.schema + "." + table
}

func (t *PostgresTarget) CreateTableIfNotExists(ctx context.Context, table string, columns []domain.Column) error {
	var exists bool
	query := `SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2)`
	if err := t.db.QueryRowContext(ctx, query, t.schema, table).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
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

	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", t.qualified(table), strings.Join(columnDefs, ", "))

	_, err := t.db.ExecContext(ctx, createSQL)
	return err
}

func (t *PostgresTarget) mapColumnType(colType domain.ColumnType) string {
	switch colType {
	case domain.ColumnTypeInt:
		return "INTEGER"
	case domain.ColumnTypeBigInt:
		return "BIGINT"
	case domain.ColumnTypeFloat:
		return "REAL"
	case domain.ColumnTypeDouble:
		return "DOUBLE PRECISION"
	case domain.ColumnTypeString:
		return "VARCHAR(255)"
	case domain.ColumnTypeText:
		return "TEXT"
	case domain.ColumnTypeBool:
		return "BOOLEAN"
	case domain.ColumnTypeTimestamp:
		return "TIMESTAMP"
	case domain.ColumnTypeDate:
		return "DATE"
	case domain.ColumnTypeUUID:
		return "UUID"
	default:
		return "TEXT"
	}
}

func (t *PostgresTarget) DropTable(ctx context.Context, table string) error {
	_, err := t.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", t.qualified(table)))
	return err
}

func (t *PostgresTarget) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := t.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", t.qualified(table))).Scan(&n)
	return n, err
}

// TruncateTable cascades so rows seeded into child tables go with their parents.
func (t *PostgresTarget) TruncateTable(ctx context.Context, table string) error {
	_, err := t.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", t.qualified(table)))
	return err
}

func (t *PostgresTarget) ColumnValues(ctx context.Context, table, column string) ([]any, error) {
	rows, err := t.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s", column, t.qualified(table)))
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

// InsertBatch writes all rows with a single multi-row INSERT.
func (t *PostgresTarget) InsertBatch(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(rows))
	args := make([]any, 0, len(rows)*len(columns))

	for i, row := range rows {
		rowPlaceholders := make([]string, len(columns))
		for j := range columns {
			rowPlaceholders[j] = fmt.Sprintf("$%d", i*len(columns)+j+1)
			args = append(args, row[j])
		}
		placeholders[i] = "(" + strings.Join(rowPlaceholders, ", ") + ")"
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		t.qualified(table), strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	_, err := t.db.ExecContext(ctx, insertSQL, args...)
	return err
}
