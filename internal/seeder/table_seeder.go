package seeder

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
	"github.com/mmrzaf/seeder/internal/logging"
)

const DefaultBatchSize = 25

// Target is the table-level store a TableSeeder writes to.
type Target interface {
	CreateTableIfNotExists(ctx context.Context, table string, columns []domain.Column) error
	Count(ctx context.Context, table string) (int64, error)
	TruncateTable(ctx context.Context, table string) error
	InsertBatch(ctx context.Context, table string, columns []string, rows [][]any) error
	ColumnValues(ctx context.Context, table, column string) ([]any, error)
}

// TableSeeder fills one table from a factory.
//
// Seed leaves a populated table alone unless the run is a refresh. With
// DummyData the larger DummyCount is used. When Per is set, Count rows are
// generated for every value of the parent column, with that value written
// into Per.Field.
type TableSeeder struct {
	spec    domain.SeederSpec
	factory *factory.Factory
	columns []domain.Column
	target  Target
	logger  *logging.Logger
}

// NewTableSeeder builds a seeder for spec. columns is only used when the
// seeder creates its own table.
func NewTableSeeder(spec domain.SeederSpec, f *factory.Factory, columns []domain.Column, target Target, logger *logging.Logger) *TableSeeder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &TableSeeder{
		spec:    spec,
		factory: f,
		columns: columns,
		target:  target,
		logger:  logger.WithComponent(spec.Name),
	}
}

func (s *TableSeeder) Name() string {
	return s.spec.Name
}

func (s *TableSeeder) Table() string {
	return s.spec.Table
}

func (s *TableSeeder) ensureTable(ctx context.Context) error {
	if !s.spec.CreateTable {
		return nil
	}
	if err := s.target.CreateTableIfNotExists(ctx, s.spec.Table, s.columns); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.spec.Table, err)
	}
	return nil
}

// RowCount is the number of rows generated per parent, or in total without Per.
func (s *TableSeeder) RowCount(opts domain.RunOptions) int {
	if opts.DummyData && s.spec.DummyCount > 0 {
		return s.spec.DummyCount
	}
	return s.spec.Count
}

func (s *TableSeeder) Seed(ctx context.Context, opts domain.RunOptions) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	existing, err := s.target.Count(ctx, s.spec.Table)
	if err != nil {
		return fmt.Errorf("failed to count rows in %s: %w", s.spec.Table, err)
	}
	if existing > 0 && !opts.Refresh {
		s.logger.Info("Table %s already has %d rows, skipping", s.spec.Table, existing)
		return nil
	}

	count := s.RowCount(opts)
	base := make(map[string]any, len(s.spec.Values)+1)
	for k, v := range s.spec.Values {
		base[k] = v
	}

	parents := []any{nil}
	if per := s.spec.Per; per != nil {
		parents, err = s.target.ColumnValues(ctx, per.Table, per.Column)
		if err != nil {
			return fmt.Errorf("failed to read %s.%s: %w", per.Table, per.Column, err)
		}
		if len(parents) == 0 {
			s.logger.Warn("No rows in %s, nothing to seed into %s", per.Table, s.spec.Table)
			return nil
		}
		base[per.Field] = nil
	}

	w := &batchWriter{
		ctx:     ctx,
		target:  s.target,
		table:   s.spec.Table,
		size:    s.spec.BatchSize,
		columns: insertColumns(s.factory.Fields(), base),
	}
	if w.size <= 0 {
		w.size = DefaultBatchSize
	}

	for _, parent := range parents {
		overrides := base
		if s.spec.Per != nil {
			overrides = make(map[string]any, len(base))
			for k, v := range base {
				overrides[k] = v
			}
			overrides[s.spec.Per.Field] = parent
		}
		if err := w.generate(s.factory, count, overrides); err != nil {
			return err
		}
	}
	if err := w.flush(); err != nil {
		return err
	}

	s.logger.Infow("Seeded table", map[string]any{"table": s.spec.Table, "rows": w.written})
	return nil
}

func (s *TableSeeder) Drop(ctx context.Context, _ domain.RunOptions) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	existing, err := s.target.Count(ctx, s.spec.Table)
	if err != nil {
		return fmt.Errorf("failed to count rows in %s: %w", s.spec.Table, err)
	}
	if existing == 0 {
		s.logger.Info("Table %s is empty, nothing to drop", s.spec.Table)
		return nil
	}
	if err := s.target.TruncateTable(ctx, s.spec.Table); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", s.spec.Table, err)
	}
	s.logger.Infow("Dropped table rows", map[string]any{"table": s.spec.Table, "rows": existing})
	return nil
}

// insertColumns lists the factory fields in order, then any override-only keys
// sorted by name.
func insertColumns(fields []string, overrides map[string]any) []string {
	cols := append([]string(nil), fields...)
	extra := make([]string, 0)
	for k := range overrides {
		if !slices.Contains(fields, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

type batchWriter struct {
	ctx     context.Context
	target  Target
	table   string
	size    int
	columns []string
	batch   [][]any
	written int
}

func (w *batchWriter) generate(f *factory.Factory, n int, overrides map[string]any) error {
	for n > 0 {
		k := min(n, w.size-len(w.batch))
		records, err := f.Generate(k, overrides)
		if err != nil {
			return fmt.Errorf("failed to generate rows for %s: %w", w.table, err)
		}
		for _, rec := range records {
			row := make([]any, len(w.columns))
			for i, col := range w.columns {
				row[i] = rec[col]
			}
			w.batch = append(w.batch, row)
		}
		n -= k
		if len(w.batch) >= w.size {
			if err := w.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *batchWriter) flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	if err := w.target.InsertBatch(w.ctx, w.table, w.columns, w.batch); err != nil {
		return fmt.Errorf("failed to insert batch into %s: %w", w.table, err)
	}
	w.written += len(w.batch)
	w.batch = make([][]any, 0, w.size)
	return nil
}
