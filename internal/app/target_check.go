package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/infra/targets"
	pgTarget "github.com/mmrzaf/seeder/internal/infra/targets/postgres"
	sqliteTarget "github.com/mmrzaf/seeder/internal/infra/targets/sqlite"
	"github.com/mmrzaf/seeder/internal/seeder"
	"github.com/mmrzaf/seeder/internal/validation"
)

// Target is a connectable store the table seeders write to.
type Target interface {
	seeder.Target
	Connect(ctx context.Context) error
	Close() error
	ServerVersion(ctx context.Context) (string, error)
	DropTable(ctx context.Context, table string) error
}

func buildTarget(t *domain.TargetConfig) (Target, error) {
	switch t.Kind {
	case domain.TargetKindPostgres:
		return pgTarget.NewPostgresTarget(t.DSN, t.Schema), nil
	case domain.TargetKindSQLite:
		return sqliteTarget.NewSQLiteTarget(t.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported target kind: %s", t.Kind)
	}
}

// CheckTarget connects to t and probes what the seeders will need to do there.
// The returned check is filled in even when err is non-nil.
func CheckTarget(ctx context.Context, t *domain.TargetConfig) (*domain.TargetCheck, error) {
	check := &domain.TargetCheck{
		ID:         uuid.NewString(),
		TargetName: t.Name,
		TargetKind: t.Kind,
		DSN:        targets.RedactTarget(t).DSN,
		CheckedAt:  time.Now().UTC(),
	}

	// schema identifier validated here too
	val := validation.NewValidator(nil)
	if err := val.ValidateTarget(t); err != nil {
		check.OK = false
		check.Error = err.Error()
		return check, err
	}

	start := time.Now()
	tgt, err := buildTarget(t)
	if err != nil {
		check.OK = false
		check.Error = "unsupported target kind"
		return check, err
	}
	if err := tgt.Connect(ctx); err != nil {
		check.OK = false
		check.Error = targets.Scrub(t, err.Error())
		check.LatencyMS = time.Since(start).Milliseconds()
		return check, err
	}
	defer tgt.Close()

	check.OK = true
	check.LatencyMS = time.Since(start).Milliseconds()
	if ver, verErr := tgt.ServerVersion(ctx); verErr == nil {
		check.ServerVer = ver
	}
	check.Capabilities = probeCapabilities(ctx, tgt)
	return check, nil
}

func probeCapabilities(ctx context.Context, tgt Target) domain.TargetCapabilities {
	table := fmt.Sprintf("seeder_check_%d", time.Now().UnixNano())
	columns := []domain.Column{{Name: "id", Type: domain.ColumnTypeInt}}

	var caps domain.TargetCapabilities
	if err := tgt.CreateTableIfNotExists(ctx, table, columns); err != nil {
		return caps
	}
	caps.CanCreate = true
	defer tgt.DropTable(ctx, table)

	if err := tgt.InsertBatch(ctx, table, []string{"id"}, [][]any{{int64(1)}}); err != nil {
		return caps
	}
	caps.CanInsert = true

	if err := tgt.TruncateTable(ctx, table); err != nil {
		return caps
	}
	caps.CanTruncate = true
	return caps
}
