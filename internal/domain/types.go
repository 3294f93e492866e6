package domain

import (
	"slices"
	"time"
)

// RunOptions is shared by every seed/drop call made during one run.
type RunOptions struct {
	Name      []string `json:"name,omitempty" yaml:"name,omitempty"`
	Refresh   bool     `json:"refresh,omitempty" yaml:"refresh,omitempty"`
	DummyData bool     `json:"dummy_data,omitempty" yaml:"dummy_data,omitempty"`
}

// RunOptions field names, as accepted by Merge.
const (
	OptionName      = "name"
	OptionRefresh   = "refresh"
	OptionDummyData = "dummy_data"
)

// Merge returns a copy of o with other applied on top. Set fields of other
// always apply; fields named in explicit apply even when zero, which lets a
// caller switch off a project default.
func (o RunOptions) Merge(other RunOptions, explicit ...string) RunOptions {
	out := o
	out.Name = append([]string(nil), o.Name...)
	if len(other.Name) > 0 || slices.Contains(explicit, OptionName) {
		out.Name = append([]string(nil), other.Name...)
	}
	if other.Refresh || slices.Contains(explicit, OptionRefresh) {
		out.Refresh = other.Refresh
	}
	if other.DummyData || slices.Contains(explicit, OptionDummyData) {
		out.DummyData = other.DummyData
	}
	return out
}

type FactoryDefinition struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []FieldDefinition `json:"fields" yaml:"fields"`
}

type FieldDefinition struct {
	Name      string         `json:"name" yaml:"name"`
	Type      ColumnType     `json:"type,omitempty" yaml:"type,omitempty"`
	Value     any            `json:"value,omitempty" yaml:"value,omitempty"`
	Generator *GeneratorSpec `json:"generator,omitempty" yaml:"generator,omitempty"`
	DependsOn []string       `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

type ColumnType string

const (
	ColumnTypeInt       ColumnType = "int"
	ColumnTypeBigInt    ColumnType = "bigint"
	ColumnTypeFloat     ColumnType = "float"
	ColumnTypeDouble    ColumnType = "double"
	ColumnTypeString    ColumnType = "string"
	ColumnTypeText      ColumnType = "text"
	ColumnTypeBool      ColumnType = "bool"
	ColumnTypeTimestamp ColumnType = "timestamp"
	ColumnTypeDate      ColumnType = "date"
	ColumnTypeUUID      ColumnType = "uuid"
)

type GeneratorSpec struct {
	Type   string         `json:"type" yaml:"type"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Column is a table column derived from a factory field when a seeder creates its table.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

type Project struct {
	Name         string       `json:"name" yaml:"name"`
	Target       TargetConfig `json:"target" yaml:"target"`
	FactoriesDir string       `json:"factories_dir,omitempty" yaml:"factories_dir,omitempty"`
	// Defaults apply to every run; options passed to a run are merged on top
	// with RunOptions.Merge.
	Defaults     RunOptions   `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Seeders      []SeederSpec `json:"seeders" yaml:"seeders"`
}

// SeederSpec configures one table seeder. Seeders run in declaration order.
type SeederSpec struct {
	Name        string         `json:"name" yaml:"name"`
	Factory     string         `json:"factory" yaml:"factory"`
	Table       string         `json:"table" yaml:"table"`
	Count       int            `json:"count" yaml:"count"`
	DummyCount  int            `json:"dummy_count,omitempty" yaml:"dummy_count,omitempty"`
	BatchSize   int            `json:"batch_size,omitempty" yaml:"batch_size,omitempty"`
	CreateTable bool           `json:"create_table,omitempty" yaml:"create_table,omitempty"`
	Values      map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
	Per         *ParentRef     `json:"per,omitempty" yaml:"per,omitempty"`
}

// ParentRef makes a seeder generate Count rows for every value of Table.Column,
// writing that value into Field.
type ParentRef struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column" yaml:"column"`
	Field  string `json:"field" yaml:"field"`
}

type TargetConfig struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	DSN      string `json:"dsn" yaml:"dsn"`
	Schema   string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
}

const (
	TargetKindSQLite   = "sqlite"
	TargetKindPostgres = "postgres"
)

type TargetCapabilities struct {
	CanCreate   bool `json:"can_create" yaml:"can_create"`
	CanInsert   bool `json:"can_insert" yaml:"can_insert"`
	CanTruncate bool `json:"can_truncate" yaml:"can_truncate"`
}

type TargetCheck struct {
	ID           string             `json:"id" yaml:"id"`
	TargetName   string             `json:"target_name" yaml:"target_name"`
	TargetKind   string             `json:"target_kind" yaml:"target_kind"`
	DSN          string             `json:"dsn" yaml:"dsn"`
	CheckedAt    time.Time          `json:"checked_at" yaml:"checked_at"`
	OK           bool               `json:"ok" yaml:"ok"`
	Error        string             `json:"error,omitempty" yaml:"error,omitempty"`
	LatencyMS    int64              `json:"latency_ms" yaml:"latency_ms"`
	ServerVer    string             `json:"server_version,omitempty" yaml:"server_version,omitempty"`
	Capabilities TargetCapabilities `json:"capabilities" yaml:"capabilities"`
}

type Operation string

const (
	OperationRun  Operation = "run"
	OperationSeed Operation = "seed"
	OperationDrop Operation = "drop"
)

type Run struct {
	ID          string     `json:"id" yaml:"id"`
	Operation   Operation  `json:"operation" yaml:"operation"`
	Project     string     `json:"project" yaml:"project"`
	TargetName  string     `json:"target_name" yaml:"target_name"`
	TargetKind  string     `json:"target_kind" yaml:"target_kind"`
	Seeders     []string   `json:"seeders" yaml:"seeders"`
	Options     RunOptions `json:"options" yaml:"options"`
	Seed        int64      `json:"seed" yaml:"seed"`
	ConfigHash  string     `json:"config_hash" yaml:"config_hash"`
	Status      RunStatus  `json:"status" yaml:"status"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
}

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)
