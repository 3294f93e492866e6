package app

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
	"github.com/mmrzaf/seeder/internal/hashing"
	"github.com/mmrzaf/seeder/internal/infra/repos/definitions"
	"github.com/mmrzaf/seeder/internal/infra/repos/project"
	"github.com/mmrzaf/seeder/internal/infra/repos/runs"
	"github.com/mmrzaf/seeder/internal/infra/targets"
	"github.com/mmrzaf/seeder/internal/logging"
	"github.com/mmrzaf/seeder/internal/registry"
	"github.com/mmrzaf/seeder/internal/seeder"
	"github.com/mmrzaf/seeder/internal/validation"
)

// Options locate the project and tune a run.
type Options struct {
	ProjectPath string
	// FactoriesDir overrides the project's factories_dir when set.
	FactoriesDir string
	// Database overrides the target database.
	Database string
	// Seed fixes the random source; 0 picks a fresh seed per run.
	Seed int64
}

// Workspace is a loaded and validated project with its factory definitions.
type Workspace struct {
	Project     *domain.Project
	Definitions []*domain.FactoryDefinition
	byName      map[string]*domain.FactoryDefinition
}

func (w *Workspace) Definition(name string) (*domain.FactoryDefinition, bool) {
	def, ok := w.byName[name]
	return def, ok
}

type RunService struct {
	opts        Options
	runRepo     runs.Repository
	genRegistry *registry.GeneratorRegistry
	validator   *validation.Validator
	logger      *logging.Logger
	newTarget   func(*domain.TargetConfig) (Target, error)
}

// NewRunService wires a service. runRepo may be nil, in which case runs are
// not journaled.
func NewRunService(opts Options, runRepo runs.Repository, genRegistry *registry.GeneratorRegistry, logger *logging.Logger) *RunService {
	if genRegistry == nil {
		genRegistry = registry.DefaultGeneratorRegistry()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &RunService{
		opts:        opts,
		runRepo:     runRepo,
		genRegistry: genRegistry,
		validator:   validation.NewValidator(genRegistry),
		logger:      logger,
		newTarget:   buildTarget,
	}
}

// LoadDefinitions reads and validates the factory definitions.
func (s *RunService) LoadDefinitions() ([]*domain.FactoryDefinition, error) {
	p, err := project.Load(s.opts.ProjectPath)
	if err != nil {
		return nil, err
	}
	return s.loadDefinitions(p)
}

func (s *RunService) loadDefinitions(p *domain.Project) ([]*domain.FactoryDefinition, error) {
	dir := p.FactoriesDir
	if s.opts.FactoriesDir != "" {
		dir = s.opts.FactoriesDir
	}
	defs, err := definitions.NewFileRepository(dir).List()
	if err != nil {
		return nil, fmt.Errorf("failed to load factories: %w", err)
	}
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.Name] {
			return nil, fmt.Errorf("duplicate factory name: %s", def.Name)
		}
		seen[def.Name] = true
		if err := s.validator.ValidateDefinition(def); err != nil {
			return nil, fmt.Errorf("factory '%s': %w", def.Name, err)
		}
	}
	return defs, nil
}

// Load reads the project and its definitions and validates both.
func (s *RunService) Load() (*Workspace, error) {
	p, err := project.Load(s.opts.ProjectPath)
	if err != nil {
		return nil, err
	}
	defs, err := s.loadDefinitions(p)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*domain.FactoryDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	if err := s.validator.ValidateProject(p, byName); err != nil {
		return nil, fmt.Errorf("project validation failed: %w", err)
	}
	return &Workspace{Project: p, Definitions: defs, byName: byName}, nil
}

// Target returns the effective target of the project, with any database
// override applied.
func (s *RunService) Target() (*domain.TargetConfig, error) {
	p, err := project.Load(s.opts.ProjectPath)
	if err != nil {
		return nil, err
	}
	return targetForRun(&p.Target, s.opts.Database), nil
}

func (s *RunService) CheckTarget(ctx context.Context) (*domain.TargetCheck, error) {
	t, err := s.Target()
	if err != nil {
		return nil, err
	}
	return CheckTarget(ctx, t)
}

// Preview generates count records of one factory without touching a target.
func (s *RunService) Preview(name string, count int, overrides map[string]any) ([]factory.Record, error) {
	defs, err := s.LoadDefinitions()
	if err != nil {
		return nil, err
	}
	storage := factory.NewStorage()
	if err := RegisterDefinitions(storage, s.genRegistry, defs); err != nil {
		return nil, err
	}
	if len(storage.Lookup(name)) == 0 {
		return nil, fmt.Errorf("factory not found: %s", name)
	}
	f, err := factory.New(storage, factory.WithSeed(s.opts.Seed)).CreateForClass(name)
	if err != nil {
		return nil, err
	}
	return f.Generate(count, overrides)
}

// Execute performs op with the project's seeders and journals the outcome.
// opts are merged over the project defaults; explicit names the options the
// caller set on purpose, even to their zero value.
// The returned run is non-nil whenever the run got as far as being recorded.
func (s *RunService) Execute(ctx context.Context, op domain.Operation, opts domain.RunOptions, explicit ...string) (*domain.Run, error) {
	ws, err := s.Load()
	if err != nil {
		return nil, err
	}
	targetCfg := targetForRun(&ws.Project.Target, s.opts.Database)
	opts = ws.Project.Defaults.Merge(opts, explicit...)

	seed := s.opts.Seed
	if seed == 0 {
		seed = generateSeed()
	}

	projectHash, err := hashing.HashProject(ws.Project, ws.Definitions)
	if err != nil {
		return nil, fmt.Errorf("failed to hash project: %w", err)
	}
	configHash, err := hashing.HashRunConfig(projectHash, targetCfg, op, opts, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash run config: %w", err)
	}

	tgt, err := s.newTarget(targetCfg)
	if err != nil {
		return nil, err
	}
	svc, err := s.buildService(ws, tgt, opts, seed)
	if err != nil {
		return nil, err
	}

	run := &domain.Run{
		Operation:  op,
		Project:    ws.Project.Name,
		TargetName: targetCfg.Name,
		TargetKind: targetCfg.Kind,
		Seeders:    selectedNames(svc.Names(), opts.Name),
		Options:    opts,
		Seed:       seed,
		ConfigHash: configHash,
		Status:     domain.RunStatusRunning,
		StartedAt:  time.Now(),
	}
	if s.runRepo != nil {
		if err := s.runRepo.Create(run); err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
	}

	s.logger.Info("Starting %s %s: project=%s, target=%s (%s), seed=%d",
		op, run.ID, run.Project, run.TargetName, targets.RedactTarget(targetCfg).DSN, seed)

	err = s.execute(ctx, svc, tgt, op)
	s.finish(run, targetCfg, err)
	return run, err
}

func (s *RunService) execute(ctx context.Context, svc *seeder.Service, tgt Target, op domain.Operation) error {
	if err := tgt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to target: %w", err)
	}
	defer tgt.Close()

	switch op {
	case domain.OperationRun:
		return svc.Run(ctx)
	case domain.OperationSeed:
		return svc.Seed(ctx)
	case domain.OperationDrop:
		return svc.Drop(ctx)
	default:
		return fmt.Errorf("unknown operation: %s", op)
	}
}

func (s *RunService) buildService(ws *Workspace, tgt Target, opts domain.RunOptions, seed int64) (*seeder.Service, error) {
	storage := factory.NewStorage()
	if err := RegisterDefinitions(storage, s.genRegistry, ws.Definitions); err != nil {
		return nil, err
	}
	df := factory.New(storage, factory.WithSeed(seed))

	seeders := make([]seeder.Seeder, 0, len(ws.Project.Seeders))
	for _, spec := range ws.Project.Seeders {
		def, ok := ws.Definition(spec.Factory)
		if !ok {
			return nil, fmt.Errorf("seeder '%s': factory not found: %s", spec.Name, spec.Factory)
		}
		f, err := df.CreateForClass(def.Name)
		if err != nil {
			return nil, err
		}
		seeders = append(seeders, seeder.NewTableSeeder(spec, f, tableColumns(def), tgt, s.logger))
	}
	return seeder.NewService(seeders, opts, s.logger), nil
}

// finish records the outcome. Errors are scrubbed of target credentials
// before they reach the log or the journal.
func (s *RunService) finish(run *domain.Run, targetCfg *domain.TargetConfig, runErr error) {
	now := time.Now()
	run.CompletedAt = &now
	if runErr != nil {
		run.Status = domain.RunStatusFailed
		run.Error = targets.Scrub(targetCfg, runErr.Error())
		s.logger.Error("Run %s failed: %s", run.ID, run.Error)
	} else {
		run.Status = domain.RunStatusSuccess
		s.logger.Info("Run %s completed in %.2fs", run.ID, now.Sub(run.StartedAt).Seconds())
	}
	if s.runRepo == nil {
		return
	}
	if err := s.runRepo.Update(run); err != nil {
		s.logger.Error("Failed to update run %s: %v", run.ID, err)
	}
}

func (s *RunService) GetRun(id string) (*domain.Run, error) {
	if s.runRepo == nil {
		return nil, errors.New("run journal is not configured")
	}
	return s.runRepo.Get(id)
}

func (s *RunService) ListRuns(limit int, status string) ([]*domain.Run, error) {
	if s.runRepo == nil {
		return nil, errors.New("run journal is not configured")
	}
	return s.runRepo.List(limit, status)
}

// selectedNames mirrors the seeder name filter without its warnings.
func selectedNames(all, requested []string) []string {
	if len(requested) == 0 {
		return append([]string{}, all...)
	}
	out := make([]string, 0, len(requested))
	for _, n := range all {
		if slices.Contains(requested, n) {
			out = append(out, n)
		}
	}
	return out
}

func generateSeed() int64 {
	var b [8]byte
	rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
