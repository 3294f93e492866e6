package seeder

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/logging"
)

// SeederExecutionError wraps a failure returned by a seeder's Seed or Drop.
type SeederExecutionError struct {
	Seeder string
	Op     domain.Operation
	Err    error
}

func (e *SeederExecutionError) Error() string {
	return fmt.Sprintf("seeder %s %s failed: %v", e.Seeder, e.Op, e.Err)
}

func (e *SeederExecutionError) Unwrap() error {
	return e.Err
}

// Service runs the configured seeders one after another. Later seeders may rely
// on rows written by earlier ones, so nothing runs concurrently and the first
// failure stops the sequence.
type Service struct {
	seeders []Seeder
	opts    domain.RunOptions
	logger  *logging.Logger
}

func NewService(seeders []Seeder, opts domain.RunOptions, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		seeders: append([]Seeder(nil), seeders...),
		opts:    opts,
		logger:  logger.WithComponent("seeder"),
	}
}

func (s *Service) Options() domain.RunOptions {
	return s.opts
}

// Names lists every configured seeder in order.
func (s *Service) Names() []string {
	names := make([]string, len(s.seeders))
	for i, sd := range s.seeders {
		names[i] = NameOf(sd)
	}
	return names
}

// SelectSeeders applies the name filter. A filter that matches nothing is
// logged and yields an empty list rather than an error.
func (s *Service) SelectSeeders() []Seeder {
	if len(s.seeders) == 0 {
		s.logger.Warn("No seeders configured")
		return []Seeder{}
	}
	if len(s.opts.Name) == 0 {
		return append([]Seeder(nil), s.seeders...)
	}

	selected := make([]Seeder, 0, len(s.opts.Name))
	for _, sd := range s.seeders {
		if slices.Contains(s.opts.Name, NameOf(sd)) {
			selected = append(selected, sd)
		}
	}
	if len(selected) == 0 {
		s.logger.Warnw("No seeder matches the requested names", map[string]any{
			"requested": strings.Join(s.opts.Name, ", "),
			"available": strings.Join(s.Names(), ", "),
		})
	}
	return selected
}

func (s *Service) Seed(ctx context.Context) error {
	return s.each(ctx, domain.OperationSeed, func(sd Seeder) error {
		return sd.Seed(ctx, s.opts)
	})
}

// Drop uses the configured order as is; list dependent seeders first when
// their rows must go before the rows they reference.
func (s *Service) Drop(ctx context.Context) error {
	return s.each(ctx, domain.OperationDrop, func(sd Seeder) error {
		return sd.Drop(ctx, s.opts)
	})
}

// Run drops then seeds when Refresh is set, and only seeds otherwise.
func (s *Service) Run(ctx context.Context) error {
	if s.opts.Refresh {
		if err := s.Drop(ctx); err != nil {
			return err
		}
	}
	return s.Seed(ctx)
}

func (s *Service) each(ctx context.Context, op domain.Operation, call func(Seeder) error) error {
	for _, sd := range s.SelectSeeders() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := NameOf(sd)
		s.logger.Info("%s %s start", name, op)
		if err := call(sd); err != nil {
			return &SeederExecutionError{Seeder: name, Op: op, Err: err}
		}
		s.logger.Info("%s %s completed", name, op)
	}
	return nil
}
