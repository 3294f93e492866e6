package generators

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
	"github.com/mmrzaf/seeder/internal/timeutil"
)

// RecentTimeGenerator picks an instant in the past, no older than 'within'
// (default 90d).
type RecentTimeGenerator struct {
	Now func() time.Time
}

func (g *RecentTimeGenerator) Validate(spec domain.GeneratorSpec) error {
	if _, err := g.window(spec); err != nil {
		return err
	}
	return nil
}

func (g *RecentTimeGenerator) window(spec domain.GeneratorSpec) (time.Duration, error) {
	raw, ok := spec.Params["within"]
	if !ok {
		return 90 * 24 * time.Hour, nil
	}
	s, ok := raw.(string)
	if !ok {
		return 0, errors.New("'within' must be a string")
	}
	d, err := timeutil.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid 'within': %w", err)
	}
	if d <= 0 {
		return 0, errors.New("'within' must be positive")
	}
	return d, nil
}

func (g *RecentTimeGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	within, err := g.window(spec)
	if err != nil {
		return nil, err
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}
	return func(src *factory.Source, _ factory.Context) (any, error) {
		back := time.Duration(src.Rand.Int63n(int64(within)))
		return now().Add(-back).UTC().Truncate(time.Second), nil
	}, nil
}

// TimeBetweenGenerator picks an instant between 'start' and 'end', each either
// RFC3339 or relative to now (e.g. -30d, +1w).
type TimeBetweenGenerator struct {
	Now func() time.Time
}

func (g *TimeBetweenGenerator) Validate(spec domain.GeneratorSpec) error {
	_, _, err := g.bounds(spec, time.Now())
	return err
}

func (g *TimeBetweenGenerator) bounds(spec domain.GeneratorSpec, now time.Time) (time.Time, time.Time, error) {
	startStr, err := stringParam(spec, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endStr, err := stringParam(spec, "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := timeutil.ParseRelativeTime(startStr, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := timeutil.ParseRelativeTime(endStr, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.New("'end' must be after 'start'")
	}
	return start, end, nil
}

func (g *TimeBetweenGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}
	return func(src *factory.Source, _ factory.Context) (any, error) {
		start, end, err := g.bounds(spec, now())
		if err != nil {
			return nil, err
		}
		offset := time.Duration(src.Rand.Int63n(int64(end.Sub(start))))
		return start.Add(offset).UTC().Truncate(time.Second), nil
	}, nil
}
