package seeder

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

type fakeSeeder struct {
	name    string
	rec     *recorder
	seedErr error
	dropErr error
	gotOpts domain.RunOptions
}

func (f *fakeSeeder) Name() string { return f.name }

func (f *fakeSeeder) Seed(_ context.Context, opts domain.RunOptions) error {
	f.gotOpts = opts
	f.rec.calls = append(f.rec.calls, f.name+".seed")
	return f.seedErr
}

func (f *fakeSeeder) Drop(_ context.Context, opts domain.RunOptions) error {
	f.gotOpts = opts
	f.rec.calls = append(f.rec.calls, f.name+".drop")
	return f.dropErr
}

type UnnamedSeeder struct{}

func (UnnamedSeeder) Seed(context.Context, domain.RunOptions) error { return nil }
func (UnnamedSeeder) Drop(context.Context, domain.RunOptions) error { return nil }

func threeSeeders(rec *recorder) []Seeder {
	return []Seeder{
		&fakeSeeder{name: "A", rec: rec},
		&fakeSeeder{name: "B", rec: rec},
		&fakeSeeder{name: "C", rec: rec},
	}
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "A", NameOf(&fakeSeeder{name: "A"}))
	assert.Equal(t, "UnnamedSeeder", NameOf(UnnamedSeeder{}))
	assert.Equal(t, "UnnamedSeeder", NameOf(&UnnamedSeeder{}))
}

func TestSeedRunsInOrder(t *testing.T) {
	rec := &recorder{}
	svc := NewService(threeSeeders(rec), domain.RunOptions{}, nil)
	require.NoError(t, svc.Seed(context.Background()))
	assert.Equal(t, []string{"A.seed", "B.seed", "C.seed"}, rec.calls)
}

func TestNameFilterKeepsConfiguredOrder(t *testing.T) {
	rec := &recorder{}
	svc := NewService(threeSeeders(rec), domain.RunOptions{Name: []string{"C", "A"}}, nil)
	require.NoError(t, svc.Seed(context.Background()))
	assert.Equal(t, []string{"A.seed", "C.seed"}, rec.calls)
}

func TestRefreshDropsThenSeeds(t *testing.T) {
	rec := &recorder{}
	svc := NewService(threeSeeders(rec), domain.RunOptions{Refresh: true, Name: []string{"B", "C"}}, nil)
	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, []string{"B.drop", "C.drop", "B.seed", "C.seed"}, rec.calls)
}

func TestRunWithoutRefreshOnlySeeds(t *testing.T) {
	rec := &recorder{}
	svc := NewService(threeSeeders(rec), domain.RunOptions{}, nil)
	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, []string{"A.seed", "B.seed", "C.seed"}, rec.calls)
}

func TestOptionsArePassedThrough(t *testing.T) {
	rec := &recorder{}
	s := &fakeSeeder{name: "A", rec: rec}
	opts := domain.RunOptions{DummyData: true, Refresh: true}
	require.NoError(t, NewService([]Seeder{s}, opts, nil).Run(context.Background()))
	assert.Equal(t, opts, s.gotOpts)
}

func TestFailFast(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	seeders := threeSeeders(rec)
	seeders[1].(*fakeSeeder).seedErr = boom

	err := NewService(seeders, domain.RunOptions{}, nil).Seed(context.Background())
	require.ErrorIs(t, err, boom)

	var execErr *SeederExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "B", execErr.Seeder)
	assert.Equal(t, domain.OperationSeed, execErr.Op)
	assert.Equal(t, []string{"A.seed", "B.seed"}, rec.calls)
}

func TestDropFailureStopsRefresh(t *testing.T) {
	rec := &recorder{}
	seeders := threeSeeders(rec)
	seeders[0].(*fakeSeeder).dropErr = errors.New("locked")

	err := NewService(seeders, domain.RunOptions{Refresh: true}, nil).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"A.drop"}, rec.calls)
}

func TestNoMatchWarnsAndIsNoop(t *testing.T) {
	rec := &recorder{}
	var buf bytes.Buffer
	logger := logging.NewLoggerWithWriter("info", &buf)

	svc := NewService(threeSeeders(rec), domain.RunOptions{Name: []string{"Nope"}}, logger)
	assert.Empty(t, svc.SelectSeeders())
	require.NoError(t, svc.Run(context.Background()))
	assert.Empty(t, rec.calls)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "A, B, C")
}

func TestEmptyConfigurationWarns(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(nil, domain.RunOptions{}, logging.NewLoggerWithWriter("info", &buf))
	selected := svc.SelectSeeders()
	assert.NotNil(t, selected)
	assert.Empty(t, selected)
	require.NoError(t, svc.Seed(context.Background()))
	assert.Contains(t, buf.String(), "No seeders configured")
}

func TestCancelledContextStops(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewService(threeSeeders(rec), domain.RunOptions{}, nil).Seed(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.calls)
}

func TestNames(t *testing.T) {
	svc := NewService(threeSeeders(&recorder{}), domain.RunOptions{Name: []string{"A"}}, nil)
	assert.Equal(t, []string{"A", "B", "C"}, svc.Names())
}
