package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmrzaf/seeder/internal/app"
	"github.com/mmrzaf/seeder/internal/config"
	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/infra/repos/runs"
	"github.com/mmrzaf/seeder/internal/logging"
	"github.com/mmrzaf/seeder/internal/registry"
	"github.com/spf13/cobra"
)

var (
	projectPath  string
	factoriesDir string
	runsDBPath   string
	logLevel     string
	database     string
	seed         int64
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "seeder",
		Short:         "Seed databases from declarative factories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&projectPath, "config", "c", cfg.ProjectPath, "Project file (yaml|json)")
	rootCmd.PersistentFlags().StringVar(&factoriesDir, "factories-dir", cfg.FactoriesDir, "Factories directory (overrides the project)")
	rootCmd.PersistentFlags().StringVar(&runsDBPath, "runs-db", cfg.RunsDBPath, "Run journal database path (empty disables the journal)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level")
	rootCmd.PersistentFlags().StringVar(&database, "database", "", "Target database override")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", cfg.Seed, "Seed for the random source (0 = random)")

	rootCmd.AddCommand(
		operationCmd(ctx, domain.OperationRun, "Drop then seed with --refresh, otherwise seed"),
		operationCmd(ctx, domain.OperationSeed, "Run the seeders' seed step"),
		operationCmd(ctx, domain.OperationDrop, "Run the seeders' drop step"),
		listCmd(),
		factoryCmd(),
		targetCmd(ctx),
		runsCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRunService wires the service from the global flags. The returned close
// func releases the run journal.
func newRunService(journal bool) (*app.RunService, func(), error) {
	if _, ok := logging.ParseLevel(logLevel); !ok {
		return nil, nil, fmt.Errorf("invalid log level: %s", logLevel)
	}
	logger := logging.NewLogger(logLevel)

	opts := app.Options{
		ProjectPath:  projectPath,
		FactoriesDir: factoriesDir,
		Database:     database,
		Seed:         seed,
	}

	var runRepo runs.Repository
	closeFn := func() {}
	if journal && runsDBPath != "" {
		repo := runs.NewSQLiteRepository(runsDBPath)
		if err := repo.Init(); err != nil {
			return nil, nil, fmt.Errorf("failed to open run journal: %w", err)
		}
		runRepo = repo
		closeFn = func() {
			if err := repo.Close(); err != nil {
				logger.Warn("Failed to close run journal: %v", err)
			}
		}
	}

	return app.NewRunService(opts, runRepo, registry.DefaultGeneratorRegistry(), logger), closeFn, nil
}

func operationCmd(ctx context.Context, op domain.Operation, short string) *cobra.Command {
	var opts domain.RunOptions

	cmd := &cobra.Command{
		Use:   string(op),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newRunService(true)
			if err != nil {
				return err
			}
			defer closeFn()

			run, err := svc.Execute(ctx, op, opts, explicitOptions(cmd)...)
			if run != nil {
				fmt.Printf("Run %s %s (seeders: %d, seed: %d)\n", run.ID, run.Status, len(run.Seeders), run.Seed)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&opts.Refresh, "refresh", "r", false, "Drop existing data before seeding")
	cmd.Flags().StringSliceVarP(&opts.Name, "name", "n", nil, "Only run the named seeders (repeatable)")
	cmd.Flags().BoolVarP(&opts.DummyData, "dummyData", "d", false, "Generate the larger dummy data volume")
	return cmd
}

// explicitOptions names the run options given on the command line, so that
// --refresh=false can switch off a project default.
func explicitOptions(cmd *cobra.Command) []string {
	flags := map[string]string{
		"name":      domain.OptionName,
		"refresh":   domain.OptionRefresh,
		"dummyData": domain.OptionDummyData,
	}
	var out []string
	for flag, option := range flags {
		if cmd.Flags().Changed(flag) {
			out = append(out, option)
		}
	}
	return out
}
