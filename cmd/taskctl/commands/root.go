package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/benvon/taskboard/internal/config"
	"github.com/benvon/taskboard/internal/logger"
	"github.com/benvon/taskboard/internal/storage"
	"github.com/benvon/taskboard/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Opener loads the store a command operates on. The returned closer releases
// the underlying storage backend.
type Opener func(ctx context.Context, log *zap.Logger) (*store.Store, io.Closer, error)

// OpenFromEnv opens the storage backend selected by the environment, the same
// way the API server does
func OpenFromEnv(ctx context.Context, log *zap.Logger) (*store.Store, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	kv, err := storage.Open(ctx, cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	opts := []store.Option{store.WithLogger(log), store.WithLocation(cfg.Timezone)}
	if !cfg.SeedSampleData {
		opts = append(opts, store.WithoutSampleData())
	}
	if cfg.StrictIDs {
		opts = append(opts, store.WithStrictIDs())
	}

	s, err := store.New(ctx, storage.NewJSONPersister(kv), opts...)
	if err != nil {
		_ = kv.Close()
		return nil, nil, fmt.Errorf("failed to load store: %w", err)
	}
	return s, kv, nil
}

type app struct {
	open    Opener
	output  string
	verbose bool
	log     *zap.Logger
}

// NewRootCmd builds the taskctl command tree
func NewRootCmd(open Opener) *cobra.Command {
	a := &app{open: open, log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Command line client for the taskboard store",
		Long:          "Inspect and edit taskboard projects, tasks and deadlines directly against the configured storage backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch a.output {
			case outputTable, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unsupported output format %q (want table, json or yaml)", a.output)
			}
			log, err := logger.NewCLILogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync(a.log)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "Output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newProjectsCmd(a),
		newTasksCmd(a),
		newDeadlinesCmd(a),
		newStatsCmd(a),
		newSearchCmd(a),
		newDashboardCmd(a),
		newExportCmd(a),
		newRemindersCmd(a),
	)

	return rootCmd
}

// withStore opens the store for the duration of fn
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, s *store.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, closer, err := a.open(ctx, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if closer == nil {
			return
		}
		if err := closer.Close(); err != nil {
			a.log.Warn("failed_to_close_storage", zap.Error(err))
		}
	}()

	return fn(ctx, s)
}
