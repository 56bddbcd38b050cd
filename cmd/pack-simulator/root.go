package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/config"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/packs"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/progress"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/simulator"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/storage"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/version"
)

// environment is what every subcommand shares once flags are parsed.
type environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   progress.Store
	closers []func() error
}

// newRootCmd builds the command tree. The caller closes env after Execute.
func newRootCmd(env *environment) *cobra.Command {
	root := &cobra.Command{
		Use:           "pack-simulator",
		Short:         "One Piece TCG collection tracker and pack simulator",
		Long:          "Track owned cards from the card catalog and simulate opening booster packs and starter decks.",
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, env)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default ~/.op-pack-simulator/config.toml)")
	root.PersistentFlags().String("catalog", "", "card catalog XML, overrides catalog.path")
	root.PersistentFlags().String("progress", "", "progress file, overrides the path of the configured backend")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(
		newGUICmd(env),
		newListCmd(env),
		newSeriesCmd(env),
		newOpenCmd(env),
		newResetCmd(env),
		newReportCmd(env),
		newBackupCmd(env),
		newConfigCmd(env),
	)
	return root
}

// setup loads the config, applies flag overrides and installs the logger.
func (e *environment) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.Catalog.Path = v
	}
	if v, _ := cmd.Flags().GetString("progress"); v != "" {
		if cfg.Progress.Backend == config.BackendSQLite {
			cfg.Progress.DBPath = v
		} else {
			cfg.Progress.Path = v
		}
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.App.DebugMode = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfg.Path(), err)
	}

	level := slog.LevelInfo
	if cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	e.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(e.logger)

	e.cfg = cfg
	return nil
}

// close releases whatever the command opened, most recent first.
func (e *environment) close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	e.closers = nil
	return errors.Join(errs...)
}

// openStore builds the configured progress backend.
func (e *environment) openStore() (progress.Store, error) {
	var (
		store progress.Store
		err   error
	)
	switch e.cfg.Progress.Backend {
	case config.BackendSQLite:
		db, openErr := storage.Open(storage.DefaultConfig(e.cfg.Progress.DBPath))
		if openErr != nil {
			return nil, fmt.Errorf("open progress database: %w", openErr)
		}
		e.closers = append(e.closers, db.Close)
		store, err = progress.NewSQLStore(db)
	default:
		store, err = progress.NewJSONStore(e.cfg.Progress.Path, e.logger)
	}
	if err != nil {
		return nil, err
	}
	e.store = store
	return store, nil
}

// backup copies saved progress into the configured backup directory. The
// path is empty when there was nothing to copy.
func (e *environment) backup(ctx context.Context) (string, error) {
	if e.store == nil {
		if _, err := e.openStore(); err != nil {
			return "", err
		}
	}
	b, ok := e.store.(progress.Backuper)
	if !ok {
		return "", fmt.Errorf("progress backend %q does not support backups", e.cfg.Progress.Backend)
	}
	return b.Backup(ctx, e.cfg.Progress.BackupDir)
}

// newService builds the session service without loading anything.
func (e *environment) newService() (*simulator.Service, error) {
	store, err := e.openStore()
	if err != nil {
		return nil, err
	}

	opener, err := packs.NewOpener(packs.Options{
		PackSize:      e.cfg.Packs.Size,
		FixedPrefixes: e.cfg.Packs.FixedPrefixes,
	})
	if err != nil {
		return nil, err
	}

	return simulator.NewService(simulator.Config{
		CatalogPath:   e.cfg.Catalog.Path,
		Store:         store,
		Opener:        opener,
		SaveAfterPack: e.cfg.Progress.SaveAfterPack,
		Logger:        e.logger,
	})
}

// startService builds the service and loads the collection.
func (e *environment) startService(ctx context.Context) (*simulator.Service, error) {
	svc, err := e.newService()
	if err != nil {
		return nil, err
	}
	if _, err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// resolveSeries accepts a full series name or a series code such as "OP-01".
func resolveSeries(svc *simulator.Service, arg string) (string, error) {
	if arg == "" || arg == collection.AllSeries {
		return collection.AllSeries, nil
	}

	var names []string
	_ = svc.View(func(m *collection.Model) { names = m.SeriesNames() })
	for _, n := range names {
		if n == arg {
			return n, nil
		}
	}
	for _, n := range names {
		if n != collection.AllSeries && collection.SeriesCode(n) == arg {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown series %q", arg)
}
