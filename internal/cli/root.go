// Package cli holds the storefront-cli command tree: batch conversion of
// user and product rows into validated JSON plus small demos of the shared
// helpers.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
)

// Store is where --persist writes converted records.
type Store struct {
	Users   user.Repository
	Catalog catalog.Repository
	Close   func()
}

// StoreOpener builds the persistence target from the loaded configuration.
type StoreOpener func(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Store, error)

type Options struct {
	Now       func() time.Time
	OpenStore StoreOpener
}

type app struct {
	opts       Options
	configPath string
	logLevel   string
	logger     *slog.Logger
}

func NewRootCommand(opts Options) *cobra.Command {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.OpenStore == nil {
		opts.OpenStore = OpenPostgresStore
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "storefront-cli",
		Short:         "Convert user and product rows into validated JSON records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = logging.New(logging.Options{
				Component: "storefront-cli",
				Level:     a.logLevel,
				Output:    cmd.ErrOrStderr(),
			})
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (yaml or json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.processUsersCommand(),
		a.processProductsCommand(),
		textUtilsCommand(),
		validateEmailCommand(),
		generateSampleDataCommand(),
		a.demoCommand(),
	)
	return root
}

// OpenPostgresStore connects to database.dsn and applies migrations when
// database.run_migrations is set.
func OpenPostgresStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Store, error) {
	if cfg.Database.DSN == "" {
		return nil, &config.Error{Key: "database.dsn", Err: config.ErrMissingValue}
	}
	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(cfg.Database.DSN, logger); err != nil {
			return nil, err
		}
	}
	pool, err := db.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{
		Users:   user.NewPostgresRepository(pool),
		Catalog: catalog.NewPostgresRepository(pool),
		Close:   pool.Close,
	}, nil
}

func (a *app) openStore(ctx context.Context) (*Store, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	return a.opts.OpenStore(ctx, cfg, a.logger)
}
