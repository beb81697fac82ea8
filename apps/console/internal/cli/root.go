// Package cli is the command line surface of the storefront console.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/di"
	"github.com/prohmpiriya/storefront-console/pkg/config"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is stamped at build time
var Version = "dev"

// Builder creates the dependency container for a loaded configuration
type Builder func(ctx context.Context, cfg *config.Config) (*di.Container, error)

// App carries the state shared by every command of one invocation
type App struct {
	v      *viper.Viper
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	build  Builder

	configFile string
	format     string

	cfg       *config.Config
	container *di.Container
}

// Option configures an App
type Option func(*App)

// WithIO replaces stdin, stdout and stderr
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// WithBuilder replaces the container builder
func WithBuilder(b Builder) Option {
	return func(a *App) { a.build = b }
}

// WithViper uses v instead of a fresh viper instance
func WithViper(v *viper.Viper) Option {
	return func(a *App) { a.v = v }
}

func defaultBuilder(ctx context.Context, cfg *config.Config) (*di.Container, error) {
	if err := logger.Init(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return di.NewContainer(ctx, &di.ContainerConfig{Config: cfg, Log: logger.Get()})
}

// NewRootCommand builds the console command tree
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &App{
		v:      viper.New(),
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		build:  defaultBuilder,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront console",
		Long:          "Browse the catalog, manage products, orders and deliveries of a storefront, or serve the console API.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.container != nil {
				a.container.Close()
			}
			logger.Sync()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "env file with console settings")
	flags.StringVarP(&a.format, "output", "o", FormatTable, "output format (table, json, yaml)")
	flags.String("base-url", "", "storefront API base URL")
	flags.String("store", "", "session token store (file, redis, memory)")
	flags.String("home", "", "directory holding the session token file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("STOREFRONT_BASE_URL", flags.Lookup("base-url"))
	_ = a.v.BindPFlag("SESSION_STORE", flags.Lookup("store"))
	_ = a.v.BindPFlag("SESSION_HOME_DIR", flags.Lookup("home"))
	_ = a.v.BindPFlag("APP_LOG_LEVEL", flags.Lookup("log-level"))

	root.AddCommand(
		a.newServeCommand(),
		a.newLoginCommand(),
		a.newRegisterCommand(),
		a.newLogoutCommand(),
		a.newWhoamiCommand(),
		a.newCatalogCommand(),
		a.newProductsCommand(),
		a.newOrdersCommand(),
		a.newDeliveriesCommand(),
		a.newUsersCommand(),
		a.newStatsCommand(),
	)
	return root
}

// Execute runs the console with process stdio
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *App) loadConfig() error {
	if !isFormat(a.format) {
		return fmt.Errorf("unknown output format %q", a.format)
	}
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		a.v.SetConfigType("env")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	cfg, err := config.LoadFromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// deps builds the container on first use
func (a *App) deps(ctx context.Context) (*di.Container, error) {
	if a.container != nil {
		return a.container, nil
	}
	c, err := a.build(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.container = c
	return c, nil
}
