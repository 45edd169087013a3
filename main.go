package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/skillshop/internal/apiclient"
	"github.com/hay-kot/skillshop/internal/commands"
	"github.com/hay-kot/skillshop/internal/core/cart"
	"github.com/hay-kot/skillshop/internal/core/config"
	"github.com/hay-kot/skillshop/internal/core/session"
	"github.com/hay-kot/skillshop/internal/marketplace"
	"github.com/hay-kot/skillshop/internal/printer"
	"github.com/hay-kot/skillshop/internal/store/jsonfile"
	"github.com/hay-kot/skillshop/internal/styles"
	"github.com/hay-kot/skillshop/pkg/executil"
	"github.com/hay-kot/skillshop/pkg/utils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

// Commands that inspect stored state as-is. Restoring first would let the
// session store discard records before they can be reported.
var diagnosticCommands = []string{"doctor", "state", "config"}

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	if err := setupLogger("info", "", nil); err != nil {
		panic(err)
	}

	var (
		p     = printer.New(os.Stderr)
		ctx   = printer.NewContext(context.Background(), p)
		flags = &commands.Flags{}
	)

	var deferredLogs *utils.DeferredWriter

	app := &cli.Command{
		Name:      "skillshop",
		Usage:     "Browse and buy courses from the terminal",
		UsageText: "skillshop [global options] command [command options]",
		Description: styles.BannerStyle.Render(styles.Banner) + `

Skillshop is a client for the course marketplace API. Your session and cart
are kept in a local state file so they survive between runs.

Run 'skillshop login' to sign in, 'skillshop courses browse' to explore the
catalog and 'skillshop checkout' to pay for your cart.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SKILLSHOP_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (optional)",
				Sources:     cli.EnvVars("SKILLSHOP_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SKILLSHOP_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SKILLSHOP_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "API base URL (overrides api.base_url)",
				Destination: &flags.APIURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			args := c.Args().Slice()

			// The course browser owns the terminal; buffer logs until it exits.
			var deferred io.Writer
			if len(args) >= 2 && args[0] == "courses" && args[1] == "browse" {
				deferredLogs = &utils.DeferredWriter{}
				deferred = deferredLogs
			}

			if err := setupLogger(flags.LogLevel, flags.LogFile, deferred); err != nil {
				return ctx, err
			}

			if err := config.LoadEnvFiles(".env"); err != nil {
				return ctx, fmt.Errorf("load .env: %w", err)
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.APIURL != "" {
				cfg.API.BaseURL = flags.APIURL
				if err := cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("invalid --api-url: %w", err)
				}
			}
			flags.Config = cfg

			var (
				store  = jsonfile.NewKVStore(cfg.StateFile())
				client = apiclient.New(cfg.API.BaseURL,
					apiclient.WithTimeout(cfg.API.Timeout),
					apiclient.WithLogger(log.With().Str("component", "api").Logger()),
				)
				sessions = session.New(store, client, client, log.With().Str("component", "session").Logger())
				carts    = cart.New(store, log.With().Str("component", "cart").Logger())
				exec     = &executil.RealExecutor{}
				logger   = log.With().Str("component", "marketplace").Logger()
			)

			if len(args) == 0 || !slices.Contains(diagnosticCommands, args[0]) {
				sessions.Restore(ctx)
				carts.Restore(ctx)
			}

			flags.Store = store
			flags.API = client
			flags.Service = marketplace.New(sessions, carts, client, cfg, exec, logger, os.Stdout, os.Stderr)
			return ctx, nil
		},
	}

	app = commands.NewAuthCmd(flags).Register(app)
	app = commands.NewCoursesCmd(flags).Register(app)
	app = commands.NewCartCmd(flags).Register(app)
	app = commands.NewCheckoutCmd(flags).Register(app)
	app = commands.NewAdminCmd(flags).Register(app)
	app = commands.NewStateCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		printer.Ctx(ctx).FatalError(err)
		exitCode = 1
	}

	// Flush deferred logs to console after the browser exits
	if deferredLogs != nil {
		if err := deferredLogs.Flush(zerolog.ConsoleWriter{Out: os.Stderr}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
		}
	}

	os.Exit(exitCode)
}

func setupLogger(level string, logFile string, deferred io.Writer) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile != "" {
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		if deferred != nil {
			output = io.MultiWriter(file, deferred)
		} else {
			output = io.MultiWriter(
				zerolog.ConsoleWriter{Out: os.Stderr},
				file,
			)
		}
	} else if deferred != nil {
		output = deferred
	}

	log.Logger = log.Output(output).Level(parsedLevel)

	return nil
}
