package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mchmarny/hajjdash/pkg/config"
	"github.com/mchmarny/hajjdash/pkg/data"
	"github.com/mchmarny/hajjdash/pkg/logging"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "hajjdash"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"

	flagDebug  = "debug"
	flagDB     = "db"
	flagConfig = "config"
	flagFormat = "format"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultLogger("info", logging.FormatText)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		stop()
		os.Exit(1)
	}
}

type appConfig struct {
	HomeDir string
	DBPath  string
	Format  string
	Debug   bool
	DB      *sql.DB
	Config  *config.Config
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:                 "Waitlist analytics dashboard with a Hajj acceptance scorer",
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Metadata:              map[string]any{},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&cli.StringFlag{
				Name:  flagDB,
				Usage: "Path to the Sqlite database file",
			},
			&cli.StringFlag{
				Name:  flagConfig,
				Usage: "Path to the config file (default: ~/.hajjdash/config.yaml)",
			},
			&cli.StringFlag{
				Name:  flagFormat,
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
		},
		Commands: []*cli.Command{
			newServerCmd(),
			newScoreCmd(),
			newBatchCmd(),
			newPageCmd(),
			newResetCmd(),
		},
		Before: setup,
		After: func(_ context.Context, cmd *cli.Command) error {
			if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				return cfg.DB.Close()
			}
			return nil
		},
	}
}

func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	format, err := parseFormat(cmd.String(flagFormat))
	if err != nil {
		return ctx, err
	}

	home, _, err := config.GetOrCreateHomeDir(appName)
	if err != nil {
		return ctx, fmt.Errorf("resolving home dir: %w", err)
	}

	var conf *config.Config
	if p := cmd.String(flagConfig); p != "" {
		conf, err = config.Read(p)
	} else {
		conf, err = config.ReadOrCreate(home)
	}
	if err != nil {
		return ctx, fmt.Errorf("loading config: %w", err)
	}

	debug := cmd.Bool(flagDebug)
	level := conf.Log.Level
	if debug {
		level = "debug"
	}
	logging.SetDefaultLogger(level, conf.Log.Format)

	dbPath := cmd.String(flagDB)
	if dbPath == "" {
		dbPath = filepath.Join(home, data.DataFileName)
	}
	slog.Debug("database", "path", dbPath)

	if err := data.Init(dbPath); err != nil {
		return ctx, fmt.Errorf("initializing database: %w", err)
	}

	db, err := data.GetDB(dbPath)
	if err != nil {
		return ctx, fmt.Errorf("opening database: %w", err)
	}

	cmd.Root().Metadata[appConfigKey] = &appConfig{
		HomeDir: home,
		DBPath:  dbPath,
		Format:  format,
		Debug:   debug,
		DB:      db,
		Config:  conf,
	}
	return ctx, nil
}

func parseFormat(v string) (string, error) {
	switch v {
	case "", formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", v)
	}
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

// output encodes v to the root command writer in the selected format.
func output(cmd *cli.Command, v any) error {
	cfg := getConfig(cmd)
	if err := encode(cmd.Root().Writer, cfg.Format, v); err != nil {
		return fmt.Errorf("error encoding %T: %w", v, err)
	}
	return nil
}
