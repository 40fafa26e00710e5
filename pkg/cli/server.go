package cli

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/mchmarny/hajjdash/pkg/config"
	"github.com/mchmarny/hajjdash/pkg/metrics"
	"github.com/mchmarny/hajjdash/pkg/net"
	"github.com/mchmarny/hajjdash/pkg/sample"
	"github.com/urfave/cli/v3"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20

	flagPort       = "port"
	flagNoBrowser  = "no-browser"
	flagSampleSize = "sample-size"
	flagSeed       = "seed"
)

//go:embed assets/* templates/*
var embedFS embed.FS

func newServerCmd() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start the local dashboard HTTP server",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  flagPort,
				Usage: "Port on which the server will listen",
				Value: config.PortDefault,
			},
			&cli.BoolFlag{
				Name:    flagNoBrowser,
				Aliases: []string{"nb"},
				Usage:   "Do not open browser automatically",
			},
			&cli.IntFlag{
				Name:  flagSampleSize,
				Usage: "Number of candidates in the classification sample",
				Value: config.SampleSizeDefault,
			},
			&cli.Uint64Flag{
				Name:  flagSeed,
				Usage: "Sample seed, 0 draws a random seed per batch",
			},
		},
	}
}

// applyServerFlags overrides config values with explicitly set flags.
func applyServerFlags(cmd *cli.Command, c config.Config) config.Config {
	if cmd.IsSet(flagPort) {
		c.Server.Port = cmd.Int(flagPort)
	}
	if cmd.IsSet(flagNoBrowser) {
		c.Server.NoBrowser = cmd.Bool(flagNoBrowser)
	}
	if cmd.IsSet(flagSampleSize) {
		c.Sample.Size = cmd.Int(flagSampleSize)
	}
	if cmd.IsSet(flagSeed) {
		c.Sample.Seed = cmd.Uint64(flagSeed)
	}
	return c
}

func cmdStartServer(ctx context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)
	conf := applyServerFlags(cmd, *app.Config)
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid server options: %w", err)
	}

	d, err := newDashboard(app.DB, &conf, metrics.New())
	if err != nil {
		return fmt.Errorf("creating dashboard: %w", err)
	}

	address := fmt.Sprintf("127.0.0.1:%d", conf.Server.Port)
	s := &http.Server{
		Addr:           address,
		Handler:        d.handler(),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	url := fmt.Sprintf("http://%s", address)
	slog.Info("server started", "address", url, "sample_size", conf.Sample.Size)

	if !conf.Server.NoBrowser {
		openBrowser(url)
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	slog.Info("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

// dashboard holds the state shared by the HTTP handlers.
type dashboard struct {
	db      *sql.DB
	tmpl    *template.Template
	samples *sample.Cache
	metrics *metrics.Metrics
	probe   *http.Client
	status  config.Status
}

func newDashboard(db *sql.DB, conf *config.Config, m *metrics.Metrics) (*dashboard, error) {
	if db == nil {
		return nil, errors.New("database required")
	}
	if conf == nil {
		conf = config.Default()
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(embedFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &dashboard{
		db:      db,
		tmpl:    tmpl,
		samples: sample.NewCache(conf.Sample.Size, conf.Sample.Seed, conf.Scoring.Concurrency),
		metrics: m,
		probe:   net.NewClient(conf.Status.ProbeTimeout),
		status:  conf.Status,
	}, nil
}

func (d *dashboard) handler() http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(embedFS)))
	mux.HandleFunc("GET /favicon.ico", faviconHandler)

	// Views
	mux.HandleFunc("GET /{$}", d.strategicViewHandler)
	mux.HandleFunc("GET /analytics", d.analyticsViewHandler)
	mux.HandleFunc("GET /classification", d.classificationViewHandler)
	mux.HandleFunc("POST /classification", d.classificationSubmitHandler)
	mux.HandleFunc("POST /classification/regenerate", d.regenerateViewHandler)
	mux.HandleFunc("GET /status", d.statusViewHandler)

	// Data API
	mux.HandleFunc("GET /data/strategic", d.strategicAPIHandler)
	mux.HandleFunc("GET /data/analytics", d.analyticsAPIHandler)
	mux.HandleFunc("GET /data/depositors", d.depositorsAPIHandler)
	mux.HandleFunc("GET /data/status", d.statusAPIHandler)
	mux.HandleFunc("GET /data/classification/sample", d.sampleAPIHandler)
	mux.HandleFunc("POST /data/classification/sample", d.regenerateAPIHandler)
	mux.HandleFunc("POST /data/classification/score", d.scoreAPIHandler)

	// Ops
	mux.Handle("GET /metrics", d.metrics.Handler())
	mux.HandleFunc("GET /healthz", d.healthHandler)

	return withRequestID(withAccessLog(d.metrics, mux))
}

func openBrowser(url string) {
	var cmd string
	args := make([]string, 0, 1)

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
	case "linux":
		cmd = "xdg-open"
	default: // windows
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler"}
	}

	args = append(args, url)
	if err := exec.Command(cmd, args...).Start(); err != nil {
		slog.Error("failed to open browser", "error", err)
	}
}
