// Package main is the entry point for the journalist leaderboard TUI.
// It loads configuration, starts the snapshot services, and either runs the
// Bubble Tea program or prints the current leaderboard as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/app"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/config"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/logger"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/services"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/tabs/leaderboard"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/tabs/trend"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/version"
)

const defaultJSONTimeout = 10 * time.Second

const description = `Ranks journalists by the points they earned over a trailing window of days.

Keyboard Shortcuts:
  1-3             Switch between tabs (Leaderboard, Trend, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Select a journalist
  t               Cycle the window (7, 30, 90 days)
  r               Recompute the leaderboard
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  LEADERBOARD_SOURCE      Snapshot source: file, sqlite or firebase (default: file)
  SNAPSHOT_PATH           daily_scores JSON file for the file source
  DATABASE_PATH           SQLite database for the sqlite source
  FIREBASE_DATABASE_URL   Realtime Database URL for the firebase source
  WINDOW_DAYS             Trailing window in days (default: 30)
  LEADERBOARD_LOCALE      Locale for dates and numbers (default: from LANG)

The application looks for a .env file in the current directory,
~/.config/journalist-leaderboard/.env and ~/.journalist-leaderboard/.env.`

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command line application. JSON output goes to out.
func newApp(out io.Writer) *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.Info())
	}

	return &cli.App{
		Name:        version.Name,
		Usage:       "journalist leaderboard",
		Description: description,
		Version:     version.GetVersion(),
		Writer:      out,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "window",
				Aliases: []string{"w"},
				Usage:   "trailing window in days",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "snapshot source (file, sqlite, firebase)",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "path of the daily_scores JSON file",
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "locale for dates and numbers, e.g. en-US",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve Prometheus metrics on this address",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the leaderboard as JSON and exit",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaultJSONTimeout,
				Usage: "how long --json waits for the first snapshot",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "print version information",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, version.Info())
					return err
				},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return runJSON(c.Context, cfg, c.Duration("timeout"), out)
			}
			return runTUI(cfg)
		},
	}
}

// loadConfig reads the environment, applies command line overrides and validates the result.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(c *cli.Context, cfg *config.Config) {
	if c.IsSet("window") {
		cfg.WindowDays = c.Int("window")
	}
	if c.IsSet("source") {
		cfg.Source = strings.ToLower(c.String("source"))
	}
	if c.IsSet("snapshot") {
		cfg.SnapshotPath = c.String("snapshot")
	}
	if c.IsSet("locale") {
		cfg.Locale = c.String("locale")
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}
}

// startServices points the logger at its file and starts the service manager.
// The returned function releases both.
func startServices(cfg *config.Config) (*services.Manager, func(), error) {
	logFile, err := logger.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		_ = logFile.Close()
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	cleanup := func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
		_ = logFile.Close()
	}
	return mgr, cleanup, nil
}

// runJSON waits for the first snapshot and prints the resulting view.
func runJSON(ctx context.Context, cfg *config.Config, timeout time.Duration, out io.Writer) error {
	mgr, cleanup, err := startServices(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	view, err := mgr.WaitForFirst(ctx)
	if err != nil {
		return fmt.Errorf("no leaderboard from %s: %w", mgr.SourceName(), err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func runTUI(cfg *config.Config) error {
	mgr, cleanup, err := startServices(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	model := app.NewModel(mgr)

	state := model.GetState()
	tag := mgr.Locale()
	model.SetTabs([]app.Tab{
		leaderboard.New(state, tag),
		trend.New(state, tag),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
