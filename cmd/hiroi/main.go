// Copyright 2026 The Hiroi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the hiroi quantity takeoff toolkit.

Note: This is a BETA release. APIs and functionality may rapidly change.

Hiroi provides the core engines of a construction quantity survey sheet:
calculation of line item quantities (direct entry, area/volume products
and pitch splitting), display-width validation of the sheet's text and
numeric cells, and debounced autocomplete over previously used terms.
It can operate as an HTTP suggest service for sheet frontends, or as a
CLI application for testing and debugging.

Suggestion terms are indexed in Patricia tries with per-term use counts,
ranked most-used first, and can be persisted as MessagePack snapshots or
seeded from plain TSV files.

# Usage

Start the suggest service with default settings:

	hiroi -serve

Use a custom term corpus and enable debug mode:

	hiroi -serve -data terms.tsv -d

Run in CLI mode for interactive testing:

	hiroi -c -data terms.tsv -limit 10

The data file may be a TSV seed (field<TAB>term[<TAB>scope] lines) or a
binary snapshot previously written by the dictionary.

# Configuration

Runtime configuration is managed through a TOML file covering width
limits, numeric ranges, autocomplete and service parameters:

	[field]
	work_type_zenkaku = 8
	work_type_hankaku = 16
	text_zenkaku = 25
	text_hankaku = 50

	[range]
	quantity_min = -999999.99
	quantity_max = 9999999.99

	[suggest]
	debounce_ms = 300
	limit = 10

	[server]
	addr = ":8080"
	max_limit = 25

The config file is automatically created with defaults if it doesn't
exist. A partial or damaged file degrades to the builtin defaults key
by key rather than failing outright.

# Suggest API

The service answers per-field prefix queries:

	GET /api/suggest/name?q=土&limit=10

Extra query parameters narrow the search to terms recorded under the
same scope, e.g. only names used within one work type:

	GET /api/suggest/name?q=土&workType=土工事

Responses carry a single array, empty when nothing matches:

	{"suggestions": ["土工事", "土間コンクリート"]}

Liveness is exposed on /healthz and Prometheus metrics on /metrics.

# CLI Mode

CLI mode provides an interactive interface for exercising the engines
without a frontend. Commands cover all three: calc runs a quantity
calculation and prints each stage, width and check run the cell
validators, and suggest performs a debounced query against the loaded
corpus.

	inputHandler := cli.NewInputHandler(table, dict, debounce, limit)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new
features before deploying the service.

# Calculation Engine

The core calculation functionality is provided by the calc package,
which implements the three sheet methods with explicit formula strings:

	res, err := calc.Calculate(calc.Input{
		Method: calc.MethodPitch,
		Pitch: calc.PitchParams{
			RangeLength: calc.Float64(10),
			PitchLength: calc.Float64(1),
		},
	})

Results carry the raw, adjusted and rounded values separately so a
sheet can display every step.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/skmtlab/hiroi/internal/cli"
	"github.com/skmtlab/hiroi/internal/server"
	"github.com/skmtlab/hiroi/pkg/config"
	"github.com/skmtlab/hiroi/pkg/dict"
)

const (
	Version = "0.3.0-beta"
	AppName = "hiroi"
	gh      = "https://github.com/skmtlab/hiroi"
)

// sigHandler is a simple handler for OS signals to exit normally.
// Serve mode installs its own graceful handler instead.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the service or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "", "Term corpus to load (.tsv seed or binary snapshot)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	serveMode := flag.Bool("serve", false, "Run the HTTP suggest service")
	addr := flag.String("addr", "", "Listen address for the suggest service (overrides config)")
	configPath := flag.String("config", "", "Path to a custom config.toml")
	limit := flag.Int("limit", defaultConfig.Suggest.Limit, "Number of suggestions to return in CLI mode")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Warnf("Failed to load config: %v. Using builtin defaults...", err)
		appConfig = config.DefaultConfig()
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	d := dict.New()
	if *dataPath != "" {
		d = loadCorpus(*dataPath)
	} else {
		log.Warn("No data file specified, running with empty dictionary...")
	}

	if *serveMode {
		if *addr != "" {
			appConfig.Server.Addr = *addr
		}
		runServer(appConfig, d, *dataPath)
		return
	}

	sigHandler()

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if !*cliMode {
		log.SetLevel(log.InfoLevel)
		log.Info("No mode selected, starting the interactive CLI (-serve runs the suggest service)")
	}
	log.SetReportTimestamp(false)
	log.Debug("Input info:",
		"debounce", appConfig.Debounce(),
		"limit", *limit)

	inputHandler := cli.NewInputHandler(appConfig.FieldTable(), d, appConfig.Debounce(), *limit)
	if err := inputHandler.Start(); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}

// loadCorpus seeds a dictionary from a TSV file or reads back a binary
// snapshot, by extension.
func loadCorpus(path string) *dict.Dict {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt":
		d := dict.New()
		n, err := d.LoadTSVFile(path)
		if err != nil {
			log.Fatalf("Failed to seed dictionary from %s: %v", path, err)
		}
		log.Debugf("Seeded %d terms from %s", n, path)
		return d
	default:
		d, err := dict.Load(path)
		if err != nil {
			log.Fatalf("Failed to load snapshot %s: %v", path, err)
		}
		log.Debugf("Loaded snapshot from %s, stats: %v", path, d.Stats())
		return d
	}
}

// runServer starts the suggest service and blocks until shutdown.
func runServer(appConfig *config.Config, d *dict.Dict, dataPath string) {
	srv := server.New(d, appConfig.Server)
	httpSrv := &http.Server{
		Addr:    srv.Addr(),
		Handler: srv.Router(),
	}

	showStartupInfo(srv.Addr(), dataPath)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	waitForShutdown(httpSrv)
}

// waitForShutdown blocks until an exit signal arrives, then drains
// in-flight requests before returning.
func waitForShutdown(srv *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown: %v", err)
	}
}

// showVersionInfo prints the styled version banner.
func showVersionInfo() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["version"] = lipgloss.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ Hiroi ] Construction quantity takeoff engines!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(addr, dataPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("=========")
	println("  Hiroi  ")
	println("=========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	if dataPath != "" {
		log.Infof("data file: ( %s )", dataPath)
	}
	log.Infof("listening on: ( %s )", addr)
	log.Info("status: ready")
	println("=========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
