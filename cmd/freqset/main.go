// Copyright 2025 The freqset Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the freqset miner, its interactive CLI and its
msgpack IPC server.

freqset finds every itemset whose support in a transaction collection meets a
minimum support threshold, level by level: frequent items first, then
frequent pairs built from them, and so on until a level comes out empty.

# Usage

Mine the default dataset from the config and print each level:

	freqset

Mine a basket file at 2% support, counting only supports above the threshold:

	freqset -data retail.dat -minsup 0.02 -strict

Explore the result interactively:

	freqset -data data-2016.csv -c

Serve mining requests over stdin/stdout:

	freqset -data data-2016.csv -serve

Convert a text dataset into a msgpack snapshot for faster loading:

	freqset -data data-2016.csv -snapshot data-2016.mpk

# Configuration

Settings are read from a TOML file, created with defaults on first run:

	[mining]
	min_support = 0.05
	threshold = "inclusive"
	evaluator = "vertical"
	workers = 1
	max_level = 0
	prune = true

	[source]
	path = "data-2016.csv"
	format = "auto"
	on_malformed = "skip"

	[server]
	max_itemsets = 10000

	[cli]
	default_limit = 24

Flags given on the command line override the file.

# Command Line Flags

	-config string    Path to the config file
	-data string      Transaction source
	-format string    auto, transcript, basket, labeled or msgpack
	-minsup float     Minimum support in [0,1]
	-strict           Require support strictly above minsup
	-eval string      Support evaluator: vertical or scan
	-workers int      Parallel support workers
	-max-level int    Stop after this itemset size (0 for no limit)
	-no-prune         Evaluate candidates without the subset check
	-on-malformed     skip or fail on records that do not parse
	-limit int        Itemsets listed per level (0 for all)
	-d                Debug logging
	-c                Interactive CLI
	-serve            msgpack IPC server
	-snapshot string  Write the loaded dataset as a msgpack snapshot
	-version          Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/freqset/internal/cli"
	"github.com/bastiangx/freqset/internal/logger"
	"github.com/bastiangx/freqset/internal/utils"
	"github.com/bastiangx/freqset/pkg/config"
	"github.com/bastiangx/freqset/pkg/dataset"
	"github.com/bastiangx/freqset/pkg/mining"
	"github.com/bastiangx/freqset/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "freqset"
	gh      = "https://github.com/bastiangx/freqset"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

type flags struct {
	configPath  string
	data        string
	format      string
	minSupport  float64
	strict      bool
	evaluator   string
	workers     int
	maxLevel    int
	noPrune     bool
	onMalformed string
	limit       int
	debug       bool
	cliMode     bool
	serve       bool
	snapshot    string
	version     bool
}

func parseFlags(defaults *config.Config) *flags {
	f := &flags{}
	flag.StringVar(&f.configPath, "config", "", "Path to the config file")
	flag.StringVar(&f.data, "data", defaults.Source.Path, "Transaction source")
	flag.StringVar(&f.format, "format", defaults.Source.Format, "Source format: auto, transcript, basket, labeled, msgpack")
	flag.Float64Var(&f.minSupport, "minsup", defaults.Mining.MinSupport, "Minimum support in [0,1]")
	flag.BoolVar(&f.strict, "strict", false, "Require support strictly above minsup")
	flag.StringVar(&f.evaluator, "eval", defaults.Mining.Evaluator, "Support evaluator: vertical or scan")
	flag.IntVar(&f.workers, "workers", defaults.Mining.Workers, "Parallel support workers")
	flag.IntVar(&f.maxLevel, "max-level", defaults.Mining.MaxLevel, "Stop after this itemset size (0 for no limit)")
	flag.BoolVar(&f.noPrune, "no-prune", false, "Evaluate candidates without the subset check")
	flag.StringVar(&f.onMalformed, "on-malformed", defaults.Source.OnMalformed, "skip or fail on records that do not parse")
	flag.IntVar(&f.limit, "limit", 0, "Itemsets listed per level (0 for all)")
	flag.BoolVar(&f.debug, "d", false, "Toggle debug mode")
	flag.BoolVar(&f.cliMode, "c", false, "Run the interactive CLI")
	flag.BoolVar(&f.serve, "serve", false, "Serve msgpack IPC requests on stdin/stdout")
	flag.StringVar(&f.snapshot, "snapshot", "", "Write the loaded dataset as a msgpack snapshot to this path")
	flag.BoolVar(&f.version, "version", false, "Show current version")
	flag.Parse()
	return f
}

// apply copies the flags given on the command line over the config file.
func (f *flags) apply(cfg *config.Config) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "data":
			cfg.Source.Path = f.data
		case "format":
			cfg.Source.Format = f.format
		case "on-malformed":
			cfg.Source.OnMalformed = f.onMalformed
		case "minsup":
			cfg.Mining.MinSupport = f.minSupport
		case "strict":
			cfg.Mining.Threshold = "inclusive"
			if f.strict {
				cfg.Mining.Threshold = "strict"
			}
		case "eval":
			cfg.Mining.Evaluator = f.evaluator
		case "workers":
			cfg.Mining.Workers = f.workers
		case "max-level":
			cfg.Mining.MaxLevel = f.maxLevel
		case "no-prune":
			cfg.Mining.Prune = !f.noPrune
		}
	})
}

func showVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ freqset ] Finds frequent itemsets, level by level")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// main wires config, dataset, miner and the selected front end together.
func main() {
	sigHandler()
	f := parseFlags(config.DefaultConfig())

	if f.version {
		showVersion()
		os.Exit(0)
	}

	if f.debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, configPath, err := config.LoadConfigWithPriority(f.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))
	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	miningCfg, _ := cfg.MiningConfig()
	loadOpts, _ := cfg.LoadOptions()

	dataPath := utils.ResolveDataPath(cfg.Source.Path)
	start := time.Now()
	ds, err := dataset.Load(dataPath, loadOpts)
	if err != nil {
		log.Fatalf("Failed to load transactions: %v", err)
	}
	log.Debug("Dataset loaded",
		"path", dataPath,
		"format", ds.Format,
		"records", ds.Stats.Records,
		"skipped", ds.Stats.Skipped,
		"items", ds.Stats.Items,
		"took", time.Since(start))
	if ds.Stats.Skipped > 0 {
		log.Warnf("Skipped %d malformed records in %s", ds.Stats.Skipped, dataPath)
	}

	if f.snapshot != "" {
		if err := dataset.SaveSnapshot(f.snapshot, ds); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		log.Printf("Wrote %d transactions to %s", len(ds.Transactions), f.snapshot)
		return
	}

	st := ds.Store()

	if f.serve {
		log.Debug("spawning IPC")
		showStartupInfo(dataPath, ds)
		srv := server.NewServer(st, miningCfg, cfg.Server.MaxItemsets)
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	reporter := cli.NewReporter(logger.Report(os.Stdout), ds.Labels)
	reporter.Limit = f.limit

	var opts []mining.Option
	if !f.cliMode {
		reporter.Header(st, miningCfg)
		opts = append(opts, mining.WithLevelHandler(reporter.Level))
	}
	m, err := mining.NewMiner(st, miningCfg, opts...)
	if err != nil {
		log.Fatalf("Failed to create miner: %v", err)
	}
	start = time.Now()
	res, err := m.Mine()
	if err != nil {
		log.Fatalf("Mining failed: %v", err)
	}

	// The interactive CLI is mainly for exploring a result after a run.
	if f.cliMode {
		log.SetReportTimestamp(false)
		limit := cfg.CLI.DefaultLimit
		if f.limit > 0 {
			limit = f.limit
		}
		inputHandler, err := cli.NewInputHandler(st, res, miningCfg, ds.Labels, limit)
		if err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}
	reporter.Summary(res, time.Since(start))
}

// showStartupInfo displays some basic info about the loaded dataset.
func showStartupInfo(dataPath string, ds *dataset.Dataset) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println("  freqset  ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("data: ( %s, %s )", dataPath, ds.Format)
	log.Infof("transactions: %s", utils.FormatWithCommas(len(ds.Transactions)))
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
