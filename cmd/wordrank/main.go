// Copyright 2025 The WordRank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the wordrank completion server, or an interactive CLI for
trying an index by hand.

wordrank loads a weighted vocabulary from one or more dictionary files and
answers "top k words starting with this prefix" queries. Two interchangeable
indexes are available: a sorted array searched with binary search, and a trie
that caches the heaviest weight under each node.

# Usage

Start the msgpack server with the configured dictionary:

	wordrank

Use another dictionary and the binary search index, with debug logs:

	wordrank -dict data/other.txt -index binary -d

Run the interactive prompt:

	wordrank -c -limit 5

Convert a text dictionary to the binary format, optionally zstd compressed:

	wordrank -dict words.txt -convert words.bin
	wordrank -dict words.txt -convert words.bin.zst

# Dictionaries

Text dictionaries hold one "word<TAB>weight" entry per line; blank lines and
lines starting with # are ignored. Binary dictionaries (.bin) hold a
little-endian int32 count followed by, per entry, a uint16 byte length, the
word and a float64 weight. Either kind may be zstd compressed by adding a .zst
suffix (words.txt.zst). Words are stored in Unicode NFC form. Several files
may be given; a word appearing in more than one of them is an error.

# Configuration

Runtime configuration lives in a TOML file, created with defaults on first
run at ~/.config/wordrank/config.toml:

	[server]
	max_limit = 64
	default_limit = 10
	min_prefix = 0
	max_prefix = 60
	enable_cache = true
	cache_size = 4096
	metrics_port = 0

	[index]
	kind = "trie"
	dictionary = ["data/words.txt"]

Flags override the file.

# IPC Protocol

See package server. In short, send

	{"id": "req1", "p": "be", "l": 2}

and receive

	{"id": "req1", "s": [{"w": "bell", "r": 1, "v": 4}, {"w": "bat", "r": 2, "v": 2}], "c": 2, "t": 12}

When metrics_port is set, Prometheus metrics are served on
http://localhost:<port>/metrics.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bastiangx/wordrank/internal/cli"
	"github.com/bastiangx/wordrank/internal/logger"
	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/autocomplete"
	"github.com/bastiangx/wordrank/pkg/config"
	"github.com/bastiangx/wordrank/pkg/dictionary"
	"github.com/bastiangx/wordrank/pkg/metrics"
	"github.com/bastiangx/wordrank/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	Version = "0.3.0"
	AppName = "wordrank"
	gh      = "https://github.com/bastiangx/wordrank"
)

// main only manages the flow; the work happens in the packages it wires.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config.toml (default: user config dir)")
	dictFlag := flag.String("dict", "", "Comma separated dictionary files (default from config)")
	indexKind := flag.String("index", "", "Index implementation: trie or binary (default from config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	logFormat := flag.String("log-format", "text", "Log format: text, json or logfmt")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Number of suggestions to return in CLI mode")
	minPrefix := flag.Int("prmin", defaults.CLI.DefaultMinLen, "Minimum prefix length in CLI mode")
	maxPrefix := flag.Int("prmax", defaults.CLI.DefaultMaxLen, "Maximum prefix length in CLI mode")
	noFilter := flag.Bool("no-filter", defaults.CLI.DefaultNoFilter, "Disable CLI input filtering")
	convertTo := flag.String("convert", "", "Write the loaded dictionary to this .bin or .bin.zst file and exit")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config file with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	level := "warn"
	if *debugMode {
		level = "debug"
	}
	if err := logger.Setup(level, *logFormat, *debugMode); err != nil {
		log.Fatalf("Bad logging flags: %v", err)
	}

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		return
	}

	appConfig, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedConfig))

	if *indexKind != "" {
		appConfig.Index.Kind = *indexKind
	}
	if *dictFlag != "" {
		appConfig.Index.Dictionary = strings.Split(*dictFlag, ",")
	}
	kind, err := autocomplete.ParseKind(appConfig.Index.Kind)
	if err != nil {
		log.Fatalf("Invalid index kind: %v", err)
	}

	vocab, err := loadDictionaries(ctx, appConfig.Index.Dictionary)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}

	if *convertTo != "" {
		if err := convert(vocab, *convertTo); err != nil {
			log.Fatalf("Failed to convert dictionary: %v", err)
		}
		return
	}

	start := time.Now()
	index, err := autocomplete.New(kind, vocab.Words(), vocab.Weights())
	if err != nil {
		log.Fatalf("Failed to build %s index: %v", kind, err)
	}
	log.Debug("Index built", "kind", kind, "words", vocab.Len(), "took", time.Since(start))

	if *cliMode {
		handler := cli.NewInputHandler(index, *minPrefix, *maxPrefix, *limit, *noFilter, os.Stdout)
		handler.SetPrompt(isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
		if err := handler.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if err := runServer(ctx, appConfig.Server, index, kind, vocab.Len()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadDictionaries resolves each path against the usual locations and loads
// them all into one vocabulary.
func loadDictionaries(ctx context.Context, paths []string) (*dictionary.Vocabulary, error) {
	resolver, err := utils.NewPathResolver(AppName)
	if err != nil {
		return nil, fmt.Errorf("path resolver: %w", err)
	}
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := resolver.ResolveFile(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, r)
	}
	return dictionary.LoadFiles(ctx, resolved...)
}

func convert(vocab *dictionary.Vocabulary, path string) error {
	if err := dictionary.WriteFile(path, vocab.Words(), vocab.Weights()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s entries to %s\n", humanize.Comma(int64(vocab.Len())), path)
	return nil
}

func runServer(ctx context.Context, cfg config.ServerConfig, index autocomplete.Autocompletor, kind autocomplete.Kind, words int) error {
	var m *metrics.Metrics
	if cfg.MetricsPort > 0 {
		m = metrics.New()
		m.SetIndexWords(words)
		if _, err := m.StartServer(ctx, fmt.Sprintf("127.0.0.1:%d", cfg.MetricsPort)); err != nil {
			return err
		}
	}

	if cfg.EnableCache {
		cached := autocomplete.NewCached(index, cfg.CacheSize)
		if err := m.WatchCache(cached); err != nil {
			return err
		}
		index = cached
	}

	showStartupInfo(kind, words)
	srv := server.NewServer(index, kind, cfg, m, os.Stdin, os.Stdout)
	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
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
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ WordRank ] Weighted prefix completions")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo writes a short banner to stderr; stdout belongs to IPC.
func showStartupInfo(kind autocomplete.Kind, words int) {
	l := logger.NewWithConfig(os.Stderr, "", log.InfoLevel, false, false, log.TextFormatter)
	println("==========")
	println(" WordRank ")
	println("==========")
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Info("index", "kind", kind, "words", humanize.Comma(int64(words)))
	l.Info("status: ready")
	println("==========")
}
