// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// factview is a terminal viewer for tagged financial reports. It lays
// out a report snapshot as a document of tagged values beside an
// inspector that shows the selected fact's properties, period-over-
// period change, calculations, footnotes and duplicates, and searches
// the report's facts.
//
// The report argument may carry a deep link: "acme.json#f-f-rev-2020"
// opens with that fact selected. While running, the viewer watches the
// snapshot file and glows values that change on reload, and accepts
// SHOW_FACT messages on a Unix socket so other tools can drive the
// selection ("factview show f-rev-2020").
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/factview/lib/config"
	"github.com/bureau-foundation/factview/lib/factsearch"
	"github.com/bureau-foundation/factview/lib/factui"
	"github.com/bureau-foundation/factview/lib/inspector"
	"github.com/bureau-foundation/factview/lib/postmessage"
	"github.com/bureau-foundation/factview/lib/report"
	"github.com/bureau-foundation/factview/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// viewerOptions holds the viewer's command line.
type viewerOptions struct {
	configPath   string
	language     string
	listenSocket string
	identityFile string
	watch        bool
	logOutput    string
	selectID     string

	flagSet *pflag.FlagSet
}

func run(args []string) error {
	// Handle --version before flag parsing.
	if len(args) > 0 && args[0] == "--version" {
		version.Print("factview")
		return nil
	}
	if len(args) > 0 && args[0] == "show" {
		return runShow(args[1:])
	}

	var options viewerOptions
	flagSet := pflag.NewFlagSet("factview", pflag.ContinueOnError)
	flagSet.StringVar(&options.configPath, "config", "", "config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&options.language, "language", "", "label language, for example en or fr-CA")
	flagSet.StringVar(&options.listenSocket, "listen", "", "Unix socket accepting SHOW_FACT messages (\"none\" disables)")
	flagSet.StringVar(&options.identityFile, "identity", "", "age identity file for encrypted snapshots")
	flagSet.BoolVar(&options.watch, "watch", true, "reload the report when the file changes")
	flagSet.StringVar(&options.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status bar)")
	flagSet.StringVar(&options.selectID, "select", "", "fact or footnote id to select on startup")
	flagSet.BoolP("help", "h", false, "show help")
	options.flagSet = flagSet

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return Validation("%w", err)
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	positional := flagSet.Args()
	if len(positional) == 0 {
		return Validation("missing report argument").
			WithHint("Usage: factview [flags] REPORT[#f-ID]. Run 'factview --help' for details.")
	}
	if len(positional) > 1 {
		return Validation("unexpected argument: %s", positional[1])
	}

	cfg, err := loadConfig(options)
	if err != nil {
		return err
	}

	path, fragment := splitReportArgument(positional[0])
	if options.selectID != "" {
		fragment = inspector.FragmentFor(options.selectID)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return Validation("factview needs a terminal").
			WithHint("To drive a running viewer from a script, use 'factview show FACT-ID'.")
	}
	return runViewer(cfg, path, fragment)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(options viewerOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if options.configPath != "" {
		cfg, err = config.LoadFile(options.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, Validation("%w", err)
	}

	if options.language != "" {
		cfg.Language = options.language
	}
	if options.identityFile != "" {
		cfg.IdentityFile = options.identityFile
	}
	if options.logOutput != "" {
		cfg.LogOutput = options.logOutput
	}
	if options.listenSocket == "none" {
		cfg.ListenSocket = ""
	} else if options.listenSocket != "" {
		cfg.ListenSocket = options.listenSocket
	}
	if options.flagSet != nil && options.flagSet.Changed("watch") {
		cfg.Watch = options.watch
	}

	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

// splitReportArgument separates a trailing "#f-" deep link from the
// report path.
func splitReportArgument(argument string) (path, fragment string) {
	index := strings.LastIndex(argument, "#f-")
	if index < 0 {
		return argument, ""
	}
	return argument[:index], argument[index:]
}

func searchWeights(search config.SearchConfig) factsearch.Weights {
	return factsearch.Weights{
		Label:         search.LabelWeight,
		Concept:       search.ConceptWeight,
		Dimension:     search.DimensionWeight,
		Period:        search.PeriodWeight,
		Documentation: search.DocumentationWeight,
	}
}

// runViewer loads the report and runs the TUI with the file watcher and
// message listener feeding it. On exit the deep link of the final
// selection is printed so the view can be reopened.
func runViewer(cfg *config.Config, path, fragment string) error {
	loadOptions := report.LoadOptions{Language: cfg.Language, IdentityFile: cfg.IdentityFile}
	source, err := report.Load(path, loadOptions)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NotFound("%w", err)
		}
		return Validation("cannot load report %s: %w", path, err).
			WithHint("Reports are .json, .jsonc or .cbor snapshots, optionally compressed (.zst, .lz4) and encrypted (.age, needs --identity).")
	}

	level, _ := cfg.SlogLevel()
	// Debug records would flood the status bar; they still reach the
	// log file.
	tuiHandler := factui.NewTUILogHandler(max(level, slog.LevelInfo))
	logger, closeLog, err := newViewerLogger(tuiHandler, cfg.LogOutput, level)
	if err != nil {
		return Validation("cannot open log file %s: %w", cfg.LogOutput, err)
	}
	defer closeLog()

	location := inspector.NewMemoryLocation(fragment)
	model := factui.NewModel(factui.Config{
		Report:   source,
		Weights:  searchWeights(cfg.Search),
		Location: location,
		Reload: func(language string) (*report.Report, error) {
			return report.Load(path, report.LoadOptions{Language: language, IdentityFile: cfg.IdentityFile})
		},
		Logger: logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	tuiHandler.SetProgram(program)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Watch {
		reports, stop, err := report.Watch(path, source.Fingerprint(), loadOptions, logger)
		if err != nil {
			logger.Warn("file watch unavailable", "path", path, "error", err)
		} else {
			defer stop()
			go func() {
				for reloaded := range reports {
					program.Send(factui.ReportMsg{Report: reloaded})
				}
			}()
		}
	}

	if cfg.ListenSocket != "" {
		listener := postmessage.NewListener(cfg.ListenSocket, func(message []byte) {
			program.Send(factui.PostMessageMsg{Data: message})
		}, logger)
		go func() {
			if err := listener.Serve(ctx); err != nil {
				logger.Warn("message listener stopped", "socket", cfg.ListenSocket, "error", err)
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return Internal("running viewer: %w", err)
	}
	if fragment := location.Fragment(); fragment != "" {
		fmt.Println(path + fragment)
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `factview: terminal viewer for tagged financial reports.

Opens a report snapshot as a document of tagged values beside an
inspector. Select a value to see its properties, its change on the
prior period, the calculations it takes part in, its footnotes and its
duplicates. Press / to search facts.

Usage:
  factview [flags] REPORT[#f-ID]
  factview show [--socket PATH] FACT-ID
  factview --version

Examples:
  # Open a report
  factview acme-2020.json

  # Open with a fact selected
  factview 'acme-2020.json.zst#f-f-rev-2020'

  # Select a fact in the running viewer from another terminal
  factview show f-rev-2019

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
