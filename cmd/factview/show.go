// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/factview/lib/inspector"
	"github.com/bureau-foundation/factview/lib/postmessage"
)

// showTimeout bounds the dial and write to the viewer's socket.
const showTimeout = 5 * time.Second

// runShow sends a SHOW_FACT message to a running viewer.
func runShow(args []string) error {
	var configPath, socketPath string
	flagSet := pflag.NewFlagSet("factview show", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "config file naming the default socket")
	flagSet.StringVar(&socketPath, "socket", "", "viewer message socket (default: listen_socket from the config)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printShowHelp(flagSet)
			return nil
		}
		return Validation("%w", err)
	}
	if help, _ := flagSet.GetBool("help"); help {
		printShowHelp(flagSet)
		return nil
	}

	positional := flagSet.Args()
	if len(positional) != 1 {
		return Validation("show takes exactly one fact id, got %d arguments", len(positional))
	}

	if socketPath == "" {
		cfg, err := loadConfig(viewerOptions{configPath: configPath})
		if err != nil {
			return err
		}
		socketPath = cfg.ListenSocket
	}
	if socketPath == "" {
		return Validation("no message socket configured").
			WithHint("Pass --socket or set listen_socket in the config file.")
	}

	return sendShowFact(context.Background(), socketPath, positional[0])
}

func sendShowFact(ctx context.Context, socketPath, id string) error {
	ctx, cancel := context.WithTimeout(ctx, showTimeout)
	defer cancel()
	if err := postmessage.Send(ctx, socketPath, inspector.ShowFact(id)); err != nil {
		return Transient("%w", err).
			WithHint("Is a viewer running? It listens on " + socketPath + " unless started with --listen none.")
	}
	return nil
}

func printShowHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Select a fact in a running viewer.

Usage:
  factview show [--socket PATH] FACT-ID

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
