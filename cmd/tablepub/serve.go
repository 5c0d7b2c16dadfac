// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/davetashner/tablepub/internal/config"
	"github.com/davetashner/tablepub/internal/server"
)

const defaultListenAddr = "127.0.0.1:8787"

var serveAddr string

// serveCmd runs the local table builder UI.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local table builder web UI",
	Long: `Start a local web server with the interactive table builder: upload a CSV,
adjust styling with a live preview, confirm a snapshot, and publish it to
GitHub Pages. State is held in memory per browser session; nothing is
persisted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: listen_addr in "+config.FileName+" or "+defaultListenAddr+")")
}

func runServe(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.Load(".")
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	if err := fileCfg.Validate(); err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}

	creds, err := config.LoadCredentials(".")
	if err != nil {
		return exitError(ExitAuthFailure, "%v", err)
	}
	owner := resolveOwner("", fileCfg, creds)
	if owner == "" {
		return exitError(ExitInvalidArgs, "no owner: set %s or set owner in %s", config.EnvOwner, config.FileName)
	}
	fileCfg.Owner = owner

	pub, err := newPublisher(fileCfg, creds, owner)
	if err != nil {
		return exitError(ExitAuthFailure, "%v", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = fileCfg.ListenAddr
	}
	if addr == "" {
		addr = defaultListenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(fileCfg, pub.Publish)
	if err := srv.Run(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
		return exitError(ExitPublishError, "server: %v", err)
	}
	return nil
}
