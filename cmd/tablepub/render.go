// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/tablepub/internal/brand"
	"github.com/davetashner/tablepub/internal/config"
	"github.com/davetashner/tablepub/internal/dataset"
	"github.com/davetashner/tablepub/internal/render"
)

// Render-specific flag values.
var (
	renderStyle  styleFlags
	renderOutput string
)

// renderCmd renders a CSV to a standalone HTML page without publishing.
var renderCmd = &cobra.Command{
	Use:   "render <csv>",
	Short: "Render a CSV into a branded interactive HTML table",
	Long: `Render a CSV file into a self-contained HTML page with search, sorting,
pagination, and export controls. The page is written to --output or stdout
and needs no server; open it directly in a browser.

Available brands: ` + strings.Join(brand.Names(), ", ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderStyle.register(renderCmd.Flags())
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file path (default: stdout)")
}

func runRender(cmd *cobra.Command, args []string) error {
	ds, err := dataset.ReadFile(args[0])
	if err != nil {
		return exitError(ExitInvalidArgs, "reading %s: %v", args[0], err)
	}

	fileCfg, err := config.Load(".")
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	cfg, err := renderStyle.buildConfig(cmd.Flags(), fileCfg.DefaultBrand)
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}

	html, err := render.Render(ds, cfg)
	if err != nil {
		return exitError(ExitInvalidArgs, "rendering table: %v", err)
	}

	if renderOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), html)
		return nil
	}
	if err := os.WriteFile(renderOutput, []byte(html), 0o644); err != nil {
		return exitError(ExitInvalidArgs, "writing %s: %v", renderOutput, err)
	}
	slog.Info("rendered table", "rows", len(ds.Rows), "columns", len(ds.Columns), "output", renderOutput)
	return nil
}
