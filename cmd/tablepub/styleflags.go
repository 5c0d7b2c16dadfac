// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/tablepub/internal/brand"
	"github.com/davetashner/tablepub/internal/render"
)

// styleFlags collects the table styling options shared by the render and
// publish subcommands. Precedence: defaults < --style-config file < flags.
type styleFlags struct {
	configPath string

	title        string
	subtitle     string
	brandName    string
	striped      bool
	plainTitles  bool
	leftTitles   bool
	cellAlign    string
	headerCasing string

	noHeader      bool
	noFooter      bool
	noSearch      bool
	noPager       bool
	noPageNumbers bool
	noEmbed       bool

	barColumns []string
	barMax     []string
	barWidth   int
}

func (f *styleFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "style-config", "", "YAML file with table styling options")
	fs.StringVarP(&f.title, "title", "t", "", "table title")
	fs.StringVar(&f.subtitle, "subtitle", "", "table subtitle")
	fs.StringVarP(&f.brandName, "brand", "b", "", "brand theme (see 'tablepub render --help')")
	fs.BoolVar(&f.striped, "striped", true, "alternate row background colors")
	fs.BoolVar(&f.plainTitles, "plain-titles", false, "use neutral instead of brand-colored titles")
	fs.BoolVar(&f.leftTitles, "left-titles", false, "left-align the title block instead of centering")
	fs.StringVar(&f.cellAlign, "cell-align", string(render.AlignCenter), "cell text alignment (left, center, right)")
	fs.StringVar(&f.headerCasing, "header-casing", string(render.CasingAsIs), "column header casing (as-is, upper, title)")
	fs.BoolVar(&f.noHeader, "no-header", false, "hide the title block")
	fs.BoolVar(&f.noFooter, "no-footer", false, "hide the brand footer")
	fs.BoolVar(&f.noSearch, "no-search", false, "hide the search box")
	fs.BoolVar(&f.noPager, "no-pager", false, "disable pagination")
	fs.BoolVar(&f.noPageNumbers, "no-page-numbers", false, "hide per-page numbering")
	fs.BoolVar(&f.noEmbed, "no-embed", false, "hide the embed snippet box")
	fs.StringSliceVar(&f.barColumns, "bars", nil, "numeric columns to draw as horizontal bars")
	fs.StringSliceVar(&f.barMax, "bar-max", nil, "per-column bar denominator override, e.g. Wins=100")
	fs.IntVar(&f.barWidth, "bar-width", 0, "fixed bar column width in px (0 = default)")
}

// buildConfig resolves the effective render configuration. fallbackBrand
// comes from .tablepub.yaml and applies only when no brand flag or style
// file sets one.
func (f *styleFlags) buildConfig(fs *pflag.FlagSet, fallbackBrand string) (render.Config, error) {
	cfg := render.DefaultConfig()
	if fallbackBrand != "" {
		cfg.Brand = fallbackBrand
	}

	if f.configPath != "" {
		data, err := os.ReadFile(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("reading style config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing style config %s: %w", f.configPath, err)
		}
	}

	if fs.Changed("title") {
		cfg.Title = f.title
	}
	if fs.Changed("subtitle") {
		cfg.Subtitle = f.subtitle
	}
	if fs.Changed("brand") {
		if !slices.Contains(brand.Names(), f.brandName) {
			return cfg, fmt.Errorf("unknown brand %q (known: %s)", f.brandName, strings.Join(brand.Names(), ", "))
		}
		cfg.Brand = f.brandName
	}
	if fs.Changed("striped") {
		cfg.Striped = f.striped
	}
	if fs.Changed("plain-titles") {
		cfg.BrandedTitleColor = !f.plainTitles
	}
	if fs.Changed("left-titles") {
		cfg.CenterTitles = !f.leftTitles
	}
	if fs.Changed("cell-align") {
		cfg.CellAlign = render.Align(f.cellAlign)
	}
	if fs.Changed("header-casing") {
		cfg.HeaderCasing = render.Casing(f.headerCasing)
	}
	if fs.Changed("no-header") {
		cfg.ShowHeader = !f.noHeader
	}
	if fs.Changed("no-footer") {
		cfg.ShowFooter = !f.noFooter
	}
	if fs.Changed("no-search") {
		cfg.ShowSearch = !f.noSearch
	}
	if fs.Changed("no-pager") {
		cfg.ShowPager = !f.noPager
	}
	if fs.Changed("no-page-numbers") {
		cfg.ShowPageNumbers = !f.noPageNumbers
	}
	if fs.Changed("no-embed") {
		cfg.ShowEmbed = !f.noEmbed
	}
	if fs.Changed("bars") {
		cfg.BarColumns = f.barColumns
	}
	if fs.Changed("bar-width") {
		cfg.BarFixedWidth = f.barWidth
	}
	if len(f.barMax) > 0 {
		overrides, err := parseBarMax(f.barMax)
		if err != nil {
			return cfg, err
		}
		cfg.BarMaxOverrides = overrides
	}

	return cfg, nil
}

// parseBarMax parses "Column=123.4" pairs into a denominator map.
func parseBarMax(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, val, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --bar-max entry %q: want Column=number", p)
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --bar-max value in %q: %w", p, err)
		}
		out[strings.TrimSpace(name)] = n
	}
	return out, nil
}
