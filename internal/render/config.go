// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package render

// Align is a horizontal alignment choice for cells or the footer logo.
type Align string

// Recognized alignments. Anything else normalizes to AlignCenter.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Casing is a column-header text-casing style.
type Casing string

// Recognized header casings. Anything else normalizes to CasingAsIs.
const (
	CasingAsIs  Casing = "as-is"
	CasingUpper Casing = "upper"
	CasingTitle Casing = "title"
)

// Bar width bounds in pixels for bar-chart columns.
const (
	minBarWidth     = 120
	maxBarWidth     = 360
	defaultBarWidth = 200
)

// Config holds every display option for a rendered table. It is a plain
// value: the session layer freezes a copy on confirm and the renderer never
// mutates it.
type Config struct {
	Title             string             `json:"title" yaml:"title"`
	Subtitle          string             `json:"subtitle" yaml:"subtitle"`
	Brand             string             `json:"brand" yaml:"brand"`
	Striped           bool               `json:"striped" yaml:"striped"`
	CenterTitles      bool               `json:"center_titles" yaml:"center_titles"`
	BrandedTitleColor bool               `json:"branded_title_color" yaml:"branded_title_color"`
	ShowHeader        bool               `json:"show_header" yaml:"show_header"`
	ShowFooter        bool               `json:"show_footer" yaml:"show_footer"`
	ShowSearch        bool               `json:"show_search" yaml:"show_search"`
	ShowPager         bool               `json:"show_pager" yaml:"show_pager"`
	ShowEmbed         bool               `json:"show_embed" yaml:"show_embed"`
	ShowPageNumbers   bool               `json:"show_page_numbers" yaml:"show_page_numbers"`
	FooterLogoAlign   Align              `json:"footer_logo_align" yaml:"footer_logo_align"`
	CellAlign         Align              `json:"cell_align" yaml:"cell_align"`
	HeaderCasing      Casing             `json:"header_casing" yaml:"header_casing"`
	BarColumns        []string           `json:"bar_columns,omitempty" yaml:"bar_columns,omitempty"`
	BarMaxOverrides   map[string]float64 `json:"bar_max_overrides,omitempty" yaml:"bar_max_overrides,omitempty"`
	BarFixedWidth     int                `json:"bar_fixed_width" yaml:"bar_fixed_width"`
}

// DefaultConfig returns the documented defaults for every display option.
func DefaultConfig() Config {
	return Config{
		Title:             "Table 1",
		Subtitle:          "Subheading",
		Brand:             "",
		Striped:           true,
		CenterTitles:      false,
		BrandedTitleColor: true,
		ShowHeader:        true,
		ShowFooter:        true,
		ShowSearch:        true,
		ShowPager:         true,
		ShowEmbed:         true,
		ShowPageNumbers:   true,
		FooterLogoAlign:   AlignCenter,
		CellAlign:         AlignCenter,
		HeaderCasing:      CasingAsIs,
		BarFixedWidth:     defaultBarWidth,
	}
}

// Clone returns a copy that shares no slice or map storage with the
// receiver, so a frozen snapshot cannot alias a still-mutable draft.
func (c Config) Clone() Config {
	out := c
	if c.BarColumns != nil {
		out.BarColumns = make([]string, len(c.BarColumns))
		copy(out.BarColumns, c.BarColumns)
	}
	if c.BarMaxOverrides != nil {
		out.BarMaxOverrides = make(map[string]float64, len(c.BarMaxOverrides))
		for k, v := range c.BarMaxOverrides {
			out.BarMaxOverrides[k] = v
		}
	}
	return out
}

// normalized substitutes documented defaults for absent or invalid fields.
func (c Config) normalized() Config {
	c.FooterLogoAlign = normalizeAlign(c.FooterLogoAlign)
	c.CellAlign = normalizeAlign(c.CellAlign)
	c.HeaderCasing = normalizeCasing(c.HeaderCasing)

	if c.BarFixedWidth == 0 {
		c.BarFixedWidth = defaultBarWidth
	}
	if c.BarFixedWidth < minBarWidth {
		c.BarFixedWidth = minBarWidth
	}
	if c.BarFixedWidth > maxBarWidth {
		c.BarFixedWidth = maxBarWidth
	}
	return c
}

func normalizeAlign(a Align) Align {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return a
	default:
		return AlignCenter
	}
}

func normalizeCasing(c Casing) Casing {
	switch c {
	case CasingAsIs, CasingUpper, CasingTitle:
		return c
	default:
		return CasingAsIs
	}
}
