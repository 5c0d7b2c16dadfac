// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

// Package render turns a dataset and a display configuration into a
// self-contained branded HTML table page. Rendering is a pure function:
// identical inputs produce byte-identical output, and all user-supplied
// text is escaped by html/template.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/davetashner/tablepub/internal/brand"
	"github.com/davetashner/tablepub/internal/dataset"
)

// ErrEmptyDataset is returned when the dataset has no rows or no columns.
var ErrEmptyDataset = errors.New("render: dataset must have at least one row and one column")

var (
	pageTmplOnce sync.Once
	pageTmpl     *template.Template
)

// hide is the CSS class applied to widget sections toggled off in config.
const hide = "tp-hide"

// columnHead is one <th> in the rendered table.
type columnHead struct {
	Label string
	Type  dataset.ColumnType
	Bar   bool
}

// cell is one <td>. Bar cells carry a precomputed fill percentage.
type cell struct {
	Value string
	Bar   bool
	Pct   string
}

// pageData is the typed template context for the table page.
type pageData struct {
	Title              string
	Subtitle           string
	Brand              brand.Meta
	StripeCSS          template.CSS
	HeaderCasingCSS    template.CSS
	HeaderAlignClass   string
	TitleClass         string
	HeaderVisClass     string
	FooterVisClass     string
	ControlsVisClass   string
	SearchVisClass     string
	PagerVisClass      string
	EmbedVisClass      string
	PageStatusVisClass string
	FooterAlignClass   string
	CellAlignClass     string
	BarFixedWidth      int
	Columns            []columnHead
	Rows               [][]cell
	Colspan            int
}

// Render produces the final HTML document for the dataset and config.
// The dataset must be non-empty; config fields outside their documented
// domain are replaced with defaults rather than rejected.
func Render(ds *dataset.Dataset, cfg Config) (string, error) {
	if ds.Empty() {
		return "", ErrEmptyDataset
	}
	cfg = cfg.normalized()

	pageTmplOnce.Do(func() {
		pageTmpl = template.Must(template.New("table").Parse(pageTemplate))
	})

	var sb strings.Builder
	if err := pageTmpl.Execute(&sb, buildPageData(ds, cfg)); err != nil {
		return "", fmt.Errorf("executing table template: %w", err)
	}
	return sb.String(), nil
}

func buildPageData(ds *dataset.Dataset, cfg Config) pageData {
	meta := brand.Lookup(cfg.Brand)

	barCols := make(map[string]bool, len(cfg.BarColumns))
	for _, c := range cfg.BarColumns {
		barCols[c] = true
	}

	colTypes := make([]dataset.ColumnType, len(ds.Columns))
	for i, name := range ds.Columns {
		colTypes[i] = ds.ColumnType(name)
	}

	denoms := barDenominators(ds, cfg, barCols, colTypes)

	cols := make([]columnHead, len(ds.Columns))
	for i, name := range ds.Columns {
		cols[i] = columnHead{
			Label: name,
			Type:  colTypes[i],
			Bar:   barCols[name] && colTypes[i] == dataset.ColumnNumeric,
		}
	}

	rows := make([][]cell, len(ds.Rows))
	for ri, row := range ds.Rows {
		cells := make([]cell, len(ds.Columns))
		for ci := range ds.Columns {
			val := row[ci]
			if cols[ci].Bar {
				pct := barFill(dataset.ParseNumber(val), denoms[ds.Columns[ci]])
				cells[ci] = cell{Value: val, Bar: true, Pct: fmt.Sprintf("%.2f", pct)}
			} else {
				cells[ci] = cell{Value: val}
			}
		}
		rows[ri] = cells
	}

	data := pageData{
		Title:            cfg.Title,
		Subtitle:         cfg.Subtitle,
		Brand:            meta,
		StripeCSS:        stripeCSS(cfg.Striped),
		HeaderCasingCSS:  casingCSS(cfg.HeaderCasing),
		FooterAlignClass: "footer-" + string(cfg.FooterLogoAlign),
		CellAlignClass:   "align-" + string(cfg.CellAlign),
		BarFixedWidth:    cfg.BarFixedWidth,
		Columns:          cols,
		Rows:             rows,
		Colspan:          len(ds.Columns),
	}

	if cfg.CenterTitles {
		data.HeaderAlignClass = "centered"
	}
	if cfg.BrandedTitleColor {
		data.TitleClass = "branded"
	}
	if !cfg.ShowHeader {
		data.HeaderVisClass = hide
	}
	if !cfg.ShowFooter {
		data.FooterVisClass = hide
	}
	if !cfg.ShowSearch && !cfg.ShowPager && !cfg.ShowEmbed {
		data.ControlsVisClass = hide
	}
	if !cfg.ShowSearch {
		data.SearchVisClass = hide
	}
	if !cfg.ShowPager {
		data.PagerVisClass = hide
	}
	if !cfg.ShowEmbed {
		data.EmbedVisClass = hide
	}
	if !cfg.ShowPageNumbers || !cfg.ShowPager {
		data.PageStatusVisClass = hide
	}
	return data
}

// barDenominators computes the normalization denominator for each bar
// column: a positive explicit override wins, else the column maximum,
// else 1.0 when the maximum is non-positive.
func barDenominators(ds *dataset.Dataset, cfg Config, barCols map[string]bool, colTypes []dataset.ColumnType) map[string]float64 {
	denoms := make(map[string]float64)
	for i, name := range ds.Columns {
		if !barCols[name] || colTypes[i] != dataset.ColumnNumeric {
			continue
		}
		if ov, ok := cfg.BarMaxOverrides[name]; ok && ov > 0 {
			denoms[name] = ov
			continue
		}
		m := 0.0
		for _, v := range ds.ColumnValues(name) {
			if n := dataset.ParseNumber(v); n > m {
				m = n
			}
		}
		if m <= 0 {
			m = 1.0
		}
		denoms[name] = m
	}
	return denoms
}

// barFill returns clamp(value/denominator*100, 0, 100).
func barFill(value, denom float64) float64 {
	if denom == 0 {
		denom = 1.0
	}
	pct := value / denom * 100.0
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func stripeCSS(striped bool) template.CSS {
	if striped {
		return template.CSS(`#tp-block tbody tr:nth-child(odd) td{background:var(--stripe);}
    #tp-block tbody tr:nth-child(even) td{background:#ffffff;}`)
	}
	return template.CSS(`#tp-block tbody tr td{background:#ffffff;}`)
}

// casingCSS maps a header casing style onto a text-transform rule. The
// transform is presentational; the underlying header text (and the sort
// comparators and CSV export built on it) keeps its original casing.
func casingCSS(c Casing) template.CSS {
	switch c {
	case CasingUpper:
		return "text-transform:uppercase;"
	case CasingTitle:
		return "text-transform:capitalize;"
	default:
		return "text-transform:none;"
	}
}

// EmbedSnippet builds the iframe block shown to users for embedding a
// published table. A zero or negative height falls back to 800.
func EmbedSnippet(url string, height int) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if height <= 0 {
		height = 800
	}
	return fmt.Sprintf(`<iframe
  src="%s"
  width="100%%"
  height="%d"
  style="border:0; border-radius:12px; overflow:hidden;"
  loading="lazy"
  referrerpolicy="no-referrer-when-downgrade"
></iframe>`, template.HTMLEscapeString(url), height)
}
