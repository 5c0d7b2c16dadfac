// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

// Package brand holds the visual identities tables can be published under
// and the monthly repository naming convention.
package brand

import (
	"fmt"
	"sort"
	"time"
)

// DefaultName is substituted when an unknown or empty brand is requested.
const DefaultName = "Action Network"

// Meta describes one brand: display name, logo, and the CSS class selecting
// its color theme inside the rendered page.
type Meta struct {
	Name       string
	LogoURL    string
	LogoAlt    string
	CSSClass   string
	RepoPrefix string
}

// registry maps brand display names to their metadata.
var registry = map[string]Meta{
	"Action Network": {
		Name:       "Action Network",
		LogoURL:    "https://i.postimg.cc/x1nG117r/AN-final2-logo.png",
		LogoAlt:    "Action Network Logo",
		CSSClass:   "brand-actionnetwork",
		RepoPrefix: "ActionNetwork",
	},
	"VegasInsider": {
		Name:       "VegasInsider",
		LogoURL:    "https://i.postimg.cc/VkynWsGQ/VI-logo-Dark.png",
		LogoAlt:    "VegasInsider Logo",
		CSSClass:   "brand-vegasinsider",
		RepoPrefix: "VegasInsider",
	},
	"Canada Sports Betting": {
		Name:       "Canada Sports Betting",
		LogoURL:    "https://i.postimg.cc/25nqwgcw/csb-text-all-red.png",
		LogoAlt:    "Canada Sports Betting Logo",
		CSSClass:   "brand-canadasb",
		RepoPrefix: "CanadaSportsBetting",
	},
	"RotoGrinders": {
		Name:       "RotoGrinders",
		LogoURL:    "https://i.postimg.cc/PrcJnQtK/RG-logo-Fn.png",
		LogoAlt:    "RotoGrinders Logo",
		CSSClass:   "brand-rotogrinders",
		RepoPrefix: "RotoGrinders",
	},
	"AceOdds": {
		Name:       "AceOdds",
		LogoURL:    "https://i.postimg.cc/RVhccmQc/aceodds-logo-original-1.png",
		LogoAlt:    "AceOdds Logo",
		CSSClass:   "brand-aceodds",
		RepoPrefix: "AceOdds",
	},
	"BOLAVIP": {
		Name:       "BOLAVIP",
		LogoURL:    "https://i.postimg.cc/KzqsN24t/bolavip-logo-black.png",
		LogoAlt:    "BOLAVIP Logo",
		CSSClass:   "brand-bolavip",
		RepoPrefix: "BOLAVIP",
	},
}

// monthCode maps a calendar month to the single letter used in repository
// names. Repositories roll over automatically every UTC month.
var monthCode = map[time.Month]string{
	time.January:   "j",
	time.February:  "f",
	time.March:     "m",
	time.April:     "a",
	time.May:       "y",
	time.June:      "u",
	time.July:      "l",
	time.August:    "g",
	time.September: "s",
	time.October:   "o",
	time.November:  "n",
	time.December:  "d",
}

// Lookup returns metadata for the named brand, falling back to DefaultName
// for unknown or empty names.
func Lookup(name string) Meta {
	if m, ok := registry[name]; ok {
		return m
	}
	return registry[DefaultName]
}

// Names returns all registered brand names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RepoName derives the destination repository name for a brand at the given
// instant: {Prefix}t{monthCode}{yy}, evaluated in UTC. The same brand and
// UTC month always produce the same name.
func RepoName(name string, now time.Time) string {
	m := Lookup(name)
	utc := now.UTC()
	return fmt.Sprintf("%st%s%02d", m.RepoPrefix, monthCode[utc.Month()], utc.Year()%100)
}
