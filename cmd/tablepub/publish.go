// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/davetashner/tablepub/internal/brand"
	"github.com/davetashner/tablepub/internal/config"
	"github.com/davetashner/tablepub/internal/dataset"
	"github.com/davetashner/tablepub/internal/publish"
	"github.com/davetashner/tablepub/internal/render"
	"github.com/davetashner/tablepub/internal/server"
	"github.com/davetashner/tablepub/internal/session"
)

// Publish-specific flag values.
var (
	publishStyle     styleFlags
	publishName      string
	publishPublisher string
	publishOwner     string
	publishRepo      string
	publishOverwrite string
)

// publishCmd renders a CSV and pushes it to a GitHub Pages repository.
var publishCmd = &cobra.Command{
	Use:   "publish <csv|html>",
	Short: "Render a CSV and publish it to GitHub Pages",
	Long: `Render a CSV into a branded HTML table and upload it, with config and data
sidecar files, to a brand-and-month named repository on GitHub Pages. A
pre-rendered .html file is uploaded as-is without sidecars. If the
destination page already exists the publish is refused; pass
--overwrite ` + publish.OverwritePhrase + ` to replace it.

Credentials come from the environment (or a .env file): GITHUB_PAT for a
personal access token, or GITHUB_APP_ID and GITHUB_APP_PRIVATE_KEY for a
GitHub App installation.`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	publishStyle.register(publishCmd.Flags())
	publishCmd.Flags().StringVarP(&publishName, "name", "n", "table", "page name; becomes <name>.html in the repository")
	publishCmd.Flags().StringVarP(&publishPublisher, "publisher", "p", "", "who is publishing; recorded in the config sidecar")
	publishCmd.Flags().StringVar(&publishOwner, "owner", "", "GitHub account to publish under (default: TABLEPUB_OWNER or .tablepub.yaml)")
	publishCmd.Flags().StringVar(&publishRepo, "repo", "", "repository name (default: derived from brand and current month)")
	publishCmd.Flags().StringVar(&publishOverwrite, "overwrite", "", "type "+publish.OverwritePhrase+" to replace an existing page")
}

func runPublish(cmd *cobra.Command, args []string) error {
	input := args[0]
	prerendered := strings.EqualFold(filepath.Ext(input), ".html")

	var ds *dataset.Dataset
	var err error
	if !prerendered {
		ds, err = dataset.ReadFile(input)
		if err != nil {
			return exitError(ExitInvalidArgs, "reading %s: %v", input, err)
		}
	}

	fileCfg, err := config.Load(".")
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	if err := fileCfg.Validate(); err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	if !fileCfg.AllowsPublisher(publishPublisher) {
		return exitError(ExitInvalidArgs, "%q is not an allowed publisher (see publishers in %s)", publishPublisher, config.FileName)
	}

	cfg, err := publishStyle.buildConfig(cmd.Flags(), fileCfg.DefaultBrand)
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}

	creds, err := config.LoadCredentials(".")
	if err != nil {
		return exitError(ExitAuthFailure, "%v", err)
	}
	owner := resolveOwner(publishOwner, fileCfg, creds)
	if owner == "" {
		return exitError(ExitInvalidArgs, "no owner: pass --owner, set %s, or set owner in %s", config.EnvOwner, config.FileName)
	}

	pub, err := newPublisher(fileCfg, creds, owner)
	if err != nil {
		return exitError(ExitAuthFailure, "%v", err)
	}

	now := time.Now()
	var html, manifest, dataCSV string
	if prerendered {
		// Upload as-is; no sidecars since there is no dataset or config
		// manifest to snapshot.
		data, err := os.ReadFile(input)
		if err != nil {
			return exitError(ExitInvalidArgs, "reading %s: %v", input, err)
		}
		html = string(data)
	} else {
		sess := session.New()
		sess.SetDataset(ds)
		sess.Draft = cfg
		snap, err := sess.Confirm(now)
		if err != nil {
			return exitError(ExitInvalidArgs, "%v", err)
		}
		html = snap.HTML

		manifest, err = snap.Manifest(publishPublisher, uuid.NewString(), now)
		if err != nil {
			return exitError(ExitPublishError, "%v", err)
		}
		dataCSV, err = snap.Dataset.MarshalCSV()
		if err != nil {
			return exitError(ExitPublishError, "%v", err)
		}
	}

	repo := publishRepo
	if repo == "" {
		repo = brand.RepoName(cfg.Brand, now)
	}
	name := publishName
	if prerendered && !cmd.Flags().Changed("name") {
		name = filepath.Base(input)
	}
	target := publish.Target{
		Owner: owner,
		Repo:  repo,
		Path:  server.NormalizeFileName(name),
	}

	slog.Debug("publishing", "owner", target.Owner, "repo", target.Repo, "path", target.Path)
	res, err := pub.Publish(cmd.Context(), target, publish.Artifact{
		HTML:       html,
		ConfigJSON: manifest,
		DataCSV:    dataCSV,
	}, publish.ConfirmationToken(publishOverwrite))
	if err != nil {
		return publishExitError(err)
	}

	out := cmd.OutOrStdout()
	if res.RepoCreated {
		fmt.Fprintf(out, "Created repository %s/%s with Pages enabled.\n", target.Owner, target.Repo)
	}
	fmt.Fprintf(out, "%s %s\n", color.GreenString("Published:"), res.URL)
	if !res.Live {
		fmt.Fprintln(out, color.YellowString("Page is not reachable yet; GitHub Pages can take a few minutes to propagate."))
	}
	fmt.Fprintf(out, "\nEmbed snippet:\n%s\n", render.EmbedSnippet(res.URL, 800))
	return nil
}

// publishExitError maps the publish error taxonomy onto exit codes with
// actionable messages.
func publishExitError(err error) *exitCodeError {
	var (
		authCfg *publish.AuthConfigError
		denied  *publish.AuthDeniedError
		exists  *publish.DestinationExistsError
	)
	switch {
	case errors.As(err, &exists):
		return exitError(ExitInvalidArgs, "%v\nPass --overwrite %s to replace it.", err, publish.OverwritePhrase)
	case errors.As(err, &authCfg), errors.As(err, &denied):
		return exitError(ExitAuthFailure, "%v", err)
	default:
		return exitError(ExitPublishError, "%v", err)
	}
}
