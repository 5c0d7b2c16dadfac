// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/davetashner/tablepub/internal/config"
	"github.com/davetashner/tablepub/internal/publish"
)

// resolveOwner picks the publish owner: flag over environment over
// .tablepub.yaml.
func resolveOwner(flagOwner string, cfg *config.Config, creds config.Credentials) string {
	switch {
	case flagOwner != "":
		return flagOwner
	case creds.Owner != "":
		return creds.Owner
	default:
		return cfg.Owner
	}
}

// newPublisher wires credentials into a Publisher. App credentials are
// preferred for uploads; a personal token is kept alongside for repository
// creation, which installation tokens may not be scoped for.
func newPublisher(cfg *config.Config, creds config.Credentials, owner string) (*publish.Publisher, error) {
	if !creds.Configured() {
		return nil, fmt.Errorf("no credentials: set %s, or %s and %s (a .env file in the working directory is read automatically)",
			config.EnvPersonalToken, config.EnvAppID, config.EnvAppPrivateKey)
	}

	var pat publish.TokenSource
	if creds.PersonalToken != "" {
		pat = &publish.StaticTokenSource{AccessToken: creds.PersonalToken}
	}

	tokens := pat
	if creds.AppID != "" && creds.AppPrivateKey != "" {
		src, err := publish.NewAppTokenSource(creds.AppID, creds.AppPrivateKey, owner)
		if err != nil {
			return nil, err
		}
		tokens = src
	}

	p := publish.New(tokens, pat)
	p.SetBranch(cfg.Branch)
	if cfg.PollTimeoutSeconds > 0 {
		p.SetPollTimeout(time.Duration(cfg.PollTimeoutSeconds) * time.Second)
	}
	return p, nil
}
