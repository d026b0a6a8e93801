// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/labelfs/pkg/specdb"
)

// configFileName is the optional project config that the lookup,
// partial and stats subcommands read from the current directory whenever
// it exists, mirroring the teacher's ".cie/project.yaml" discovery.
const configFileName = ".labelfs.yaml"

// cliConfig is the on-disk shape of configFileName: named specfile sets
// and substitution file paths, so a repeated CLI invocation doesn't need
// to repeat long paths on every call.
type cliConfig struct {
	Default      string            `yaml:"default"`
	Sets         map[string]string `yaml:"sets"`
	Distribution string            `yaml:"distribution_substitutions"`
	Local        string            `yaml:"local_substitutions"`
}

func loadCLIConfig(path string) (*cliConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var cfg cliConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// resolveSpecFile turns a CLI argument into a concrete specfile path: a
// named set from cliConfig if one matches, otherwise the argument
// itself, otherwise cfg.Default.
func resolveSpecFile(cfg *cliConfig, arg string) string {
	if cfg != nil {
		if path, ok := cfg.Sets[arg]; ok {
			return path
		}
	}
	if arg != "" {
		return arg
	}
	if cfg != nil {
		return cfg.Default
	}
	return ""
}

// openHandleWithConfig is openHandle's config-aware counterpart: arg may
// be a named set from configFileName (if present in the working
// directory), a literal path, or empty to fall back to the config's
// default set.
func openHandleWithConfig(arg string) (*specdb.Handle, error) {
	var cfg *cliConfig
	if _, err := os.Stat(configFileName); err == nil {
		cfg, err = loadCLIConfig(configFileName)
		if err != nil {
			return nil, err
		}
	}

	path := resolveSpecFile(cfg, arg)
	if path == "" {
		return nil, fmt.Errorf("no specfile given and no default set in %s", configFileName)
	}

	opts := []specdb.Option{specdb.WithPaths(path)}
	if cfg != nil && (cfg.Distribution != "" || cfg.Local != "") {
		opts = append(opts, specdb.WithSubstitutionPaths(cfg.Distribution, cfg.Local))
	}
	return specdb.Init(opts...)
}
