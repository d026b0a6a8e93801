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

package specdb

import "log/slog"

// ContextValidator rejects a loaded context string when Validating is
// set. A non-nil error fails Init with InvalidContext.
type ContextValidator func(ctx string) error

// options holds Init's resolved configuration. It is unexported; callers
// build one via Option functions passed to Init, following the
// functional-options shape the teacher uses for its own pipeline
// configs (pkg/ingestion.Config).
type options struct {
	paths             []string
	subset            string
	baseOnly          bool
	validating        bool
	logger            *slog.Logger
	digest            DigestSink
	metrics           *Metrics
	contextValidator  ContextValidator
	defaultPathFunc   func() string
	distributionSubs  string
	localSubs         string
}

func defaultOptions() options {
	return options{
		defaultPathFunc: func() string { return "" },
	}
}

// Option configures Init.
type Option func(*options)

// WithPaths supplies explicit specfile paths, bypassing File Discovery
// entirely. A path ending in ".bin" loads as a binary specfile;
// otherwise as text.
func WithPaths(paths ...string) Option {
	return func(o *options) { o.paths = append(o.paths, paths...) }
}

// WithSubset discards, at load time, every rule whose literal prefix
// does not start with prefix.
func WithSubset(prefix string) Option {
	return func(o *options) { o.subset = prefix }
}

// WithBaseOnly skips the ".homedirs" and ".local" auxiliary files in the
// base-set load sequence (§4.11).
func WithBaseOnly() Option {
	return func(o *options) { o.baseOnly = true }
}

// WithValidating turns on duplicate diagnosis and context validation as
// fatal Init errors instead of informational ones.
func WithValidating() Option {
	return func(o *options) { o.validating = true }
}

// WithLogger sets the handle's logger. A nil logger (the default, if
// this option is never used) falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDigestSink overrides the default SHA-256 fingerprint accumulator.
func WithDigestSink(d DigestSink) Option {
	return func(o *options) { o.digest = d }
}

// WithMetrics wires Prometheus instrumentation into the handle.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithContextValidator sets the hook checked against every loaded
// context string when WithValidating is also set.
func WithContextValidator(v ContextValidator) Option {
	return func(o *options) { o.contextValidator = v }
}

// WithDefaultPathFunc overrides how Init resolves the base specfile path
// when WithPaths is not used. This is the surrounding library's
// process-global default-path hook (§1, §6), injected rather than read
// directly.
func WithDefaultPathFunc(f func() string) Option {
	return func(o *options) { o.defaultPathFunc = f }
}

// WithSubstitutionPaths supplies the distribution and local substitution
// file paths (§4.10). Either may be empty to skip that list.
func WithSubstitutionPaths(distribution, local string) Option {
	return func(o *options) {
		o.distributionSubs = distribution
		o.localSubs = local
	}
}
