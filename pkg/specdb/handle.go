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

// Package specdb implements a file-context labeling backend: a
// specification store built from text or precompiled binary rule files,
// queried to resolve a filesystem path (and optional file-type mode) to
// a security context string.
//
// A Handle is built with Init, queried with Lookup / PartialMatch /
// LookupBestMatch, and released with Close. Two handles' loaded rules
// can be compared structurally with Compare. This package does not
// evaluate policy, talk to the kernel, or apply labels to inodes — it
// only resolves path to label.
package specdb

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handle is a loaded, queryable specification database.
type Handle struct {
	store   *Store
	subs    *SubstitutionTable
	logger  *slog.Logger
	digest  DigestSink
	metrics *Metrics

	closeOnce sync.Once
}

// StatEntry reports one spec's usage for Handle.Stats.
type StatEntry struct {
	RegexStr string
	CtxRaw   string
	Matches  uint64
}

// Init builds a Handle per the supplied Options (§6). Load-time errors
// abort initialization; no resources from a failed Init need releasing
// by the caller.
func Init(opts ...Option) (*Handle, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	store := NewStore()
	initialized := false
	defer func() {
		if !initialized {
			store.CloseRegions()
		}
	}()
	digest := o.digest
	if digest == nil {
		digest = newSHA256Digest()
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	var err error
	if len(o.paths) > 0 {
		for _, p := range o.paths {
			if err = loadExplicitPath(store, digest, p); err != nil {
				return nil, err
			}
		}
	} else {
		base := o.defaultPathFunc()
		if err = loadBaseSet(store, digest, base, o.baseOnly); err != nil {
			return nil, err
		}
	}

	if o.subset != "" {
		filterSubset(store, o.subset)
	}

	if o.validating {
		if dups := store.Dedup(); len(dups) > 0 {
			d := dups[0]
			return nil, &d
		}
		if o.contextValidator != nil {
			for _, spec := range store.Specs {
				if verr := o.contextValidator(spec.CtxRaw); verr != nil {
					return nil, &InvalidContext{Context: spec.CtxRaw, Err: verr}
				}
			}
		}
	}

	store.Sort()

	subs := &SubstitutionTable{}
	if o.distributionSubs != "" {
		if subs.Distribution, err = loadSubFile(o.distributionSubs); err != nil {
			return nil, err
		}
	}
	if o.localSubs != "" {
		if subs.Local, err = loadSubFile(o.localSubs); err != nil {
			return nil, err
		}
	}

	logger.Info("specdb.init", "specs", len(store.Specs), "stems", store.Stems.Len())

	initialized = true
	return &Handle{store: store, subs: subs, logger: logger, digest: digest, metrics: o.metrics}, nil
}

func loadSubFile(path string) ([]SubEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()
	return LoadSubstitutions(path, f)
}

func loadExplicitPath(store *Store, digest DigestSink, path string) error {
	if strings.HasSuffix(path, ".bin") {
		if err := LoadBinary(store, path); err != nil {
			return err
		}
		return digestFile(digest, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &IOError{Path: path, Op: "read", Err: err}
	}
	digest.Write(data)
	return LoadText(store, path, bytes.NewReader(data))
}

// loadBaseSet implements the original's multi-specfile init sequence
// (§4.11): a base specfile, then a ".homedirs" auxiliary and a ".local"
// override, both skipped when baseOnly is set. Each is resolved via
// File Discovery (ProcessFile); a missing auxiliary file is not an
// error, only a missing base file is.
func loadBaseSet(store *Store, digest DigestSink, base string, baseOnly bool) error {
	path, err := ProcessFile(store, base, "")
	if err != nil {
		return err
	}
	if err := digestFile(digest, path); err != nil {
		return err
	}
	if baseOnly {
		return nil
	}
	for _, suffix := range [2]string{"homedirs", "local"} {
		path, err := ProcessFile(store, base, suffix)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}
		if err := digestFile(digest, path); err != nil {
			return err
		}
	}
	return nil
}

func digestFile(digest DigestSink, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &IOError{Path: path, Op: "read", Err: err}
	}
	digest.Write(data)
	return nil
}

// filterSubset discards, in place, every spec whose literal prefix does
// not start with prefix (§6's SUBSET option).
func filterSubset(store *Store, prefix string) {
	kept := store.Specs[:0]
	for _, spec := range store.Specs {
		if (spec.StemID == NoStem && strings.HasPrefix(spec.RegexStr, prefix)) || specStemHasPrefix(store, spec, prefix) {
			kept = append(kept, spec)
		}
	}
	store.Specs = kept
}

func specStemHasPrefix(store *Store, spec *Spec, prefix string) bool {
	if spec.StemID == NoStem {
		return false
	}
	stem, ok := store.Stems.Get(spec.StemID)
	if !ok {
		return false
	}
	return strings.HasPrefix(string(stem.Bytes)+spec.RegexStr, prefix)
}

// Close releases every resource the handle owns. Idempotent: a second
// call is a no-op (§5).
func (h *Handle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		err = h.store.CloseRegions()
	})
	return err
}

// Lookup resolves path to a security context under mode (§4.8).
func (h *Handle) Lookup(path string, mode Mode) (string, error) {
	path = h.subs.Apply(path)
	ctx, err := Lookup(h.store, path, mode)
	h.observe(err)
	return ctx, err
}

// PartialMatch reports whether path, or some descendant of it, could
// match a spec's pattern (§4.8).
func (h *Handle) PartialMatch(path string) bool {
	path = h.subs.Apply(path)
	return PartialMatch(h.store, path)
}

// LookupBestMatch resolves path against a primary key and its aliases,
// preferring exact hits and falling back to longest-literal-prefix among
// meta-spec hits (§4.8).
func (h *Handle) LookupBestMatch(path string, aliases []string, mode Mode) (string, error) {
	path = h.subs.Apply(path)
	rewritten := make([]string, len(aliases))
	for i, a := range aliases {
		rewritten[i] = h.subs.Apply(a)
	}
	ctx, err := LookupBestMatch(h.store, path, rewritten, mode)
	h.observe(err)
	return ctx, err
}

func (h *Handle) observe(err error) {
	switch {
	case err == nil:
		h.metrics.observeLookup("hit")
	case errors.Is(err, ErrNotFound):
		h.metrics.observeLookup("not_found")
	default:
		h.metrics.observeLookup("error")
	}
}

// Stats reports every spec's hit count and logs a warning for each that
// was never matched (§6). It does not modify the handle.
func (h *Handle) Stats() []StatEntry {
	entries := make([]StatEntry, len(h.store.Specs))
	for i, spec := range h.store.Specs {
		n := spec.hitCount()
		entries[i] = StatEntry{RegexStr: spec.RegexStr, CtxRaw: spec.CtxRaw, Matches: n}
		if n == 0 {
			h.logger.Warn("specdb.unused_spec", "pattern", spec.RegexStr, "ctx", spec.CtxRaw)
		}
	}
	return entries
}

// Digest returns the fingerprint accumulated over every specfile loaded
// during Init, in load order (§4.11).
func (h *Handle) Digest() []byte {
	return h.digest.Sum()
}

// Compare reports the structural relationship between two handles'
// loaded rule sets (§4.9).
func Compare(a, b *Handle) Result {
	return CompareStores(a.store, b.store)
}
