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

// Lookup Engine: normalization, stem filter, reverse scan with mode
// filter and lazy compile, partial-match probing, and best-match across
// aliases, per §4.8.
package specdb

import (
	"bytes"
	"strings"
)

// normalizePath collapses runs of two or more consecutive '/' into a
// single '/', without mutating path.
func normalizePath(path string) string {
	if !strings.Contains(path, "//") {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// scanStore performs the reverse scan described in §4.8, returning the
// winning spec (nil if none), and whether the win was a full or partial
// match. A non-nil error is always fatal (compile error or adapter
// error) and aborts the scan.
func scanStore(store *Store, rawKey string, mode Mode, allowPartial bool) (*Spec, matchOutcome, error) {
	key := normalizePath(rawKey)

	var keyStemID int32 = NoStem
	tail := key
	if stemLen := stemLenFromPath(key); stemLen > 0 {
		keyStemID = store.Stems.Find([]byte(key[:stemLen]))
		tail = key[stemLen:]
	}

	for i := len(store.Specs) - 1; i >= 0; i-- {
		spec := store.Specs[i]
		if spec.StemID != NoStem && spec.StemID != keyStemID {
			// The key has no stem of its own (e.g. "/var", a single
			// top-level component): it can still be an ancestor of every
			// path under spec's stem, when it equals that stem or is "/",
			// in which case some descendant of key could reach a full
			// match. Only relevant to partial-match probing; an exact
			// Lookup never wants an ancestor to "match".
			if !allowPartial || keyStemID != NoStem {
				continue
			}
			stem, ok := store.Stems.Get(spec.StemID)
			if !ok || !(key == "/" || bytes.Equal(stem.Bytes, []byte(key))) {
				continue
			}
			if !modeCompatible(mode, spec.Mode) {
				continue
			}
			spec.recordHit()
			return spec, outcomePartialMatch, nil
		}
		if !modeCompatible(mode, spec.Mode) {
			continue
		}

		compiled, err := spec.compiledPattern()
		if err != nil {
			return nil, outcomeNoMatch, err
		}

		subject := key
		if spec.StemID != NoStem {
			subject = tail
		}

		outcome, err := compiled.match([]byte(subject), allowPartial)
		if err != nil {
			return nil, outcomeNoMatch, err
		}
		switch outcome {
		case outcomeMatch:
			spec.recordHit()
			return spec, outcomeMatch, nil
		case outcomePartialMatch:
			if allowPartial {
				spec.recordHit()
				return spec, outcomePartialMatch, nil
			}
		}
		// outcomeNoMatch: continue scanning toward index 0.
	}
	return nil, outcomeNoMatch, nil
}

// Lookup resolves path to a security context, per §4.8. ErrNotFound is
// returned both when no spec matches and when the winning spec's
// context is the "<<none>>" sentinel.
func Lookup(store *Store, path string, mode Mode) (string, error) {
	spec, _, err := scanStore(store, path, mode, false)
	if err != nil {
		return "", err
	}
	if spec == nil || spec.CtxRaw == NoneContext {
		return "", ErrNotFound
	}
	return spec.CtxRaw, nil
}

// PartialMatch reports whether some spec's pattern could match path or
// some descendant of path. It never returns a label.
func PartialMatch(store *Store, path string) bool {
	spec, outcome, err := scanStore(store, path, ModeAny, true)
	if err != nil {
		return false
	}
	return spec != nil && (outcome == outcomeMatch || outcome == outcomePartialMatch)
}

// LookupBestMatch implements §4.8's best-match-across-aliases algorithm:
// an exact (non-meta) hit on the primary key wins outright; failing
// that, an exact hit on any alias wins (first one checked); failing
// that, among meta-spec hits across primary and aliases, the one with
// the largest PrefixLen wins, ties broken toward the primary and then
// toward earlier aliases.
func LookupBestMatch(store *Store, path string, aliases []string, mode Mode) (string, error) {
	type candidate struct {
		spec  *Spec
		order int // 0 = primary, 1..len(aliases) = alias index+1
	}

	primary, _, err := scanStore(store, path, mode, false)
	if err != nil {
		return "", err
	}
	if primary != nil && !primary.HasMetaChars {
		if primary.CtxRaw == NoneContext {
			return "", ErrNotFound
		}
		return primary.CtxRaw, nil
	}

	var metaHits []candidate
	if primary != nil {
		metaHits = append(metaHits, candidate{spec: primary, order: 0})
	}

	for idx, alias := range aliases {
		spec, _, err := scanStore(store, alias, mode, false)
		if err != nil {
			return "", err
		}
		if spec == nil {
			continue
		}
		if !spec.HasMetaChars {
			if spec.CtxRaw == NoneContext {
				return "", ErrNotFound
			}
			return spec.CtxRaw, nil
		}
		metaHits = append(metaHits, candidate{spec: spec, order: idx + 1})
	}

	if len(metaHits) == 0 {
		return "", ErrNotFound
	}

	best := metaHits[0]
	for _, c := range metaHits[1:] {
		if c.spec.PrefixLen > best.spec.PrefixLen {
			best = c
		}
		// Equal PrefixLen: keep the earlier-order candidate already held
		// in best, since metaHits is built in (primary, then aliases in
		// order) sequence.
	}
	if best.spec.CtxRaw == NoneContext {
		return "", ErrNotFound
	}
	return best.spec.CtxRaw, nil
}
