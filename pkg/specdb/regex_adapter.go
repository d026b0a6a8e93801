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

// This file implements the Regex Adapter: an opaque wrapper around the
// regex engine used to compile and match patterns. The engine itself is
// an external collaborator (§1, §4.2 of the specification) — this file
// only implements the contract: compile, match, serialize/deserialize,
// structural compare, and the version/arch tags recorded in binary
// headers. The engine behind the contract is github.com/coregx/coregex, a
// prefilter-accelerated engine whose public API is close to stdlib
// regexp. Partial-match probing (§4.2, §4.8) has no analogue in
// coregex's public API, so it is implemented separately in partial.go
// over regexp/syntax; see DESIGN.md for why that piece alone falls back
// to a stdlib building block instead of the pack's regex engine.
package specdb

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/coregx/coregex"
)

// matchOutcome is the sum type returned by a match attempt, per §4.2 and
// §9 ("implement as enums, not magic integers").
type matchOutcome int

const (
	outcomeNoMatch matchOutcome = iota
	outcomeMatch
	outcomePartialMatch
)

// compiledRegex is the compiled form attached to a Spec. It may be a
// tombstone (compiled == nil) when deserialized from a binary whose
// recorded architecture tag does not match the host; in that case Match
// recompiles from pattern on demand, per §4.2's arch-mismatch rule.
type compiledRegex struct {
	pattern   string
	compiled  *coregex.Regex
	tombstone bool

	// recompileOnce serializes the tombstone-to-live transition across
	// concurrent lookups; recompileErr records a failed recompile.
	recompileOnce sync.Once
	recompileErr  error
}

// regexEngineVersionTag is recorded in binary headers (§4.5) and checked
// against the header's regex_version field; a mismatch is fatal for that
// file (§4.5, §7 VersionError).
func regexEngineVersionTag() string {
	return "coregex-1"
}

// regexEngineArchTag is recorded in binary headers (§4.5); a mismatch is
// non-fatal and produces a tombstone (§4.2).
func regexEngineArchTag() string {
	return runtime.GOARCH
}

// compileRegex compiles pattern with the anchoring model required by
// §4.2: the pattern is implicitly anchored at both ends, i.e. it must
// match the entire subject, not merely a substring of it.
func compileRegex(pattern string) (*compiledRegex, error) {
	anchored := anchorPattern(pattern)
	re, err := coregex.Compile(anchored)
	if err != nil {
		return nil, fmt.Errorf("coregex compile: %w", err)
	}
	return &compiledRegex{pattern: pattern, compiled: re}, nil
}

// anchorPattern wraps pattern so the underlying engine, which by default
// finds matches anywhere in the subject, instead requires the whole
// subject to match.
func anchorPattern(pattern string) string {
	return "^(?:" + pattern + ")$"
}

// tombstoneRegex produces a compiled entry that cannot match until it is
// recompiled from pattern (§4.2 arch-mismatch handling).
func tombstoneRegex(pattern string) *compiledRegex {
	return &compiledRegex{pattern: pattern, tombstone: true}
}

// recompileTombstone turns a tombstone into a live compiled regex,
// recompiling from the retained pattern text. It runs at most once; a
// failure is recorded and returned on every later call.
func (c *compiledRegex) recompileTombstone() error {
	c.recompileOnce.Do(func() {
		if !c.tombstone {
			return
		}
		live, err := compileRegex(c.pattern)
		if err != nil {
			c.recompileErr = err
			return
		}
		c.compiled = live.compiled
		c.tombstone = false
	})
	return c.recompileErr
}

// match reports whether subject fully matches the compiled pattern, per
// the anchoring model. allowPartial requests the additional partial-match
// probe (§4.2) when a full match does not occur.
func (c *compiledRegex) match(subject []byte, allowPartial bool) (matchOutcome, error) {
	if err := c.recompileTombstone(); err != nil {
		return outcomeNoMatch, err
	}
	if c.compiled.Match(subject) {
		return outcomeMatch, nil
	}
	if allowPartial {
		if partialMatch(c.pattern, subject) {
			return outcomePartialMatch, nil
		}
	}
	return outcomeNoMatch, nil
}

// cmpResult mirrors the {Equal, Incomparable} outcome of comparing two
// compiled regex forms structurally (§4.2). coregex does not expose
// automaton introspection, so structural equality for two live compiled
// regexes reduces to pattern-string equality (which is sufficient: equal
// patterns compiled by the same engine version always produce equivalent
// automata) and a tombstone never compares Equal against anything since
// its automaton is unknown.
func cmpCompiled(a, b *compiledRegex) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.tombstone || b.tombstone {
		return false
	}
	return a.pattern == b.pattern
}
