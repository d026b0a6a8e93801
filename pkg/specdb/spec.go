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

import (
	"sync"
	"sync/atomic"
)

// NoneContext is the reserved context sentinel meaning "explicitly no
// label". A Lookup that resolves to a spec carrying this context reports
// ErrNotFound instead of returning the string.
const NoneContext = "<<none>>"

// Spec is a single labeling rule: a pattern (with optional mode filter)
// mapped to a security context.
type Spec struct {
	// RegexStr is the original pattern text, with any literal stem
	// already stripped (informational, and used for lazy/text-mode
	// compilation).
	RegexStr string

	// StemID indexes into the owning Store's stem table, or NoStem if
	// the pattern has no literal-prefix stem, or is a pure regex.
	StemID int32

	// PrefixLen is the length of the escape-stripped literal fixed prefix
	// of the full pattern, stem included; used for best-match
	// tie-breaking.
	PrefixLen int

	// HasMetaChars is true iff the pattern contains regex metacharacters.
	// false means the pattern is an exact path.
	HasMetaChars bool

	// Mode is the file-type filter. ModeAny matches every file mode.
	Mode Mode

	// CtxRaw is the context string to assign on match. NoneContext means
	// "explicitly no label".
	CtxRaw string

	// CtxTrans is an optional translated form of CtxRaw, populated
	// lazily by a caller-supplied translator (not part of this package's
	// core contract; left as a plain field for callers to fill in).
	CtxTrans string

	// TypeStr is the optional trailing file-type keyword retained from
	// the text form, for diagnostics only.
	TypeStr string

	// FromMmap is true when the spec was decoded from a mapped binary
	// specfile. RegexStr and CtxRaw are copied to the heap while
	// decoding, so they stay valid after the region is unmapped.
	FromMmap bool

	// Matches is a monotonic counter incremented on each successful
	// lookup hit. It is mutated concurrently with ordinary lookups, so
	// it is always accessed through the atomic package.
	Matches uint64

	compileOnce sync.Once
	compiled    *compiledRegex
	compileErr  error
}

// compiledPattern returns the compiled form of s.RegexStr, compiling it on
// first use. A compile failure is recorded and returned again on every
// later call without recompiling. The spec is not skipped: every scan
// that reaches it fails with the recorded error.
func (s *Spec) compiledPattern() (*compiledRegex, error) {
	s.compileOnce.Do(func() {
		s.compiled, s.compileErr = compileRegex(s.RegexStr)
		if s.compileErr != nil {
			s.compileErr = &CompileError{Pattern: s.RegexStr, Err: s.compileErr}
		}
	})
	return s.compiled, s.compileErr
}

// attachCompiled installs an already-compiled regex (e.g. deserialized
// from a binary specfile) without going through the lazy path. Per the
// invariant in §3, a compiled regex, once attached, is never replaced;
// attachCompiled must be called before any concurrent lookup can reach
// this spec.
func (s *Spec) attachCompiled(c *compiledRegex) {
	s.compileOnce.Do(func() {
		s.compiled = c
	})
}

// recordHit increments the monotonic match counter. Safe for concurrent
// use across lookups on the same spec.
func (s *Spec) recordHit() {
	atomic.AddUint64(&s.Matches, 1)
}

// hitCount returns the current value of Matches.
func (s *Spec) hitCount() uint64 {
	return atomic.LoadUint64(&s.Matches)
}
