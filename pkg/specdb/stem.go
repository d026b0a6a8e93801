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

import "strings"

// NoStem is the sentinel StemID for a spec with no literal-prefix stem.
const NoStem int32 = -1

// Stem is a leading path fragment interned by the stem table: the text
// "/<component>" at the start of a literal-prefixed path.
type Stem struct {
	Bytes    []byte
	FromMmap bool // storage owned by a mapped region vs. heap-owned
}

// stemTable is an append-only interning store for Stems. Identical byte
// sequences share one id; interning is byte-exact (no case folding).
type stemTable struct {
	stems []Stem
	// index maps stem bytes to id; Find, and through it Store's
	// interning, rely on it entirely.
	index map[string]int32
}

func newStemTable() *stemTable {
	return &stemTable{index: make(map[string]int32)}
}

// Find returns the id of an already-interned stem equal to b, or NoStem.
func (t *stemTable) Find(b []byte) int32 {
	if id, ok := t.index[string(b)]; ok {
		return id
	}
	return NoStem
}

// Store interns b, copying it unless fromMmap indicates the caller is
// transferring ownership of a byte slice it will not mutate again (e.g.
// a slice borrowed from an mmap region).
func (t *stemTable) Store(b []byte, fromMmap bool) int32 {
	if id := t.Find(b); id != NoStem {
		return id
	}
	stored := b
	if !fromMmap {
		stored = append([]byte(nil), b...)
	}
	id := int32(len(t.stems))
	t.stems = append(t.stems, Stem{Bytes: stored, FromMmap: fromMmap})
	t.index[string(stored)] = id
	return id
}

// Get returns the stem for id, or ok=false if id is out of range.
func (t *stemTable) Get(id int32) (Stem, bool) {
	if id < 0 || int(id) >= len(t.stems) {
		return Stem{}, false
	}
	return t.stems[id], true
}

// Len returns the number of interned stems.
func (t *stemTable) Len() int { return len(t.stems) }

// stemLenFromPath returns the length of "/<component>" at the start of
// path, or 0 if path does not begin with "/<x>/...". This is the stem
// boundary rule from §4.1: from the first character up to, but not
// including, the second '/'.
func stemLenFromPath(path string) int {
	if len(path) == 0 || path[0] != '/' {
		return 0
	}
	idx := strings.IndexByte(path[1:], '/')
	if idx < 0 {
		return 0
	}
	// idx is the offset of the second '/' within path[1:], i.e. the
	// absolute index of the second '/' in path is idx+1. The stem runs
	// up to (but not including) that slash, so its length is idx+1; the
	// remainder of path, starting at the second slash, is the tail that
	// gets matched against the stem-stripped pattern.
	return idx + 1
}
