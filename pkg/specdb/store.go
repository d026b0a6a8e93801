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

import "sort"

// Store is the growable collection of Specs backing a Handle, plus the
// Stem Table the specs' StemIDs index into. It is append-only during
// load, then sorted once and treated as read-only by the Lookup Engine.
type Store struct {
	Specs []*Spec
	Stems *stemTable

	// regions holds every mapped file backing this store's FromMmap
	// stems/specs, so Handle.Close can unmap them in bulk (§5).
	regions []*mmapRegion

	sorted bool
}

// NewStore returns an empty Store with its own Stem Table.
func NewStore() *Store {
	return &Store{Stems: newStemTable()}
}

// addRegion records a mapped region as owned by this store.
func (st *Store) addRegion(r *mmapRegion) {
	st.regions = append(st.regions, r)
}

// CloseRegions unmaps every region this store owns. Safe to call once;
// Handle.Close guards overall idempotence with a sync.Once.
func (st *Store) CloseRegions() error {
	var firstErr error
	for _, r := range st.regions {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	st.regions = nil
	return firstErr
}

// Append adds a spec to the store in load order. Appends must complete
// before Sort is called; Sort is a one-time transition into the
// read-mostly phase described in §5.
func (st *Store) Append(s *Spec) {
	st.Specs = append(st.Specs, s)
}

// Sort stably partitions the store so that every has_meta_chars=false
// (exact-path) spec follows every has_meta_chars=true (regex) spec,
// preserving append order within each partition (§4.3, §4.7). The
// Lookup Engine depends on this: a reverse scan then visits exact
// matches first.
func (st *Store) Sort() {
	sort.SliceStable(st.Specs, func(i, j int) bool {
		return st.Specs[i].HasMetaChars && !st.Specs[j].HasMetaChars
	})
	st.sorted = true
}

// dupKey identifies specs that diagnose as duplicates per §4.3: same
// regex_str and a mode that is either identical or where one side is
// ModeAny. Two different modes that are both non-Any never collide, so
// the key only needs to fold ModeAny away from one axis: specs are
// grouped by stem and stem-stripped RegexStr (together, the full
// pattern text), and within a group, membership is checked pairwise
// against modeCompatible rather than a single composite key.
type dupKey struct {
	StemID   int32
	RegexStr string
}

// Dedup reports every pair of specs considered duplicates per §4.3:
// identical stem and RegexStr, and modes that are equal or where either
// side is ModeAny. It runs in O(n) expected time via a hash index on them,
// resolving the §9 Open Question in favor of the linear-expected-time
// approach (documented in DESIGN.md); behavior matches the source's
// O(n²) all-pairs definition exactly; only the traversal strategy
// differs.
func (st *Store) Dedup() []DuplicateError {
	byPattern := make(map[dupKey][]int, len(st.Specs))
	var dups []DuplicateError
	for j, spec := range st.Specs {
		key := dupKey{StemID: spec.StemID, RegexStr: spec.RegexStr}
		for _, i := range byPattern[key] {
			if modeCompatible(st.Specs[i].Mode, spec.Mode) {
				dups = append(dups, DuplicateError{
					RegexStr: spec.RegexStr,
					IndexA:   i,
					IndexB:   j,
				})
			}
		}
		byPattern[key] = append(byPattern[key], j)
	}
	return dups
}
