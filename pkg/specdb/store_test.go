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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreSortMovesExactPathsToEnd(t *testing.T) {
	store := NewStore()
	mustLoad(t, store, strings.Join([]string{
		"/etc/passwd system_u:object_r:etc_t:s0",
		"/var/log(/.*)? system_u:object_r:var_log_t:s0",
		"/etc/shadow system_u:object_r:shadow_t:s0",
	}, "\n"))

	// Every exact-path spec must come after every meta spec, and the
	// relative order within each partition is preserved.
	firstExact := -1
	for i, s := range store.Specs {
		if !s.HasMetaChars {
			firstExact = i
			break
		}
	}
	require.NotEqual(t, -1, firstExact)
	for _, s := range store.Specs[firstExact:] {
		require.False(t, s.HasMetaChars)
	}
	require.Equal(t, "system_u:object_r:etc_t:s0", store.Specs[firstExact].CtxRaw)
	require.Equal(t, "system_u:object_r:shadow_t:s0", store.Specs[firstExact+1].CtxRaw)
}

func TestStoreDedupFindsIdenticalRegexAndMode(t *testing.T) {
	store := NewStore()
	mustLoad(t, store, strings.Join([]string{
		"/etc/passwd system_u:object_r:etc_t:s0",
		"/etc/passwd system_u:object_r:other_t:s0",
	}, "\n"))

	dups := store.Dedup()
	require.Len(t, dups, 1)
}

func TestStoreDedupIgnoresDistinctNonAnyModes(t *testing.T) {
	store := NewStore()
	mustLoad(t, store, strings.Join([]string{
		"/dev/x -b system_u:object_r:block_t:s0",
		"/dev/x -c system_u:object_r:char_t:s0",
	}, "\n"))

	// ParseRule strips identical stems into identical RegexStr, but the
	// two modes are both non-Any and distinct, so they never collide.
	dups := store.Dedup()
	require.Empty(t, dups)
}

func TestStoreDedupFlagsAnyModeAgainstSpecificMode(t *testing.T) {
	store := NewStore()
	mustLoad(t, store, strings.Join([]string{
		"/dev/x system_u:object_r:any_t:s0",
		"/dev/x -b system_u:object_r:block_t:s0",
	}, "\n"))

	dups := store.Dedup()
	require.Len(t, dups, 1)
}
