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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestInitAndLookupExplicitPath(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "rules.conf")
	writeFile(t, base, "/etc/passwd system_u:object_r:etc_t:s0\n/home/alice(/.*)? system_u:object_r:alice_home_t:s0\n")

	h, err := Init(WithPaths(base))
	require.NoError(t, err)
	defer h.Close()

	ctx, err := h.Lookup("/etc/passwd", ModeAny)
	require.NoError(t, err)
	require.Equal(t, "system_u:object_r:etc_t:s0", ctx)

	ctx, err = h.Lookup("/home/alice/docs", ModeAny)
	require.NoError(t, err)
	require.Equal(t, "system_u:object_r:alice_home_t:s0", ctx)
}

func TestInitLoadsHomedirsAndLocalAuxiliaryFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "rules.conf")
	writeFile(t, base, "/etc/passwd system_u:object_r:etc_t:s0\n")
	writeFile(t, base+".homedirs", "/home/alice(/.*)? system_u:object_r:alice_home_t:s0\n")
	writeFile(t, base+".local", "/etc/passwd system_u:object_r:local_etc_t:s0\n")

	h, err := Init(WithDefaultPathFunc(func() string { return base }))
	require.NoError(t, err)
	defer h.Close()

	ctx, err := h.Lookup("/home/alice/docs", ModeAny)
	require.NoError(t, err)
	require.Equal(t, "system_u:object_r:alice_home_t:s0", ctx)

	// The .local override is appended after the base rule, so last-match
	// wins and the local context replaces the base one.
	ctx, err = h.Lookup("/etc/passwd", ModeAny)
	require.NoError(t, err)
	require.Equal(t, "system_u:object_r:local_etc_t:s0", ctx)
}

func TestInitBaseOnlySkipsAuxiliaryFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "rules.conf")
	writeFile(t, base, "/etc/passwd system_u:object_r:etc_t:s0\n")
	writeFile(t, base+".homedirs", "/home/alice(/.*)? system_u:object_r:alice_home_t:s0\n")

	h, err := Init(WithDefaultPathFunc(func() string { return base }), WithBaseOnly())
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Lookup("/home/alice/docs", ModeAny)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInitValidatingCatchesDuplicates(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "rules.conf")
	writeFile(t, base, "/etc/passwd system_u:object_r:etc_t:s0\n/etc/passwd system_u:object_r:etc_t:s0\n")

	_, err := Init(WithPaths(base), WithValidating())
	require.Error(t, err)
	var dupErr *DuplicateError
	require.ErrorAs(t, err, &dupErr)
}

func TestInitSubsetFiltersLoadedRules(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "rules.conf")
	writeFile(t, base, "/etc/passwd system_u:object_r:etc_t:s0\n/var/log(/.*)? system_u:object_r:var_log_t:s0\n")

	h, err := Init(WithPaths(base), WithSubset("/var"))
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Lookup("/etc/passwd", ModeAny)
	require.ErrorIs(t, err, ErrNotFound)

	ctx, err := h.Lookup("/var/log/messages", ModeAny)
	require.NoError(t, err)
	require.Equal(t, "system_u:object_r:var_log_t:s0", ctx)
}

func TestInitMissingExplicitPathErrors(t *testing.T) {
	_, err := Init(WithPaths("/nonexistent/rules.conf"))
	require.Error(t, err)
}

func TestHandleCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "rules.conf")
	writeFile(t, base, "/etc/passwd system_u:object_r:etc_t:s0\n")

	h, err := Init(WithPaths(base))
	require.NoError(t, err)
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
}

func TestHandleStatsTracksHits(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "rules.conf")
	writeFile(t, base, "/etc/passwd system_u:object_r:etc_t:s0\n/etc/shadow system_u:object_r:shadow_t:s0\n")

	h, err := Init(WithPaths(base))
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Lookup("/etc/passwd", ModeAny)
	require.NoError(t, err)

	stats := h.Stats()
	require.Len(t, stats, 2)
	for _, s := range stats {
		if s.CtxRaw == "system_u:object_r:etc_t:s0" {
			require.Equal(t, uint64(1), s.Matches)
		} else {
			require.Equal(t, uint64(0), s.Matches)
		}
	}
}

func TestHandleDigestStableAcrossIdenticalLoads(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "rules.conf")
	writeFile(t, base, "/etc/passwd system_u:object_r:etc_t:s0\n")

	h1, err := Init(WithPaths(base))
	require.NoError(t, err)
	defer h1.Close()

	h2, err := Init(WithPaths(base))
	require.NoError(t, err)
	defer h2.Close()

	require.Equal(t, h1.Digest(), h2.Digest())
}

func TestCompareHandles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "rules.conf")
	writeFile(t, base, "/etc/passwd system_u:object_r:etc_t:s0\n")

	h1, err := Init(WithPaths(base))
	require.NoError(t, err)
	defer h1.Close()

	h2, err := Init(WithPaths(base))
	require.NoError(t, err)
	defer h2.Close()

	require.Equal(t, Equal, Compare(h1, h2))
}
