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

func TestScanLiteralPrefixStopsAtFirstMetachar(t *testing.T) {
	scan, ok := scanLiteralPrefix(`/home/alice(/.*)?`)
	require.True(t, ok)
	require.True(t, scan.hasMeta)
	require.Equal(t, "/home/alice", string(scan.literal))
}

func TestScanLiteralPrefixNoBacktrackOnBestMatchScenario(t *testing.T) {
	// S5: a literal-looking pattern must keep a strictly longer
	// prefix_len than a pattern whose metachar falls in the same path
	// component, or best-match-across-aliases tie-breaking breaks.
	aliceScan, ok := scanLiteralPrefix(`/home/alice(/.*)?`)
	require.True(t, ok)
	groupScan, ok := scanLiteralPrefix(`/home/[^/]+(/.*)?`)
	require.True(t, ok)

	require.Greater(t, len(aliceScan.literal), len(groupScan.literal))
}

func TestScanLiteralPrefixPureLiteral(t *testing.T) {
	scan, ok := scanLiteralPrefix(`/etc/passwd`)
	require.True(t, ok)
	require.False(t, scan.hasMeta)
	require.Equal(t, "/etc/passwd", string(scan.literal))
}

func TestScanLiteralPrefixEscapedMetaExtendsLiteral(t *testing.T) {
	scan, ok := scanLiteralPrefix(`/a\.b/c`)
	require.True(t, ok)
	require.False(t, scan.hasMeta)
	require.Equal(t, "/a.b/c", string(scan.literal))
}

func TestScanLiteralPrefixTrailingBackslashFails(t *testing.T) {
	_, ok := scanLiteralPrefix(`/a\`)
	require.False(t, ok)
}

func TestParseRuleTwoField(t *testing.T) {
	store := NewStore()
	spec, err := ParseRule(store, "test.conf", 1, "/etc/passwd system_u:object_r:etc_t:s0")
	require.NoError(t, err)
	require.Equal(t, "system_u:object_r:etc_t:s0", spec.CtxRaw)
	require.Equal(t, ModeAny, spec.Mode)
	require.False(t, spec.HasMetaChars)
}

func TestParseRuleThreeFieldTypeFlag(t *testing.T) {
	store := NewStore()
	spec, err := ParseRule(store, "test.conf", 1, "/dev/sda -b system_u:object_r:fixed_disk_device_t:s0")
	require.NoError(t, err)
	require.Equal(t, ModeBlock, spec.Mode)
}

func TestParseRuleUnknownTypeFlag(t *testing.T) {
	store := NewStore()
	_, err := ParseRule(store, "test.conf", 1, "/dev/sda -z system_u:object_r:foo_t:s0")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseRuleStemStrippedFromRegexStr(t *testing.T) {
	store := NewStore()
	spec, err := ParseRule(store, "test.conf", 1, "/home/[^/]+/\\.ssh(/.*)? system_u:object_r:ssh_home_t:s0")
	require.NoError(t, err)
	require.NotEqual(t, NoStem, spec.StemID)
	stem, ok := store.Stems.Get(spec.StemID)
	require.True(t, ok)
	require.Equal(t, "/home", string(stem.Bytes))
	require.False(t, strings.HasPrefix(spec.RegexStr, "/home"))
}

func TestLoadTextSkipsCommentsAndBlanks(t *testing.T) {
	store := NewStore()
	r := strings.NewReader("# comment\n\n/etc/passwd system_u:object_r:etc_t:s0\n")
	err := LoadText(store, "test.conf", r)
	require.NoError(t, err)
	require.Len(t, store.Specs, 1)
}

func TestLoadTextPropagatesParseError(t *testing.T) {
	store := NewStore()
	r := strings.NewReader("garbageline\n")
	err := LoadText(store, "test.conf", r)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
