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

func TestSubstitutionTableAppliesDistributionThenLocal(t *testing.T) {
	table := &SubstitutionTable{
		Distribution: []SubEntry{{SourcePrefix: "/opt/vendor", Replacement: "/usr"}},
		Local:        []SubEntry{{SourcePrefix: "/usr/local", Replacement: "/override"}},
	}

	require.Equal(t, "/override/bin", table.Apply("/opt/vendor/local/bin"))
	require.Equal(t, "/override/bin", table.Apply("/usr/local/bin"))
}

func TestApplySubListLongestPrefixWins(t *testing.T) {
	entries := []SubEntry{
		{SourcePrefix: "/a", Replacement: "/short"},
		{SourcePrefix: "/a/b", Replacement: "/long"},
	}
	require.Equal(t, "/long/c", applySubList("/a/b/c", entries))
}

func TestApplySubListRequiresBoundary(t *testing.T) {
	entries := []SubEntry{{SourcePrefix: "/abc", Replacement: "/x"}}
	// "/abcdef" shares the prefix "/abc" but the next character isn't a
	// path separator, so the rule must not apply.
	require.Equal(t, "/abcdef", applySubList("/abcdef", entries))
}

func TestLoadSubstitutions(t *testing.T) {
	r := strings.NewReader("# comment\n\n/opt/vendor /usr\n")
	entries, err := LoadSubstitutions("subs", r)
	require.NoError(t, err)
	require.Equal(t, []SubEntry{{SourcePrefix: "/opt/vendor", Replacement: "/usr"}}, entries)
}

func TestLoadSubstitutionsMalformedLine(t *testing.T) {
	r := strings.NewReader("/opt/vendor\n")
	_, err := LoadSubstitutions("subs", r)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
