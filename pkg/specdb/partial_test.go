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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartialMatchOptionalSuffixGroup(t *testing.T) {
	// A pattern shaped "literal(/.*)?" needs no special casing:
	// the epsilon-closure over InstAlt already reports the bare
	// directory as a partial match.
	require.True(t, partialMatch(`/alice(/.*)?`, []byte("/alice")))
	require.True(t, partialMatch(`/alice(/.*)?`, []byte("/alice/docs")))
	require.False(t, partialMatch(`/alice(/.*)?`, []byte("/bob")))
}

func TestPartialMatchPrefixOfLongerLiteral(t *testing.T) {
	require.True(t, partialMatch(`/var/log/audit`, []byte("/var")))
	require.True(t, partialMatch(`/var/log/audit`, []byte("/var/log")))
	require.False(t, partialMatch(`/var/log/audit`, []byte("/usr")))
}

func TestPartialMatchRejectsNonPrefixDivergence(t *testing.T) {
	require.False(t, partialMatch(`/var/log`, []byte("/var/cache")))
}

func TestPartialMatchBadPatternFailsSafe(t *testing.T) {
	require.False(t, partialMatch(`(unbalanced`, []byte("/anything")))
}
