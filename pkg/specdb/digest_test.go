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
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256DigestMatchesDirectHash(t *testing.T) {
	d := newSHA256Digest()
	d.Write([]byte("/etc/passwd "))
	d.Write([]byte("system_u:object_r:etc_t:s0\n"))

	want := sha256.Sum256([]byte("/etc/passwd system_u:object_r:etc_t:s0\n"))
	require.Equal(t, want[:], d.Sum())
}

func TestSHA256DigestEmptyInput(t *testing.T) {
	d := newSHA256Digest()
	want := sha256.Sum256(nil)
	require.Equal(t, want[:], d.Sum())
}
