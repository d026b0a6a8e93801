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

// Binary specfile format, per §4.5. All integers are little-endian;
// unaligned reads are permitted since we decode field-by-field from a
// byte slice rather than casting structs over memory.
package specdb

import "encoding/binary"

// binaryMagic is the fixed 32-bit sentinel at the start of every binary
// specfile.
const binaryMagic uint32 = 0xF97CFF8A

// Version gates. A version gates whether a given header section or
// per-spec column is present; readers branch on these exactly as
// described in §4.5 and §9 (mode-width quirk).
const (
	versMin          uint32 = 15 // oldest version this loader still accepts
	versPCRE         uint32 = 19 // adds regex_version header field
	versRegexArch    uint32 = 20 // adds arch header field
	versModeAs32Bits uint32 = 21 // mode column widens from legacy mode_t width to u32
	versPrefixLen    uint32 = 26 // adds per-spec prefix_len column
	maxSupported     uint32 = 28 // newest version this loader accepts
)

// legacyModeWidth is the width, in bytes, of the mode column for binaries
// older than versModeAs32Bits. The original C implementation used the
// host's native mode_t width, which varies by platform and era; this
// package picks a fixed 2-byte legacy width so the version-gated branch
// in the loader is exercised deterministically rather than tied to the
// current host's mode_t size (see DESIGN.md).
const legacyModeWidth = 2

// compilerVersion is the version this package's own binary writer
// produces. It is always the newest the loader understands, so a
// specfile compiled by this package and read back by it exercises the
// newest branch of every version gate.
const compilerVersion = maxSupported

var byteOrder = binary.LittleEndian

// byteCursor is a forward-only reader over a binary specfile's bytes,
// used for decoding header and per-spec fields per §4.5. It never
// copies data.data itself; callers that need to retain a borrowed slice
// past the cursor's lifetime take one directly from data.data.
type byteCursor struct {
	data []byte
	pos  int
	path string
}

func (c *byteCursor) fail(msg string) error {
	return &FormatError{Path: c.path, Offset: int64(c.pos), Msg: msg}
}

func (c *byteCursor) u32() (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, c.fail("truncated u32")
	}
	v := byteOrder.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *byteCursor) i32() (int32, error) {
	v, err := c.u32()
	return int32(v), err
}

// bytesN returns a direct slice of the underlying data (no copy); the
// slice is only valid as long as the backing mmapRegion stays mapped.
func (c *byteCursor) bytesN(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, c.fail("truncated field")
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// lenPrefixedNulIncluded reads a u32 byte count (which includes the
// trailing nul per the original format's next_entry convention), then
// that many bytes, verifying the final byte is nul, and returns the
// content with the nul stripped.
func (c *byteCursor) lenPrefixedNulIncluded() ([]byte, error) {
	n, err := c.u32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, c.fail("zero-length nul-terminated field")
	}
	b, err := c.bytesN(int(n))
	if err != nil {
		return nil, err
	}
	if b[len(b)-1] != 0 {
		return nil, c.fail("field not nul-terminated")
	}
	return b[:len(b)-1], nil
}

// stemField reads a stem entry: u32 content length, then that many
// bytes, then a separate mandatory nul byte not counted in the length.
func (c *byteCursor) stemField() ([]byte, error) {
	n, err := c.u32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, c.fail("zero-length stem")
	}
	b, err := c.bytesN(int(n) + 1)
	if err != nil {
		return nil, err
	}
	if b[len(b)-1] != 0 {
		return nil, c.fail("stem not nul-terminated")
	}
	return b[:n], nil
}

// modeField reads the version-gated mode column: legacyModeWidth
// bytes (zero-extended) before versModeAs32Bits, a plain u32 after.
func (c *byteCursor) modeField(version uint32) (uint32, error) {
	if version >= versModeAs32Bits {
		return c.u32()
	}
	b, err := c.bytesN(legacyModeWidth)
	if err != nil {
		return 0, err
	}
	var v uint32
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	return v, nil
}
