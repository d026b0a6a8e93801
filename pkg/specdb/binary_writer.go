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

// Binary writer: this package's own specfile compiler, the counterpart
// to binary_loader.go. Used by cmd/labelfsctl's compile subcommand and
// by round-trip tests (§8 property 3). Always writes compilerVersion, so
// a file this package writes and reads back exercises the newest branch
// of every version gate in binary_loader.go.
package specdb

import (
	"bytes"
	"encoding/binary"
)

// CompileBinary renders store's specs as a binary specfile understood
// by LoadBinary, at the package's current compilerVersion. A store with
// no stems or no specs is written with a zero count, which LoadBinary
// rejects.
func CompileBinary(store *Store) []byte {
	var buf bytes.Buffer
	putU32(&buf, binaryMagic)
	putU32(&buf, compilerVersion)
	putLenPrefixedNulIncluded(&buf, []byte(regexEngineVersionTag()))
	putLenPrefixedNulIncluded(&buf, []byte(regexEngineArchTag()))

	stems := store.Stems
	putU32(&buf, uint32(stems.Len()))
	for i := 0; i < stems.Len(); i++ {
		s, _ := stems.Get(int32(i))
		putU32(&buf, uint32(len(s.Bytes)))
		buf.Write(s.Bytes)
		buf.WriteByte(0)
	}

	putU32(&buf, uint32(len(store.Specs)))
	for _, spec := range store.Specs {
		putLenPrefixedNulIncluded(&buf, []byte(spec.CtxRaw))
		putLenPrefixedNulIncluded(&buf, []byte(spec.RegexStr))
		putU32(&buf, uint32(spec.Mode))
		putI32(&buf, spec.StemID)
		if spec.HasMetaChars {
			putU32(&buf, 1)
		} else {
			putU32(&buf, 0)
		}
		putU32(&buf, uint32(spec.PrefixLen))
		// No automaton payload; see binary_loader.go's doc comment.
		putU32(&buf, 0)
	}
	return buf.Bytes()
}

func putU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func putI32(buf *bytes.Buffer, v int32) {
	putU32(buf, uint32(v))
}

func putLenPrefixedNulIncluded(buf *bytes.Buffer, content []byte) {
	putU32(buf, uint32(len(content)+1))
	buf.Write(content)
	buf.WriteByte(0)
}
