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

// Mode is the file-type filter attached to a Spec and passed to Lookup.
// ModeAny matches (or is matched by) every file mode.
type Mode uint32

// File-type filter values. These map 1:1 onto the text-format type flags
// in §4.4 of the specification (-b -c -d -p -l -s --) and onto the binary
// format's mode column (§4.5), independent of the host's native mode_t
// encoding.
const (
	ModeAny     Mode = 0
	ModeBlock   Mode = 1 << iota
	ModeChar
	ModeDir
	ModeFifo
	ModeSymlink
	ModeSocket
	ModeRegular
)

// typeFlagToMode maps a text-format type flag (as it appears after the
// leading '-') to its Mode value. "--" is the regular-file flag.
var typeFlagToMode = map[string]Mode{
	"b": ModeBlock,
	"c": ModeChar,
	"d": ModeDir,
	"p": ModeFifo,
	"l": ModeSymlink,
	"s": ModeSocket,
	"-": ModeRegular,
}

// String renders a Mode as a lower-case word ("block", "char", ...,
// "any"), for diagnostics.
func (m Mode) String() string {
	switch m {
	case ModeAny:
		return "any"
	case ModeBlock:
		return "block"
	case ModeChar:
		return "char"
	case ModeDir:
		return "dir"
	case ModeFifo:
		return "fifo"
	case ModeSymlink:
		return "symlink"
	case ModeSocket:
		return "socket"
	case ModeRegular:
		return "regular"
	default:
		return "unknown"
	}
}

// modeCompatible reports whether a query mode and a spec's mode filter are
// compatible, per §4.8: a zero query mode never filters, and ModeAny on
// either side never filters.
func modeCompatible(query, spec Mode) bool {
	if query == ModeAny || spec == ModeAny {
		return true
	}
	return query == spec
}
