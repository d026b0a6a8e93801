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

//go:build !unix

package specdb

import "os"

// mmapRegion on non-unix platforms falls back to a plain read into a
// heap buffer; FromMmap entries still borrow slices of this buffer, they
// simply aren't backed by an actual OS mapping. See DESIGN.md.
type mmapRegion struct {
	data []byte
}

func mapFile(path string) (*mmapRegion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Op: "read", Err: err}
	}
	return &mmapRegion{data: data}, nil
}

func (r *mmapRegion) Bytes() []byte { return r.data }

func (r *mmapRegion) Close() error {
	r.data = nil
	return nil
}
