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

//go:build unix

package specdb

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapRegion is a read-only mapped (or mapping-equivalent) byte region
// backing a Binary Loader's decode pass. Its bytes are valid until
// Close; specs and stems marked FromMmap borrow directly into this
// region rather than copying, per §4.5/§9.
type mmapRegion struct {
	data []byte
}

// mapFile maps path read-only for the lifetime of the returned region.
func mapFile(path string) (*mmapRegion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, &IOError{Path: path, Op: "stat", Err: err}
	}
	size := st.Size()
	if size == 0 {
		return &mmapRegion{data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, &IOError{Path: path, Op: "mmap", Err: err}
	}
	return &mmapRegion{data: data}, nil
}

// Bytes returns the mapped region.
func (r *mmapRegion) Bytes() []byte { return r.data }

// Close unmaps the region. Safe to call once; callers (Handle.Close) are
// responsible for idempotence at a higher level.
func (r *mmapRegion) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	return err
}
