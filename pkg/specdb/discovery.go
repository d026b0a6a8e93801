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

// File Discovery: suffix-rolling newest/oldest candidate selection and
// the ProcessFile fallback driver, per §4.6.
package specdb

import (
	"os"
	"time"
)

// candidatePaths rolls suffix onto base per §4.6: candidate 1 is the
// text form, candidate 2 its precompiled binary form. An empty suffix
// yields the bare base specfile set.
func candidatePaths(base, suffix string) (text, bin string) {
	root := base
	if suffix != "" {
		root = base + "." + suffix
	}
	return root, root + ".bin"
}

type candidate struct {
	path    string
	isBin   bool
	mtime   time.Time
	present bool
}

func statCandidate(path string, isBin bool) candidate {
	info, err := os.Stat(path)
	if err != nil {
		return candidate{path: path, isBin: isBin}
	}
	return candidate{path: path, isBin: isBin, mtime: info.ModTime(), present: true}
}

// selectCandidate picks between the text and binary candidates for one
// base/suffix pair. pass selects the preference order: firstPass prefers
// the newest file, ties broken toward the binary form; secondPass
// inverts both the newest/oldest and the tie preference.
const (
	firstPass = iota
	secondPass
)

func selectCandidate(base, suffix string, pass int) (candidate, error) {
	textPath, binPath := candidatePaths(base, suffix)
	text := statCandidate(textPath, false)
	bin := statCandidate(binPath, true)

	if !text.present && !bin.present {
		return candidate{}, ErrNotFound
	}
	if text.present != bin.present {
		if text.present {
			return text, nil
		}
		return bin, nil
	}

	// Both present: order by mtime, tie broken by form preference.
	newer, older := text, bin
	if bin.mtime.After(text.mtime) {
		newer, older = bin, text
	}
	preferNewest := pass == firstPass
	preferBinOnTie := pass == firstPass
	if text.mtime.Equal(bin.mtime) {
		if preferBinOnTie {
			return bin, nil
		}
		return text, nil
	}
	if preferNewest {
		return newer, nil
	}
	return older, nil
}

// ProcessFile is the fallback driver described in §4.6: it attempts the
// first-pass candidate; on any load failure it retries with the
// second-pass candidate; if both fail, the last error is returned. On
// success it returns the path actually loaded, so callers (e.g. the
// digest accumulator) can re-read it for their own purposes.
func ProcessFile(store *Store, base, suffix string) (string, error) {
	var lastErr error
	for _, pass := range [2]int{firstPass, secondPass} {
		cand, err := selectCandidate(base, suffix, pass)
		if err != nil {
			lastErr = err
			continue
		}
		if cand.isBin {
			err = LoadBinary(store, cand.path)
		} else {
			err = loadTextFile(store, cand.path)
		}
		if err == nil {
			return cand.path, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func loadTextFile(store *Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()
	return LoadText(store, path, f)
}
