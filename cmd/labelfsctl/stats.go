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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
)

func runStats(args []string, g GlobalFlags) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: labelfsctl stats <specfile>")
	}

	h, err := openHandleWithConfig(args[0])
	if err != nil {
		return err
	}
	defer h.Close()

	entries := h.Stats()
	if g.JSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(entries)
	}

	unused := 0
	for _, e := range entries {
		label := fmt.Sprintf("%-10d", e.Matches)
		if e.Matches == 0 {
			unused++
			label = color.YellowString(label)
		}
		fmt.Printf("%s %-40s %s\n", label, e.RegexStr, e.CtxRaw)
	}
	if !g.Quiet {
		fmt.Fprintf(os.Stderr, "\n%d rules, %d never matched\n", len(entries), unused)
	}
	fmt.Printf("digest: %x\n", h.Digest())
	return nil
}
