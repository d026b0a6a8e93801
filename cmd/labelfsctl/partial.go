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

func runPartial(args []string, g GlobalFlags) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: labelfsctl partial <specfile> <path>")
	}
	specFile, path := args[0], args[1]

	h, err := openHandleWithConfig(specFile)
	if err != nil {
		return err
	}
	defer h.Close()

	ok := h.PartialMatch(path)
	if g.JSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(map[string]interface{}{"path": path, "partial_match": ok})
	}
	if ok {
		fmt.Printf("%s: %s\n", path, color.GreenString("possible descendant match"))
	} else {
		fmt.Printf("%s: %s\n", path, color.YellowString("no possible match"))
	}
	return nil
}
