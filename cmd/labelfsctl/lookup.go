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
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/kraklabs/labelfs/pkg/specdb"
)

func runLookup(args []string, g GlobalFlags) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: labelfsctl lookup <specfile> <path> [mode]")
	}
	specFile, path := args[0], args[1]
	mode := specdb.ModeAny
	if len(args) == 3 {
		mode = parseMode(args[2])
	}

	h, err := openHandleWithConfig(specFile)
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, err := h.Lookup(path, mode)
	switch {
	case err == nil:
		printResult(g, path, ctx)
		return nil
	case errors.Is(err, specdb.ErrNotFound):
		printNotFound(g, path)
		return nil
	default:
		return err
	}
}

func printResult(g GlobalFlags, path, ctx string) {
	if g.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.Encode(map[string]string{"path": path, "context": ctx})
		return
	}
	fmt.Printf("%s -> %s\n", path, color.GreenString(ctx))
}

func printNotFound(g GlobalFlags, path string) {
	if g.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.Encode(map[string]interface{}{"path": path, "context": nil})
		return
	}
	fmt.Printf("%s -> %s\n", path, color.YellowString("not found"))
}
