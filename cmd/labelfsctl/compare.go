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

	"github.com/kraklabs/labelfs/pkg/specdb"
)

func runCompare(args []string, g GlobalFlags) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: labelfsctl compare <specfile-a> <specfile-b>")
	}

	ha, err := openHandle(args[0])
	if err != nil {
		return err
	}
	defer ha.Close()

	hb, err := openHandle(args[1])
	if err != nil {
		return err
	}
	defer hb.Close()

	result := specdb.Compare(ha, hb)
	if g.JSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(map[string]string{"result": result.String()})
	}

	var painted string
	switch result {
	case specdb.Equal:
		painted = color.GreenString(result.String())
	case specdb.Incomparable:
		painted = color.RedString(result.String())
	default:
		painted = color.CyanString(result.String())
	}
	fmt.Printf("%s vs %s: %s\n", args[0], args[1], painted)
	return nil
}
