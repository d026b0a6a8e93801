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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/kraklabs/labelfs/pkg/specdb"
)

func runCompile(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: labelfsctl compile <in.conf> <out.conf.bin>")
	}
	inPath, outPath := args[0], args[1]

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inPath, err)
	}
	defer f.Close()

	lines, err := countLines(inPath)
	if err != nil {
		return err
	}
	bar := progressbar.Default(int64(lines), "compiling")

	store := specdb.NewStore()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		bar.Add(1)
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		spec, err := specdb.ParseRule(store, inPath, lineNo, line)
		if err != nil {
			return err
		}
		store.Append(spec)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	store.Sort()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()
	if _, err := out.Write(specdb.CompileBinary(store)); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Printf("compiled %d rules into %s\n", len(store.Specs), outPath)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}
