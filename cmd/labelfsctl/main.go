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

// Package main implements labelfsctl, a demo/ops CLI over specdb: it
// compiles text specfiles to the binary format, runs lookups and
// partial-match probes against a loaded handle, compares two loaded
// databases, and reports per-spec hit stats.
//
// Usage:
//
//	labelfsctl compile <in.conf> <out.conf.bin>
//	labelfsctl lookup <specfile> <query-path> [mode]
//	labelfsctl partial <specfile> <query-path>
//	labelfsctl compare <a.conf> <b.conf>
//	labelfsctl stats <specfile>
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/labelfs/pkg/specdb"
)

// GlobalFlags holds flags shared across every subcommand.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
	Quiet   bool
}

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
	)
	flag.SetInterspersed(false)
	flag.Usage = printUsage

	flag.Parse()

	if *showVersion {
		fmt.Printf("labelfsctl version %s (commit %s)\n", version, commit)
		os.Exit(0)
	}

	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		*noColor = true
	}
	color.NoColor = *noColor

	globals := GlobalFlags{JSON: *jsonOutput, NoColor: *noColor, Quiet: *quiet}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command, cmdArgs := args[0], args[1:]
	var err error
	switch command {
	case "compile":
		err = runCompile(cmdArgs)
	case "lookup":
		err = runLookup(cmdArgs, globals)
	case "partial":
		err = runPartial(cmdArgs, globals)
	case "compare":
		err = runCompare(cmdArgs, globals)
	case "stats":
		err = runStats(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		warn(globals, "%v", err)
		os.Exit(1)
	}
}

func warn(g GlobalFlags, format string, args ...interface{}) {
	if g.Quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, color.RedString("error: ")+msg)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `labelfsctl - file-context labeling database tool

Usage:
  labelfsctl compile <in.conf> <out.conf.bin>     Compile a text specfile to binary
  labelfsctl lookup   <specfile> <path> [mode]    Resolve a path to a context
  labelfsctl partial  <specfile> <path>           Probe for directory-descent match
  labelfsctl compare  <specfile-a> <specfile-b>   Compare two loaded databases
  labelfsctl stats    <specfile>                  Report per-rule hit counts

Global Options:
  --json         Output in JSON format
  --no-color     Disable color output (respects NO_COLOR env var)
  -q, --quiet    Suppress warnings
  -V, --version  Show version and exit
`)
}

func openHandle(path string) (*specdb.Handle, error) {
	return specdb.Init(specdb.WithPaths(path))
}

func parseMode(s string) specdb.Mode {
	switch s {
	case "-b", "b", "block":
		return specdb.ModeBlock
	case "-c", "c", "char":
		return specdb.ModeChar
	case "-d", "d", "dir":
		return specdb.ModeDir
	case "-p", "p", "fifo":
		return specdb.ModeFifo
	case "-l", "l", "symlink":
		return specdb.ModeSymlink
	case "-s", "s", "socket":
		return specdb.ModeSocket
	case "--", "regular", "-":
		return specdb.ModeRegular
	default:
		return specdb.ModeAny
	}
}
