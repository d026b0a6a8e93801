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

// Text Loader: parses line-oriented rule files into a Store, per §4.4.
package specdb

import (
	"bufio"
	"io"
	"strings"
)

// regexMetaByte marks bytes treated as regex metacharacters for the
// purpose of literal-prefix detection (§4.1, §4.4).
var regexMetaByte = [256]bool{
	'.': true, '*': true, '+': true, '?': true,
	'(': true, ')': true, '[': true, ']': true,
	'{': true, '}': true, '|': true, '^': true, '$': true,
}

// literalScan is the result of walking a pattern's literal prefix.
type literalScan struct {
	// literal holds the escape-stripped literal prefix: every character
	// up to (not including) the first unescaped metacharacter.
	literal []byte
	// rawLen maps literal index k (0-based) to the number of raw pattern
	// bytes consumed to produce literal[:k+1]; rawLen[k] is the raw
	// offset immediately after literal[k]'s source bytes.
	rawLen  []int
	hasMeta bool
}

// scanLiteralPrefix walks pattern per §4.1/§4.4: ordinary characters and
// escaped metacharacters extend the literal prefix; the first real
// (unescaped) metacharacter ends it. ok is false when an unescaped
// backslash ends the pattern inside the literal prefix (malformed
// escape); the pattern text after the first metacharacter is not checked.
func scanLiteralPrefix(pattern string) (scan literalScan, ok bool) {
	ok = true
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c == '\\' {
			if i+1 >= len(pattern) {
				ok = false
				return
			}
			scan.literal = append(scan.literal, pattern[i+1])
			i += 2
			scan.rawLen = append(scan.rawLen, i)
			continue
		}
		if regexMetaByte[c] {
			scan.hasMeta = true
			break
		}
		scan.literal = append(scan.literal, c)
		i++
		scan.rawLen = append(scan.rawLen, i)
	}
	// A metacharacter may still appear after the literal prefix ends, in
	// which case hasMeta above is already true; if the loop instead ran
	// to completion the pattern is a pure exact path and hasMeta is
	// correctly left false.
	return
}

// ParseRule turns one non-comment, non-blank rule line into a Spec.
// path and lineNo are used only to annotate a returned ParseError.
func ParseRule(store *Store, path string, lineNo int, line string) (*Spec, error) {
	fields := strings.Fields(line)
	var pattern, typeFlag, ctx string
	switch len(fields) {
	case 2:
		pattern, ctx = fields[0], fields[1]
	case 3:
		pattern, typeFlag, ctx = fields[0], fields[1], fields[2]
	default:
		return nil, &ParseError{Path: path, Line: lineNo, Msg: "expected PATTERN [-TYPE] CONTEXT"}
	}

	mode := ModeAny
	if typeFlag != "" {
		flag := strings.TrimPrefix(typeFlag, "-")
		if len(typeFlag) == 0 || typeFlag[0] != '-' {
			return nil, &ParseError{Path: path, Line: lineNo, Msg: "unknown type flag " + typeFlag}
		}
		m, known := typeFlagToMode[flag]
		if !known {
			return nil, &ParseError{Path: path, Line: lineNo, Msg: "unknown type flag " + typeFlag}
		}
		mode = m
	}

	if ctx == "" {
		return nil, &ParseError{Path: path, Line: lineNo, Msg: "empty context"}
	}

	scan, ok := scanLiteralPrefix(pattern)
	if !ok {
		return nil, &ParseError{Path: path, Line: lineNo, Msg: "bad escape in pattern " + pattern}
	}

	spec := &Spec{
		RegexStr: pattern,
		StemID:   NoStem,
		Mode:     mode,
		CtxRaw:   ctx,
		TypeStr:  typeFlag,
	}
	spec.HasMetaChars = scan.hasMeta
	spec.PrefixLen = len(scan.literal)

	if stemLen := stemLenFromPath(string(scan.literal)); stemLen > 0 {
		spec.StemID = store.Stems.Store(scan.literal[:stemLen], false)
		rawStemLen := scan.rawLen[stemLen-1]
		spec.RegexStr = pattern[rawStemLen:]
	}

	return spec, nil
}

// LoadText reads a text specfile from r into store, appending one Spec
// per rule line. Comments (first non-whitespace is '#') and blank lines
// are skipped. path is used only to annotate errors.
func LoadText(store *Store, path string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed[0] == '#' {
			continue
		}
		spec, err := ParseRule(store, path, lineNo, trimmed)
		if err != nil {
			return err
		}
		store.Append(spec)
	}
	if err := scanner.Err(); err != nil {
		return &IOError{Path: path, Op: "read", Err: err}
	}
	return nil
}
