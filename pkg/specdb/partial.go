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

// Partial-match probing (§4.2, §4.8): "is there any spec whose pattern
// could match some descendant of this path?" coregex's public API has no
// primitive for this (no PCRE_PARTIAL equivalent), so this file drives a
// small thread-set simulation directly over a regexp/syntax compiled
// program — the same active-state-set technique coregex's own
// nfa/pikevm.go uses internally, reimplemented minimally here because
// coregex's PikeVM is built around its own compiled alphabet and thread
// type and is not meant to be driven externally over a stdlib program.
package specdb

import (
	"regexp/syntax"
	"sync"
	"unicode/utf8"
)

// partialProgCache caches the anchored-at-start program used for
// partial-match probing, keyed by the original (unanchored) pattern text.
var partialProgCache sync.Map // map[string]*syntax.Prog (nil entries mean "failed to build, report no partial match")

func anchoredStartProg(pattern string) *syntax.Prog {
	if cached, ok := partialProgCache.Load(pattern); ok {
		return cached.(*syntax.Prog)
	}
	re, err := syntax.Parse("^(?:"+pattern+")", syntax.Perl)
	var prog *syntax.Prog
	if err == nil {
		re = re.Simplify()
		prog, err = syntax.Compile(re)
		if err != nil {
			prog = nil
		}
	}
	partialProgCache.Store(pattern, prog)
	return prog
}

// partialMatch reports whether subject is a proper prefix of some string
// that pattern could match, i.e. whether extending subject with more
// bytes could still lead to a full match. It does not itself decide a
// full match; callers only consult it after a full Match attempt fails.
func partialMatch(pattern string, subject []byte) bool {
	prog := anchoredStartProg(pattern)
	if prog == nil {
		// Pattern failed to build a probe program (e.g. a construct the
		// stdlib syntax package rejects but coregex accepts); fail safe
		// by reporting no partial match rather than a false positive
		// that would make a caller needlessly descend forever.
		return false
	}

	clist := newThreadList(len(prog.Inst))
	nlist := newThreadList(len(prog.Inst))
	clist.addThread(prog, uint32(prog.Start))

	pos := 0
	for pos < len(subject) {
		if clist.empty() {
			return false
		}
		r, size := utf8.DecodeRune(subject[pos:])
		nlist.reset()
		for _, pc := range clist.list {
			inst := &prog.Inst[pc]
			switch inst.Op {
			case syntax.InstRune, syntax.InstRune1, syntax.InstRuneAny, syntax.InstRuneAnyNotNL:
				if inst.MatchRune(r) {
					nlist.addThread(prog, inst.Out)
				}
			}
		}
		clist, nlist = nlist, clist
		pos += size
	}
	return !clist.empty()
}

// threadList is a sparse-set of live instruction indices for one
// generation of the Pike VM simulation, with epsilon-closure handled in
// addThread so byte-consuming steps only ever see InstRune* entries.
type threadList struct {
	list    []uint32
	visited []bool
}

func newThreadList(n int) *threadList {
	return &threadList{list: make([]uint32, 0, n), visited: make([]bool, n)}
}

func (t *threadList) empty() bool { return len(t.list) == 0 }

func (t *threadList) reset() {
	for _, pc := range t.list {
		t.visited[pc] = false
	}
	t.list = t.list[:0]
}

// addThread follows epsilon transitions (Alt, AltMatch, Capture, Nop,
// EmptyWidth) from pc, adding every byte-consuming or terminal
// instruction it reaches to the list. InstMatch is terminal: it does not
// propagate further (a thread that has already matched cannot itself
// consume more input), but reaching it is not treated specially here
// since callers only care whether *any* thread survives to the end.
func (t *threadList) addThread(prog *syntax.Prog, pc uint32) {
	if t.visited[pc] {
		return
	}
	t.visited[pc] = true
	inst := &prog.Inst[pc]
	switch inst.Op {
	case syntax.InstAlt, syntax.InstAltMatch:
		t.addThread(prog, inst.Out)
		t.addThread(prog, inst.Arg)
	case syntax.InstCapture, syntax.InstNop:
		t.addThread(prog, inst.Out)
	case syntax.InstEmptyWidth:
		// Conservatively follow empty-width assertions (^, $, \b, ...)
		// without verifying them against surrounding context: the probe
		// only needs to decide reachability, and treating an assertion
		// as satisfiable only ever over-approximates partial matches,
		// never drops a real one.
		t.addThread(prog, inst.Out)
	case syntax.InstFail:
		// dead end, do not add
	default:
		// InstRune, InstRune1, InstRuneAny, InstRuneAnyNotNL, InstMatch
		t.list = append(t.list, pc)
	}
}
