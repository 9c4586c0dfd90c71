// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package sexp

import (
	"strings"
)

// Formatter pretty prints S-expressions so that, where possible, lines fit
// within a given width.  Lists which do not fit are broken after their head,
// with each remaining element on its own line indented one level.  Lists whose
// head is registered as "sticky" keep their first argument on the head line,
// thusly:
//
//	(forall ((x Int))
//	   (=> (<= 0 x)
//	      (>= (select a x) 0)))
type Formatter struct {
	// Maximum desired width
	maxWidth uint
	// Heads which retain their first argument on the opening line.
	sticky map[string]bool
	// Width of a single indentation
	indent string
}

// NewFormatter constructs a new formatter which aims to fit its output within a
// given width.
func NewFormatter(width uint) *Formatter {
	return &Formatter{width, make(map[string]bool), "   "}
}

// Sticky registers heads whose first argument stays on the opening line.
func (p *Formatter) Sticky(heads ...string) *Formatter {
	for _, h := range heads {
		p.sticky[h] = true
	}
	//
	return p
}

// Format a given S-Expression using the rules embedded within this formatter.
func (p *Formatter) Format(sexp SExp) string {
	var text formattedText
	//
	p.format(sexp, 0, &text)
	//
	return text.String()
}

func (p *Formatter) format(sexp SExp, depth uint, text *formattedText) {
	var (
		flat = sexp.String(true)
		list = sexp.AsList()
	)
	// Fits on the current line, or cannot be broken.
	if list == nil || list.Len() <= 1 || text.width()+uint(len(flat)) <= p.maxWidth {
		text.write(flat)
		return
	}
	//
	text.write("(")
	//
	head, _ := list.Head()
	first := 1
	// Write head, and first argument when sticky.
	p.format(list.Get(0), depth+1, text)
	//
	if p.sticky[head] && list.Len() > 1 {
		text.write(" ")
		p.format(list.Get(1), depth+1, text)
		//
		first = 2
	}
	//
	for i := first; i < list.Len(); i++ {
		text.newline(strings.Repeat(p.indent, int(depth+1)))
		p.format(list.Get(i), depth+1, text)
	}
	//
	text.write(")")
}

// formattedText encapsulates a block of lines being constructed.
type formattedText struct {
	lines []string
}

func (p *formattedText) String() string {
	return strings.Join(p.lines, "\n")
}

// newline starts a new line with a given indent.
func (p *formattedText) newline(indent string) {
	p.lines = append(p.lines, indent)
}

// width returns the width of the current line.
func (p *formattedText) width() uint {
	if len(p.lines) == 0 {
		return 0
	}
	//
	return uint(len(p.lines[len(p.lines)-1]))
}

// write appends a string onto the current line.
func (p *formattedText) write(str string) {
	if len(p.lines) == 0 {
		p.lines = append(p.lines, str)
	} else {
		p.lines[len(p.lines)-1] += str
	}
}
