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
package smt

import (
	"sort"
	"strings"

	"github.com/consensys/go-hoare/pkg/util/source/sexp"
)

// Query is a self-contained satisfiability problem: a set of declarations
// followed by a set of assertions.  Queries are independent of one another,
// and can be discharged in any order.
type Query struct {
	// Comment describing the query (e.g. the obligation it decides).
	Comment string
	// Constants to be declared.
	Consts map[string]Sort
	// Functions to be declared.
	Funs map[string]FunSig
	// Assertions to be made.
	Assertions []Term
}

// Query constructs a query from a given set of assertions, declaring every
// constant and function used by this encoder so far.
func (p *Encoder) Query(comment string, assertions ...Term) *Query {
	var (
		consts = make(map[string]Sort, len(p.consts))
		funs   = make(map[string]FunSig, len(p.funs))
	)
	//
	for k, v := range p.consts {
		consts[k] = v
	}
	//
	for k, v := range p.funs {
		funs[k] = v
	}
	//
	return &Query{comment, consts, funs, assertions}
}

// Declarations returns the commands declaring every constant and function of
// this query, sorted by name for determinism.
func (p *Query) Declarations() []sexp.SExp {
	var (
		decls []sexp.SExp
		names = sortedKeys(p.Consts)
	)
	//
	for _, name := range names {
		decls = append(decls, sexp.NewApp("declare-const", sexp.NewSymbol(name), p.Consts[name].Lisp()))
	}
	//
	for _, name := range sortedKeys(p.Funs) {
		var (
			sig  = p.Funs[name]
			args = make([]sexp.SExp, len(sig.Args))
		)
		//
		for i, arg := range sig.Args {
			args[i] = arg.Lisp()
		}
		//
		decls = append(decls, sexp.NewApp("declare-fun", sexp.NewSymbol(name), sexp.NewList(args), sig.Result.Lisp()))
	}
	//
	return decls
}

// Commands returns the declarations and assertions of this query, excluding
// any commands which control the solver itself.
func (p *Query) Commands() []sexp.SExp {
	var commands = p.Declarations()
	//
	for _, a := range p.Assertions {
		commands = append(commands, sexp.NewApp("assert", a.Lisp()))
	}
	//
	return commands
}

// Script returns the complete SMT-LIB script for this query, as it would be
// given to a solver on the command line.
func (p *Query) Script() []sexp.SExp {
	var script = []sexp.SExp{
		sexp.NewApp("set-option", sexp.NewSymbol(":produce-models"), sexp.NewSymbol("true")),
	}
	//
	script = append(script, p.Commands()...)
	//
	return append(script, sexp.NewApp("check-sat"))
}

// String returns the script of this query as text, with each command on its
// own line.  Commands are pretty printed using a given formatter, or are
// otherwise written on a single line.
func (p *Query) String(formatter *sexp.Formatter) string {
	var builder strings.Builder
	//
	if p.Comment != "" {
		for _, line := range strings.Split(p.Comment, "\n") {
			builder.WriteString("; ")
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}
	//
	for _, c := range p.Script() {
		if formatter != nil {
			builder.WriteString(formatter.Format(c))
		} else {
			builder.WriteString(c.String(true))
		}
		//
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// NewFormatter returns a formatter suited to SMT-LIB scripts.
func NewFormatter(width uint) *sexp.Formatter {
	return sexp.NewFormatter(width).Sticky("assert", "forall", "exists", "declare-const", "declare-fun", "=>", "ite")
}

func sortedKeys[T any](m map[string]T) []string {
	var keys = make([]string, 0, len(m))
	//
	for k := range m {
		keys = append(keys, k)
	}
	//
	sort.Strings(keys)
	//
	return keys
}
