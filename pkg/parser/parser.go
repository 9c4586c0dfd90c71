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
package parser

import (
	"strconv"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/util/source"
	"github.com/consensys/go-hoare/pkg/util/source/sexp"
)

// Parse reads a program written as a sequence of S-expression function
// definitions, such as the following:
//
//	(defun inc ((mut x i32)) i32
//	   (requires (>= x 0))
//	   (ensures (== return_value (+ x'old 1)))
//	   (returns x)
//	   (body (set x (+ x 1))))
//
// Alongside the program, a source map is returned which maps nodes of the
// program (functions, commands, values, etc) to their originating text.
// Parsing continues after a malformed function, such that as many errors as
// possible are reported.
func Parse(srcfile *source.File) (*ast.Program, *source.Map[any], []source.SyntaxError) {
	terms, sexpmap, err := sexp.ParseAll(srcfile)
	//
	if err != nil {
		return nil, nil, []source.SyntaxError{*err}
	}
	//
	var (
		p      = translator{sexpmap, source.NewSourceMap[any](*srcfile)}
		fns    []*ast.Function
		errors []source.SyntaxError
	)
	//
	for _, term := range terms {
		if f, err := p.function(term); err != nil {
			errors = append(errors, *err)
		} else {
			fns = append(fns, f)
		}
	}
	//
	return &ast.Program{Functions: fns}, p.nodemap, errors
}

// ParseString is a convenience for parsing a program held in memory.
func ParseString(name string, text string) (*ast.Program, *source.Map[any], []source.SyntaxError) {
	return Parse(source.NewStringFile(name, text))
}

// translator converts S-expressions into the nodes of a program.
type translator struct {
	// Maps S-expressions to their text
	sexpmap *source.Map[sexp.SExp]
	// Maps program nodes to their text
	nodemap *source.Map[any]
}

func (p *translator) error(term sexp.SExp, msg string) *source.SyntaxError {
	return p.sexpmap.SyntaxError(term, msg)
}

// register associates a node with the text of a given S-expression.  Nodes
// which are shared (e.g. the constant true) are registered only once.
func (p *translator) register(node any, term sexp.SExp) {
	if !p.nodemap.Has(node) && p.sexpmap.Has(term) {
		p.nodemap.Put(node, p.sexpmap.Get(term))
	}
}

func (p *translator) function(term sexp.SExp) (*ast.Function, *source.SyntaxError) {
	list := term.AsList()
	//
	if list == nil || !list.MatchSymbols(1, "defun") {
		return nil, p.error(term, "expected function definition")
	} else if list.Len() < 4 {
		return nil, p.error(term, "incomplete function definition")
	} else if list.Get(1).AsSymbol() == nil {
		return nil, p.error(list.Get(1), "invalid function name")
	}
	//
	var (
		err error
		f   = &ast.Function{
			Name:          list.Get(1).AsSymbol().Value,
			Precondition:  ast.TRUE,
			Postcondition: ast.TRUE,
			ReturnValue:   ast.UNIT_VALUE,
		}
		seen = make(map[string]bool)
	)
	//
	if f.Inputs, err = p.inputs(list.Get(2)); err != nil {
		return nil, err.(*source.SyntaxError)
	} else if f.Output, err = p.typ(list.Get(3)); err != nil {
		return nil, err.(*source.SyntaxError)
	}
	//
	for _, clause := range list.Elements[4:] {
		var (
			l       = clause.AsList()
			head, _ = headOf(clause)
		)
		//
		if l == nil || seen[head] {
			return nil, p.error(clause, "invalid or duplicate clause")
		}
		//
		seen[head] = true
		//
		switch {
		case head == "requires" && l.Len() == 2:
			f.Precondition, err = p.formula(l.Get(1))
		case head == "ensures" && l.Len() == 2:
			f.Postcondition, err = p.formula(l.Get(1))
		case head == "returns" && l.Len() == 2:
			f.ReturnValue, err = p.value(l.Get(1))
		case head == "body":
			f.Body, err = p.block(l.Elements[1:])
		default:
			return nil, p.error(clause, "unknown clause")
		}
		//
		if err != nil {
			return nil, err.(*source.SyntaxError)
		}
	}
	//
	p.register(f, term)
	//
	return f, nil
}

func (p *translator) inputs(term sexp.SExp) ([]*ast.Declaration, error) {
	var (
		list   = term.AsList()
		inputs []*ast.Declaration
	)
	//
	if list == nil {
		return nil, p.error(term, "expected list of inputs")
	}
	//
	for _, e := range list.Elements {
		d, err := p.declaration(e, true)
		if err != nil {
			return nil, err
		}
		//
		inputs = append(inputs, d)
	}
	//
	return inputs, nil
}

// declaration parses (x T), (mut x T) or, when the type is optional, just x.
func (p *translator) declaration(term sexp.SExp, typed bool) (*ast.Declaration, error) {
	var (
		list    = term.AsList()
		mutable = false
		decl    *ast.Declaration
	)
	//
	if sym := term.AsSymbol(); sym != nil && !typed {
		if !isName(sym.Value) && sym.Value != "_" {
			return nil, p.error(term, "invalid variable name")
		}
		//
		decl = ast.NewDeclaration(sym.Value, ast.UNKNOWN, false)
	} else if list == nil || list.Len() < 2 || list.Len() > 3 {
		return nil, p.error(term, "invalid declaration")
	} else {
		elements := list.Elements
		//
		if list.MatchSymbols(1, "mut") {
			mutable, elements = true, elements[1:]
		}
		//
		if len(elements) != 2 || elements[0].AsSymbol() == nil || !isName(elements[0].AsSymbol().Value) {
			return nil, p.error(term, "invalid declaration")
		}
		//
		t, err := p.typ(elements[1])
		if err != nil {
			return nil, err
		}
		//
		decl = ast.NewDeclaration(elements[0].AsSymbol().Value, t, mutable)
	}
	//
	p.register(decl, term)
	//
	return decl, nil
}

func (p *translator) typ(term sexp.SExp) (ast.Type, error) {
	if sym := term.AsSymbol(); sym != nil {
		switch sym.Value {
		case "bool":
			return ast.BOOL, nil
		case "i32", "usize":
			return ast.I32, nil
		case "unit":
			return ast.UNIT, nil
		case "_":
			return ast.UNKNOWN, nil
		}
		//
		return nil, p.error(term, "unknown type")
	}
	//
	list := term.AsList()
	head, _ := list.Head()
	//
	switch {
	case list.Len() == 0:
		return ast.UNIT, nil
	case head == "tuple":
		var elements []ast.Type
		//
		for _, e := range list.Elements[1:] {
			t, err := p.typ(e)
			if err != nil {
				return nil, err
			}
			//
			elements = append(elements, t)
		}
		//
		return ast.NewTupleType(elements...), nil
	case head == "array" && list.Len() == 3:
		elem, err := p.typ(list.Get(1))
		if err != nil {
			return nil, err
		}
		//
		n, ok := p.length(list.Get(2))
		if !ok {
			return nil, p.error(list.Get(2), "invalid array length")
		}
		//
		return ast.NewArrayType(elem, n), nil
	case (head == "ref" || head == "mutref") && list.Len() == 2:
		inner, err := p.typ(list.Get(1))
		if err != nil {
			return nil, err
		}
		//
		return ast.NewReferenceType(inner, head == "mutref"), nil
	}
	//
	return nil, p.error(term, "unknown type")
}

func (p *translator) length(term sexp.SExp) (uint, bool) {
	if sym := term.AsSymbol(); sym != nil {
		// Lengths are bounded by the largest index expressible as an i32.
		if n, err := strconv.ParseInt(sym.Value, 10, 32); err == nil && n >= 0 {
			return uint(n), true
		}
	}
	//
	return 0, false
}

func headOf(term sexp.SExp) (string, bool) {
	if list := term.AsList(); list != nil {
		return list.Head()
	}
	//
	return "", false
}

// isName checks whether a symbol can be used as a variable name.  Names may
// contain primes (e.g. x'old), since these are permitted in specifications.
// Whether a name can be bound is a matter for validation.
func isName(name string) bool {
	if name == "" || name == "_" || keywords[name] {
		return false
	}
	//
	for i, r := range name {
		switch {
		case r == '_' || r == '\'' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	//
	return true
}

var keywords = map[string]bool{
	"true": true, "false": true, "mut": true,
}
