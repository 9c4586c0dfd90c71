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
	"github.com/consensys/go-hoare/pkg/ast"
)

// FunSig describes an uninterpreted function declared to the solver.
type FunSig struct {
	Args   []Sort
	Result Sort
}

// Encoder translates formulas, expressions and values into solver terms.
// Alongside each term, the side conditions required for it to be well-defined
// are returned (e.g. that a denominator is non-zero).  An encoder records the
// constants and functions used, such that they can be declared to the solver.
// Terms produced by one encoder should not be mixed with those of another.
//
// Tuples are encoded as one integer-indexed array per element sort.  For
// example, a tuple t of type (i32, bool, i32) becomes two arrays t'Int and
// t'Bool, where t.1 is (select t'Bool 1).
type Encoder struct {
	// Types of variables and functions
	scope ast.Scope
	// Variables bound by enclosing quantifiers, innermost last.
	bound []boundVar
	// Constants used so far.
	consts map[string]Sort
	// Functions used so far.
	funs map[string]FunSig
}

type boundVar struct {
	name string
	t    ast.Type
}

// NewEncoder constructs a fresh encoder for variables and functions of a given
// scope.
func NewEncoder(scope ast.Scope) *Encoder {
	return &Encoder{scope, nil, make(map[string]Sort), make(map[string]FunSig)}
}

// Variable implementation for the ast.Scope interface.  This takes into
// account variables bound by enclosing quantifiers.
func (p *Encoder) Variable(name string) (ast.Type, bool) {
	for i := len(p.bound) - 1; i >= 0; i-- {
		if p.bound[i].name == name {
			return p.bound[i].t, true
		}
	}
	//
	return p.scope.Variable(name)
}

// Function implementation for the ast.Scope interface.
func (p *Encoder) Function(name string) (*ast.Function, bool) {
	return p.scope.Function(name)
}

// Consts returns the constants used by terms produced so far.
func (p *Encoder) Consts() map[string]Sort {
	return p.consts
}

// Funs returns the functions used by terms produced so far.
func (p *Encoder) Funs() map[string]FunSig {
	return p.funs
}

// FunctionName returns the name of the solver function representing a given
// function of the program.  This cannot clash with a variable name, since
// user variables cannot contain primes.
func FunctionName(name string) string {
	return name + "'fn"
}

// SortOf determines the sort used to represent values of a given type.
// Tuples have no single sort, and arrays of tuples are not supported.
func SortOf(t ast.Type) (Sort, error) {
	switch t := ast.Underlying(t).(type) {
	case *ast.BoolType:
		return BOOL, nil
	case *ast.I32Type:
		return INT, nil
	case *ast.ArrayType:
		element, err := SortOf(t.Element)
		if err != nil {
			return nil, err
		}
		//
		return &ArraySort{element}, nil
	}
	//
	return nil, ast.Malformed(t, "type %s has no sort", t.String())
}

// AsInt encodes a value used as an integer.
func (p *Encoder) AsInt(v ast.Value) ([]Check, Term, error) {
	return p.scalar(v, INT)
}

// AsBool encodes a value used as a boolean.
func (p *Encoder) AsBool(v ast.Value) ([]Check, Term, error) {
	return p.scalar(v, BOOL)
}

// AsArray encodes a value used as an array.
func (p *Encoder) AsArray(v ast.Value) ([]Check, Term, error) {
	checks, term, sort, err := p.value(v)
	//
	if err == nil {
		if _, ok := sort.(*ArraySort); !ok {
			return nil, nil, ast.Malformed(v, "expected array, found %s", v.String())
		}
	}
	//
	return checks, term, err
}

// Value encodes any value which has a sort (i.e. is not a tuple or unit),
// returning its sort as well.
func (p *Encoder) Value(v ast.Value) ([]Check, Term, Sort, error) {
	return p.value(v)
}

// Tuple encodes a tuple-typed value as one array per element sort, keyed by
// the tag of the sort.
func (p *Encoder) Tuple(v ast.Value) ([]Check, map[string]Term, *ast.TupleType, error) {
	return p.tuple(v)
}

func (p *Encoder) scalar(v ast.Value, expected Sort) ([]Check, Term, error) {
	checks, term, sort, err := p.value(v)
	//
	if err != nil {
		return nil, nil, err
	} else if !SortEquals(sort, expected) {
		return nil, nil, ast.Malformed(v, "expected %s, found %s (%s)", expected.String(), sort.String(), v.String())
	}
	//
	return checks, term, nil
}

func (p *Encoder) value(v ast.Value) ([]Check, Term, Sort, error) {
	switch v := v.(type) {
	case *ast.ExprValue:
		checks, term, err := p.Expr(v.Expr)
		return checks, term, INT, err
	case *ast.FormulaValue:
		checks, term, err := p.Formula(v.Formula)
		return checks, term, BOOL, err
	case *ast.VarValue:
		return p.variable(v.Var)
	case *ast.ArrayValue:
		return p.arrayLiteral(v)
	case *ast.CallValue:
		return p.call(v)
	case *ast.RefValue:
		return p.value(v.Inner)
	case *ast.DerefValue:
		return p.value(v.Inner)
	case *ast.TernaryValue:
		return p.ternary(v)
	case *ast.SelectValue:
		return p.selectValue(v)
	case *ast.StoreValue:
		return p.store(v)
	case *ast.TupleValue, *ast.UnitValue:
		return nil, nil, nil, ast.Malformed(v, "%s used where scalar or array expected", v.String())
	default:
		panic("unreachable")
	}
}

func (p *Encoder) isBound(name string) bool {
	for _, b := range p.bound {
		if b.name == name {
			return true
		}
	}
	//
	return false
}

func (p *Encoder) declare(name string, sort Sort) {
	if !p.isBound(name) {
		p.consts[name] = sort
	}
}

func (p *Encoder) lookup(v ast.Variable) (ast.Type, error) {
	if t, ok := p.Variable(v.Base()); ok {
		return t, nil
	}
	//
	return nil, ast.Malformed(v, "unknown variable %s", v.Base())
}

func (p *Encoder) variable(v ast.Variable) ([]Check, Term, Sort, error) {
	switch v := v.(type) {
	case *ast.Named:
		t, err := p.lookup(v)
		if err != nil {
			return nil, nil, nil, err
		}
		//
		sort, err := SortOf(t)
		if err != nil {
			return nil, nil, nil, ast.Malformed(v, "%s of type %s used where scalar or array expected", v.Name, t)
		}
		//
		p.declare(v.Name, sort)
		//
		return nil, NewConst(v.Name), sort, nil
	case *ast.Empty:
		return nil, nil, nil, ast.Malformed(v, "wildcard used as value")
	case *ast.ArrayElem:
		t, err := p.lookup(v)
		if err != nil {
			return nil, nil, nil, err
		}
		//
		at, ok := ast.Underlying(t).(*ast.ArrayType)
		if !ok {
			return nil, nil, nil, ast.Malformed(v, "expected array, found %s", t.String())
		}
		//
		sort, err := SortOf(at)
		if err != nil {
			return nil, nil, nil, err
		}
		//
		p.declare(v.Name, sort)
		//
		return p.arraySelect(v, NewConst(v.Name), at, v.Index)
	case *ast.TupleElem:
		t, err := p.lookup(v)
		if err != nil {
			return nil, nil, nil, err
		}
		//
		tt, ok := ast.Underlying(t).(*ast.TupleType)
		if !ok {
			return nil, nil, nil, ast.Malformed(v, "expected tuple, found %s", t.String())
		}
		//
		parts, err := p.namedTuple(v.Name, tt)
		if err != nil {
			return nil, nil, nil, err
		}
		//
		return p.tupleSelect(v, nil, parts, tt, v.Index)
	default:
		panic("unreachable")
	}
}

// PartName returns the name of the array holding elements of a given sort for
// a named tuple.
func PartName(name string, sort Sort) string {
	return name + "'" + sort.Tag()
}

func (p *Encoder) namedTuple(name string, tt *ast.TupleType) (map[string]Term, error) {
	var parts = make(map[string]Term)
	//
	for _, e := range tt.Elements {
		sort, err := SortOf(e)
		if err != nil {
			return nil, err
		}
		//
		pname := PartName(name, sort)
		p.declare(pname, &ArraySort{sort})
		parts[sort.Tag()] = NewConst(pname)
	}
	//
	return parts, nil
}

func (p *Encoder) arraySelect(node any, array Term, at *ast.ArrayType, index ast.Value) ([]Check, Term, Sort, error) {
	checks, idx, err := p.AsInt(index)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	sort, err := SortOf(at.Element)
	if err != nil {
		return nil, nil, nil, err
	}
	// Statically in bounds accesses need no check.
	if i, ok := ast.ConstantIndex(index); !ok || i >= int(at.Length) {
		checks = append(checks, Check{ARRAY_INDEX, node, inBounds(index, at.Length), inBoundsTerm(idx, at.Length)})
	}
	//
	return checks, Select(array, idx), sort, nil
}

func (p *Encoder) tupleSelect(node any, checks []Check, parts map[string]Term, tt *ast.TupleType,
	index ast.Value) ([]Check, Term, Sort, error) {
	//
	if i, ok := ast.ConstantIndex(index); !ok {
		return nil, nil, nil, ast.Malformed(node, "tuple index must be a constant")
	} else if i >= len(tt.Elements) {
		return nil, nil, nil, ast.Malformed(node, "tuple index %d out of bounds for %s", i, tt.String())
	} else {
		sort, err := SortOf(tt.Elements[i])
		if err != nil {
			return nil, nil, nil, err
		}
		//
		return checks, Select(parts[sort.Tag()], NewInt(int64(i))), sort, nil
	}
}

func inBounds(index ast.Value, length uint) ast.Bool {
	var idx = ast.AsExpr(index)
	//
	return ast.NewAnd(ast.NewCompare(ast.NewNumber(0), ast.LEQ, idx),
		ast.NewCompare(idx, ast.LT, ast.NewNumber(int32(length))))
}

func inBoundsTerm(index Term, length uint) Term {
	return And(NewApp("<=", NewInt(0), index), NewApp("<", index, NewInt(int64(length))))
}

func (p *Encoder) arrayLiteral(v *ast.ArrayValue) ([]Check, Term, Sort, error) {
	if len(v.Elements) == 0 {
		return nil, nil, nil, ast.Malformed(v, "cannot encode empty array")
	}
	//
	var (
		checks []Check
		array  Term
		sort   *ArraySort
	)
	//
	for i, e := range v.Elements {
		cs, term, esort, err := p.value(e)
		if err != nil {
			return nil, nil, nil, err
		}
		//
		checks = append(checks, cs...)
		//
		if i == 0 {
			sort = &ArraySort{esort}
			array = &ConstArray{sort, term}
		} else if !SortEquals(esort, sort.Element) {
			return nil, nil, nil, ast.Malformed(v, "inconsistent array elements")
		} else {
			array = Store(array, NewInt(int64(i)), term)
		}
	}
	//
	return checks, array, sort, nil
}

// args encodes the arguments of a call, where tuples are flattened into their
// parts (ordered by sort tag).
func (p *Encoder) args(args []ast.Value) ([]Check, []Term, []Sort, error) {
	var (
		checks []Check
		terms  []Term
		sorts  []Sort
	)
	//
	for _, arg := range args {
		t, err := ast.TypeOf(arg, p)
		if err != nil {
			return nil, nil, nil, err
		}
		//
		if _, ok := ast.Underlying(t).(*ast.TupleType); ok {
			cs, parts, tt, err := p.tuple(arg)
			if err != nil {
				return nil, nil, nil, err
			}
			//
			checks = append(checks, cs...)
			//
			for _, sort := range tupleSorts(tt) {
				terms = append(terms, parts[sort.Tag()])
				sorts = append(sorts, &ArraySort{sort})
			}
		} else {
			cs, term, sort, err := p.value(arg)
			if err != nil {
				return nil, nil, nil, err
			}
			//
			checks = append(checks, cs...)
			terms = append(terms, term)
			sorts = append(sorts, sort)
		}
	}
	//
	return checks, terms, sorts, nil
}

// tupleSorts returns the distinct sorts of a tuple's elements, ordered by tag.
func tupleSorts(tt *ast.TupleType) []Sort {
	var (
		sorts []Sort
		seen  = make(map[string]bool)
	)
	//
	for _, e := range tt.Elements {
		if sort, err := SortOf(e); err == nil && !seen[sort.Tag()] {
			seen[sort.Tag()] = true
			sorts = append(sorts, sort)
		}
	}
	// Insertion sort, since tuples are small
	for i := 1; i < len(sorts); i++ {
		for j := i; j > 0 && sorts[j].Tag() < sorts[j-1].Tag(); j-- {
			sorts[j], sorts[j-1] = sorts[j-1], sorts[j]
		}
	}
	//
	return sorts
}

func (p *Encoder) call(v *ast.CallValue) ([]Check, Term, Sort, error) {
	f, ok := p.Function(v.Name)
	if !ok {
		return nil, nil, nil, ast.Malformed(v, "unknown function %s", v.Name)
	}
	//
	sort, err := SortOf(f.Output)
	if err != nil {
		return nil, nil, nil, ast.Malformed(v, "%s returns %s, used where scalar or array expected",
			v.Name, f.Output.String())
	}
	//
	checks, args, sorts, err := p.args(v.Args)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	name := FunctionName(v.Name)
	p.funs[name] = FunSig{sorts, sort}
	//
	return checks, NewApp(name, args...), sort, nil
}

func (p *Encoder) ternary(v *ast.TernaryValue) ([]Check, Term, Sort, error) {
	cc, cond, err := p.Formula(v.Cond)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	tc, then, tsort, err := p.value(v.Then)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	ec, otherwise, esort, err := p.value(v.Else)
	if err != nil {
		return nil, nil, nil, err
	} else if !SortEquals(tsort, esort) {
		return nil, nil, nil, ast.Malformed(v, "conditional branches have different sorts")
	}
	//
	checks := append(cc, guard(tc, v.Cond, cond)...)
	checks = append(checks, guard(ec, ast.NewNot(v.Cond), Not(cond))...)
	//
	return checks, Ite(cond, then, otherwise), tsort, nil
}

func (p *Encoder) selectValue(v *ast.SelectValue) ([]Check, Term, Sort, error) {
	if v.Tuple {
		checks, parts, tt, err := p.tuple(v.Base)
		if err != nil {
			return nil, nil, nil, err
		}
		//
		return p.tupleSelect(v, checks, parts, tt, v.Index)
	}
	//
	t, err := ast.TypeOf(v.Base, p)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	at, ok := ast.Underlying(t).(*ast.ArrayType)
	if !ok {
		return nil, nil, nil, ast.Malformed(v, "expected array, found %s", t.String())
	}
	//
	checks, array, _, err := p.value(v.Base)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	cs, term, sort, err := p.arraySelect(v, array, at, v.Index)
	//
	return append(checks, cs...), term, sort, err
}

func (p *Encoder) store(v *ast.StoreValue) ([]Check, Term, Sort, error) {
	if v.Tuple {
		return nil, nil, nil, ast.Malformed(v, "tuple used where scalar or array expected")
	}
	//
	checks, array, sort, err := p.value(v.Base)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	ic, index, err := p.AsInt(v.Index)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	ec, element, _, err := p.value(v.Element)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	checks = append(append(checks, ic...), ec...)
	//
	return checks, Store(array, index, element), sort, nil
}

func (p *Encoder) tuple(v ast.Value) ([]Check, map[string]Term, *ast.TupleType, error) {
	t, err := ast.TypeOf(v, p)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	tt, ok := ast.Underlying(t).(*ast.TupleType)
	if !ok {
		return nil, nil, nil, ast.Malformed(v, "expected tuple, found %s", t.String())
	}
	//
	switch v := v.(type) {
	case *ast.VarValue:
		if n, ok := v.Var.(*ast.Named); ok {
			parts, err := p.namedTuple(n.Name, tt)
			return nil, parts, tt, err
		}
	case *ast.TupleValue:
		return p.tupleLiteral(v, tt)
	case *ast.RefValue:
		return p.tuple(v.Inner)
	case *ast.DerefValue:
		return p.tuple(v.Inner)
	case *ast.TernaryValue:
		return p.tupleTernary(v, tt)
	case *ast.StoreValue:
		return p.tupleStore(v, tt)
	case *ast.CallValue:
		return p.tupleCall(v, tt)
	}
	//
	return nil, nil, nil, ast.Malformed(v, "nested tuples are not supported")
}

func (p *Encoder) tupleLiteral(v *ast.TupleValue, tt *ast.TupleType) ([]Check, map[string]Term, *ast.TupleType, error) {
	var (
		checks []Check
		parts  = make(map[string]Term)
	)
	//
	for i, e := range v.Elements {
		cs, term, sort, err := p.value(e)
		if err != nil {
			return nil, nil, nil, err
		}
		//
		checks = append(checks, cs...)
		//
		if part, ok := parts[sort.Tag()]; ok {
			parts[sort.Tag()] = Store(part, NewInt(int64(i)), term)
		} else {
			parts[sort.Tag()] = &ConstArray{&ArraySort{sort}, term}
		}
	}
	//
	return checks, parts, tt, nil
}

func (p *Encoder) tupleTernary(v *ast.TernaryValue, tt *ast.TupleType) ([]Check, map[string]Term, *ast.TupleType, error) {
	cc, cond, err := p.Formula(v.Cond)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	tc, then, _, err := p.tuple(v.Then)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	ec, otherwise, _, err := p.tuple(v.Else)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	parts := make(map[string]Term)
	//
	for tag, part := range then {
		parts[tag] = Ite(cond, part, otherwise[tag])
	}
	//
	checks := append(cc, guard(tc, v.Cond, cond)...)
	checks = append(checks, guard(ec, ast.NewNot(v.Cond), Not(cond))...)
	//
	return checks, parts, tt, nil
}

func (p *Encoder) tupleStore(v *ast.StoreValue, tt *ast.TupleType) ([]Check, map[string]Term, *ast.TupleType, error) {
	checks, base, _, err := p.tuple(v.Base)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	i, ok := ast.ConstantIndex(v.Index)
	if !ok || i >= len(tt.Elements) {
		return nil, nil, nil, ast.Malformed(v, "invalid tuple index %s", v.Index.String())
	}
	//
	ec, element, sort, err := p.value(v.Element)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	parts := make(map[string]Term, len(base))
	//
	for tag, part := range base {
		parts[tag] = part
	}
	//
	parts[sort.Tag()] = Store(base[sort.Tag()], NewInt(int64(i)), element)
	//
	return append(checks, ec...), parts, tt, nil
}

func (p *Encoder) tupleCall(v *ast.CallValue, tt *ast.TupleType) ([]Check, map[string]Term, *ast.TupleType, error) {
	checks, args, sorts, err := p.args(v.Args)
	if err != nil {
		return nil, nil, nil, err
	}
	//
	parts := make(map[string]Term)
	//
	for _, sort := range tupleSorts(tt) {
		name := PartName(FunctionName(v.Name), sort)
		p.funs[name] = FunSig{sorts, &ArraySort{sort}}
		parts[sort.Tag()] = NewApp(name, args...)
	}
	//
	return checks, parts, tt, nil
}

// Expr encodes an integer expression.
func (p *Encoder) Expr(e ast.Expr) ([]Check, Term, error) {
	switch e := e.(type) {
	case *ast.Number:
		return nil, NewInt(int64(e.Value)), nil
	case *ast.ValueExpr:
		return p.scalar(e.Value, INT)
	case *ast.Op:
		lc, lhs, err := p.Expr(e.Left)
		if err != nil {
			return nil, nil, err
		}
		//
		rc, rhs, err := p.Expr(e.Right)
		if err != nil {
			return nil, nil, err
		}
		//
		checks := append(lc, rc...)
		//
		if e.Opcode == ast.DIV || e.Opcode == ast.REM {
			if n, ok := e.Right.(*ast.Number); !ok || n.Value == 0 {
				checks = append(checks, Check{DIVISION_BY_ZERO, e,
					ast.NotEqual(e.Right, ast.NewNumber(0)), Not(Eq(rhs, NewInt(0)))})
			}
		}
		//
		return checks, NewApp(opcodes[e.Opcode], lhs, rhs), nil
	default:
		panic("unreachable")
	}
}

var opcodes = map[ast.Opcode]string{
	ast.ADD: "+", ast.SUB: "-", ast.MUL: "*", ast.DIV: "div", ast.REM: "mod",
}

// Formula encodes a logical formula.
func (p *Encoder) Formula(b ast.Bool) ([]Check, Term, error) {
	switch b := b.(type) {
	case *ast.True:
		return nil, TRUE, nil
	case *ast.False:
		return nil, FALSE, nil
	case *ast.And:
		lc, lhs, rc, rhs, err := p.binary(b.Left, b.Right)
		if err != nil {
			return nil, nil, err
		}
		// Right-hand side only evaluated when left-hand side holds.
		return append(lc, guard(rc, b.Left, lhs)...), And(lhs, rhs), nil
	case *ast.Or:
		lc, lhs, rc, rhs, err := p.binary(b.Left, b.Right)
		if err != nil {
			return nil, nil, err
		}
		// Right-hand side only evaluated when left-hand side does not hold.
		return append(lc, guard(rc, ast.NewNot(b.Left), Not(lhs))...), Or(lhs, rhs), nil
	case *ast.Not:
		checks, term, err := p.Formula(b.Inner)
		if err != nil {
			return nil, nil, err
		}
		//
		return checks, Not(term), nil
	case *ast.BoolValue:
		return p.scalar(b.Value, BOOL)
	case *ast.Equal:
		return p.compare(b, b.Left, "=", b.Right)
	case *ast.Compare:
		return p.compare(b, b.Left, b.Comparator.String(), b.Right)
	case *ast.ForAll:
		return p.quantifier(true, b.Var, b.Type, b.Body)
	case *ast.Exists:
		return p.quantifier(false, b.Var, b.Type, b.Body)
	default:
		panic("unreachable")
	}
}

func (p *Encoder) binary(lhs ast.Bool, rhs ast.Bool) ([]Check, Term, []Check, Term, error) {
	lc, l, err := p.Formula(lhs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	//
	rc, r, err := p.Formula(rhs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	//
	return lc, l, rc, r, nil
}

// operand encodes one side of a comparison, which may have any sort.
func (p *Encoder) operand(e ast.Expr) ([]Check, Term, Sort, error) {
	if v, ok := e.(*ast.ValueExpr); ok {
		return p.value(v.Value)
	}
	//
	checks, term, err := p.Expr(e)
	//
	return checks, term, INT, err
}

// compare encodes a comparison.  Over booleans the ordering is that of the
// lattice false < true, such that a >= b is b => a.
func (p *Encoder) compare(node ast.Bool, left ast.Expr, op string, right ast.Expr) ([]Check, Term, error) {
	lc, lhs, lsort, err := p.operand(left)
	if err != nil {
		return nil, nil, err
	}
	//
	rc, rhs, rsort, err := p.operand(right)
	if err != nil {
		return nil, nil, err
	} else if !SortEquals(lsort, rsort) {
		return nil, nil, ast.Malformed(node, "cannot compare %s with %s", lsort.String(), rsort.String())
	}
	//
	var (
		checks = append(lc, rc...)
		term   Term
	)
	//
	switch {
	case op == "=":
		term = Eq(lhs, rhs)
	case SortEquals(lsort, INT):
		term = NewApp(op, lhs, rhs)
	case SortEquals(lsort, BOOL) && op == ">=":
		term = Implies(rhs, lhs)
	case SortEquals(lsort, BOOL) && op == "<=":
		term = Implies(lhs, rhs)
	case SortEquals(lsort, BOOL) && op == ">":
		term = And(lhs, Not(rhs))
	case SortEquals(lsort, BOOL) && op == "<":
		term = And(Not(lhs), rhs)
	default:
		return nil, nil, ast.Malformed(node, "cannot order values of sort %s", lsort.String())
	}
	//
	return checks, term, nil
}

func (p *Encoder) quantifier(universal bool, name string, t ast.Type, body ast.Bool) ([]Check, Term, error) {
	sort, err := SortOf(t)
	if err != nil {
		return nil, nil, err
	}
	//
	p.bound = append(p.bound, boundVar{name, t})
	checks, term, err := p.Formula(body)
	p.bound = p.bound[:len(p.bound)-1]
	//
	if err != nil {
		return nil, nil, err
	}
	//
	return quantify(checks, name, t, sort), &Quant{universal, name, sort, term}, nil
}
