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
package ast

// Scope provides the information needed to determine the static type of a
// value.
type Scope interface {
	// Variable returns the declared type of a variable in scope, or false if no
	// such variable is in scope.
	Variable(name string) (Type, bool)
	// Function returns the function of a given name, or false if no such
	// function exists.
	Function(name string) (*Function, bool)
}

// MapScope is a scope formed from a fixed set of variables and (optionally) a
// program.
type MapScope struct {
	Vars    map[string]Type
	Program *Program
}

// NewMapScope constructs an empty scope for a given program.
func NewMapScope(program *Program) *MapScope {
	return &MapScope{make(map[string]Type), program}
}

// Variable implementation for the Scope interface.
func (p *MapScope) Variable(name string) (Type, bool) {
	t, ok := p.Vars[name]
	return t, ok
}

// Function implementation for the Scope interface.
func (p *MapScope) Function(name string) (*Function, bool) {
	if p.Program == nil {
		return nil, false
	}
	//
	return p.Program.Function(name)
}

// Clone returns a copy of this scope which can be extended independently.
func (p *MapScope) Clone() *MapScope {
	var vars = make(map[string]Type, len(p.Vars))
	//
	for k, v := range p.Vars {
		vars[k] = v
	}
	//
	return &MapScope{vars, p.Program}
}

// TypeOf determines the static type of a given value in a given scope.  An
// error is returned if the value is not well-formed.
func TypeOf(v Value, scope Scope) (Type, error) {
	switch v := v.(type) {
	case *ExprValue:
		return I32, nil
	case *FormulaValue:
		return BOOL, nil
	case *VarValue:
		return TypeOfVariable(v.Var, scope)
	case *TupleValue:
		var elements = make([]Type, len(v.Elements))
		//
		for i, e := range v.Elements {
			t, err := TypeOf(e, scope)
			if err != nil {
				return nil, err
			}
			//
			elements[i] = t
		}
		//
		return &TupleType{elements}, nil
	case *ArrayValue:
		if len(v.Elements) == 0 {
			return &ArrayType{UNKNOWN, 0}, nil
		}
		//
		t, err := TypeOf(v.Elements[0], scope)
		if err != nil {
			return nil, err
		}
		//
		return &ArrayType{t, uint(len(v.Elements))}, nil
	case *CallValue:
		if f, ok := scope.Function(v.Name); ok {
			return f.Output, nil
		}
		//
		return nil, Malformed(v, "unknown function %s", v.Name)
	case *RefValue:
		t, err := TypeOf(v.Inner, scope)
		if err != nil {
			return nil, err
		}
		//
		return &ReferenceType{t, v.Mutable}, nil
	case *DerefValue:
		t, err := TypeOf(v.Inner, scope)
		if err != nil {
			return nil, err
		} else if r, ok := t.(*ReferenceType); ok {
			return r.Inner, nil
		}
		//
		return t, nil
	case *UnitValue:
		return UNIT, nil
	case *TernaryValue:
		return TypeOf(v.Then, scope)
	case *SelectValue:
		t, err := TypeOf(v.Base, scope)
		if err != nil {
			return nil, err
		}
		//
		return ElementType(t, v.Index, v.Tuple, v)
	case *StoreValue:
		return TypeOf(v.Base, scope)
	default:
		panic("unreachable")
	}
}

// TypeOfVariable determines the static type of a location.
func TypeOfVariable(v Variable, scope Scope) (Type, error) {
	switch v := v.(type) {
	case *Named:
		if t, ok := scope.Variable(v.Name); ok {
			return t, nil
		}
		//
		return nil, Malformed(v, "unknown variable %s", v.Name)
	case *Empty:
		return nil, Malformed(v, "wildcard used as value")
	case *ArrayElem:
		t, ok := scope.Variable(v.Name)
		if !ok {
			return nil, Malformed(v, "unknown variable %s", v.Name)
		}
		//
		return ElementType(t, v.Index, false, v)
	case *TupleElem:
		t, ok := scope.Variable(v.Name)
		if !ok {
			return nil, Malformed(v, "unknown variable %s", v.Name)
		}
		//
		return ElementType(t, v.Index, true, v)
	default:
		panic("unreachable")
	}
}

// ElementType determines the type of an element of a compound type.  The node
// is used only for error reporting.
func ElementType(t Type, index Value, tuple bool, node any) (Type, error) {
	switch t := Underlying(t).(type) {
	case *ArrayType:
		if !tuple {
			return t.Element, nil
		}
	case *TupleType:
		if !tuple {
			break
		} else if i, ok := ConstantIndex(index); !ok {
			return nil, Malformed(node, "tuple index must be a constant")
		} else if i >= len(t.Elements) {
			return nil, Malformed(node, "tuple index %d out of bounds for %s", i, t.String())
		} else {
			return t.Elements[i], nil
		}
	}
	//
	if tuple {
		return nil, Malformed(node, "expected tuple, found %s", t.String())
	}
	//
	return nil, Malformed(node, "expected array, found %s", t.String())
}
