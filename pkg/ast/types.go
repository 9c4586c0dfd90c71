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

import (
	"fmt"
	"strings"
)

// Type represents the static type of a variable or value.  The set of types is
// closed: bool, i32, tuples, fixed-length arrays, (mutable) references, unit
// and a placeholder for types which have yet to be inferred.
type Type interface {
	fmt.Stringer
	isType()
}

var (
	// BOOL is the type of logical values.
	BOOL Type = &BoolType{}
	// I32 is the type of (mathematical) integer values.
	I32 Type = &I32Type{}
	// UNIT is the type of the empty tuple.
	UNIT Type = &UnitType{}
	// UNKNOWN is a placeholder for a type which the inference pass must fill.
	UNKNOWN Type = &UnknownType{}
)

// BoolType is the type of logical values.
type BoolType struct{}

// I32Type is the type of integers.  Arithmetic is mathematical, hence no
// overflow checking is performed.
type I32Type struct{}

// TupleType is a fixed sequence of (possibly distinct) element types.
type TupleType struct {
	Elements []Type
}

// ArrayType is a fixed-length sequence of elements of the same type.
type ArrayType struct {
	Element Type
	Length  uint
}

// ReferenceType is a (mutable) reference to some inner type.  References are
// transparent, meaning they are treated exactly as the value they refer to.
type ReferenceType struct {
	Inner   Type
	Mutable bool
}

// UnitType is the type of the unit value.
type UnitType struct{}

// UnknownType is a placeholder for a type which must be determined by the type
// inference pass.  No unknown type may reach the verifier.
type UnknownType struct{}

func (*BoolType) isType()      {}
func (*I32Type) isType()       {}
func (*TupleType) isType()     {}
func (*ArrayType) isType()     {}
func (*ReferenceType) isType() {}
func (*UnitType) isType()      {}
func (*UnknownType) isType()   {}

func (*BoolType) String() string { return "bool" }
func (*I32Type) String() string  { return "i32" }
func (*UnitType) String() string { return "()" }

func (*UnknownType) String() string { return "_" }

func (p *TupleType) String() string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, t := range p.Elements {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(t.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func (p *ArrayType) String() string {
	return fmt.Sprintf("[%s; %d]", p.Element.String(), p.Length)
}

func (p *ReferenceType) String() string {
	if p.Mutable {
		return "&mut " + p.Inner.String()
	}
	//
	return "&" + p.Inner.String()
}

// NewTupleType constructs a tuple type from zero or more element types.
func NewTupleType(elements ...Type) *TupleType {
	return &TupleType{elements}
}

// NewArrayType constructs an array type of a given length.
func NewArrayType(element Type, length uint) *ArrayType {
	return &ArrayType{element, length}
}

// NewReferenceType constructs an immutable (or mutable) reference type.
func NewReferenceType(inner Type, mutable bool) *ReferenceType {
	return &ReferenceType{inner, mutable}
}

// Underlying strips away any references, since these are transparent.
func Underlying(t Type) Type {
	for {
		if r, ok := t.(*ReferenceType); ok {
			t = r.Inner
		} else {
			return t
		}
	}
}

// TypeEquals checks whether two types are structurally identical, ignoring
// references.
func TypeEquals(lhs Type, rhs Type) bool {
	lhs, rhs = Underlying(lhs), Underlying(rhs)
	//
	switch l := lhs.(type) {
	case *BoolType, *I32Type, *UnitType, *UnknownType:
		return fmt.Sprintf("%T", lhs) == fmt.Sprintf("%T", rhs)
	case *TupleType:
		if r, ok := rhs.(*TupleType); ok && len(l.Elements) == len(r.Elements) {
			for i := range l.Elements {
				if !TypeEquals(l.Elements[i], r.Elements[i]) {
					return false
				}
			}
			//
			return true
		}
		//
		return false
	case *ArrayType:
		r, ok := rhs.(*ArrayType)
		return ok && l.Length == r.Length && TypeEquals(l.Element, r.Element)
	default:
		panic("unreachable")
	}
}

// ContainsUnknown checks whether any part of this type remains unknown.
func ContainsUnknown(t Type) bool {
	switch t := t.(type) {
	case *UnknownType:
		return true
	case *TupleType:
		for _, e := range t.Elements {
			if ContainsUnknown(e) {
				return true
			}
		}
		//
		return false
	case *ArrayType:
		return ContainsUnknown(t.Element)
	case *ReferenceType:
		return ContainsUnknown(t.Inner)
	default:
		return t == nil
	}
}

// IsScalar checks whether values of this type can be used where an integer or
// boolean is expected.
func IsScalar(t Type) bool {
	switch Underlying(t).(type) {
	case *BoolType, *I32Type:
		return true
	default:
		return false
	}
}
