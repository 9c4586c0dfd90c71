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
)

// Variable represents a location which can be read or written.  This is
// either a named variable, the wildcard of a tuple pattern or a single element
// of a named array or tuple.
type Variable interface {
	fmt.Stringer
	// Base returns the name of the variable holding this location, or the empty
	// string for the wildcard.
	Base() string
	isVariable()
}

// Named is a variable identified by name.
type Named struct {
	Name string
}

// Empty is the wildcard of a tuple pattern.  This can be written to (in which
// case the value is discarded), but never read.
type Empty struct{}

// ArrayElem is a single element of a named array.
type ArrayElem struct {
	Name  string
	Index Value
}

// TupleElem is a single element of a named tuple.  The index must be a
// literal integer.
type TupleElem struct {
	Name  string
	Index Value
}

func (*Named) isVariable()     {}
func (*Empty) isVariable()     {}
func (*ArrayElem) isVariable() {}
func (*TupleElem) isVariable() {}

// Base implementation for Variable interface.
func (p *Named) Base() string { return p.Name }

// Base implementation for Variable interface.
func (p *Empty) Base() string { return "" }

// Base implementation for Variable interface.
func (p *ArrayElem) Base() string { return p.Name }

// Base implementation for Variable interface.
func (p *TupleElem) Base() string { return p.Name }

func (p *Named) String() string { return p.Name }
func (p *Empty) String() string { return "_" }

func (p *ArrayElem) String() string {
	return fmt.Sprintf("%s[%s]", p.Name, p.Index.String())
}

func (p *TupleElem) String() string {
	return fmt.Sprintf("%s.%s", p.Name, braceValue(p.Index))
}

// NewArrayElem constructs a location identifying an element of an array.
func NewArrayElem(name string, index Value) *ArrayElem {
	return &ArrayElem{name, index}
}

// NewTupleElem constructs a location identifying an element of a tuple.
func NewTupleElem(name string, index int) *TupleElem {
	return &TupleElem{name, NewInt(int32(index))}
}
