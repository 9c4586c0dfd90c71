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

const (
	// RETURN_VALUE is the name bound to the result of a function at exit.  This
	// can be referred to in postconditions, but not bound by users.
	RETURN_VALUE = "return_value"
	// OLD_SUFFIX is appended to the name of an input to obtain the name bound to
	// its value on entry.
	OLD_SUFFIX = "'old"
)

// OldName returns the name bound to the entry value of a given input.
func OldName(name string) string {
	return name + OLD_SUFFIX
}

// Function is a named unit of code with a specification.  The precondition
// may refer to the inputs, whilst the postcondition may additionally refer to
// the entry values of inputs (x'old) and the return value.
type Function struct {
	Name          string
	Inputs        []*Declaration
	Output        Type
	Body          []Command
	Precondition  Bool
	Postcondition Bool
	ReturnValue   Value
}

// Input looks up an input by name.
func (p *Function) Input(name string) (*Declaration, bool) {
	for _, d := range p.Inputs {
		if d.Name == name {
			return d, true
		}
	}
	//
	return nil, false
}

// Signature returns a single line identifying this function.
func (p *Function) Signature() string {
	var inputs = make([]string, len(p.Inputs))
	//
	for i, d := range p.Inputs {
		inputs[i] = d.pattern()
	}
	//
	return fmt.Sprintf("fn %s(%s) -> %s", p.Name, strings.Join(inputs, ", "), p.Output.String())
}

func (p *Function) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("//%%precondition %s\n", p.Precondition.String()))
	builder.WriteString(fmt.Sprintf("//%%postcondition %s\n", p.Postcondition.String()))
	builder.WriteString(p.Signature())
	builder.WriteString(" {\n")
	PrintBlock(&builder, p.Body, 1)
	//
	if _, ok := p.ReturnValue.(*UnitValue); !ok {
		builder.WriteString("   ")
		builder.WriteString(p.ReturnValue.String())
		builder.WriteString("\n")
	}
	//
	builder.WriteString("}\n")
	//
	return builder.String()
}

// Program is an ordered sequence of functions with distinct names.
type Program struct {
	Functions []*Function
}

// Function looks up a function by name.
func (p *Program) Function(name string) (*Function, bool) {
	for _, f := range p.Functions {
		if f.Name == name {
			return f, true
		}
	}
	//
	return nil, false
}

func (p *Program) String() string {
	var fns = make([]string, len(p.Functions))
	//
	for i, f := range p.Functions {
		fns[i] = f.String()
	}
	//
	return strings.Join(fns, "\n")
}
