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
package prover

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/consensys/go-hoare/pkg/smt"
	"github.com/consensys/go-hoare/pkg/util/source/sexp"
)

// Model is a counter-example produced by a solver, mapping each constant to
// its value.  Solver-internal constants and function interpretations are not
// included.
type Model map[string]smt.Term

// Names returns the constants of this model, in sorted order.
func (p Model) Names() []string {
	return slices.Sorted(maps.Keys(p))
}

func (p Model) String() string {
	var builder strings.Builder
	//
	for i, name := range p.Names() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s = %s", name, valueString(p[name])))
	}
	//
	return builder.String()
}

// ParseModel reads the response of a solver to (get-model).  This is a list of
// definitions, optionally preceded by the symbol "model", thusly:
//
//	((define-fun x () Int 1)
//	 (define-fun a () (Array Int Int) ((as const (Array Int Int)) 0)))
func ParseModel(response sexp.SExp) (Model, error) {
	var (
		list  = response.AsList()
		model = make(Model)
	)
	//
	if list == nil {
		return nil, fmt.Errorf("invalid model %s", response.String(false))
	} else if list.MatchSymbols(1, "model") {
		list = sexp.NewList(list.Elements[1:])
	}
	//
	for _, e := range list.Elements {
		def := e.AsList()
		//
		if def == nil || !def.MatchSymbols(2, "define-fun") || def.Len() != 5 || def.Get(1).AsSymbol() == nil {
			return nil, fmt.Errorf("invalid definition %s", e.String(false))
		} else if params := def.Get(2).AsList(); params == nil || params.Len() != 0 {
			// Function interpretation
			continue
		}
		//
		name := def.Get(1).AsSymbol().Value
		//
		if strings.ContainsRune(name, '!') {
			// Solver-internal
			continue
		}
		//
		value, err := smt.ParseTerm(def.Get(4))
		if err != nil {
			return nil, err
		}
		//
		model[name] = value
	}
	//
	return model, nil
}

func valueString(value smt.Term) string {
	if n, ok := value.(*smt.Int); ok {
		return fmt.Sprintf("%d", n.Value)
	}
	//
	return smt.String(value)
}
