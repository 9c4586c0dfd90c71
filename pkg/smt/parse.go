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
	"fmt"
	"strconv"

	"github.com/consensys/go-hoare/pkg/util/source/sexp"
)

// ParseSort reads a sort from its SMT-LIB representation.
func ParseSort(s sexp.SExp) (Sort, error) {
	if sym := s.AsSymbol(); sym != nil {
		switch sym.Value {
		case "Int":
			return INT, nil
		case "Bool":
			return BOOL, nil
		}
	} else if list := s.AsList(); list.MatchSymbols(3, "Array") && list.Len() == 3 {
		if index, err := ParseSort(list.Get(1)); err != nil || index != INT {
			return nil, fmt.Errorf("unsupported array index sort %s", list.Get(1).String(false))
		}
		//
		element, err := ParseSort(list.Get(2))
		if err != nil {
			return nil, err
		}
		//
		return &ArraySort{element}, nil
	}
	//
	return nil, fmt.Errorf("unknown sort %s", s.String(false))
}

// ParseTerm reads a term from its SMT-LIB representation.  This is the inverse
// of Lisp(), and is also used to read values from models produced by a
// solver.
func ParseTerm(s sexp.SExp) (Term, error) {
	if sym := s.AsSymbol(); sym != nil {
		return parseAtom(sym.Value), nil
	}
	//
	list := s.AsList()
	//
	if list.Len() == 0 {
		return nil, fmt.Errorf("empty term")
	} else if inner := list.Get(0).AsList(); inner != nil {
		// ((as const (Array Int T)) v)
		if !inner.MatchSymbols(2, "as", "const") || inner.Len() != 3 || list.Len() != 2 {
			return nil, fmt.Errorf("unknown term %s", s.String(false))
		}
		//
		sort, err := ParseSort(inner.Get(2))
		if err != nil {
			return nil, err
		} else if _, ok := sort.(*ArraySort); !ok {
			return nil, fmt.Errorf("constant array requires array sort")
		}
		//
		value, err := ParseTerm(list.Get(1))
		if err != nil {
			return nil, err
		}
		//
		return &ConstArray{sort.(*ArraySort), value}, nil
	}
	//
	head, _ := list.Head()
	//
	switch {
	case (head == "forall" || head == "exists") && list.Len() == 3:
		return parseQuantifier(head == "forall", list)
	case head == "-" && list.Len() == 2:
		// Negative literal
		if n, ok := parseAtom(list.Get(1).String(false)).(*Int); ok {
			return &Int{-n.Value}, nil
		}
	}
	//
	args := make([]Term, list.Len()-1)
	//
	for i := range args {
		arg, err := ParseTerm(list.Get(i + 1))
		if err != nil {
			return nil, err
		}
		//
		args[i] = arg
	}
	//
	return &App{head, args}, nil
}

func parseAtom(value string) Term {
	switch value {
	case "true":
		return TRUE
	case "false":
		return FALSE
	}
	//
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return &Int{n}
	}
	//
	return &Const{value}
}

func parseQuantifier(universal bool, list *sexp.List) (Term, error) {
	bindings := list.Get(1).AsList()
	//
	if bindings == nil || bindings.Len() != 1 || bindings.Get(0).AsList() == nil ||
		bindings.Get(0).AsList().Len() != 2 || bindings.Get(0).AsList().Get(0).AsSymbol() == nil {
		return nil, fmt.Errorf("unsupported quantifier binding %s", list.Get(1).String(false))
	}
	//
	binding := bindings.Get(0).AsList()
	//
	sort, err := ParseSort(binding.Get(1))
	if err != nil {
		return nil, err
	}
	//
	body, err := ParseTerm(list.Get(2))
	if err != nil {
		return nil, err
	}
	//
	return &Quant{universal, binding.Get(0).AsSymbol().Value, sort, body}, nil
}
