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
package vcgen

import (
	"fmt"
)

// Termination determines whether loops must be shown to terminate.
type Termination uint8

const (
	// TOTAL correctness requires every while loop to have a variant, which must
	// be non-negative and strictly decrease on every iteration.
	TOTAL Termination = iota
	// PARTIAL correctness ignores termination altogether.
	PARTIAL
)

func (p Termination) String() string {
	switch p {
	case TOTAL:
		return "total"
	case PARTIAL:
		return "partial"
	default:
		panic("unreachable")
	}
}

// CallMode determines how a call to a function of the program is reasoned
// about at its use site.
type CallMode uint8

const (
	// CONTRACTS treats a call as an uninterpreted function, whose arguments
	// must meet the callee's precondition and whose result is assumed to meet
	// the callee's postcondition.
	CONTRACTS CallMode = iota
	// UNINTERPRETED treats a call purely as an uninterpreted function.
	UNINTERPRETED
)

func (p CallMode) String() string {
	switch p {
	case CONTRACTS:
		return "contracts"
	case UNINTERPRETED:
		return "uninterpreted"
	default:
		panic("unreachable")
	}
}

// Config determines what obligations are generated.
type Config struct {
	Termination Termination
	Calls       CallMode
}

// DefaultConfig returns the default configuration: total correctness, with
// calls reasoned about using contracts.
func DefaultConfig() Config {
	return Config{TOTAL, CONTRACTS}
}

// ParseTermination reads a termination mode from its name.
func ParseTermination(name string) (Termination, error) {
	switch name {
	case "total":
		return TOTAL, nil
	case "partial":
		return PARTIAL, nil
	default:
		return TOTAL, fmt.Errorf("unknown termination mode \"%s\"", name)
	}
}

// ParseCallMode reads a call mode from its name.
func ParseCallMode(name string) (CallMode, error) {
	switch name {
	case "contracts":
		return CONTRACTS, nil
	case "uninterpreted":
		return UNINTERPRETED, nil
	default:
		return CONTRACTS, fmt.Errorf("unknown call mode \"%s\"", name)
	}
}
