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
	"runtime"
	"strings"
	"time"
)

// Config determines how obligations are discharged.
type Config struct {
	// Solver executable, which must accept SMT-LIB on its standard input.
	Solver string
	// Arguments given to the solver.
	Args []string
	// Time allowed for each query.
	Timeout time.Duration
	// Number of queries run concurrently.
	Workers uint
	// Stop after the first obligation which is not verified.
	FailFast bool
}

// DefaultConfig returns the default configuration, which runs z3 on each query
// for up to 10s with one query per CPU.
func DefaultConfig() Config {
	return Config{
		Solver:   "z3",
		Args:     ParseArgs("-in -smt2"),
		Timeout:  10 * time.Second,
		Workers:  uint(runtime.NumCPU()),
		FailFast: false,
	}
}

// ParseArgs splits a space-separated argument string.
func ParseArgs(args string) []string {
	return strings.Fields(args)
}
