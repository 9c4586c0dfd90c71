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
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/consensys/go-hoare/pkg/smt"
	"github.com/consensys/go-hoare/pkg/util/source/sexp"
	log "github.com/sirupsen/logrus"
)

// Status is the answer of a solver to a satisfiability query.
type Status uint8

const (
	// SAT indicates the query has a model.
	SAT Status = iota
	// UNSAT indicates the query has no model.
	UNSAT
	// UNKNOWN indicates the solver gave up, or ran out of time.
	UNKNOWN
)

func (p Status) String() string {
	switch p {
	case SAT:
		return "sat"
	case UNSAT:
		return "unsat"
	case UNKNOWN:
		return "unknown"
	default:
		panic("unreachable")
	}
}

// Answer is the outcome of a single query.
type Answer struct {
	Status Status
	// Model of a satisfiable query (when available).
	Model Model
	// Reason given for an unknown answer (e.g. "timeout").
	Reason string
}

// Solver checks the satisfiability of queries.  Implementations must be safe
// for concurrent use, since queries may be checked in parallel.
type Solver interface {
	Check(ctx context.Context, query *smt.Query) (Answer, error)
}

// Process is a solver which runs an external executable for each query, talking
// SMT-LIB over its standard input and output.  A model is requested only when
// the query is satisfiable.
type Process struct {
	command string
	args    []string
	timeout time.Duration
}

// NewProcess constructs a solver which runs a given executable, with a given
// time limit per query.  A zero timeout means no limit.
func NewProcess(command string, args []string, timeout time.Duration) *Process {
	return &Process{command, args, timeout}
}

// Check implementation for the Solver interface.
func (p *Process) Check(ctx context.Context, query *smt.Query) (Answer, error) {
	var (
		cancel context.CancelFunc
		stderr bytes.Buffer
	)
	//
	if p.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	//
	defer cancel()
	//
	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Stderr = &stderr
	//
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return Answer{}, err
	}
	//
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Answer{}, err
	}
	//
	log.Debugf("running %s %s", p.command, strings.Join(p.args, " "))
	//
	if err := cmd.Start(); err != nil {
		return Answer{}, fmt.Errorf("cannot start solver: %w", err)
	}
	//
	answer, err := p.interact(stdin, bufio.NewReader(stdout), query)
	// Release the process unconditionally.
	stdin.Close()
	//
	if err != nil {
		cmd.Process.Kill() //nolint:errcheck
	}
	//
	cmd.Wait() //nolint:errcheck
	//
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Answer{Status: UNKNOWN, Reason: "timeout"}, nil
	case ctx.Err() != nil:
		return Answer{}, ctx.Err()
	case err != nil && stderr.Len() > 0:
		return Answer{}, fmt.Errorf("%w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	//
	return answer, err
}

func (p *Process) interact(stdin io.Writer, stdout *bufio.Reader, query *smt.Query) (Answer, error) {
	if _, err := io.WriteString(stdin, query.String(nil)); err != nil {
		return Answer{}, err
	}
	//
	response, err := readResponse(stdout)
	if err != nil {
		return Answer{}, err
	}
	//
	status, err := parseStatus(response)
	//
	switch {
	case err != nil:
		return Answer{}, err
	case status == UNKNOWN:
		return Answer{Status: UNKNOWN, Reason: "unknown"}, nil
	case status == UNSAT:
		return Answer{Status: UNSAT}, nil
	}
	//
	if _, err := io.WriteString(stdin, "(get-model)\n"); err != nil {
		return Answer{}, err
	}
	//
	if response, err = readResponse(stdout); err != nil {
		return Answer{}, err
	}
	//
	model, err := ParseModel(response)
	if err != nil {
		return Answer{}, err
	}
	//
	io.WriteString(stdin, "(exit)\n") //nolint:errcheck
	//
	return Answer{Status: SAT, Model: model}, nil
}

func parseStatus(response sexp.SExp) (Status, error) {
	if sym := response.AsSymbol(); sym != nil {
		switch sym.Value {
		case "sat":
			return SAT, nil
		case "unsat":
			return UNSAT, nil
		case "unknown", "timeout":
			return UNKNOWN, nil
		}
	}
	//
	return UNKNOWN, fmt.Errorf("unexpected solver response %s", response.String(false))
}

// readResponse reads exactly one S-expression from the output of a solver,
// which may span several lines.
func readResponse(reader *bufio.Reader) (sexp.SExp, error) {
	var (
		text  strings.Builder
		depth = 0
	)
	//
	for {
		line, err := reader.ReadString('\n')
		//
		text.WriteString(line)
		depth += nesting(line)
		//
		if depth <= 0 && strings.TrimSpace(text.String()) != "" {
			break
		} else if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of solver output")
		} else if err != nil {
			return nil, err
		}
	}
	//
	response, serr := sexp.ParseString(text.String())
	if serr != nil {
		return nil, fmt.Errorf("malformed solver response: %s", serr.Message())
	} else if l := response.AsList(); l != nil && l.MatchSymbols(1, "error") {
		return nil, fmt.Errorf("solver error: %s", strings.TrimSpace(text.String()))
	}
	//
	return response, nil
}

// nesting returns the change in bracket depth over a line of solver output,
// ignoring brackets within quoted symbols and strings.
func nesting(line string) int {
	var (
		depth = 0
		quote rune
	)
	//
	for _, c := range line {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '|' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		}
	}
	//
	return depth
}
