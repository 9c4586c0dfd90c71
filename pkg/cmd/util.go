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
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/consensys/go-hoare/pkg/ast"
	"github.com/consensys/go-hoare/pkg/parser"
	"github.com/consensys/go-hoare/pkg/util/source"
	"github.com/consensys/go-hoare/pkg/util/termio"
	"github.com/consensys/go-hoare/pkg/vcgen"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Width assumed when output is not a terminal.
const DEFAULT_WIDTH = 120

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt gets an expected integer flag, or exits if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetDuration gets an expected duration flag, or exits if an error arises.
func GetDuration(cmd *cobra.Command, flag string) time.Duration {
	r, err := cmd.Flags().GetDuration(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Construct the configuration for generating obligations from the command
// line flags.
func vcConfig(cmd *cobra.Command) vcgen.Config {
	termination, err := vcgen.ParseTermination(GetString(cmd, "termination"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	calls, err := vcgen.ParseCallMode(GetString(cmd, "calls"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return vcgen.Config{Termination: termination, Calls: calls}
}

// Read, parse and check a program file.  Types which were omitted are inferred
// before the program is validated.  Any errors are reported and cause the
// process to exit.
func readProgram(filename string) (*ast.Program, *source.Map[any]) {
	files, err := source.ReadFiles(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	program, srcmap, serrs := parser.Parse(&files[0])
	//
	for _, err := range serrs {
		printSyntaxError(&err)
	}
	//
	if len(serrs) > 0 {
		os.Exit(2)
	}
	//
	errs := ast.Infer(program)
	//
	if len(errs) == 0 {
		errs = ast.Validate(program)
	}
	//
	for _, err := range errs {
		printError(srcmap, err)
	}
	//
	if len(errs) > 0 {
		os.Exit(2)
	}
	//
	log.Debugf("read %d functions from %s", len(program.Functions), filename)
	//
	return program, srcmap
}

// Print an error, highlighting the offending text where it is known.
func printError(srcmap *source.Map[any], err error) {
	var malformed *ast.MalformedError
	//
	if errors.As(err, &malformed) && malformed.Node != nil && srcmap.Has(malformed.Node) {
		printSyntaxError(srcmap.SyntaxError(malformed.Node, err.Error()))
	} else {
		fmt.Println(err)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := min(line.Length()-lineOffset, span.Length())
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}

// Describe the location of a given node in its original source file, or
// return false if the node did not originate from the source file.
func location(srcmap *source.Map[any], node any) (string, bool) {
	if node == nil || srcmap == nil || !srcmap.Has(node) {
		return "", false
	}
	//
	var (
		srcfile = srcmap.Source()
		line, _ = srcmap.Line(node)
	)
	//
	return fmt.Sprintf("%s:%d", srcfile.Filename(), line.Number()), true
}

// Determine whether standard output is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Determine the width of the terminal, or fall back to a default width when
// standard output is not a terminal.
func terminalWidth() uint {
	if isTerminal() {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
			return uint(width)
		}
	}
	//
	return DEFAULT_WIDTH
}

// Colour a given piece of text, provided standard output is a terminal.
func colour(text string, col uint) string {
	if !isTerminal() {
		return text
	}
	//
	escape := termio.BoldAnsiEscape().FgColour(col).Build()
	reset := termio.ResetAnsiEscape().Build()
	//
	return escape + text + reset
}
