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
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-hoare/pkg/vcgen"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace [flags] program_file",
	Short: "print the context tracked through each function of a program.",
	Long: `Print the context tracked through the top-level of each function body of a
	given program.  That is, the variables in scope (with their last known values)
	and the assumptions made after each command.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			program, srcmap = readProgram(args[0])
			values          = GetFlag(cmd, "values")
			failed          = false
		)
		//
		for _, f := range program.Functions {
			fmt.Println(f.Signature())
			//
			frames, err := vcgen.Trace(f, program)
			//
			for i, frame := range frames {
				if i == 0 {
					fmt.Println("   (entry)")
				} else {
					fmt.Printf("   %s\n", f.Body[i-1].String())
				}
				//
				printFrame(frame, values)
			}
			//
			if err != nil {
				printError(srcmap, err)
				failed = true
			}
		}
		//
		if failed {
			os.Exit(2)
		}
	},
}

func printFrame(frame *vcgen.Frame, values bool) {
	for _, line := range strings.Split(strings.TrimSuffix(frame.String(), "\n"), "\n") {
		if line != "" {
			fmt.Printf("      %s\n", line)
		}
	}
	//
	if values {
		for _, v := range frame.Vals() {
			fmt.Printf("      %s : %s\n", v.Value.String(), v.Type.String())
		}
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().Bool("values", false, "print the values encountered so far, with their types")
}
