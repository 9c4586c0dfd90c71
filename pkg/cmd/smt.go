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

	"github.com/consensys/go-hoare/pkg/smt"
	"github.com/consensys/go-hoare/pkg/vcgen"
	"github.com/spf13/cobra"
)

var smtCmd = &cobra.Command{
	Use:   "smt [flags] program_file",
	Short: "print the SMT-LIB queries for a program.",
	Long: `Print the SMT-LIB query generated for each verification condition of a given
	program.  Each query is a self-contained script which is unsatisfiable exactly
	when its condition holds, and can be given directly to a solver.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			program, srcmap   = readProgram(args[0])
			obligations, errs = vcgen.Generate(program, vcConfig(cmd))
			index             = GetInt(cmd, "index")
			formatter         = smt.NewFormatter(terminalWidth())
		)
		//
		for _, err := range errs {
			printError(srcmap, err)
		}
		//
		for _, o := range obligations {
			if index >= 0 && o.Index != index {
				continue
			}
			//
			query, err := o.Query()
			if err != nil {
				printError(srcmap, err)
				os.Exit(2)
			}
			//
			if GetFlag(cmd, "flat") {
				fmt.Println(query.String(nil))
			} else {
				fmt.Println(query.String(formatter))
			}
		}
		//
		if len(errs) > 0 {
			os.Exit(2)
		}
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(smtCmd)
	smtCmd.Flags().Int("index", -1, "print only the query of the condition with this index")
	smtCmd.Flags().Bool("flat", false, "print each command on a single line")
}
