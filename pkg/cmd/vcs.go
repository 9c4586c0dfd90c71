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

	"github.com/consensys/go-hoare/pkg/util/source"
	"github.com/consensys/go-hoare/pkg/vcgen"
	"github.com/spf13/cobra"
)

var vcsCmd = &cobra.Command{
	Use:   "vcs [flags] program_file",
	Short: "print the verification conditions of a program.",
	Long: `Print the verification conditions generated for every function of a given
	program, without discharging them.  Each is printed as the facts assumed on
	the path leading to it, followed by the goal to be proved.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		program, srcmap := readProgram(args[0])
		obligations, errs := vcgen.Generate(program, vcConfig(cmd))
		//
		for _, err := range errs {
			printError(srcmap, err)
		}
		//
		for _, o := range obligations {
			printObligation(o, srcmap, GetFlag(cmd, "formula"))
		}
		//
		if len(errs) > 0 {
			os.Exit(2)
		}
	},
}

func printObligation(o *vcgen.Obligation, srcmap *source.Map[any], formula bool) {
	if loc, ok := location(srcmap, o.Node); ok {
		fmt.Printf("%s [%s]\n", o.String(), loc)
	} else {
		fmt.Println(o.String())
	}
	//
	if formula {
		fmt.Printf("   %s\n", o.Formula().String())
		return
	}
	//
	for _, a := range o.Assumptions {
		fmt.Printf("   assume %s\n", a.String())
	}
	//
	fmt.Printf("   prove %s\n", o.Goal.String())
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(vcsCmd)
	vcsCmd.Flags().Bool("formula", false, "print each condition as a single implication")
}
