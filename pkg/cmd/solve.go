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

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/smt/enum"
	"github.com/consensys/go-sygus/pkg/smt/proc"
	"github.com/consensys/go-sygus/pkg/synth"
	"github.com/consensys/go-sygus/pkg/sygus"
	"github.com/consensys/go-sygus/pkg/util/sexp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve [flags] sygus_file(s)",
	Short: "Solve one or more SyGuS-IF problem files.",
	Long: `Solve one or more SyGuS-IF (version 2) problem files, printing for each
	either the synthesised definitions, "infeasible" when no solution
	exists, or "fail" when the solver gives up.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		opts := readOptions(cmd)
		//
		for _, filename := range args {
			solveFile(filename, opts)
		}
	},
}

// Assemble the solver configuration from the configuration file (if
// given) and any command-line overrides.
func readOptions(cmd *cobra.Command) *smt.Options {
	var (
		opts *smt.Options
		err  error
	)
	//
	if config := GetString(cmd, "config"); config != "" {
		opts, err = smt.LoadOptions(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	} else {
		opts = smt.DefaultOptions()
	}
	// Command-line flags take precedence over the configuration file.
	if cmd.Flags().Changed("incremental") {
		opts.IncrementalSolving = GetFlag(cmd, "incremental")
	}
	//
	if cmd.Flags().Changed("check-solutions") {
		opts.CheckSynthSol = GetFlag(cmd, "check-solutions")
	}
	//
	if cmd.Flags().Changed("backend") {
		opts.Backend = GetString(cmd, "backend")
	}
	//
	if cmd.Flags().Changed("solver") {
		opts.SolverCommand = GetStringArray(cmd, "solver")
		opts.Backend = "proc"
	}
	//
	if cmd.Flags().Changed("rlimit") {
		opts.ResourceLimit = GetUint64(cmd, "rlimit")
	}
	//
	return opts
}

// Solve a single problem file, exiting on failure.
func solveFile(filename string, opts *smt.Options) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	var factory smt.SubsolverFactory
	//
	switch opts.Backend {
	case "enum", "":
		factory = enum.Factory
	case "proc":
		factory = proc.Factory
	default:
		fmt.Printf("unknown backend %q\n", opts.Backend)
		os.Exit(2)
	}
	// Each file gets a fresh engine, so state never leaks across files.
	engine := smt.NewEngine(opts.Clone(), factory)
	solver := synth.NewSolver(engine)
	interp := sygus.NewInterpreter(solver, os.Stdout)
	//
	srcfile := sexp.NewSourceFile(filename, bytes)
	if err := interp.Run(srcfile); err != nil {
		if serr, ok := err.(*sexp.SyntaxError); ok {
			printSyntaxError(serr)
		} else {
			fmt.Println(err)
		}
		//
		os.Exit(2)
	}
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().BoolP("incremental", "i", false, "enable incremental solving (check-synth-next)")
	solveCmd.Flags().Bool("check-solutions", false, "independently verify every returned solution")
	solveCmd.Flags().StringP("backend", "b", "", "select reasoner backend (enum or proc)")
	solveCmd.Flags().StringArrayP("solver", "s", nil, "external solver command (implies proc backend)")
	solveCmd.Flags().Uint64("rlimit", 0, "resource limit per check (0 = unbounded)")
}
