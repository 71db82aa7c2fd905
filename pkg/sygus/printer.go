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
package sygus

import (
	"fmt"
	"strings"

	"github.com/consensys/go-sygus/pkg/term"
)

// printSolutions writes a solution set in SyGuS-IF output form: a
// parenthesised list of define-fun commands, one per declared
// function-to-synthesize, in declaration order.
func (p *Interpreter) printSolutions(solMap map[*term.Term]*term.Term) {
	fmt.Fprintln(p.out, "(")
	//
	for _, fn := range p.solver.GetSynthFunctions() {
		if sol, ok := solMap[fn.Symbol]; ok {
			fmt.Fprintln(p.out, DefineFunFor(fn.Symbol, sol))
		}
	}
	//
	fmt.Fprintln(p.out, ")")
}

// DefineFunFor renders the realization of a function-to-synthesize as a
// define-fun command.
func DefineFunFor(fn *term.Term, sol *term.Term) string {
	var formals []*term.Term
	//
	body := sol
	//
	if sol.Kind() == term.Lambda {
		formals = sol.BoundVars()
		body = sol.Body()
	}
	//
	var builder strings.Builder
	//
	builder.WriteString("(define-fun ")
	builder.WriteString(fn.Name())
	builder.WriteString(" (")
	//
	for i, v := range formals {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(fmt.Sprintf("(%s %s)", v.Name(), v.Type()))
	}
	//
	builder.WriteString(") ")
	builder.WriteString(body.Type().String())
	builder.WriteString(" ")
	builder.WriteString(body.String())
	builder.WriteString(")")
	//
	return builder.String()
}
