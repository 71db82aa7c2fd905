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
package synth

import (
	"github.com/consensys/go-sygus/pkg/term"
)

// checkDefinitionsSygusDt validates every constructor operator reachable
// from the given grammar: any free variable of an operator must be
// either another function-to-synthesize or a member of the grammar's
// formal argument list.  The walk visits each sygus datatype at most
// once, hence terminates on cyclic grammars.
func (p *Solver) checkDefinitionsSygusDt(fn *term.Term, tn *term.Type) error {
	processed := make(map[*term.Datatype]bool)
	toProcess := []*term.Type{tn}
	processed[tn.Datatype()] = true
	//
	for index := 0; index < len(toProcess); index++ {
		dt := toProcess[index].Datatype()
		// functions-to-synthesize are always in scope, including the one
		// being declared
		scope := map[*term.Term]bool{fn: true}
		for _, f := range p.funSymbols.Contents() {
			scope[f] = true
		}
		// as is the grammar's formal argument list
		for _, v := range dt.SygusVarList() {
			scope[v] = true
		}
		//
		for _, c := range dt.Constructors() {
			op := c.SygusOp()
			//
			if _, outside := term.HasFreeVariablesOutside(op, scope); outside {
				return &GrammarError{Fun: fn, Op: op}
			}
			// queue argument non-terminals
			for j := 0; j < c.NumArgs(); j++ {
				tnc := c.ArgType(j)
				//
				if tnc.IsSygusDatatype() && !processed[tnc.Datatype()] {
					processed[tnc.Datatype()] = true
					toProcess = append(toProcess, tnc)
				}
			}
		}
	}
	//
	return nil
}
