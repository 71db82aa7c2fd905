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
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/term"
)

// canTrustSynthesisResult determines whether the configuration
// guarantees returned solutions are correct by construction.  Sampling
// in trust mode explicitly renounces soundness, hence its results may
// only be warned about, never treated as internal errors.
func canTrustSynthesisResult(opts *smt.Options) bool {
	return opts.CegisSampleMode != smt.CegisSampleTrust
}

// checkSynthSolution independently confirms a candidate solution by
// substituting it into the negated conjecture and checking the result
// unsatisfiable with a fresh reasoner.  A satisfiable outcome under a
// trusted configuration is an internal invariant violation; anything
// inconclusive is only warned about.  The resource manager is disabled
// for the duration so verification is never interrupted midway.
func (p *Solver) checkSynthSolution(solMap map[*term.Term]*term.Term) {
	log.Info("synth: checking synthesis solution")
	//
	canTrust := canTrustSynthesisResult(p.engine.Options())
	if !canTrust {
		log.Warn("synth: check-synth-sol is not guaranteed to pass with the current options")
	}
	//
	if len(solMap) == 0 {
		panic("checkSynthSolution: got empty solution")
	}
	//
	restore := p.engine.ResourceManager().Disable()
	defer restore()
	//
	r := p.registry
	// solution as a substitution, plus skolem counterparts for the
	// higher-order fallback
	fsubs := term.NewSubs(r)
	psubs := term.NewSubs(r)
	//
	var eqs []*term.Term
	//
	for _, f := range sortedKeys(solMap) {
		sol := solMap[f]
		log.Debugf("synth: %s --> %s", f, sol)
		//
		fsubs.Add(f, sol)
		psubs.Add(f, r.Var(f.Name()+"!sk", f.Type()))
		eqs = append(eqs, r.Equal(f, sol))
	}
	// start a fresh reasoner to check the solution, with its own
	// verification and recursive definitions disabled
	solChecker := p.initializeSygusSubsolver()
	solChecker.Options().CheckSynthSol = false
	solChecker.Options().SygusRecFun = false
	//
	conjBody := p.conj
	if conjBody.Kind() == term.SygusConjecture {
		conjBody = conjBody.Body()
	}
	// apply define-fun substitutions first: defined functions may
	// themselves reference the functions-to-synthesize
	conjBody = p.engine.Preprocessor().ApplySubstitutions(conjBody)
	// substitute the solution and rewrite
	conjBody = p.rw.Rewrite(fsubs.Apply(conjBody))
	// with forward declarations the body may still contain
	// functions-to-synthesize as free variables; in that case add
	// (higher-order) equalities and replace the functions by skolems
	if term.HasFreeVariables(conjBody) && containsAny(conjBody, psubs) {
		conjBody = r.And(append([]*term.Term{conjBody}, eqs...)...)
		conjBody = p.rw.Rewrite(psubs.Apply(conjBody))
	}
	//
	log.Debugf("synth: substituted body of conjecture to %s", conjBody)
	//
	if err := solChecker.AssertFormula(conjBody); err != nil {
		log.Warnf("synth: could not check solution: %v", err)
		return
	}
	//
	result := solChecker.CheckSat()
	log.Debugf("synth: solution check: %s", result)
	//
	switch result.Status() {
	case smt.Unsat:
		// verified
	case smt.Sat:
		msg := "checkSynthSolution: produced solution leads to satisfiable negated conjecture"
		if canTrust {
			panic(msg)
		}
		//
		log.Warn(msg)
	default:
		log.Warn("checkSynthSolution: could not check solution, result unknown")
	}
}

// containsAny checks whether any substituted variable of subs occurs
// free in t.
func containsAny(t *term.Term, subs *term.Subs) bool {
	return subs.Apply(t) != t
}

// sortedKeys returns the keys of a solution map in a deterministic
// order.
func sortedKeys(solMap map[*term.Term]*term.Term) []*term.Term {
	keys := make([]*term.Term, 0, len(solMap))
	for f := range solMap {
		keys = append(keys, f)
	}
	//
	sort.Slice(keys, func(i, j int) bool { return keys[i].Id() < keys[j].Id() })
	//
	return keys
}
