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
	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/term"
)

// CheckSynth runs a synthesis check over the current session state.
// With isNext the search continues from the previous check, asking the
// same subsolver for a further solution; otherwise the conjecture is
// always reconstructed.
func (p *Solver) CheckSynth(isNext bool) (SynthResult, error) {
	log.Debug("synth: check-synth")
	//
	if isNext {
		if !p.usingSygusSubsolver() {
			return SynthResult{}, &UnsupportedError{
				Msg: "check-synth-next requires incremental solving",
			}
		} else if p.conj == nil {
			return SynthResult{}, &UnsupportedError{
				Msg: "check-synth-next requires a previous successful check",
			}
		}
	} else {
		// not using check-synth-next, hence always reconstruct
		p.stale.Set(true)
	}
	// backtracking past the spawning point leaves the handle pointing at
	// a different subsolver than the owned one; reconstruct in that case
	if p.usingSygusSubsolver() && p.subsolverCd.Get() != p.subsolver {
		p.stale.Set(true)
	}
	//
	if p.stale.Get() {
		if err := p.buildConjecture(); err != nil {
			return SynthResult{}, err
		}
		// if we are using a subsolver, initialize it now
		if p.usingSygusSubsolver() {
			p.subsolver = p.initializeSygusSubsolver()
			// store the non-owning handle (context-dependent)
			p.subsolverCd.Set(p.subsolver)
			// also assert the internal sygus conjecture
			if err := p.subsolver.AssertFormula(p.conj); err != nil {
				return SynthResult{}, err
			}
		}
	} else if p.usingSygusSubsolver() && p.subsolver == nil {
		panic("fresh conjecture without a subsolver")
	}
	//
	var r smt.Result
	//
	if p.usingSygusSubsolver() {
		log.Debug("synth: check sat with subsolver")
		r = p.subsolver.CheckSat()
	} else {
		log.Debug("synth: check sat with main solver")
		// repeated differing queries require incremental solving
		if p.directConj != nil && p.directConj != p.conj {
			return SynthResult{}, &UnsupportedError{
				Msg: "cannot make repeated synthesis queries unless incremental solving is enabled",
			}
		}
		//
		p.directConj = p.conj
		r = p.engine.SingleCallCheckSat([]*term.Term{p.conj})
	}
	//
	log.Debugf("synth: got %s", r)
	// The status above is typically unknown: a correct solution makes
	// the negated conjecture unsatisfiable, but the reasoner cannot
	// always answer that (e.g. under recursive definitions), and in
	// incremental mode answering unsat would preclude further solutions.
	// Solution extraction is therefore the authoritative signal.
	solMap := make(map[*term.Term]*term.Term)
	//
	if p.GetSynthSolutions(solMap) {
		if p.engine.Options().CheckSynthSol {
			p.checkSynthSolution(solMap)
		}
		//
		return SolutionResult(), nil
	} else if r.Status() == smt.Unsat {
		// unsat means no solution
		return NoSolutionResult(), nil
	}
	//
	return UnknownSynthResult(r.UnknownReason()), nil
}

// buildConjecture assembles the negated synthesis conjecture from the
// asserted constraints and declared variables and functions, identifies
// trivially unused functions, and caches the result.
func (p *Solver) buildConjecture() error {
	r := p.registry
	//
	log.Debug("synth: constructing sygus conjecture")
	//
	body := r.And(p.constraints.Contents()...)
	// if there are no constraints, then assumptions are irrelevant
	if !p.constraints.IsEmpty() && !p.assumps.IsEmpty() {
		body = r.Implies(r.And(p.assumps.Contents()...), body)
	} else if p.constraints.IsEmpty() && !p.assumps.IsEmpty() {
		log.Debug("synth: assumptions are irrelevant without constraints")
	}
	//
	body = r.Not(body)
	//
	if !p.vars.IsEmpty() {
		boundVars := r.BoundVarListOf(p.vars.Contents()...)
		body = r.Exists(boundVars, body)
	}
	// cannot omit unused functions in incremental or streaming mode
	opts := p.engine.Options()
	inferTrivial := !opts.SygusStream && !opts.IncrementalSolving
	//
	var ntrivSynthFuns []*term.Term
	//
	if inferTrivial {
		ntrivSynthFuns = p.inferTrivialFuns(body)
	} else {
		p.trivialFuns = nil
		ntrivSynthFuns = p.funSymbols.Contents()
	}
	//
	if len(ntrivSynthFuns) > 0 {
		body = r.MkSygusConjecture(ntrivSynthFuns, body)
	}
	//
	log.Debugf("synth: conjecture %s", body)
	//
	p.stale.Set(false)
	p.conj = body
	//
	return nil
}

// inferTrivialFuns partitions the declared functions into those
// occurring in the conjecture (directly, or through the grammar of an
// occurring function) and the trivial remainder.  The free variables are
// those of the rewritten existential body, not of the existential
// itself, which could permit eliminating variables equal to terms over
// functions-to-synthesize.
func (p *Solver) inferTrivialFuns(body *term.Term) []*term.Term {
	ppBody := body
	if ppBody.Kind() == term.Exists {
		ppBody = ppBody.Body()
	}
	//
	ppBody = p.engine.Preprocessor().ApplySubstitutions(ppBody)
	ppBody = p.rw.Rewrite(ppBody)
	//
	vs := make(map[*term.Term]bool)
	term.FreeVariables(ppBody, vs)
	//
	var ntrivSynthFuns []*term.Term
	//
	for i := 0; i < 2; i++ {
		p.trivialFuns = nil
		ntrivSynthFuns = nil
		//
		for _, f := range p.funSymbols.Contents() {
			if vs[f] {
				ntrivSynthFuns = append(ntrivSynthFuns, f)
			} else {
				log.Debugf("synth: trivial function %s", f)
				p.trivialFuns = append(p.trivialFuns, f)
			}
		}
		// grammars of occurring functions may depend on otherwise
		// unused ones; account for that with one expansion pass
		if i == 0 && len(p.trivialFuns) > 0 {
			prevSize := len(vs)
			//
			for _, f := range ntrivSynthFuns {
				if tnp := p.registry.SygusTypeOf(f); tnp != nil {
					grammarFreeVariables(tnp, vs)
				}
			}
			//
			if len(vs) == prevSize {
				// no new symbols found
				break
			}
		} else {
			break
		}
	}
	//
	return ntrivSynthFuns
}

// grammarFreeVariables adds the free variables of every constructor
// operator reachable from the given sygus datatype type to the set.
func grammarFreeVariables(tn *term.Type, vs map[*term.Term]bool) {
	processed := map[*term.Datatype]bool{tn.Datatype(): true}
	toProcess := []*term.Datatype{tn.Datatype()}
	//
	for index := 0; index < len(toProcess); index++ {
		dt := toProcess[index]
		//
		bound := make(map[*term.Term]bool)
		for _, v := range dt.SygusVarList() {
			bound[v] = true
		}
		//
		for _, c := range dt.Constructors() {
			free := make(map[*term.Term]bool)
			term.FreeVariables(c.SygusOp(), free)
			//
			for v := range free {
				if !bound[v] {
					vs[v] = true
				}
			}
			//
			for j := 0; j < c.NumArgs(); j++ {
				if at := c.ArgType(j); at.IsSygusDatatype() && !processed[at.Datatype()] {
					processed[at.Datatype()] = true
					toProcess = append(toProcess, at.Datatype())
				}
			}
		}
	}
}

// GetSynthSolutions retrieves the candidate realization for every
// declared function-to-synthesize following a successful check,
// fabricating degenerate realizations for trivially unused functions.
// It returns false if no candidate assignment is available.
func (p *Solver) GetSynthSolutions(solMap map[*term.Term]*term.Term) bool {
	var ret bool
	//
	if p.usingSygusSubsolver() {
		if p.subsolver != nil {
			ret = p.subsolver.GetSubsolverSynthSolutions(solMap)
		}
	} else {
		ret = p.engine.Reasoner().GetSubsolverSynthSolutions(solMap)
	}
	//
	if ret {
		// also fabricate solutions for trivial functions
		for _, f := range p.trivialFuns {
			sf := p.registry.MkSygusTermFor(f)
			log.Debugf("synth: got %s for trivial function %s", sf, f)
			solMap[f] = sf
		}
	}
	//
	return ret
}

// initializeSygusSubsolver spawns a fresh reasoner seeded with the
// session's definitions and auxiliary assertions.  The cached conjecture
// itself is never carried over: in direct mode it has been asserted to
// the main reasoner, and when spawning for the main check it is asserted
// separately by the caller.
func (p *Solver) initializeSygusSubsolver() smt.Reasoner {
	subsolver := p.engine.SpawnSubsolver()
	as := p.engine.Assertions()
	//
	processed := make(map[*term.Term]bool)
	processed[p.conj] = true
	// carry the ordinary define-fun definitions
	for _, def := range as.GetAssertionListDefinitions() {
		if def.Kind() != term.Equal {
			continue
		}
		//
		var formals []*term.Term
		//
		dbody := def.Child(1)
		if dbody.Kind() == term.Lambda {
			formals = dbody.BoundVars()
			dbody = dbody.Body()
		}
		//
		if err := subsolver.DefineFunction(def.Child(0), formals, dbody); err != nil {
			log.Warnf("synth: could not carry definition %s: %v", def, err)
		}
		//
		processed[def] = true
	}
	// also assert auxiliary assertions, typically the quantified axioms
	// produced for recursive definitions
	for _, a := range as.GetAssertionList() {
		if !processed[a] {
			if err := subsolver.AssertFormula(a); err != nil {
				log.Warnf("synth: could not carry assertion %s: %v", a, err)
			}
		}
	}
	//
	return subsolver
}
