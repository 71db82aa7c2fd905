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
package enum

import (
	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/term"
)

// Number of evaluation points used for sample-based screening.
const sampleScreenPoints = 32

// checkSynthConjecture attempts to discharge a synthesis conjecture of
// the form (sygus-forall (f...) (exists (v...) negBody)), where negBody
// is the negated synthesis obligation.  A candidate realization of the
// bound functions is accepted when negBody, under the candidate, has no
// satisfying assignment within the bounded search space.  Auxiliary
// plain assertions are conjoined into the refutation query.
func (p *Solver) checkSynthConjecture(conj *term.Term, plain []*term.Term) smt.Result {
	funs := conj.BoundVars()
	inner := conj.Body()
	//
	var searchVars []*term.Term
	//
	if inner.Kind() == term.Exists {
		searchVars = inner.BoundVars()
		inner = inner.Body()
	}
	//
	negBody := p.rw.Rewrite(p.registry.And(append(plain, inner)...))
	// First, establish whether the obligation is refutable independently
	// of the functions-to-synthesize; if so, no realization exists.
	if p.refutesAllCandidates(negBody, funs) {
		return smt.UnsatResult()
	}
	// Enumerate candidate realizations per function.
	candidates := make([][]*term.Term, len(funs))
	//
	for i, f := range funs {
		candidates[i] = p.candidatesFor(f)
		//
		if len(candidates[i]) == 0 {
			return smt.UnknownResult("no candidates for " + f.Name())
		}
	}
	//
	if p.searchCandidates(funs, candidates, negBody, searchVars) {
		// Deliberately not Sat: the conjecture was solved, which the
		// core detects through GetSubsolverSynthSolutions.
		return smt.UnknownResult("")
	} else if p.rm.Exhausted() {
		return smt.UnknownResult("resource limit exceeded")
	}
	//
	return smt.UnknownResult("candidate space exhausted")
}

// refutesAllCandidates checks whether negBody is valid regardless of the
// functions-to-synthesize, by abstracting every application of such a
// function with a fresh variable and rewriting.  If the abstraction
// rewrites to true, the original obligation is unsatisfiable for every
// candidate.
func (p *Solver) refutesAllCandidates(negBody *term.Term, funs []*term.Term) bool {
	funSet := make(map[*term.Term]bool, len(funs))
	for _, f := range funs {
		funSet[f] = true
	}
	//
	fresh := make(map[*term.Term]*term.Term)
	abstracted, ok := p.abstractApplications(negBody, funSet, fresh)
	//
	if !ok {
		return false
	}
	//
	return p.rw.Rewrite(abstracted).IsTrue()
}

// abstractApplications replaces every application of a given function
// symbol by a fresh variable, identical applications sharing the fresh
// variable.  It fails (returns false) on higher-order occurrences, i.e.
// a function symbol appearing outside application position.
func (p *Solver) abstractApplications(t *term.Term, funs map[*term.Term]bool,
	fresh map[*term.Term]*term.Term) (*term.Term, bool) {
	if v, ok := fresh[t]; ok {
		return v, true
	}
	//
	switch {
	case funs[t]:
		if !t.Type().IsFun() {
			// first-order constant to synthesize
			v := p.registry.FreshBoundVar(t.Type())
			fresh[t] = v
			//
			return v, true
		}
		// higher-order occurrence
		return nil, false
	case t.Kind() == term.Apply && funs[t.Child(0)]:
		args := make([]*term.Term, t.Len()-1)
		//
		for i := range args {
			a, ok := p.abstractApplications(t.Child(i+1), funs, fresh)
			if !ok {
				return nil, false
			}
			//
			args[i] = a
		}
		// identical applications share the abstraction only when their
		// arguments were identical, which keying on t provides.
		v := p.registry.FreshBoundVar(t.Type())
		fresh[t] = v
		//
		return v, true
	case t.Kind().IsBinder():
		// abstraction under binders is not attempted
		return nil, false
	case t.Len() == 0:
		return t, true
	}
	//
	changed := false
	children := make([]*term.Term, t.Len())
	//
	for i, c := range t.Children() {
		a, ok := p.abstractApplications(c, funs, fresh)
		if !ok {
			return nil, false
		}
		//
		children[i] = a
		changed = changed || a != c
	}
	//
	if !changed {
		return t, true
	}
	//
	return p.rebuildTerm(t, children), true
}

// searchCandidates walks the joint candidate space, accepting the first
// assignment under which negBody has no satisfying valuation of the
// search variables within bounds.  On success the assignment is stored
// for retrieval.
func (p *Solver) searchCandidates(funs []*term.Term, candidates [][]*term.Term,
	negBody *term.Term, searchVars []*term.Term) bool {
	sampling := p.opts.CegisSampleMode != smt.CegisSampleNone
	indices := make([]int, len(funs))
	tried := 0
	//
	for {
		if tried >= defaultMaxCandidates || p.rm.Exhausted() {
			return false
		}
		//
		tried++
		p.rm.Spend(1)
		//
		subs := term.NewSubs(p.registry)
		for i, f := range funs {
			subs.Add(f, candidates[i][indices[i]])
		}
		//
		if p.acceptCandidate(subs, negBody, searchVars, sampling) {
			p.solved = true
			p.solutions = make(map[*term.Term]*term.Term, len(funs))
			//
			for i, f := range funs {
				p.solutions[f] = candidates[i][indices[i]]
				log.Debugf("enum: candidate %s --> %s", f, candidates[i][indices[i]])
			}
			//
			return true
		}
		// advance odometer
		i := 0
		for ; i < len(indices); i++ {
			indices[i]++
			if indices[i] < len(candidates[i]) {
				break
			}
			//
			indices[i] = 0
		}
		//
		if i == len(indices) {
			return false
		}
	}
}

// acceptCandidate checks a single candidate assignment: the substituted
// obligation must be refuted, either outright by rewriting to false or
// by failing the bounded counterexample search.
func (p *Solver) acceptCandidate(subs *term.Subs, negBody *term.Term,
	searchVars []*term.Term, sampling bool) bool {
	substituted := p.rw.Rewrite(subs.Apply(negBody))
	//
	switch {
	case substituted.IsFalse():
		return true
	case substituted.IsTrue():
		return false
	}
	// sample-based screening rejects most candidates cheaply
	if sampling && p.failsOnSample(substituted, searchVars) {
		return false
	}
	// trust mode skips the full counterexample search
	if p.opts.CegisSampleMode == smt.CegisSampleTrust {
		return true
	}
	//
	found, _ := p.searchSatWitness(substituted, sortedFreeVariables(substituted))
	//
	return !found
}

// failsOnSample evaluates the substituted obligation on a handful of
// assignments, reporting whether any satisfies it (i.e. is a
// counterexample to the candidate).
func (p *Solver) failsOnSample(substituted *term.Term, searchVars []*term.Term) bool {
	domains := make([][]*term.Term, len(searchVars))
	//
	for i, v := range searchVars {
		if domains[i] = p.domainOf(v.Type()); domains[i] == nil {
			return false
		}
	}
	//
	count := 0
	failed := false
	//
	p.forEachAssignment(searchVars, domains, func(subs *term.Subs) bool {
		if count >= sampleScreenPoints {
			return false
		}
		//
		count++
		//
		if p.rw.Rewrite(subs.Apply(substituted)).IsTrue() {
			failed = true
			return false
		}
		//
		return true
	})
	//
	return failed
}

// rebuildTerm reconstructs t over new children.
func (p *Solver) rebuildTerm(t *term.Term, children []*term.Term) *term.Term {
	r := p.registry
	//
	switch t.Kind() {
	case term.Not:
		return r.Not(children[0])
	case term.And:
		return r.And(children...)
	case term.Or:
		return r.Or(children...)
	case term.Implies:
		return r.Implies(children[0], children[1])
	case term.Ite:
		return r.Ite(children[0], children[1], children[2])
	case term.Equal:
		return r.Equal(children[0], children[1])
	case term.Add:
		return r.Add(children...)
	case term.Sub:
		return r.Sub(children[0], children[1])
	case term.Neg:
		return r.Neg(children[0])
	case term.Mul:
		return r.Mul(children...)
	case term.Leq, term.Lt, term.Geq, term.Gt:
		return r.Compare(t.Kind(), children[0], children[1])
	case term.Apply:
		return r.Apply(children[0], children[1:]...)
	}
	// binders and leaves are never rebuilt here
	panic("unreachable")
}
