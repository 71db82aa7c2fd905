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

// Package enum provides a bounded enumerative reasoner.  It decides
// ground formulas by evaluation, searches bounded variable assignments
// for satisfiability, and discharges synthesis conjectures by
// enumerating candidate terms from the attached grammars (or a default
// grammar derived from the function signature) and screening them
// against bounded counterexample search.
//
// The backend is deliberately incomplete: it answers Unsat only when it
// has a finite argument (the formula rewrites to false, or a finite
// domain was exhausted, or the conjecture is refutable independently of
// the functions-to-synthesize), and otherwise answers Unknown.  In
// particular a solved synthesis conjecture is reported as Unknown with
// the candidate assignment available through
// GetSubsolverSynthSolutions, mirroring the contract the synthesis core
// relies upon.
package enum

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/term/rewrite"
)

// Default bound on the absolute value of integers tried during
// assignment search.
const defaultGridBound = 4

// Default bound on the size of enumerated candidate terms.
const defaultMaxTermSize = 8

// Default cap on the number of candidates tried per conjecture.
const defaultMaxCandidates = 100000

// Solver is a bounded enumerative reasoner.
type Solver struct {
	engine   *smt.Engine
	registry *term.Registry
	rw       *rewrite.Rewriter
	opts     *smt.Options
	rm       *smt.ResourceManager
	// Asserted formulas, de-duplicated.
	asserted    []*term.Term
	assertedSet map[*term.Term]bool
	// Definitions introduced via DefineFunction.
	defs *term.Subs
	// Candidate assignment found by the most recent successful check of
	// a synthesis conjecture.
	solutions map[*term.Term]*term.Term
	solved    bool
}

var _ smt.Reasoner = (*Solver)(nil)

// Factory spawns an enumerative reasoner over the given engine; it
// satisfies smt.SubsolverFactory.
func Factory(engine *smt.Engine, opts *smt.Options) smt.Reasoner {
	return &Solver{
		engine:      engine,
		registry:    engine.Registry(),
		rw:          rewrite.NewRewriter(engine.Registry()),
		opts:        opts,
		rm:          engine.ResourceManager(),
		assertedSet: make(map[*term.Term]bool),
		defs:        term.NewSubs(engine.Registry()),
	}
}

// AssertFormula adds a formula to this reasoner's assertions.
func (p *Solver) AssertFormula(t *term.Term) error {
	if p.assertedSet[t] {
		return nil
	}
	//
	if t.Kind() == term.SygusConjecture {
		for _, a := range p.asserted {
			if a.Kind() == term.SygusConjecture {
				return errors.New("multiple synthesis conjectures asserted")
			}
		}
	}
	//
	p.assertedSet[t] = true
	p.asserted = append(p.asserted, t)
	//
	return nil
}

// DefineFunction introduces a defined function, treated as a
// substitution applied to all formulas at check time.
func (p *Solver) DefineFunction(sym *term.Term, formals []*term.Term, body *term.Term) error {
	rhs := body
	//
	if len(formals) > 0 {
		rhs = p.registry.Lambda(p.registry.BoundVarListOf(formals...), body)
	}
	//
	p.defs.Add(sym, rhs)
	//
	return nil
}

// Options returns this reasoner's writable configuration.
func (p *Solver) Options() *smt.Options {
	return p.opts
}

// GetSubsolverSynthSolutions reports the candidate assignment found by
// the most recent check, if any.
func (p *Solver) GetSubsolverSynthSolutions(solMap map[*term.Term]*term.Term) bool {
	if !p.solved {
		return false
	}
	//
	for f, s := range p.solutions {
		solMap[f] = s
	}
	//
	return true
}

// CheckSat runs one bounded decision attempt over the current
// assertions.
func (p *Solver) CheckSat() smt.Result {
	p.rm.Reset()
	p.solved = false
	p.solutions = nil
	// expand definitions and normalize
	var conjecture *term.Term
	//
	var plain []*term.Term
	//
	for _, a := range p.asserted {
		a = p.rw.Rewrite(p.defs.Apply(a))
		//
		if a.Kind() == term.SygusConjecture {
			conjecture = a
		} else if !a.IsTrue() {
			plain = append(plain, a)
		}
		//
		if a.IsFalse() {
			return smt.UnsatResult()
		}
	}
	//
	if conjecture != nil {
		log.Debugf("enum: checking synthesis conjecture %s", conjecture)
		return p.checkSynthConjecture(conjecture, plain)
	}
	//
	return p.checkPlain(plain)
}
