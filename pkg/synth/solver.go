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

// Package synth implements the SyGuS problem constructor and solution
// verifier.  A Solver accumulates declared synthesis variables,
// functions-to-synthesize (with optional grammars), constraints and
// assumptions across an interactive session, assembles them into a
// single negated synthesis conjecture, drives a background reasoner
// over it, and independently verifies candidate solutions.
package synth

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/term/rewrite"
	"github.com/consensys/go-sygus/pkg/util/backtrack"
)

// SynthFunction pairs a declared function-to-synthesize with its
// grammar, if any.
type SynthFunction struct {
	Symbol  *term.Term
	Grammar *term.Type
}

// Solver accumulates a synthesis problem and discharges it through a
// background reasoner.  All declarations and assertions follow the user
// context stack of the enclosing engine: popping a frame reverts them.
type Solver struct {
	engine   *smt.Engine
	registry *term.Registry
	rw       *rewrite.Rewriter
	// Declared synthesis variables.
	vars *backtrack.List[*term.Term]
	// Declared functions-to-synthesize.
	funSymbols  *backtrack.List[*term.Term]
	constraints *backtrack.List[*term.Term]
	assumps     *backtrack.List[*term.Term]
	// Whether the cached conjecture reflects the current state.
	stale *backtrack.Value[bool]
	// Non-owning handle to the subsolver the current frame was working
	// with.  Diverges from the owned subsolver exactly on backtrack
	// across the spawning point.
	subsolverCd *backtrack.Value[smt.Reasoner]
	// Functions omitted from the conjecture as unused; rebuilt per check.
	trivialFuns []*term.Term
	// Cached conjecture; rebuilt per check while stale.
	conj *term.Term
	// Owned background reasoner (incremental mode only).
	subsolver smt.Reasoner
	// Conjecture discharged by the in-process reasoner (direct mode
	// only); guards against unsupported repeated queries.
	directConj *term.Term
}

// NewSolver constructs a synthesis solver over the given engine.
func NewSolver(engine *smt.Engine) *Solver {
	ctx := engine.Context()
	//
	return &Solver{
		engine:      engine,
		registry:    engine.Registry(),
		rw:          rewrite.NewRewriter(engine.Registry()),
		vars:        backtrack.NewList[*term.Term](ctx),
		funSymbols:  backtrack.NewList[*term.Term](ctx),
		constraints: backtrack.NewList[*term.Term](ctx),
		assumps:     backtrack.NewList[*term.Term](ctx),
		stale:       backtrack.NewValue(ctx, true),
		subsolverCd: backtrack.NewValue[smt.Reasoner](ctx, nil),
	}
}

// Engine returns the enclosing session environment.
func (p *Solver) Engine() *smt.Engine {
	return p.engine
}

// DeclareSygusVar declares a universal variable of the synthesis
// conjecture.  The conjecture does not become stale: a variable never
// mentioned by any constraint has no effect on it.
func (p *Solver) DeclareSygusVar(v *term.Term) {
	log.Debugf("synth: declare-var %s : %s", v, v.Type())
	p.vars.Append(v)
}

// DeclareSynthFun declares a function-to-synthesize.  A non-empty formal
// parameter list is attached to the symbol, as is the grammar when
// present; an ill-scoped grammar fails the declaration, leaving session
// state untouched.
func (p *Solver) DeclareSynthFun(fn *term.Term, sygusType *term.Type,
	isInv bool, vars []*term.Term) error {
	log.Debugf("synth: declare synth-fun %s (isInv=%t)", fn, isInv)
	// reject ill-formed grammars before touching any state
	hasGrammar := sygusType != nil && sygusType.IsSygusDatatype()
	//
	if hasGrammar {
		if err := p.checkDefinitionsSygusDt(fn, sygusType); err != nil {
			return err
		}
	}
	//
	p.funSymbols.Append(fn)
	//
	if len(vars) > 0 {
		bvl := p.registry.BoundVarListOf(vars...)
		p.registry.SetSygusArgumentList(fn, bvl)
	}
	//
	if hasGrammar {
		p.registry.SetSygusType(fn, sygusType)
	}
	// sygus conjecture is now stale
	p.stale.Set(true)
	//
	return nil
}

// AssertSygusConstraint records a constraint (or assumption) over the
// declared variables and functions.  Top-level conjunctions are split
// into their conjuncts; a top-level universal quantifier is equivalent
// to declaring its variables and asserting its body.
func (p *Solver) AssertSygusConstraint(n *term.Term, isAssume bool) {
	if n.Kind() == term.And {
		for _, nc := range n.Children() {
			p.AssertSygusConstraint(nc, isAssume)
		}
		//
		return
	} else if n.Kind() == term.Forall {
		for _, v := range n.BoundVars() {
			p.DeclareSygusVar(v)
		}
		//
		n = n.Body()
	}
	//
	log.Debugf("synth: assert %s (isAssume=%t)", n, isAssume)
	//
	if isAssume {
		p.assumps.Append(n)
	} else {
		p.constraints.Append(n)
	}
	// sygus conjecture is now stale
	p.stale.Set(true)
}

// AssertSygusInvConstraint records the standard invariant triple for a
// predicate-to-synthesize: Pre(x) => Inv(x), Inv(x) /\ Trans(x,x') =>
// Inv(x'), and Inv(x) => Post(x), over fresh variables (and their primed
// counterparts) drawn from the invariant's domain.
func (p *Solver) AssertSygusInvConstraint(inv, pre, trans, post *term.Term) error {
	log.Debugf("synth: assert inv-constraint %s %s %s %s", inv, pre, trans, post)
	//
	r := p.registry
	//
	if !inv.Type().IsFun() || !inv.Type().Range().IsBool() {
		return &UnsupportedError{
			Msg: fmt.Sprintf("invariant %s must be a predicate", inv),
		}
	}
	// fresh variables and their primed counterparts
	argTypes := inv.Type().ArgTypes()
	vars := make([]*term.Term, len(argTypes))
	primed := make([]*term.Term, len(argTypes))
	//
	for i, tn := range argTypes {
		vars[i] = r.FreshBoundVar(tn)
		p.vars.Append(vars[i])
		primed[i] = r.NamedBoundVar(vars[i].Name()+"'", tn)
		p.vars.Append(primed[i])
	}
	// applications of the four predicates
	invApp := r.Apply(inv, vars...)
	preApp := r.Apply(pre, vars...)
	transApp := r.Apply(trans, append(append([]*term.Term{}, vars...), primed...)...)
	postApp := r.Apply(post, vars...)
	invPrimed := r.Apply(inv, primed...)
	//
	constraint := r.And(
		r.Implies(preApp, invApp),
		r.Implies(r.And(invApp, transApp), invPrimed),
		r.Implies(invApp, postApp))
	//
	p.constraints.Append(constraint)
	// sygus conjecture is now stale
	p.stale.Set(true)
	//
	return nil
}

// GetSygusConstraints returns a snapshot of the asserted constraints.
func (p *Solver) GetSygusConstraints() []*term.Term {
	return p.constraints.Contents()
}

// GetSygusAssumptions returns a snapshot of the asserted assumptions.
func (p *Solver) GetSygusAssumptions() []*term.Term {
	return p.assumps.Contents()
}

// GetSygusVars returns a snapshot of the declared synthesis variables.
func (p *Solver) GetSygusVars() []*term.Term {
	return p.vars.Contents()
}

// GetSynthFunctions returns a snapshot of the declared
// functions-to-synthesize with their grammars.
func (p *Solver) GetSynthFunctions() []SynthFunction {
	funs := make([]SynthFunction, 0, p.funSymbols.Len())
	//
	for _, f := range p.funSymbols.Contents() {
		funs = append(funs, SynthFunction{f, p.registry.SygusTypeOf(f)})
	}
	//
	return funs
}

// IsStale checks whether the cached conjecture reflects the current
// session state.
func (p *Solver) IsStale() bool {
	return p.stale.Get()
}

// TrivialFuns returns the functions omitted as unused by the most
// recent conjecture construction.
func (p *Solver) TrivialFuns() []*term.Term {
	return p.trivialFuns
}

// Subsolver returns the owned background reasoner, if any.  Exposed so
// a host can observe subsolver replacement across backtracking.
func (p *Solver) Subsolver() smt.Reasoner {
	return p.subsolver
}

// Conjecture returns the conjecture cached by the most recent check, or
// nil if none has been built.
func (p *Solver) Conjecture() *term.Term {
	return p.conj
}

// usingSygusSubsolver determines whether checks are discharged by a
// spawned subsolver; this is the case exactly in incremental mode.
func (p *Solver) usingSygusSubsolver() bool {
	return p.engine.Options().IncrementalSolving
}
