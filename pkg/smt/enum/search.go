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
	"sort"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/term"
)

// Cap on the number of assignments tried in one search.
const maxGridPoints = 200000

// checkPlain decides a conjunction of formulas without synthesis
// conjectures, by rewriting and bounded assignment search.
func (p *Solver) checkPlain(plain []*term.Term) smt.Result {
	f := p.rw.Rewrite(p.registry.And(plain...))
	//
	switch {
	case f.IsTrue():
		return smt.SatResult()
	case f.IsFalse():
		return smt.UnsatResult()
	}
	// a top-level existential simply contributes search variables
	if f.Kind() == term.Exists {
		f = f.Body()
	}
	//
	vars := sortedFreeVariables(f)
	found, refuted := p.searchSatWitness(f, vars)
	//
	switch {
	case found:
		return smt.SatResult()
	case p.rm.Exhausted():
		return smt.UnknownResult("resource limit exceeded")
	case refuted && p.isEvaluable(f, vars) && allFinite(vars):
		// complete domain exhausted, every point refuted
		return smt.UnsatResult()
	}
	//
	return smt.UnknownResult("bounded search exhausted")
}

// searchSatWitness enumerates bounded assignments to the given
// variables, returning whether a satisfying one was found and, if not,
// whether the bounded grid was fully enumerated with every point
// rewriting to false.  A point which fails to reduce to a constant
// (e.g. when constant folding declines to wrap) refutes nothing.
func (p *Solver) searchSatWitness(f *term.Term, vars []*term.Term) (bool, bool) {
	domains := make([][]*term.Term, len(vars))
	//
	for i, v := range vars {
		d := p.domainOf(v.Type())
		if d == nil {
			return false, false
		}
		//
		domains[i] = d
	}
	//
	var found bool
	//
	count, refuted := 0, true
	//
	p.forEachAssignment(vars, domains, func(subs *term.Subs) bool {
		if count >= maxGridPoints || p.rm.Exhausted() {
			refuted = false
			return false
		}
		//
		count++
		p.rm.Spend(1)
		//
		v := p.rw.Rewrite(subs.Apply(f))
		//
		if v.IsTrue() {
			found = true
			return false
		} else if !v.IsFalse() {
			refuted = false
		}
		//
		return true
	})
	//
	return found, !found && refuted
}

// forEachAssignment walks the cartesian product of the given domains,
// calling fn for each assignment until fn returns false.
func (p *Solver) forEachAssignment(vars []*term.Term, domains [][]*term.Term,
	fn func(*term.Subs) bool) {
	indices := make([]int, len(vars))
	//
	for {
		subs := term.NewSubs(p.registry)
		for i, v := range vars {
			subs.Add(v, domains[i][indices[i]])
		}
		//
		if !fn(subs) {
			return
		}
		// advance odometer
		i := 0
		for ; i < len(indices); i++ {
			indices[i]++
			if indices[i] < len(domains[i]) {
				break
			}
			//
			indices[i] = 0
		}
		//
		if i == len(indices) {
			return
		}
	}
}

// domainOf returns the bounded value domain searched for the given
// type, or nil if the type is not searchable.
func (p *Solver) domainOf(typ *term.Type) []*term.Term {
	r := p.registry
	//
	switch typ.Kind() {
	case term.BoolType:
		return []*term.Term{r.False(), r.True()}
	case term.IntType:
		domain := []*term.Term{r.IntConst(0)}
		for i := int64(1); i <= defaultGridBound; i++ {
			domain = append(domain, r.IntConst(i), r.IntConst(-i))
		}
		//
		return domain
	case term.BitVecType:
		if typ.Width() > 8 {
			return nil
		}
		//
		var domain []*term.Term
		for v := int64(0); v < 1<<typ.Width(); v++ {
			domain = append(domain, r.BitVecConst(v, typ.Width()))
		}
		//
		return domain
	}
	//
	return nil
}

// allFinite checks whether every variable ranges over a finite domain
// which the bounded grid covers completely.
func allFinite(vars []*term.Term) bool {
	for _, v := range vars {
		switch v.Type().Kind() {
		case term.BoolType:
			// ok
		case term.BitVecType:
			if v.Type().Width() > 8 {
				return false
			}
		default:
			return false
		}
	}
	//
	return true
}

// isEvaluable checks whether f reduces to a constant under any total
// assignment to the given variables: no quantifiers, no applications of
// uninterpreted functions, no stray variables.
func (p *Solver) isEvaluable(f *term.Term, vars []*term.Term) bool {
	scope := make(map[*term.Term]bool, len(vars))
	for _, v := range vars {
		scope[v] = true
	}
	//
	if _, outside := term.HasFreeVariablesOutside(f, scope); outside {
		return false
	}
	//
	var evaluable func(*term.Term) bool
	//
	evaluable = func(t *term.Term) bool {
		switch t.Kind() {
		case term.Apply, term.Lambda, term.Exists, term.Forall, term.SygusConjecture:
			return false
		}
		//
		for _, c := range t.Children() {
			if !evaluable(c) {
				return false
			}
		}
		//
		return true
	}
	//
	return evaluable(f)
}

// sortedFreeVariables returns the free variables of f in a
// deterministic order.
func sortedFreeVariables(f *term.Term) []*term.Term {
	free := make(map[*term.Term]bool)
	term.FreeVariables(f, free)
	//
	vars := make([]*term.Term, 0, len(free))
	for v := range free {
		vars = append(vars, v)
	}
	//
	sort.Slice(vars, func(i, j int) bool { return vars[i].Id() < vars[j].Id() })
	//
	return vars
}
