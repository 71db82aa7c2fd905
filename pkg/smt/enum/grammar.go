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
	"github.com/consensys/go-sygus/pkg/term"
)

// Cap on the number of distinct terms enumerated per grammar
// non-terminal (respectively per default pool).
const maxPoolSize = 5000

// Maximum size of terms drawn from the default grammar.
const maxDefaultTermSize = 6

// candidatesFor enumerates candidate realizations for a
// function-to-synthesize, smallest first.  When a grammar is attached
// to the symbol its productions are enumerated; otherwise a default
// grammar is derived from the signature.  Candidates for function-typed
// symbols are lambdas over the symbol's formal parameters.
func (p *Solver) candidatesFor(f *term.Term) []*term.Term {
	var bodies []*term.Term
	//
	var formals []*term.Term
	//
	if grammar := p.registry.SygusTypeOf(f); grammar != nil {
		dt := grammar.Datatype()
		formals = dt.SygusVarList()
		bodies = p.enumerateGrammar(dt)
	} else {
		formals = p.formalsOf(f)
		bodies = p.defaultPool(f.Type().Range(), formals)
	}
	//
	if !f.Type().IsFun() {
		return bodies
	}
	//
	bvl := p.registry.BoundVarListOf(formals...)
	candidates := make([]*term.Term, len(bodies))
	//
	for i, b := range bodies {
		candidates[i] = p.registry.Lambda(bvl, b)
	}
	//
	return candidates
}

// formalsOf returns the formal parameters of a function-to-synthesize,
// either from its attached argument list or freshly created from its
// signature.
func (p *Solver) formalsOf(f *term.Term) []*term.Term {
	if !f.Type().IsFun() {
		return nil
	} else if bvl := p.registry.SygusArgumentListOf(f); bvl != nil {
		return bvl.BoundVars()
	}
	//
	formals := make([]*term.Term, len(f.Type().ArgTypes()))
	for i, at := range f.Type().ArgTypes() {
		formals[i] = p.registry.FreshBoundVar(at)
	}
	//
	return formals
}

// ============================================================================
// Grammar enumeration
// ============================================================================

// enumerateGrammar produces the terms of the given grammar non-terminal
// up to the size bound, smallest first.  Constructor applications are
// expanded through their sygus operators, hence the results are terms of
// the target language over the grammar's formal argument list.
func (p *Solver) enumerateGrammar(root *term.Datatype) []*term.Term {
	// pools[dt][s] holds the terms of dt with size s+1
	pools := make(map[*term.Datatype][][]*term.Term)
	//
	var reachable []*term.Datatype
	//
	var visit func(*term.Datatype)
	//
	visit = func(dt *term.Datatype) {
		if _, ok := pools[dt]; ok {
			return
		}
		//
		pools[dt] = make([][]*term.Term, defaultMaxTermSize)
		reachable = append(reachable, dt)
		//
		for _, c := range dt.Constructors() {
			for j := 0; j < c.NumArgs(); j++ {
				if at := c.ArgType(j); at.IsSygusDatatype() {
					visit(at.Datatype())
				}
			}
		}
	}
	//
	visit(root)
	//
	seen := make(map[*term.Datatype]map[*term.Term]bool)
	for _, dt := range reachable {
		seen[dt] = make(map[*term.Term]bool)
	}
	//
	for size := 1; size <= defaultMaxTermSize; size++ {
		for _, dt := range reachable {
			p.enumerateSize(dt, size, pools, seen[dt])
		}
	}
	//
	var result []*term.Term
	for size := 1; size <= defaultMaxTermSize; size++ {
		result = append(result, pools[root][size-1]...)
	}
	//
	return result
}

// enumerateSize fills the pool of dt at the given size from the pools of
// the argument non-terminals at smaller sizes.
func (p *Solver) enumerateSize(dt *term.Datatype, size int,
	pools map[*term.Datatype][][]*term.Term, seen map[*term.Term]bool) {
	var terms []*term.Term
	//
	add := func(t *term.Term) {
		t = p.rw.Rewrite(t)
		//
		if !seen[t] && len(seen) < maxPoolSize {
			seen[t] = true
			terms = append(terms, t)
		}
	}
	//
	for _, c := range dt.Constructors() {
		switch {
		case c.NumArgs() == 0:
			if size == 1 {
				add(c.SygusOp())
			}
		case c.NumArgs() <= size-1:
			argPools := make([][][]*term.Term, c.NumArgs())
			degenerate := false
			//
			for j := 0; j < c.NumArgs(); j++ {
				at := c.ArgType(j)
				if !at.IsSygusDatatype() {
					degenerate = true
					break
				}
				//
				argPools[j] = pools[at.Datatype()]
			}
			//
			if degenerate {
				continue
			}
			//
			p.forEachComposition(argPools, size-1, nil, func(args []*term.Term) {
				add(p.registry.Apply(c.SygusOp(), args...))
			})
		}
	}
	//
	pools[dt][size-1] = terms
}

// forEachComposition walks all ways of drawing one term per argument
// pool such that the sizes sum to the given budget.
func (p *Solver) forEachComposition(argPools [][][]*term.Term, budget int,
	prefix []*term.Term, fn func([]*term.Term)) {
	if len(argPools) == 0 {
		if budget == 0 {
			fn(prefix)
		}
		//
		return
	}
	// leave at least one unit per remaining argument
	remaining := len(argPools) - 1
	//
	for s := 1; s <= budget-remaining; s++ {
		for _, t := range argPools[0][s-1] {
			p.forEachComposition(argPools[1:], budget-s, append(prefix, t), fn)
		}
	}
}

// ============================================================================
// Default grammar
// ============================================================================

// defaultPool enumerates terms of the given type over the given formals
// using a fixed default grammar: small integer constants, the formals,
// linear arithmetic, comparisons, Boolean connectives and if-then-else.
func (p *Solver) defaultPool(typ *term.Type, formals []*term.Term) []*term.Term {
	r := p.registry
	//
	var intFormals, boolFormals []*term.Term
	//
	for _, v := range formals {
		if v.Type().IsInt() {
			intFormals = append(intFormals, v)
		} else if v.Type().IsBool() {
			boolFormals = append(boolFormals, v)
		}
	}
	//
	ints := make([][]*term.Term, maxDefaultTermSize)
	bools := make([][]*term.Term, maxDefaultTermSize)
	//
	ints[0] = append([]*term.Term{r.IntConst(0), r.IntConst(1)}, intFormals...)
	bools[0] = append([]*term.Term{r.True(), r.False()}, boolFormals...)
	//
	intSeen := poolSet(ints[0])
	boolSeen := poolSet(bools[0])
	//
	addInt := func(size int, t *term.Term) {
		t = p.rw.Rewrite(t)
		if !intSeen[t] && len(intSeen) < maxPoolSize {
			intSeen[t] = true
			ints[size-1] = append(ints[size-1], t)
		}
	}
	//
	addBool := func(size int, t *term.Term) {
		t = p.rw.Rewrite(t)
		if !boolSeen[t] && len(boolSeen) < maxPoolSize {
			boolSeen[t] = true
			bools[size-1] = append(bools[size-1], t)
		}
	}
	//
	for size := 2; size <= maxDefaultTermSize; size++ {
		// binary integer operators
		for i := 1; i <= size-2; i++ {
			for _, a := range ints[i-1] {
				for _, b := range ints[size-i-2] {
					addInt(size, r.Add(a, b))
					addInt(size, r.Sub(a, b))
				}
			}
		}
		// comparisons over integers
		for i := 1; i <= size-2; i++ {
			for _, a := range ints[i-1] {
				for _, b := range ints[size-i-2] {
					addBool(size, r.Compare(term.Leq, a, b))
					addBool(size, r.Compare(term.Geq, a, b))
					addBool(size, r.Equal(a, b))
				}
			}
		}
		// negation
		for _, a := range bools[size-2] {
			addBool(size, r.Not(a))
		}
		// if-then-else over integers
		for i := 1; i <= size-3; i++ {
			for j := 1; j <= size-i-2; j++ {
				for _, c := range bools[i-1] {
					for _, a := range ints[j-1] {
						for _, b := range ints[size-i-j-2] {
							addInt(size, r.Ite(c, a, b))
						}
					}
				}
			}
		}
	}
	//
	var pool [][]*term.Term
	//
	switch typ.Kind() {
	case term.IntType:
		pool = ints
	case term.BoolType:
		pool = bools
	default:
		return nil
	}
	//
	var result []*term.Term
	for _, terms := range pool {
		result = append(result, terms...)
	}
	//
	return result
}

func poolSet(terms []*term.Term) map[*term.Term]bool {
	seen := make(map[*term.Term]bool, len(terms))
	for _, t := range terms {
		seen[t] = true
	}
	//
	return seen
}
