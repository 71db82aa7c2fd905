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

// Package rewrite provides a bottom-up simplifier for terms.  The
// rewriter folds constants, eliminates Boolean and arithmetic units,
// beta-reduces applied lambdas and detects directly contradictory
// conjunctions.  Rewriting a closed term over the supported theories
// reduces it to a constant.
package rewrite

import (
	"math"

	"github.com/consensys/go-sygus/pkg/term"
)

// Rewriter simplifies terms of a given registry, caching results across
// calls.
type Rewriter struct {
	registry *term.Registry
	cache    map[*term.Term]*term.Term
}

// NewRewriter constructs a rewriter over the given registry.
func NewRewriter(registry *term.Registry) *Rewriter {
	return &Rewriter{registry, make(map[*term.Term]*term.Term)}
}

// Rewrite simplifies t.  The result is logically equivalent to t and
// rewriting is idempotent.
func (p *Rewriter) Rewrite(t *term.Term) *term.Term {
	if r, ok := p.cache[t]; ok {
		return r
	}
	//
	result := p.rewrite(t)
	p.cache[t] = result
	//
	return result
}

func (p *Rewriter) rewrite(t *term.Term) *term.Term {
	r := p.registry
	//
	switch t.Kind() {
	case term.Const, term.Var, term.BoundVar, term.BoundVarList:
		return t
	case term.Lambda:
		return r.Lambda(t.Child(0), p.Rewrite(t.Body()))
	case term.Exists, term.Forall:
		body := p.Rewrite(t.Body())
		// a quantifier over a closed body is redundant
		if body.Kind() == term.Const {
			return body
		} else if t.Kind() == term.Exists {
			return r.Exists(t.Child(0), body)
		}
		//
		return r.Forall(t.Child(0), body)
	case term.SygusConjecture:
		return r.MkSygusConjecture(t.BoundVars(), p.Rewrite(t.Body()))
	case term.Apply:
		return p.rewriteApply(t)
	case term.Not:
		return p.rewriteNot(p.Rewrite(t.Child(0)))
	case term.And:
		return p.rewriteAnd(t)
	case term.Or:
		return p.rewriteOr(t)
	case term.Implies:
		return p.rewriteImplies(t)
	case term.Ite:
		return p.rewriteIte(t)
	case term.Equal:
		return p.rewriteEqual(t)
	case term.Add, term.Sub, term.Neg, term.Mul:
		return p.rewriteArith(t)
	case term.Leq, term.Lt, term.Geq, term.Gt:
		return p.rewriteCompare(t)
	}
	//
	panic("unreachable")
}

func (p *Rewriter) rewriteApply(t *term.Term) *term.Term {
	r := p.registry
	fn := p.Rewrite(t.Child(0))
	//
	args := make([]*term.Term, t.Len()-1)
	for i := range args {
		args[i] = p.Rewrite(t.Child(i + 1))
	}
	// beta-reduce applied lambdas
	if fn.Kind() == term.Lambda {
		subs := term.NewSubs(r)
		for i, v := range fn.BoundVars() {
			subs.Add(v, args[i])
		}
		//
		return p.Rewrite(subs.Apply(fn.Body()))
	}
	//
	return r.Apply(fn, args...)
}

func (p *Rewriter) rewriteNot(c *term.Term) *term.Term {
	switch {
	case c.IsTrue():
		return p.registry.False()
	case c.IsFalse():
		return p.registry.True()
	case c.Kind() == term.Not:
		return c.Child(0)
	}
	//
	return p.registry.Not(c)
}

func (p *Rewriter) rewriteAnd(t *term.Term) *term.Term {
	r := p.registry
	//
	var conjuncts []*term.Term
	//
	seen := make(map[*term.Term]bool)
	// value equated with a given term, for contradiction detection
	equated := make(map[*term.Term]*term.Term)
	// flatten nested conjunctions, dropping units and duplicates
	var flatten func(*term.Term) bool
	//
	flatten = func(c *term.Term) bool {
		c = p.Rewrite(c)
		//
		switch {
		case c.IsTrue() || seen[c]:
			return true
		case c.IsFalse():
			return false
		case c.Kind() == term.And:
			for _, cc := range c.Children() {
				if !flatten(cc) {
					return false
				}
			}
			//
			return true
		}
		// a together with (not a) is contradictory
		if c.Kind() == term.Not && seen[c.Child(0)] {
			return false
		} else if seen[r.Not(c)] {
			return false
		}
		// x = c1 together with x = c2 is contradictory for c1 /= c2
		if c.Kind() == term.Equal && c.Child(1).Kind() == term.Const {
			if prev, ok := equated[c.Child(0)]; ok && prev != c.Child(1) {
				return false
			}
			//
			equated[c.Child(0)] = c.Child(1)
		}
		//
		seen[c] = true
		conjuncts = append(conjuncts, c)
		//
		return true
	}
	//
	for _, c := range t.Children() {
		if !flatten(c) {
			return r.False()
		}
	}
	//
	return r.And(conjuncts...)
}

func (p *Rewriter) rewriteOr(t *term.Term) *term.Term {
	r := p.registry
	//
	var disjuncts []*term.Term
	//
	seen := make(map[*term.Term]bool)
	//
	var flatten func(*term.Term) bool
	//
	flatten = func(c *term.Term) bool {
		c = p.Rewrite(c)
		//
		switch {
		case c.IsFalse() || seen[c]:
			return true
		case c.IsTrue():
			return false
		case c.Kind() == term.Or:
			for _, cc := range c.Children() {
				if !flatten(cc) {
					return false
				}
			}
			//
			return true
		}
		// a together with (not a) is a tautology
		if c.Kind() == term.Not && seen[c.Child(0)] {
			return false
		} else if seen[r.Not(c)] {
			return false
		}
		//
		seen[c] = true
		disjuncts = append(disjuncts, c)
		//
		return true
	}
	//
	for _, c := range t.Children() {
		if !flatten(c) {
			return r.True()
		}
	}
	//
	return r.Or(disjuncts...)
}

func (p *Rewriter) rewriteImplies(t *term.Term) *term.Term {
	r := p.registry
	lhs := p.Rewrite(t.Child(0))
	rhs := p.Rewrite(t.Child(1))
	//
	switch {
	case lhs.IsTrue():
		return rhs
	case lhs.IsFalse() || rhs.IsTrue():
		return r.True()
	case rhs.IsFalse():
		return p.rewriteNot(lhs)
	case lhs == rhs:
		return r.True()
	}
	//
	return r.Implies(lhs, rhs)
}

func (p *Rewriter) rewriteIte(t *term.Term) *term.Term {
	r := p.registry
	cond := p.Rewrite(t.Child(0))
	then := p.Rewrite(t.Child(1))
	els := p.Rewrite(t.Child(2))
	//
	switch {
	case cond.IsTrue():
		return then
	case cond.IsFalse():
		return els
	case then == els:
		return then
	case then.IsTrue() && els.IsFalse():
		return cond
	case then.IsFalse() && els.IsTrue():
		return p.rewriteNot(cond)
	}
	//
	return r.Ite(cond, then, els)
}

func (p *Rewriter) rewriteEqual(t *term.Term) *term.Term {
	r := p.registry
	lhs := p.Rewrite(t.Child(0))
	rhs := p.Rewrite(t.Child(1))
	//
	if lhs == rhs {
		return r.True()
	} else if lhs.Kind() == term.Const && rhs.Kind() == term.Const {
		// distinct after interning, hence unequal
		return r.False()
	}
	// orient constants rightwards
	if lhs.Kind() == term.Const && rhs.Kind() != term.Const {
		lhs, rhs = rhs, lhs
	}
	//
	return r.Equal(lhs, rhs)
}

func (p *Rewriter) rewriteArith(t *term.Term) *term.Term {
	r := p.registry
	//
	children := make([]*term.Term, t.Len())
	for i := range children {
		children[i] = p.Rewrite(t.Child(i))
	}
	// constant folding bails out rather than wrap on int64 overflow
	switch t.Kind() {
	case term.Add:
		var nonconst []*term.Term
		//
		sum := int64(0)
		//
		for _, c := range children {
			if c.Kind() != term.Const {
				nonconst = append(nonconst, c)
				continue
			}
			//
			next, ok := addChecked(sum, c.Value())
			if !ok {
				return r.Add(children...)
			}
			//
			sum = next
		}
		//
		if len(nonconst) == 0 {
			return r.IntConst(sum)
		} else if sum != 0 {
			nonconst = append(nonconst, r.IntConst(sum))
		}
		//
		return r.Add(nonconst...)
	case term.Sub:
		if children[0].Kind() == term.Const && children[1].Kind() == term.Const {
			if v, ok := subChecked(children[0].Value(), children[1].Value()); ok {
				return r.IntConst(v)
			}
		} else if children[1].Kind() == term.Const && children[1].Value() == 0 {
			return children[0]
		} else if children[0] == children[1] {
			return r.IntConst(0)
		}
		//
		return r.Sub(children[0], children[1])
	case term.Neg:
		if children[0].Kind() == term.Const {
			if v, ok := subChecked(0, children[0].Value()); ok {
				return r.IntConst(v)
			}
		}
		//
		return r.Neg(children[0])
	case term.Mul:
		for _, c := range children {
			if c.Kind() == term.Const && c.Value() == 0 {
				return r.IntConst(0)
			}
		}
		//
		var nonconst []*term.Term
		//
		product := int64(1)
		//
		for _, c := range children {
			if c.Kind() != term.Const {
				nonconst = append(nonconst, c)
				continue
			}
			//
			next, ok := mulChecked(product, c.Value())
			if !ok {
				return r.Mul(children...)
			}
			//
			product = next
		}
		//
		if len(nonconst) == 0 {
			return r.IntConst(product)
		} else if product != 1 {
			nonconst = append(nonconst, r.IntConst(product))
		}
		//
		return r.Mul(nonconst...)
	}
	//
	panic("unreachable")
}

func (p *Rewriter) rewriteCompare(t *term.Term) *term.Term {
	r := p.registry
	lhs := p.Rewrite(t.Child(0))
	rhs := p.Rewrite(t.Child(1))
	//
	if lhs.Kind() == term.Const && rhs.Kind() == term.Const {
		return r.BoolConst(evalCompare(t.Kind(), lhs.Value(), rhs.Value()))
	} else if lhs == rhs {
		// reflexive cases
		return r.BoolConst(t.Kind() == term.Leq || t.Kind() == term.Geq)
	}
	//
	return r.Compare(t.Kind(), lhs, rhs)
}

func addChecked(a int64, b int64) (int64, bool) {
	c := a + b
	if (a > 0 && b > 0 && c < 0) || (a < 0 && b < 0 && c >= 0) {
		return 0, false
	}
	//
	return c, true
}

func subChecked(a int64, b int64) (int64, bool) {
	c := a - b
	if (b > 0 && c > a) || (b < 0 && c < a) {
		return 0, false
	}
	//
	return c, true
}

func mulChecked(a int64, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	} else if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	//
	c := a * b
	if c/a != b {
		return 0, false
	}
	//
	return c, true
}

func evalCompare(kind term.Kind, lhs int64, rhs int64) bool {
	switch kind {
	case term.Leq:
		return lhs <= rhs
	case term.Lt:
		return lhs < rhs
	case term.Geq:
		return lhs >= rhs
	case term.Gt:
		return lhs > rhs
	}
	//
	panic("unreachable")
}
