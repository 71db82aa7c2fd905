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
package term

import (
	"fmt"
	"strings"
)

// Registry owns an expression DAG.  All terms are created through a
// registry and remain valid for its lifetime.  Terms are hash-consed, so
// structural equality coincides with pointer equality for terms of the
// same registry.  A registry also stores the attributes attached to
// function-to-synthesize symbols (their grammar and argument list).
type Registry struct {
	table  map[string]*Term
	nextId uint64
	// Counter for generating fresh bound variables.
	fresh uint
	// Grammar attached to a function-to-synthesize, if any.
	sygusType map[*Term]*Type
	// Argument list attached to a function-to-synthesize, if any.
	sygusArgs map[*Term]*Term
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		table:     make(map[string]*Term),
		sygusType: make(map[*Term]*Type),
		sygusArgs: make(map[*Term]*Term),
	}
}

func (p *Registry) intern(t *Term) *Term {
	var key strings.Builder
	//
	fmt.Fprintf(&key, "%d:%s:%d:", t.kind, t.name, t.value)
	// the type participates structurally: constructors such as BitVecT
	// allocate a fresh Type per call, so pointers cannot serve here
	t.typ.key(&key)
	//
	for _, c := range t.children {
		fmt.Fprintf(&key, ":%d", c.id)
	}
	//
	if existing, ok := p.table[key.String()]; ok {
		return existing
	}
	//
	t.id = p.nextId
	p.nextId++
	p.table[key.String()] = t
	//
	return t
}

// ============================================================================
// Leaves
// ============================================================================

// IntConst constructs the integer constant v.
func (p *Registry) IntConst(v int64) *Term {
	return p.intern(&Term{kind: Const, typ: intType, value: v})
}

// BitVecConst constructs the bit-vector constant v of the given width.
func (p *Registry) BitVecConst(v int64, width uint) *Term {
	return p.intern(&Term{kind: Const, typ: BitVecT(width), value: v})
}

// True constructs the Boolean constant true.
func (p *Registry) True() *Term {
	return p.intern(&Term{kind: Const, typ: boolType, value: 1})
}

// False constructs the Boolean constant false.
func (p *Registry) False() *Term {
	return p.intern(&Term{kind: Const, typ: boolType, value: 0})
}

// BoolConst constructs the Boolean constant for the given value.
func (p *Registry) BoolConst(v bool) *Term {
	if v {
		return p.True()
	}
	//
	return p.False()
}

// Var constructs (or returns) the free symbol with the given name and
// type.  Distinct symbols must have distinct names.
func (p *Registry) Var(name string, typ *Type) *Term {
	return p.intern(&Term{kind: Var, typ: typ, name: name})
}

// NamedBoundVar constructs (or returns) the bound variable with the
// given name and type.
func (p *Registry) NamedBoundVar(name string, typ *Type) *Term {
	return p.intern(&Term{kind: BoundVar, typ: typ, name: name})
}

// FreshBoundVar constructs a bound variable with a name unused so far.
func (p *Registry) FreshBoundVar(typ *Type) *Term {
	name := fmt.Sprintf("_x%d", p.fresh)
	p.fresh++
	//
	return p.NamedBoundVar(name, typ)
}

// ============================================================================
// Connectives
// ============================================================================

// Not constructs the negation of t, which must be Boolean.
func (p *Registry) Not(t *Term) *Term {
	checkBool(t)
	//
	return p.mk(Not, boolType, t)
}

// And constructs the conjunction of the given terms.  An empty
// conjunction is true; a singleton conjunction is its sole conjunct.
func (p *Registry) And(ts ...*Term) *Term {
	switch len(ts) {
	case 0:
		return p.True()
	case 1:
		return ts[0]
	}
	//
	for _, t := range ts {
		checkBool(t)
	}
	//
	return p.mk(And, boolType, ts...)
}

// Or constructs the disjunction of the given terms, with conventions
// dual to And.
func (p *Registry) Or(ts ...*Term) *Term {
	switch len(ts) {
	case 0:
		return p.False()
	case 1:
		return ts[0]
	}
	//
	for _, t := range ts {
		checkBool(t)
	}
	//
	return p.mk(Or, boolType, ts...)
}

// Implies constructs the implication lhs => rhs.
func (p *Registry) Implies(lhs *Term, rhs *Term) *Term {
	checkBool(lhs)
	checkBool(rhs)
	//
	return p.mk(Implies, boolType, lhs, rhs)
}

// Ite constructs if-then-else over a Boolean condition; both branches
// must agree on their type.
func (p *Registry) Ite(cond *Term, then *Term, els *Term) *Term {
	checkBool(cond)
	//
	if !then.typ.Equals(els.typ) {
		panic("ite branches have differing types")
	}
	//
	return p.mk(Ite, then.typ, cond, then, els)
}

// Equal constructs the equality lhs = rhs over terms of identical type.
func (p *Registry) Equal(lhs *Term, rhs *Term) *Term {
	if !lhs.typ.Equals(rhs.typ) {
		panic(fmt.Sprintf("equality between %s and %s", lhs.typ, rhs.typ))
	}
	//
	return p.mk(Equal, boolType, lhs, rhs)
}

// ============================================================================
// Binders & application
// ============================================================================

// BoundVarListOf groups the given variables for use under a binder.
func (p *Registry) BoundVarListOf(vars ...*Term) *Term {
	for _, v := range vars {
		if !v.kind.IsVariable() {
			panic("bound variable list contains non-variable")
		}
	}
	//
	return p.mk(BoundVarList, boolType, vars...)
}

// Apply constructs the application of fn to the given arguments.
func (p *Registry) Apply(fn *Term, args ...*Term) *Term {
	var typ *Type
	//
	switch {
	case fn.typ.IsFun():
		domain := fn.typ.ArgTypes()
		if len(domain) != len(args) {
			panic(fmt.Sprintf("applying %s to %d arguments", fn, len(args)))
		}
		//
		for i, a := range args {
			if !a.typ.Equals(domain[i]) {
				panic(fmt.Sprintf("argument %d of %s has type %s, expected %s",
					i, fn, a.typ, domain[i]))
			}
		}
		//
		typ = fn.typ.Range()
	case fn.kind == Lambda:
		typ = fn.Body().typ
	default:
		panic(fmt.Sprintf("applying non-function %s", fn))
	}
	//
	children := append([]*Term{fn}, args...)
	//
	return p.mk(Apply, typ, children...)
}

// Lambda constructs a function literal binding the given variable list.
func (p *Registry) Lambda(bvl *Term, body *Term) *Term {
	checkBvl(bvl)
	//
	domain := make([]*Type, bvl.Len())
	for i, v := range bvl.children {
		domain[i] = v.typ
	}
	//
	return p.mk(Lambda, FunT(domain, body.typ), bvl, body)
}

// Exists constructs an existential quantification.
func (p *Registry) Exists(bvl *Term, body *Term) *Term {
	checkBvl(bvl)
	checkBool(body)
	//
	return p.mk(Exists, boolType, bvl, body)
}

// Forall constructs a universal quantification.
func (p *Registry) Forall(bvl *Term, body *Term) *Term {
	checkBvl(bvl)
	checkBool(body)
	//
	return p.mk(Forall, boolType, bvl, body)
}

// MkSygusConjecture wraps the given body with the synthesis conjecture
// quantifier over the given functions-to-synthesize.
func (p *Registry) MkSygusConjecture(funs []*Term, body *Term) *Term {
	checkBool(body)
	//
	bvl := p.BoundVarListOf(funs...)
	//
	return p.mk(SygusConjecture, boolType, bvl, body)
}

// ============================================================================
// Arithmetic
// ============================================================================

// Add constructs the sum of the given integer terms.
func (p *Registry) Add(ts ...*Term) *Term {
	if len(ts) == 1 {
		return ts[0]
	}
	//
	for _, t := range ts {
		checkInt(t)
	}
	//
	return p.mk(Add, intType, ts...)
}

// Sub constructs the difference lhs - rhs.
func (p *Registry) Sub(lhs *Term, rhs *Term) *Term {
	checkInt(lhs)
	checkInt(rhs)
	//
	return p.mk(Sub, intType, lhs, rhs)
}

// Neg constructs the arithmetic negation of t.
func (p *Registry) Neg(t *Term) *Term {
	checkInt(t)
	//
	return p.mk(Neg, intType, t)
}

// Mul constructs the product of the given integer terms.
func (p *Registry) Mul(ts ...*Term) *Term {
	if len(ts) == 1 {
		return ts[0]
	}
	//
	for _, t := range ts {
		checkInt(t)
	}
	//
	return p.mk(Mul, intType, ts...)
}

// Compare constructs the comparison of lhs against rhs with the given
// comparison kind.
func (p *Registry) Compare(kind Kind, lhs *Term, rhs *Term) *Term {
	switch kind {
	case Leq, Lt, Geq, Gt:
		checkInt(lhs)
		checkInt(rhs)
	default:
		panic("invalid comparison kind")
	}
	//
	return p.mk(kind, boolType, lhs, rhs)
}

// ============================================================================
// Attributes
// ============================================================================

// SetSygusType attaches a grammar (as a sygus datatype type) to a
// function-to-synthesize symbol.
func (p *Registry) SetSygusType(fn *Term, typ *Type) {
	p.sygusType[fn] = typ
}

// SygusTypeOf returns the grammar attached to a function-to-synthesize
// symbol, or nil if it has none.
func (p *Registry) SygusTypeOf(fn *Term) *Type {
	return p.sygusType[fn]
}

// SetSygusArgumentList attaches a bound variable list to a
// function-to-synthesize symbol, recording its formal parameters.
func (p *Registry) SetSygusArgumentList(fn *Term, bvl *Term) {
	p.sygusArgs[fn] = bvl
}

// SygusArgumentListOf returns the bound variable list attached to a
// function-to-synthesize symbol, or nil if it has none.
func (p *Registry) SygusArgumentListOf(fn *Term) *Term {
	return p.sygusArgs[fn]
}

// ============================================================================
// Ground values
// ============================================================================

// GroundValue fabricates a canonical closed term of the given type: false
// for Bool, zero for Int and bit-vectors, a constant lambda for function
// types, and the grammar's builtin ground value for sygus datatypes.
func (p *Registry) GroundValue(typ *Type) *Term {
	switch typ.Kind() {
	case BoolType:
		return p.False()
	case IntType:
		return p.IntConst(0)
	case BitVecType:
		return p.BitVecConst(0, typ.Width())
	case FunType:
		formals := make([]*Term, len(typ.ArgTypes()))
		for i, at := range typ.ArgTypes() {
			formals[i] = p.FreshBoundVar(at)
		}
		//
		return p.Lambda(p.BoundVarListOf(formals...), p.GroundValue(typ.Range()))
	case DatatypeType:
		if typ.IsSygusDatatype() {
			return p.GroundValue(typ.Datatype().SygusType())
		}
	}
	//
	panic(fmt.Sprintf("no ground value for type %s", typ))
}

// MkSygusTermFor fabricates a degenerate realization for a
// function-to-synthesize: a lambda over its argument list (or fresh
// formals) whose body is a canonical ground value of its codomain, or a
// plain ground value for non-function symbols.
func (p *Registry) MkSygusTermFor(fn *Term) *Term {
	typ := fn.Type()
	//
	if !typ.IsFun() {
		return p.GroundValue(typ)
	} else if bvl := p.SygusArgumentListOf(fn); bvl != nil {
		return p.Lambda(bvl, p.GroundValue(typ.Range()))
	}
	//
	return p.GroundValue(typ)
}

// ============================================================================
// Helpers
// ============================================================================

func (p *Registry) mk(kind Kind, typ *Type, children ...*Term) *Term {
	return p.intern(&Term{kind: kind, typ: typ, children: children})
}

func checkBool(t *Term) {
	if !t.typ.IsBool() {
		panic(fmt.Sprintf("expected Boolean term, got %s : %s", t, t.typ))
	}
}

func checkInt(t *Term) {
	if !t.typ.IsInt() {
		panic(fmt.Sprintf("expected integer term, got %s : %s", t, t.typ))
	}
}

func checkBvl(bvl *Term) {
	if bvl.kind != BoundVarList {
		panic("expected bound variable list")
	}
}
