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

// Subs represents an ordered substitution from variables to terms.
// Replacement terms are expected to be closed, hence no renaming of
// binders takes place; a binder which rebinds a substituted variable
// simply shadows it.
type Subs struct {
	registry *Registry
	vars     []*Term
	terms    []*Term
}

// NewSubs constructs an empty substitution over the given registry.
func NewSubs(registry *Registry) *Subs {
	return &Subs{registry: registry}
}

// Add extends this substitution, mapping v to t.
func (p *Subs) Add(v *Term, t *Term) {
	if !v.Kind().IsVariable() {
		panic("substituting non-variable")
	}
	//
	p.vars = append(p.vars, v)
	p.terms = append(p.terms, t)
}

// IsEmpty checks whether this substitution has any bindings.
func (p *Subs) IsEmpty() bool {
	return len(p.vars) == 0
}

// Equalities returns, for each binding (v, t), the equality v = t.
func (p *Subs) Equalities() []*Term {
	eqs := make([]*Term, len(p.vars))
	//
	for i := range p.vars {
		eqs[i] = p.registry.Equal(p.vars[i], p.terms[i])
	}
	//
	return eqs
}

// Apply replaces every free occurrence of a substituted variable in t by
// its replacement.
func (p *Subs) Apply(t *Term) *Term {
	if p.IsEmpty() {
		return t
	}
	//
	mapping := make(map[*Term]*Term, len(p.vars))
	for i, v := range p.vars {
		mapping[v] = p.terms[i]
	}
	//
	return p.apply(t, mapping, make(map[*Term]*Term))
}

func (p *Subs) apply(t *Term, mapping map[*Term]*Term, cache map[*Term]*Term) *Term {
	if r, ok := cache[t]; ok {
		return r
	}
	//
	var result *Term
	//
	switch {
	case t.kind.IsVariable():
		if r, ok := mapping[t]; ok {
			result = r
		} else {
			result = t
		}
	case t.kind.IsBinder():
		// Shadow any rebound variables.
		shadowed := make(map[*Term]*Term)
		//
		for _, v := range t.BoundVars() {
			if r, ok := mapping[v]; ok {
				shadowed[v] = r
				delete(mapping, v)
			}
		}
		// Binder bodies see a different mapping, so bypass the cache.
		body := p.apply(t.Body(), mapping, make(map[*Term]*Term))
		result = p.rebuild(t, []*Term{t.children[0], body})
		//
		for v, r := range shadowed {
			mapping[v] = r
		}
	case len(t.children) == 0:
		result = t
	default:
		children := make([]*Term, len(t.children))
		for i, c := range t.children {
			children[i] = p.apply(c, mapping, cache)
		}
		//
		result = p.rebuild(t, children)
	}
	//
	cache[t] = result
	//
	return result
}

// rebuild reconstructs a term of the same kind over new children,
// re-interning it in the registry.
func (p *Subs) rebuild(t *Term, children []*Term) *Term {
	same := true
	for i := range children {
		if children[i] != t.children[i] {
			same = false
			break
		}
	}
	//
	if same {
		return t
	}
	//
	r := p.registry
	//
	switch t.kind {
	case Apply:
		return r.Apply(children[0], children[1:]...)
	case Lambda:
		return r.Lambda(children[0], children[1])
	case Exists:
		return r.Exists(children[0], children[1])
	case Forall:
		return r.Forall(children[0], children[1])
	case SygusConjecture:
		return r.MkSygusConjecture(children[0].children, children[1])
	case Not:
		return r.Not(children[0])
	case And:
		return r.mk(And, boolType, children...)
	case Or:
		return r.mk(Or, boolType, children...)
	case Implies:
		return r.Implies(children[0], children[1])
	case Ite:
		return r.Ite(children[0], children[1], children[2])
	case Equal:
		return r.Equal(children[0], children[1])
	case Add, Mul:
		return r.mk(t.kind, intType, children...)
	case Sub:
		return r.Sub(children[0], children[1])
	case Neg:
		return r.Neg(children[0])
	case Leq, Lt, Geq, Gt:
		return r.Compare(t.kind, children[0], children[1])
	case BoundVarList:
		return r.BoundVarListOf(children...)
	}
	//
	panic("unreachable")
}
