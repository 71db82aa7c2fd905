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
package smt

import (
	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/util/backtrack"
)

type binding struct {
	sym  *term.Term
	body *term.Term
}

// Preprocessor accumulates the substitutions arising from define-fun in
// the current session frame, and applies them to terms on demand.
// Definitions may reference earlier definitions, hence application
// iterates to a fixed point.
type Preprocessor struct {
	registry *term.Registry
	bindings *backtrack.List[binding]
}

// NewPreprocessor constructs an empty preprocessor scoped to the given
// context.
func NewPreprocessor(registry *term.Registry, ctx *backtrack.Context) *Preprocessor {
	return &Preprocessor{registry, backtrack.NewList[binding](ctx)}
}

// AddSubstitution records that sym stands for the given (closed) term.
func (p *Preprocessor) AddSubstitution(sym *term.Term, body *term.Term) {
	p.bindings.Append(binding{sym, body})
}

// ApplySubstitutions replaces every defined symbol occurring in t by its
// definition, repeatedly, until no defined symbol remains.  The number
// of rounds is bounded by the number of definitions, as cyclic
// definitions are not accepted at this level.
func (p *Preprocessor) ApplySubstitutions(t *term.Term) *term.Term {
	n := p.bindings.Len()
	if n == 0 {
		return t
	}
	//
	subs := term.NewSubs(p.registry)
	for i := 0; i < n; i++ {
		b := p.bindings.Get(i)
		subs.Add(b.sym, b.body)
	}
	//
	for i := 0; i <= n; i++ {
		next := subs.Apply(t)
		if next == t {
			return t
		}
		//
		t = next
	}
	//
	return t
}
