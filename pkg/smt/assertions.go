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

// Assertions accumulates the formulas asserted to the enclosing session,
// including the definition-style assertions produced by define-fun.
// Both lists follow the session's context stack.
type Assertions struct {
	registry *term.Registry
	// All assertions, including definitions and the auxiliary quantified
	// axioms produced for recursive definitions.
	list *backtrack.List[*term.Term]
	// Definition-style assertions only, each of the form f = (lambda ...)
	// or f = term.
	defs *backtrack.List[*term.Term]
}

// NewAssertions constructs an empty assertion store scoped to the given
// context.
func NewAssertions(registry *term.Registry, ctx *backtrack.Context) *Assertions {
	return &Assertions{
		registry: registry,
		list:     backtrack.NewList[*term.Term](ctx),
		defs:     backtrack.NewList[*term.Term](ctx),
	}
}

// Assert records a plain assertion.
func (p *Assertions) Assert(t *term.Term) {
	p.list.Append(t)
}

// AddDefinition records a define-fun as the definitional equality
// sym = (lambda formals body), or sym = body for nullary definitions.
func (p *Assertions) AddDefinition(sym *term.Term, formals []*term.Term, body *term.Term) *term.Term {
	r := p.registry
	rhs := body
	//
	if len(formals) > 0 {
		rhs = r.Lambda(r.BoundVarListOf(formals...), body)
	}
	//
	def := r.Equal(sym, rhs)
	p.list.Append(def)
	p.defs.Append(def)
	//
	return def
}

// GetAssertionList returns a snapshot of all assertions.
func (p *Assertions) GetAssertionList() []*term.Term {
	return p.list.Contents()
}

// GetAssertionListDefinitions returns a snapshot of the
// definition-style assertions.
func (p *Assertions) GetAssertionListDefinitions() []*term.Term {
	return p.defs.Contents()
}
