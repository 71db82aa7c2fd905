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
	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/util/backtrack"
)

// Engine is the session environment shared by all components: the term
// registry, the user context stack, the configuration, the resource
// manager, the assertion store, the preprocessor and the in-process
// reasoner used for non-incremental checks.
type Engine struct {
	registry *term.Registry
	ctx      *backtrack.Context
	opts     *Options
	rm       *ResourceManager
	as       *Assertions
	pp       *Preprocessor
	factory  SubsolverFactory
	reasoner Reasoner
}

// NewEngine constructs a session environment with the given options and
// subsolver factory.  The in-process reasoner is spawned eagerly from
// the same factory.
func NewEngine(opts *Options, factory SubsolverFactory) *Engine {
	e := &Engine{
		registry: term.NewRegistry(),
		ctx:      backtrack.NewContext(),
		opts:     opts,
		rm:       NewResourceManager(opts.ResourceLimit),
		factory:  factory,
	}
	//
	e.as = NewAssertions(e.registry, e.ctx)
	e.pp = NewPreprocessor(e.registry, e.ctx)
	e.reasoner = factory(e, opts)
	//
	return e
}

// Registry returns the term registry owned by this engine.
func (p *Engine) Registry() *term.Registry { return p.registry }

// Context returns the user context stack.
func (p *Engine) Context() *backtrack.Context { return p.ctx }

// Options returns the engine configuration.
func (p *Engine) Options() *Options { return p.opts }

// ResourceManager returns the engine's resource manager.
func (p *Engine) ResourceManager() *ResourceManager { return p.rm }

// Assertions returns the assertion store of the current session.
func (p *Engine) Assertions() *Assertions { return p.as }

// Preprocessor returns the define-fun preprocessor of the current
// session.
func (p *Engine) Preprocessor() *Preprocessor { return p.pp }

// Reasoner returns the in-process reasoner.
func (p *Engine) Reasoner() Reasoner { return p.reasoner }

// Push opens a new user frame.
func (p *Engine) Push() {
	log.Debugf("smt: push (depth %d)", p.ctx.Depth())
	p.ctx.Push()
}

// Pop closes the innermost user frame, reverting all context-scoped
// state.
func (p *Engine) Pop() {
	log.Debugf("smt: pop (depth %d)", p.ctx.Depth())
	p.ctx.Pop()
}

// SpawnSubsolver creates a fresh reasoner with its own copy of the
// engine options.
func (p *Engine) SpawnSubsolver() Reasoner {
	return p.factory(p, p.opts.Clone())
}

// DefineFunction records a define-fun at the session level: the
// definitional equality is added to the assertion store, the
// substitution to the preprocessor, and the in-process reasoner is told
// directly.  Spawned subsolvers are seeded from the assertion store
// instead.
func (p *Engine) DefineFunction(sym *term.Term, formals []*term.Term, body *term.Term) {
	def := p.as.AddDefinition(sym, formals, body)
	p.pp.AddSubstitution(def.Child(0), def.Child(1))
	//
	if err := p.reasoner.DefineFunction(sym, formals, body); err != nil {
		log.Warnf("smt: reasoner rejected definition of %s: %v", sym, err)
	}
}

// SingleCallCheckSat runs one decision procedure invocation of the
// in-process reasoner over the given query.  Used by the non-incremental
// pipeline, which issues at most one distinct query per session.
func (p *Engine) SingleCallCheckSat(query []*term.Term) Result {
	for _, q := range query {
		if err := p.reasoner.AssertFormula(q); err != nil {
			return UnknownResult(err.Error())
		}
	}
	//
	return p.reasoner.CheckSat()
}
