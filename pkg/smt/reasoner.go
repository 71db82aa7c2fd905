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
)

// Reasoner is the interface of a background SMT engine as consumed by
// the synthesis core.  A reasoner owns its assertion stack; asserting a
// synthesis conjecture puts it into synthesis mode, in which solutions
// are retrieved through GetSubsolverSynthSolutions rather than inferred
// from the check verdict alone.
type Reasoner interface {
	// AssertFormula adds a formula to the reasoner's assertions.
	AssertFormula(t *term.Term) error
	// CheckSat runs one decision procedure invocation over the current
	// assertions.
	CheckSat() Result
	// DefineFunction introduces a defined function, equivalent to
	// asserting sym = (lambda formals body).
	DefineFunction(sym *term.Term, formals []*term.Term, body *term.Term) error
	// Options returns this reasoner's writable configuration.
	Options() *Options
	// GetSubsolverSynthSolutions reports the candidate realization for
	// each function bound by an asserted synthesis conjecture, following
	// the most recent check.  It returns false if no candidate
	// assignment is available.
	GetSubsolverSynthSolutions(solMap map[*term.Term]*term.Term) bool
}

// SubsolverFactory spawns a fresh reasoner sharing the engine's term
// registry and resource manager, with its own copy of the given options.
type SubsolverFactory func(*Engine, *Options) Reasoner
