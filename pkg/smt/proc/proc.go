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

// Package proc implements a reasoner backed by an external solver
// process, such as cvc5.  Each check renders the current assertions to
// a script, runs the configured command with the script on standard
// input, and parses the answer from standard output.  Plain queries are
// rendered as SMT-LIB 2; synthesis conjectures are rendered as SyGuS-IF
// and their solutions read back from the printed define-fun commands.
package proc

import (
	"bytes"
	"os/exec"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/term"
)

// definition is a define-fun carried into the script.
type definition struct {
	sym     *term.Term
	formals []*term.Term
	body    *term.Term
}

// Solver drives an external solver process.
type Solver struct {
	registry *term.Registry
	opts     *smt.Options
	//
	asserted    []*term.Term
	assertedSet map[*term.Term]bool
	defs        []definition
	// Solutions parsed from the most recent successful check of a
	// synthesis conjecture.
	solutions map[*term.Term]*term.Term
	solved    bool
}

var _ smt.Reasoner = (*Solver)(nil)

// Factory spawns an external-process reasoner over the given engine; it
// satisfies smt.SubsolverFactory.
func Factory(engine *smt.Engine, opts *smt.Options) smt.Reasoner {
	return &Solver{
		registry:    engine.Registry(),
		opts:        opts,
		assertedSet: make(map[*term.Term]bool),
	}
}

// AssertFormula adds a formula to this reasoner's assertions.
func (p *Solver) AssertFormula(t *term.Term) error {
	if p.assertedSet[t] {
		return nil
	}
	//
	if t.Kind() == term.SygusConjecture {
		for _, a := range p.asserted {
			if a.Kind() == term.SygusConjecture {
				return errors.New("multiple synthesis conjectures asserted")
			}
		}
	}
	//
	p.assertedSet[t] = true
	p.asserted = append(p.asserted, t)
	//
	return nil
}

// DefineFunction records a define-fun to be carried into every script.
func (p *Solver) DefineFunction(sym *term.Term, formals []*term.Term, body *term.Term) error {
	p.defs = append(p.defs, definition{sym, formals, body})
	//
	return nil
}

// Options returns this reasoner's writable configuration.
func (p *Solver) Options() *smt.Options {
	return p.opts
}

// GetSubsolverSynthSolutions reports the solutions parsed from the most
// recent check, if any.
func (p *Solver) GetSubsolverSynthSolutions(solMap map[*term.Term]*term.Term) bool {
	if !p.solved {
		return false
	}
	//
	for f, s := range p.solutions {
		solMap[f] = s
	}
	//
	return true
}

// CheckSat renders the current assertions and runs the external solver
// over them.
func (p *Solver) CheckSat() smt.Result {
	p.solved = false
	p.solutions = nil
	//
	if len(p.opts.SolverCommand) == 0 {
		return smt.UnknownResult("no solver command configured")
	}
	//
	conjecture := p.findConjecture()
	//
	var script string
	//
	if conjecture != nil {
		script = p.sygusScript(conjecture)
	} else {
		script = p.smtlibScript()
	}
	//
	log.Debugf("proc: script:\n%s", script)
	//
	output, err := p.run(script)
	if err != nil {
		return smt.UnknownResult(err.Error())
	}
	//
	log.Debugf("proc: output:\n%s", output)
	//
	if conjecture != nil {
		return p.parseSynthResponse(conjecture, output)
	}
	//
	return parseCheckSatResponse(output)
}

// findConjecture locates the asserted synthesis conjecture, if any.
func (p *Solver) findConjecture() *term.Term {
	for _, a := range p.asserted {
		if a.Kind() == term.SygusConjecture {
			return a
		}
	}
	//
	return nil
}

// run executes the solver command with the given script on standard
// input, returning its standard output.
func (p *Solver) run(script string) (string, error) {
	cmd := exec.Command(p.opts.SolverCommand[0], p.opts.SolverCommand[1:]...)
	cmd.Stdin = bytes.NewBufferString(script)
	//
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	//
	if err := cmd.Run(); err != nil {
		// many solvers exit non-zero on unknown; only fail when nothing
		// was produced
		if stdout.Len() == 0 {
			return "", errors.Wrapf(err, "running %s: %s", p.opts.SolverCommand[0],
				stderr.String())
		}
	}
	//
	return stdout.String(), nil
}
