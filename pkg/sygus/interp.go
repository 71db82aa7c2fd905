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

// Package sygus implements a SyGuS-IF (version 2) front-end: scripts
// are parsed into S-expressions, commands are interpreted against a
// synthesis solver, and solutions are printed back as define-fun
// commands.
package sygus

import (
	"fmt"
	"io"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/synth"
	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/util/sexp"
)

// Interpreter executes SyGuS-IF scripts against a synthesis solver.
type Interpreter struct {
	engine   *smt.Engine
	solver   *synth.Solver
	registry *term.Registry
	// Results and solutions are written here.
	out io.Writer
	// Innermost scope last; scopes follow push/pop.
	scopes []map[string]*term.Term
	// Logic declared by set-logic, if any.
	logic string
	// Resolves grammar non-terminal occurrences while parsing
	// productions; nil outside grammar parsing.
	ntResolver func(name string) (*term.Term, bool)
	//
	srcmap *sexp.SourceMap
}

// NewInterpreter constructs an interpreter over the given solver,
// writing results to out.
func NewInterpreter(solver *synth.Solver, out io.Writer) *Interpreter {
	return &Interpreter{
		engine:   solver.Engine(),
		solver:   solver,
		registry: solver.Engine().Registry(),
		out:      out,
		scopes:   []map[string]*term.Term{make(map[string]*term.Term)},
	}
}

// Logic returns the logic declared by set-logic, or the empty string.
func (p *Interpreter) Logic() string {
	return p.logic
}

// Run parses and executes an entire script, stopping at the first
// failing command.
func (p *Interpreter) Run(srcfile *sexp.SourceFile) error {
	sexps, srcmap, err := srcfile.ParseAll()
	if err != nil {
		return err
	}
	//
	p.srcmap = srcmap
	//
	for _, s := range sexps {
		if err := p.Execute(s); err != nil {
			return err
		}
	}
	//
	return nil
}

// Execute interprets a single command.
func (p *Interpreter) Execute(s sexp.SExp) error {
	list, ok := s.(*sexp.List)
	if !ok || list.Len() == 0 || !list.Get(0).IsSymbol() {
		return p.errorOn(s, "malformed command")
	}
	//
	switch list.Get(0).(*sexp.Symbol).Value {
	case "set-logic":
		return p.setLogic(list)
	case "set-option":
		return p.setOption(list)
	case "declare-var":
		return p.declareVar(list)
	case "define-fun":
		return p.defineFun(list)
	case "synth-fun":
		return p.synthFun(list, false)
	case "synth-inv":
		return p.synthFun(list, true)
	case "constraint":
		return p.constraint(list, false)
	case "assume":
		return p.constraint(list, true)
	case "inv-constraint":
		return p.invConstraint(list)
	case "check-synth":
		return p.checkSynth(list, false)
	case "check-synth-next":
		return p.checkSynth(list, true)
	case "push":
		return p.pushPop(list, true)
	case "pop":
		return p.pushPop(list, false)
	case "exit":
		return nil
	}
	//
	return p.errorOn(s, fmt.Sprintf("unknown command %s", list.Get(0)))
}

func (p *Interpreter) setLogic(list *sexp.List) error {
	if list.Len() != 2 || !list.Get(1).IsSymbol() {
		return p.errorOn(list, "malformed set-logic")
	}
	//
	p.logic = list.Get(1).(*sexp.Symbol).Value
	//
	return nil
}

// setOption maps the options this front-end understands onto the
// session configuration; unknown options are ignored with a warning, so
// scripts written for other solvers remain runnable.
func (p *Interpreter) setOption(list *sexp.List) error {
	if list.Len() != 3 || !list.Get(1).IsSymbol() || !list.Get(2).IsSymbol() {
		return p.errorOn(list, "malformed set-option")
	}
	//
	name := list.Get(1).(*sexp.Symbol).Value
	value := list.Get(2).(*sexp.Symbol).Value
	opts := p.engine.Options()
	//
	asBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, p.errorOn(list.Get(2), "expected boolean value")
		}
		//
		return b, nil
	}
	//
	var err error
	//
	switch name {
	case ":incremental":
		opts.IncrementalSolving, err = asBool()
	case ":sygus-stream":
		opts.SygusStream, err = asBool()
	case ":check-synth-sol":
		opts.CheckSynthSol, err = asBool()
	case ":sygus-rec-fun":
		opts.SygusRecFun, err = asBool()
	case ":cegis-sample":
		opts.CegisSampleMode = smt.CegisSampleMode(value)
	default:
		log.Warnf("sygus: ignoring unknown option %s", name)
	}
	//
	return err
}

func (p *Interpreter) declareVar(list *sexp.List) error {
	if list.Len() != 3 || !list.Get(1).IsSymbol() {
		return p.errorOn(list, "malformed declare-var")
	}
	//
	name := list.Get(1).(*sexp.Symbol).Value
	//
	typ, err := p.parseType(list.Get(2))
	if err != nil {
		return err
	}
	//
	v := p.registry.Var(name, typ)
	//
	if err := p.bind(list.Get(1), name, v); err != nil {
		return err
	}
	//
	p.solver.DeclareSygusVar(v)
	//
	return nil
}

func (p *Interpreter) defineFun(list *sexp.List) error {
	if list.Len() != 5 || !list.Get(1).IsSymbol() {
		return p.errorOn(list, "malformed define-fun")
	}
	//
	name := list.Get(1).(*sexp.Symbol).Value
	//
	formals, err := p.parseSortedVars(list.Get(2))
	if err != nil {
		return err
	}
	//
	ret, err := p.parseType(list.Get(3))
	if err != nil {
		return err
	}
	//
	typ := ret
	if len(formals) > 0 {
		typ = term.FunT(typesOf(formals), ret)
	}
	//
	sym := p.registry.Var(name, typ)
	//
	p.pushScope(formals)
	body, err := p.parseTerm(list.Get(4))
	p.popScope()
	//
	if err != nil {
		return err
	} else if !body.Type().Equals(ret) {
		return p.errorOn(list.Get(4), fmt.Sprintf("expected %s, got %s", ret, body.Type()))
	}
	//
	if err := p.bind(list.Get(1), name, sym); err != nil {
		return err
	}
	//
	p.engine.DefineFunction(sym, formals, body)
	//
	return nil
}

func (p *Interpreter) constraint(list *sexp.List, isAssume bool) error {
	if list.Len() != 2 {
		return p.errorOn(list, "malformed constraint")
	}
	//
	t, err := p.parseTerm(list.Get(1))
	if err != nil {
		return err
	} else if !t.Type().IsBool() {
		return p.errorOn(list.Get(1), "constraint must be Boolean")
	}
	//
	p.solver.AssertSygusConstraint(t, isAssume)
	//
	return nil
}

func (p *Interpreter) invConstraint(list *sexp.List) error {
	if list.Len() != 5 {
		return p.errorOn(list, "malformed inv-constraint")
	}
	//
	args := make([]*term.Term, 4)
	//
	for i := 0; i < 4; i++ {
		node := list.Get(i + 1)
		if !node.IsSymbol() {
			return p.errorOn(node, "expected a symbol")
		}
		//
		t, ok := p.lookup(node.(*sexp.Symbol).Value)
		if !ok {
			return p.errorOn(node, fmt.Sprintf("unknown symbol %s", node))
		}
		//
		args[i] = t
	}
	//
	if err := p.solver.AssertSygusInvConstraint(args[0], args[1], args[2], args[3]); err != nil {
		return p.errorOn(list, err.Error())
	}
	//
	return nil
}

func (p *Interpreter) checkSynth(list *sexp.List, isNext bool) error {
	if list.Len() != 1 {
		return p.errorOn(list, "malformed check-synth")
	}
	//
	res, err := p.solver.CheckSynth(isNext)
	if err != nil {
		return p.errorOn(list, err.Error())
	}
	//
	switch res.Kind() {
	case synth.Solution:
		solMap := make(map[*term.Term]*term.Term)
		//
		if !p.solver.GetSynthSolutions(solMap) {
			return p.errorOn(list, "solution retrieval failed")
		}
		//
		p.printSolutions(solMap)
	case synth.NoSolution:
		fmt.Fprintln(p.out, "infeasible")
	default:
		log.Infof("sygus: check-synth failed (%s)", res.UnknownReason())
		fmt.Fprintln(p.out, "fail")
	}
	//
	return nil
}

func (p *Interpreter) pushPop(list *sexp.List, isPush bool) error {
	n := 1
	//
	if list.Len() == 2 {
		if !list.Get(1).IsSymbol() {
			return p.errorOn(list, "malformed push/pop")
		}
		//
		m, err := strconv.Atoi(list.Get(1).(*sexp.Symbol).Value)
		if err != nil || m < 0 {
			return p.errorOn(list.Get(1), "expected a non-negative count")
		}
		//
		n = m
	} else if list.Len() > 2 {
		return p.errorOn(list, "malformed push/pop")
	}
	//
	for i := 0; i < n; i++ {
		if isPush {
			p.engine.Push()
			p.scopes = append(p.scopes, make(map[string]*term.Term))
		} else {
			if len(p.scopes) == 1 {
				return p.errorOn(list, "pop without matching push")
			}
			//
			p.engine.Pop()
			p.scopes = p.scopes[:len(p.scopes)-1]
		}
	}
	//
	return nil
}

// ===================================================================
// Symbol table
// ===================================================================

// bind adds a symbol to the innermost scope, rejecting redeclaration
// within the same scope.
func (p *Interpreter) bind(node sexp.SExp, name string, t *term.Term) error {
	scope := p.scopes[len(p.scopes)-1]
	//
	if _, ok := scope[name]; ok {
		return p.errorOn(node, fmt.Sprintf("symbol %s already declared", name))
	}
	//
	scope[name] = t
	//
	return nil
}

// lookup resolves a symbol, innermost scope first.
func (p *Interpreter) lookup(name string) (*term.Term, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if t, ok := p.scopes[i][name]; ok {
			return t, true
		}
	}
	//
	return nil, false
}

// pushScope opens a scope binding the given (named) variables.
func (p *Interpreter) pushScope(vars []*term.Term) {
	scope := make(map[string]*term.Term, len(vars))
	for _, v := range vars {
		scope[v.Name()] = v
	}
	//
	p.scopes = append(p.scopes, scope)
}

func (p *Interpreter) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

// errorOn constructs a syntax error located at the given node.
func (p *Interpreter) errorOn(node sexp.SExp, msg string) error {
	if p.srcmap != nil {
		return p.srcmap.SyntaxError(node, msg)
	}
	//
	return fmt.Errorf("%s: %s", node, msg)
}

// typesOf projects the types of a variable list.
func typesOf(vars []*term.Term) []*term.Type {
	types := make([]*term.Type, len(vars))
	for i, v := range vars {
		types[i] = v.Type()
	}
	//
	return types
}
