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
package proc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/util/sexp"
)

// parseCheckSatResponse interprets the output of a (check-sat) query.
func parseCheckSatResponse(output string) smt.Result {
	for _, line := range strings.Split(output, "\n") {
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "sat":
			return smt.SatResult()
		case "unsat":
			return smt.UnsatResult()
		default:
			return smt.UnknownResult(strings.TrimSpace(line))
		}
	}
	//
	return smt.UnknownResult("no solver output")
}

// parseSynthResponse interprets the output of a (check-synth) query:
// either "infeasible", "fail", or a list of define-fun commands
// realizing the conjecture's functions.
func (p *Solver) parseSynthResponse(conjecture *term.Term, output string) smt.Result {
	trimmed := strings.TrimSpace(output)
	//
	switch {
	case strings.HasPrefix(trimmed, "infeasible"):
		return smt.UnsatResult()
	case strings.HasPrefix(trimmed, "fail"), trimmed == "":
		return smt.UnknownResult("solver failed")
	case strings.HasPrefix(trimmed, "unsat"):
		// some solvers report the status line before the solutions
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "unsat"))
	}
	//
	sexps, _, err := sexp.NewSourceFile("solver-output", []byte(trimmed)).ParseAll()
	if err != nil {
		return smt.UnknownResult(errors.Wrap(err, "parsing solver output").Error())
	}
	//
	funs := make(map[string]*term.Term)
	for _, f := range conjecture.BoundVars() {
		funs[f.Name()] = f
	}
	//
	solutions := make(map[*term.Term]*term.Term)
	//
	for _, defun := range flattenDefineFuns(sexps) {
		f, sol, err := p.parseDefineFun(defun, funs)
		if err != nil {
			return smt.UnknownResult(err.Error())
		}
		//
		solutions[f] = sol
	}
	//
	if len(solutions) != len(funs) {
		return smt.UnknownResult(
			fmt.Sprintf("expected %d solutions, got %d", len(funs), len(solutions)))
	}
	//
	p.solutions = solutions
	p.solved = true
	// deliberately not Sat: the conjecture was solved, which the core
	// detects through GetSubsolverSynthSolutions
	return smt.UnknownResult("")
}

// flattenDefineFuns extracts the define-fun lists from solver output,
// which may wrap them in an enclosing list.
func flattenDefineFuns(sexps []sexp.SExp) []*sexp.List {
	var defuns []*sexp.List
	//
	for _, s := range sexps {
		list, ok := s.(*sexp.List)
		if !ok {
			continue
		}
		//
		if list.MatchSymbols(1, "define-fun") {
			defuns = append(defuns, list)
		} else {
			defuns = append(defuns, flattenDefineFuns(list.Elements)...)
		}
	}
	//
	return defuns
}

// parseDefineFun reads one (define-fun name ((x T)...) T body) into a
// realization of the named function-to-synthesize.
func (p *Solver) parseDefineFun(list *sexp.List, funs map[string]*term.Term) (*term.Term, *term.Term, error) {
	if list.Len() != 5 || !list.Get(1).IsSymbol() || !list.Get(2).IsList() {
		return nil, nil, errors.Errorf("malformed define-fun %s", list)
	}
	//
	name := list.Get(1).(*sexp.Symbol).Value
	f, ok := funs[name]
	//
	if !ok {
		return nil, nil, errors.Errorf("unexpected solution for %s", name)
	}
	// formal parameters
	scope := make(map[string]*term.Term)
	//
	var formals []*term.Term
	//
	for _, e := range list.Get(2).(*sexp.List).Elements {
		pair, ok := e.(*sexp.List)
		if !ok || pair.Len() != 2 || !pair.Get(0).IsSymbol() {
			return nil, nil, errors.Errorf("malformed formal %s", e)
		}
		//
		typ, err := p.parseSort(pair.Get(1))
		if err != nil {
			return nil, nil, err
		}
		//
		v := p.registry.NamedBoundVar(pair.Get(0).(*sexp.Symbol).Value, typ)
		scope[v.Name()] = v
		formals = append(formals, v)
	}
	//
	body, err := p.parseBody(list.Get(4), scope)
	if err != nil {
		return nil, nil, err
	}
	//
	if len(formals) == 0 {
		return f, body, nil
	}
	//
	return f, p.registry.Lambda(p.registry.BoundVarListOf(formals...), body), nil
}

// parseSort reads a sort from solver output.
func (p *Solver) parseSort(s sexp.SExp) (*term.Type, error) {
	switch node := s.(type) {
	case *sexp.Symbol:
		switch node.Value {
		case "Int":
			return term.IntT(), nil
		case "Bool":
			return term.BoolT(), nil
		}
	case *sexp.List:
		if node.MatchSymbols(3, "_", "BitVec") && node.Len() == 3 {
			width, err := strconv.ParseUint(node.Get(2).(*sexp.Symbol).Value, 10, 16)
			if err == nil && width > 0 {
				return term.BitVecT(uint(width)), nil
			}
		}
	}
	//
	return nil, errors.Errorf("unknown sort %s", s)
}

// parseBody reads a term from solver output, over the given formals and
// the session's defined functions.
func (p *Solver) parseBody(s sexp.SExp, scope map[string]*term.Term) (*term.Term, error) {
	r := p.registry
	//
	if symbol, ok := s.(*sexp.Symbol); ok {
		switch symbol.Value {
		case "true":
			return r.True(), nil
		case "false":
			return r.False(), nil
		}
		//
		if v, err := strconv.ParseInt(symbol.Value, 10, 64); err == nil {
			return r.IntConst(v), nil
		} else if v, ok := scope[symbol.Value]; ok {
			return v, nil
		}
		//
		for _, def := range p.defs {
			if def.sym.Name() == symbol.Value {
				return def.sym, nil
			}
		}
		//
		return nil, errors.Errorf("unknown symbol %s", symbol.Value)
	}
	//
	list := s.(*sexp.List)
	if list.Len() == 0 || !list.Get(0).IsSymbol() {
		return nil, errors.Errorf("malformed term %s", s)
	}
	//
	op := list.Get(0).(*sexp.Symbol).Value
	args := make([]*term.Term, list.Len()-1)
	//
	for i := range args {
		arg, err := p.parseBody(list.Get(i+1), scope)
		if err != nil {
			return nil, err
		}
		//
		args[i] = arg
	}
	//
	comparisons := map[string]term.Kind{"<=": term.Leq, "<": term.Lt, ">=": term.Geq, ">": term.Gt}
	//
	switch {
	case op == "not" && len(args) == 1:
		return r.Not(args[0]), nil
	case op == "and":
		return r.And(args...), nil
	case op == "or":
		return r.Or(args...), nil
	case op == "=>" && len(args) == 2:
		return r.Implies(args[0], args[1]), nil
	case op == "ite" && len(args) == 3:
		return r.Ite(args[0], args[1], args[2]), nil
	case op == "=" && len(args) == 2:
		return r.Equal(args[0], args[1]), nil
	case comparisons[op] != 0 && len(args) == 2:
		return r.Compare(comparisons[op], args[0], args[1]), nil
	case op == "+" && len(args) > 0:
		return r.Add(args...), nil
	case op == "*" && len(args) > 0:
		return r.Mul(args...), nil
	case op == "-" && len(args) == 1:
		return r.Neg(args[0]), nil
	case op == "-" && len(args) == 2:
		return r.Sub(args[0], args[1]), nil
	}
	//
	if fn, err := p.parseBody(list.Get(0), scope); err == nil && fn.Type().IsFun() {
		return r.Apply(fn, args...), nil
	}
	//
	return nil, errors.Errorf("unknown operator %s", op)
}

// sortById orders variables by their registry identifier.
func sortById(vars []*term.Term) {
	sort.Slice(vars, func(i, j int) bool { return vars[i].Id() < vars[j].Id() })
}
