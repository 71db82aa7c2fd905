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
package sygus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/util/sexp"
)

// ===================================================================
// Types
// ===================================================================

// parseType parses a sort: Int, Bool or (_ BitVec n).
func (p *Interpreter) parseType(s sexp.SExp) (*term.Type, error) {
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
			if width, err := strconv.ParseUint(symbolValue(node.Get(2)), 10, 16); err == nil && width > 0 {
				return term.BitVecT(uint(width)), nil
			}
		}
	}
	//
	return nil, p.errorOn(s, fmt.Sprintf("unknown sort %s", s))
}

// parseSortedVars parses a list of (name Sort) pairs into named bound
// variables.
func (p *Interpreter) parseSortedVars(s sexp.SExp) ([]*term.Term, error) {
	list, ok := s.(*sexp.List)
	if !ok {
		return nil, p.errorOn(s, "expected a variable list")
	}
	//
	vars := make([]*term.Term, list.Len())
	//
	for i, e := range list.Elements {
		pair, ok := e.(*sexp.List)
		if !ok || pair.Len() != 2 || !pair.Get(0).IsSymbol() {
			return nil, p.errorOn(e, "expected (name Sort)")
		}
		//
		typ, err := p.parseType(pair.Get(1))
		if err != nil {
			return nil, err
		}
		//
		vars[i] = p.registry.NamedBoundVar(symbolValue(pair.Get(0)), typ)
	}
	//
	return vars, nil
}

// ===================================================================
// Terms
// ===================================================================

// parseTerm parses a term over the symbols currently in scope.
func (p *Interpreter) parseTerm(s sexp.SExp) (*term.Term, error) {
	switch node := s.(type) {
	case *sexp.Symbol:
		return p.parseSymbol(node)
	case *sexp.List:
		return p.parseApplication(node)
	}
	//
	return nil, p.errorOn(s, "malformed term")
}

func (p *Interpreter) parseSymbol(node *sexp.Symbol) (*term.Term, error) {
	name := node.Value
	//
	switch {
	case name == "true":
		return p.registry.True(), nil
	case name == "false":
		return p.registry.False(), nil
	case strings.HasPrefix(name, "#b"):
		if v, err := strconv.ParseInt(name[2:], 2, 64); err == nil {
			return p.registry.BitVecConst(v, uint(len(name)-2)), nil
		}
	case strings.HasPrefix(name, "#x"):
		if v, err := strconv.ParseInt(name[2:], 16, 64); err == nil {
			return p.registry.BitVecConst(v, uint(4*(len(name)-2))), nil
		}
	default:
		if v, err := strconv.ParseInt(name, 10, 64); err == nil {
			return p.registry.IntConst(v), nil
		}
	}
	// during grammar parsing, non-terminals resolve specially
	if p.ntResolver != nil {
		if t, ok := p.ntResolver(name); ok {
			return t, nil
		}
	}
	//
	if t, ok := p.lookup(name); ok {
		return t, nil
	}
	//
	return nil, p.errorOn(node, fmt.Sprintf("unknown symbol %s", name))
}

func (p *Interpreter) parseApplication(node *sexp.List) (*term.Term, error) {
	if node.Len() == 0 || !node.Get(0).IsSymbol() {
		return nil, p.errorOn(node, "malformed term")
	}
	//
	op := symbolValue(node.Get(0))
	//
	switch op {
	case "let":
		return p.parseLet(node)
	case "exists", "forall":
		return p.parseQuantifier(node, op)
	}
	//
	args := make([]*term.Term, node.Len()-1)
	//
	for i := range args {
		arg, err := p.parseTerm(node.Get(i + 1))
		if err != nil {
			return nil, err
		}
		//
		args[i] = arg
	}
	//
	return p.buildApplication(node, op, args)
}

// buildApplication constructs the application of a builtin operator or a
// declared function, checking types up front so that ill-sorted input is
// reported as a syntax error rather than escalating.
func (p *Interpreter) buildApplication(node *sexp.List, op string, args []*term.Term) (*term.Term, error) {
	r := p.registry
	//
	switch op {
	case "not":
		if err := p.expectArgs(node, args, 1, term.BoolT()); err != nil {
			return nil, err
		}
		//
		return r.Not(args[0]), nil
	case "and":
		if err := p.expectArgs(node, args, len(args), term.BoolT()); err != nil {
			return nil, err
		}
		//
		return r.And(args...), nil
	case "or":
		if err := p.expectArgs(node, args, len(args), term.BoolT()); err != nil {
			return nil, err
		}
		//
		return r.Or(args...), nil
	case "=>":
		if err := p.expectArgs(node, args, 2, term.BoolT()); err != nil {
			return nil, err
		}
		//
		return r.Implies(args[0], args[1]), nil
	case "ite":
		if len(args) != 3 || !args[0].Type().IsBool() || !args[1].Type().Equals(args[2].Type()) {
			return nil, p.errorOn(node, "malformed ite")
		}
		//
		return r.Ite(args[0], args[1], args[2]), nil
	case "=":
		if len(args) != 2 || !args[0].Type().Equals(args[1].Type()) {
			return nil, p.errorOn(node, "ill-sorted equality")
		}
		//
		return r.Equal(args[0], args[1]), nil
	case "<=", "<", ">=", ">":
		if err := p.expectArgs(node, args, 2, term.IntT()); err != nil {
			return nil, err
		}
		//
		kinds := map[string]term.Kind{"<=": term.Leq, "<": term.Lt, ">=": term.Geq, ">": term.Gt}
		//
		return r.Compare(kinds[op], args[0], args[1]), nil
	case "+", "*":
		if len(args) == 0 {
			return nil, p.errorOn(node, "missing arguments")
		} else if err := p.expectArgs(node, args, len(args), term.IntT()); err != nil {
			return nil, err
		} else if op == "+" {
			return r.Add(args...), nil
		}
		//
		return r.Mul(args...), nil
	case "-":
		if err := p.expectArgs(node, args, len(args), term.IntT()); err != nil {
			return nil, err
		}
		//
		switch len(args) {
		case 1:
			return r.Neg(args[0]), nil
		case 2:
			return r.Sub(args[0], args[1]), nil
		}
		//
		return nil, p.errorOn(node, "malformed subtraction")
	}
	// not a builtin, hence a declared function
	fn, ok := p.lookup(op)
	if !ok {
		return nil, p.errorOn(node, fmt.Sprintf("unknown symbol %s", op))
	} else if !fn.Type().IsFun() {
		return nil, p.errorOn(node, fmt.Sprintf("%s is not a function", op))
	}
	//
	domain := fn.Type().ArgTypes()
	if len(args) != len(domain) {
		return nil, p.errorOn(node, fmt.Sprintf("%s expects %d arguments", op, len(domain)))
	}
	//
	for i, arg := range args {
		if !arg.Type().Equals(domain[i]) {
			return nil, p.errorOn(node, fmt.Sprintf("argument %d of %s is ill-sorted", i+1, op))
		}
	}
	//
	return r.Apply(fn, args...), nil
}

// expectArgs checks an exact argument count and a common argument type.
func (p *Interpreter) expectArgs(node *sexp.List, args []*term.Term, n int, typ *term.Type) error {
	if len(args) != n {
		return p.errorOn(node, fmt.Sprintf("expected %d arguments", n))
	}
	//
	for _, arg := range args {
		if !arg.Type().Equals(typ) {
			return p.errorOn(node, fmt.Sprintf("expected %s, got %s", typ, arg.Type()))
		}
	}
	//
	return nil
}

// parseLet parses (let ((x t)...) body) by binding each name to its
// parsed definition; the bindings are simultaneous, as in SMT-LIB.
func (p *Interpreter) parseLet(node *sexp.List) (*term.Term, error) {
	if node.Len() != 3 || !node.Get(1).IsList() {
		return nil, p.errorOn(node, "malformed let")
	}
	//
	scope := make(map[string]*term.Term)
	//
	for _, e := range node.Get(1).(*sexp.List).Elements {
		pair, ok := e.(*sexp.List)
		if !ok || pair.Len() != 2 || !pair.Get(0).IsSymbol() {
			return nil, p.errorOn(e, "expected (name term)")
		}
		//
		t, err := p.parseTerm(pair.Get(1))
		if err != nil {
			return nil, err
		}
		//
		name := symbolValue(pair.Get(0))
		if _, ok := scope[name]; ok {
			return nil, p.errorOn(pair, fmt.Sprintf("duplicate binding %s", name))
		}
		//
		scope[name] = t
	}
	//
	p.scopes = append(p.scopes, scope)
	body, err := p.parseTerm(node.Get(2))
	p.popScope()
	//
	return body, err
}

func (p *Interpreter) parseQuantifier(node *sexp.List, op string) (*term.Term, error) {
	if node.Len() != 3 {
		return nil, p.errorOn(node, "malformed quantifier")
	}
	//
	vars, err := p.parseSortedVars(node.Get(1))
	if err != nil {
		return nil, err
	} else if len(vars) == 0 {
		return nil, p.errorOn(node, "quantifier binds no variables")
	}
	//
	p.pushScope(vars)
	body, err := p.parseTerm(node.Get(2))
	p.popScope()
	//
	if err != nil {
		return nil, err
	} else if !body.Type().IsBool() {
		return nil, p.errorOn(node.Get(2), "quantifier body must be Boolean")
	}
	//
	bvl := p.registry.BoundVarListOf(vars...)
	//
	if op == "exists" {
		return p.registry.Exists(bvl, body), nil
	}
	//
	return p.registry.Forall(bvl, body), nil
}

// symbolValue returns the value of a symbol node; the caller has
// established the node is one.
func symbolValue(s sexp.SExp) string {
	return s.(*sexp.Symbol).Value
}
