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

	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/util/sexp"
)

// synthFun interprets a synth-fun or synth-inv command.  The optional
// grammar is encoded as sygus datatypes: one per non-terminal, whose
// constructors carry the production operators.
func (p *Interpreter) synthFun(list *sexp.List, isInv bool) error {
	// synth-inv omits the return sort, which is implicitly Bool
	minLen := 4
	if isInv {
		minLen = 3
	}
	//
	if list.Len() < minLen || list.Len() > minLen+2 || !list.Get(1).IsSymbol() {
		return p.errorOn(list, "malformed synth-fun")
	}
	//
	name := symbolValue(list.Get(1))
	//
	formals, err := p.parseSortedVars(list.Get(2))
	if err != nil {
		return err
	}
	//
	ret := term.BoolT()
	if !isInv {
		if ret, err = p.parseType(list.Get(3)); err != nil {
			return err
		}
	}
	//
	typ := ret
	if len(formals) > 0 {
		typ = term.FunT(typesOf(formals), ret)
	}
	//
	fn := p.registry.Var(name, typ)
	// parse the grammar, if present
	var grammar *term.Type
	//
	switch list.Len() {
	case minLen:
		// no grammar
	case minLen + 2:
		grammar, err = p.parseGrammar(list.Get(minLen), list.Get(minLen+1), ret, formals)
		if err != nil {
			return err
		}
	default:
		return p.errorOn(list, "grammar requires both declarations and rules")
	}
	//
	if err := p.bind(list.Get(1), name, fn); err != nil {
		return err
	}
	//
	if err := p.solver.DeclareSynthFun(fn, grammar, isInv, formals); err != nil {
		return p.errorOn(list, err.Error())
	}
	//
	return nil
}

// parseGrammar parses the predeclaration and rule blocks of a grammar
// into sygus datatypes, returning the type of the starting non-terminal.
func (p *Interpreter) parseGrammar(predecl, rules sexp.SExp, ret *term.Type,
	formals []*term.Term) (*term.Type, error) {
	predeclList, ok1 := predecl.(*sexp.List)
	ruleList, ok2 := rules.(*sexp.List)
	//
	if !ok1 || !ok2 || predeclList.Len() == 0 || predeclList.Len() != ruleList.Len() {
		return nil, p.errorOn(predecl, "malformed grammar")
	}
	// first pass: declare every non-terminal
	nts := make(map[string]*term.Type, predeclList.Len())
	types := make([]*term.Type, predeclList.Len())
	//
	for i, e := range predeclList.Elements {
		pair, ok := e.(*sexp.List)
		if !ok || pair.Len() != 2 || !pair.Get(0).IsSymbol() {
			return nil, p.errorOn(e, "expected (NonTerminal Sort)")
		}
		//
		builtin, err := p.parseType(pair.Get(1))
		if err != nil {
			return nil, err
		}
		//
		ntName := symbolValue(pair.Get(0))
		if _, ok := nts[ntName]; ok {
			return nil, p.errorOn(pair, fmt.Sprintf("duplicate non-terminal %s", ntName))
		}
		//
		types[i] = term.DatatypeT(term.NewSygusDatatype(ntName, builtin, formals))
		nts[ntName] = types[i]
	}
	//
	if !types[0].Datatype().SygusType().Equals(ret) {
		return nil, p.errorOn(predecl, "starting non-terminal must produce the return sort")
	}
	// second pass: parse the productions of every non-terminal
	ruled := make(map[*term.Type]bool, ruleList.Len())
	//
	for _, e := range ruleList.Elements {
		group, ok := e.(*sexp.List)
		if !ok || group.Len() != 3 || !group.Get(0).IsSymbol() || !group.Get(2).IsList() {
			return nil, p.errorOn(e, "expected (NonTerminal Sort (production...))")
		}
		//
		ntName := symbolValue(group.Get(0))
		nt, ok := nts[ntName]
		//
		if !ok {
			return nil, p.errorOn(group, fmt.Sprintf("undeclared non-terminal %s", ntName))
		} else if ruled[nt] {
			return nil, p.errorOn(group, fmt.Sprintf("duplicate rules for %s", ntName))
		}
		//
		ruled[nt] = true
		//
		if sort, err := p.parseType(group.Get(1)); err != nil {
			return nil, err
		} else if !sort.Equals(nt.Datatype().SygusType()) {
			return nil, p.errorOn(group.Get(1), fmt.Sprintf("sort mismatch for %s", ntName))
		}
		//
		for _, prod := range group.Get(2).(*sexp.List).Elements {
			op, argTypes, err := p.parseProduction(nts, formals, prod)
			if err != nil {
				return nil, err
			}
			//
			nt.Datatype().AddConstructor(prod.String(), op, argTypes)
		}
	}
	//
	return types[0], nil
}

// parseProduction parses a single production into a sygus operator and
// its argument non-terminals.  Non-terminal occurrences become formals
// of a lambda operator, in occurrence order.
func (p *Interpreter) parseProduction(nts map[string]*term.Type, formals []*term.Term,
	prod sexp.SExp) (*term.Term, []*term.Type, error) {
	var holes []*term.Term
	//
	var argTypes []*term.Type
	//
	p.ntResolver = func(name string) (*term.Term, bool) {
		nt, ok := nts[name]
		if !ok {
			return nil, false
		}
		//
		hole := p.registry.FreshBoundVar(nt.Datatype().SygusType())
		holes = append(holes, hole)
		argTypes = append(argTypes, nt)
		//
		return hole, true
	}
	//
	p.pushScope(formals)
	body, err := p.parseTerm(prod)
	p.popScope()
	p.ntResolver = nil
	//
	if err != nil {
		return nil, nil, err
	} else if len(holes) == 0 {
		return body, nil, nil
	}
	//
	op := p.registry.Lambda(p.registry.BoundVarListOf(holes...), body)
	//
	return op, argTypes, nil
}
