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
	"strings"

	"github.com/consensys/go-sygus/pkg/term"
)

// smtlibScript renders the current assertions as an SMT-LIB 2 script
// ending in (check-sat).
func (p *Solver) smtlibScript() string {
	var builder strings.Builder
	//
	builder.WriteString("(set-logic ALL)\n")
	//
	p.writeDefinitions(&builder)
	// free variables become declarations
	for _, v := range p.freeVariables(p.asserted) {
		writeDeclaration(&builder, v)
	}
	//
	for _, a := range p.asserted {
		fmt.Fprintf(&builder, "(assert %s)\n", a)
	}
	//
	builder.WriteString("(check-sat)\n")
	//
	return builder.String()
}

// sygusScript renders the current assertions as a SyGuS-IF script
// ending in (check-synth).  The synthesis conjecture has the form
// (sygus-forall (f...) [exists (v...)] (not phi)): its functions become
// synth-fun commands, its existential variables declare-var commands,
// and phi the constraint.
func (p *Solver) sygusScript(conjecture *term.Term) string {
	var builder strings.Builder
	//
	builder.WriteString("(set-logic ALL)\n")
	//
	p.writeDefinitions(&builder)
	//
	for _, f := range conjecture.BoundVars() {
		p.writeSynthFun(&builder, f)
	}
	//
	inner := conjecture.Body()
	//
	if inner.Kind() == term.Exists {
		for _, v := range inner.BoundVars() {
			fmt.Fprintf(&builder, "(declare-var %s %s)\n", v.Name(), v.Type())
		}
		//
		inner = inner.Body()
	}
	// background assertions are assumptions of the conjecture
	for _, a := range p.asserted {
		if a != conjecture {
			fmt.Fprintf(&builder, "(assume %s)\n", a)
		}
	}
	// the conjecture holds the negated obligation
	obligation := p.registry.Not(inner)
	if inner.Kind() == term.Not {
		obligation = inner.Child(0)
	}
	//
	fmt.Fprintf(&builder, "(constraint %s)\n", obligation)
	builder.WriteString("(check-synth)\n")
	//
	return builder.String()
}

// writeDefinitions renders the recorded define-funs, in order.
func (p *Solver) writeDefinitions(builder *strings.Builder) {
	for _, def := range p.defs {
		builder.WriteString("(define-fun ")
		builder.WriteString(def.sym.Name())
		builder.WriteString(" (")
		//
		for i, v := range def.formals {
			if i != 0 {
				builder.WriteString(" ")
			}
			//
			fmt.Fprintf(builder, "(%s %s)", v.Name(), v.Type())
		}
		//
		fmt.Fprintf(builder, ") %s %s)\n", def.body.Type(), def.body)
	}
}

// writeSynthFun renders a function-to-synthesize, including its grammar
// when one is attached.
func (p *Solver) writeSynthFun(builder *strings.Builder, f *term.Term) {
	formals := p.formalsOf(f)
	//
	ret := f.Type()
	if ret.IsFun() {
		ret = ret.Range()
	}
	//
	builder.WriteString("(synth-fun ")
	builder.WriteString(f.Name())
	builder.WriteString(" (")
	//
	for i, v := range formals {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		fmt.Fprintf(builder, "(%s %s)", v.Name(), v.Type())
	}
	//
	fmt.Fprintf(builder, ") %s", ret)
	//
	if grammar := p.registry.SygusTypeOf(f); grammar != nil {
		p.writeGrammar(builder, grammar.Datatype())
	}
	//
	builder.WriteString(")\n")
}

// writeGrammar renders the predeclaration and rule blocks of a grammar
// rooted at the given non-terminal.
func (p *Solver) writeGrammar(builder *strings.Builder, root *term.Datatype) {
	reachable := reachableNonTerminals(root)
	//
	builder.WriteString("\n  (")
	//
	for i, dt := range reachable {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		fmt.Fprintf(builder, "(%s %s)", dt.Name(), dt.SygusType())
	}
	//
	builder.WriteString(")\n  (")
	//
	for i, dt := range reachable {
		if i != 0 {
			builder.WriteString("\n   ")
		}
		//
		fmt.Fprintf(builder, "(%s %s (", dt.Name(), dt.SygusType())
		//
		for j, c := range dt.Constructors() {
			if j != 0 {
				builder.WriteString(" ")
			}
			//
			builder.WriteString(p.renderProduction(c))
		}
		//
		builder.WriteString("))")
	}
	//
	builder.WriteString(")")
}

// renderProduction renders one constructor back into surface syntax,
// replacing the operator's formals by their non-terminal names.
func (p *Solver) renderProduction(c *term.Constructor) string {
	op := c.SygusOp()
	//
	if op.Kind() != term.Lambda {
		return op.String()
	}
	//
	subs := term.NewSubs(p.registry)
	//
	for i, v := range op.BoundVars() {
		nt := c.ArgType(i).Datatype()
		subs.Add(v, p.registry.Var(nt.Name(), v.Type()))
	}
	//
	return subs.Apply(op.Body()).String()
}

// reachableNonTerminals returns the non-terminals reachable from the
// root, root first.
func reachableNonTerminals(root *term.Datatype) []*term.Datatype {
	seen := map[*term.Datatype]bool{root: true}
	reachable := []*term.Datatype{root}
	//
	for index := 0; index < len(reachable); index++ {
		for _, c := range reachable[index].Constructors() {
			for j := 0; j < c.NumArgs(); j++ {
				if at := c.ArgType(j); at.IsSygusDatatype() && !seen[at.Datatype()] {
					seen[at.Datatype()] = true
					reachable = append(reachable, at.Datatype())
				}
			}
		}
	}
	//
	return reachable
}

// formalsOf returns the formal parameters of a function-to-synthesize,
// either from its attached argument list or freshly created from its
// signature.
func (p *Solver) formalsOf(f *term.Term) []*term.Term {
	if !f.Type().IsFun() {
		return nil
	} else if bvl := p.registry.SygusArgumentListOf(f); bvl != nil {
		return bvl.BoundVars()
	}
	//
	formals := make([]*term.Term, len(f.Type().ArgTypes()))
	for i, at := range f.Type().ArgTypes() {
		formals[i] = p.registry.NamedBoundVar(fmt.Sprintf("arg%d", i), at)
	}
	//
	return formals
}

// freeVariables collects the free variables of the given terms, in
// first-occurrence order by identifier.
func (p *Solver) freeVariables(terms []*term.Term) []*term.Term {
	free := make(map[*term.Term]bool)
	//
	for _, t := range terms {
		term.FreeVariables(t, free)
	}
	// definitions are not declarations
	for _, def := range p.defs {
		delete(free, def.sym)
	}
	//
	vars := make([]*term.Term, 0, len(free))
	for v := range free {
		vars = append(vars, v)
	}
	//
	sortById(vars)
	//
	return vars
}

// writeDeclaration renders the declaration of a free variable, which
// may be function-typed.
func writeDeclaration(builder *strings.Builder, v *term.Term) {
	if !v.Type().IsFun() {
		fmt.Fprintf(builder, "(declare-const %s %s)\n", v.Name(), v.Type())
		//
		return
	}
	//
	fmt.Fprintf(builder, "(declare-fun %s (", v.Name())
	//
	for i, at := range v.Type().ArgTypes() {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(at.String())
	}
	//
	fmt.Fprintf(builder, ") %s)\n", v.Type().Range())
}
