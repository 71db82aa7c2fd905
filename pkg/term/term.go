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
package term

import (
	"fmt"
	"strings"
)

// Term is an immutable handle into the expression DAG of a Registry.
// Terms are hash-consed, hence two structurally equal terms built by the
// same registry are pointer-identical.
type Term struct {
	kind     Kind
	typ      *Type
	name     string
	value    int64
	children []*Term
	id       uint64
}

// Kind returns the top-level operator of this term.
func (p *Term) Kind() Kind { return p.kind }

// Type returns the type of this term.
func (p *Term) Type() *Type { return p.typ }

// Name returns the symbol name of a variable term.
func (p *Term) Name() string { return p.name }

// Value returns the value of a constant term.  Boolean constants are
// encoded as 0 and 1.
func (p *Term) Value() int64 {
	if p.kind != Const {
		panic("value of non-constant term")
	}
	//
	return p.value
}

// Id returns a registry-unique identifier for this term, usable as a
// hash.
func (p *Term) Id() uint64 { return p.id }

// Len returns the number of children of this term.
func (p *Term) Len() int { return len(p.children) }

// Child returns the ith child of this term.
func (p *Term) Child(i int) *Term { return p.children[i] }

// Children returns the ordered children of this term.  The returned
// slice must not be mutated.
func (p *Term) Children() []*Term { return p.children }

// IsTrue checks whether this term is the Boolean constant true.
func (p *Term) IsTrue() bool {
	return p.kind == Const && p.typ.IsBool() && p.value == 1
}

// IsFalse checks whether this term is the Boolean constant false.
func (p *Term) IsFalse() bool {
	return p.kind == Const && p.typ.IsBool() && p.value == 0
}

// BoundVars returns the variables bound by a binder term.
func (p *Term) BoundVars() []*Term {
	if !p.kind.IsBinder() {
		panic("bound variables of non-binder term")
	}
	//
	return p.children[0].children
}

// Body returns the body of a binder term.
func (p *Term) Body() *Term {
	if !p.kind.IsBinder() {
		panic("body of non-binder term")
	}
	//
	return p.children[1]
}

func (p *Term) String() string {
	switch p.kind {
	case Const:
		if p.typ.IsBool() {
			if p.value == 1 {
				return "true"
			}
			//
			return "false"
		} else if p.typ.kind == BitVecType {
			return fmt.Sprintf("#b%0*b", int(p.typ.width), p.value)
		} else if p.value < 0 {
			return fmt.Sprintf("(- %d)", -p.value)
		}
		//
		return fmt.Sprintf("%d", p.value)
	case Var, BoundVar:
		return p.name
	case BoundVarList:
		var builder strings.Builder
		//
		builder.WriteString("(")
		//
		for i, c := range p.children {
			if i != 0 {
				builder.WriteString(" ")
			}
			//
			fmt.Fprintf(&builder, "(%s %s)", c.name, c.typ.String())
		}
		//
		builder.WriteString(")")
		//
		return builder.String()
	case Apply:
		return p.lisp(p.children[0].String(), p.children[1:])
	default:
		return p.lisp(p.kind.String(), p.children)
	}
}

func (p *Term) lisp(head string, children []*Term) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(head)
	//
	for _, c := range children {
		builder.WriteString(" ")
		builder.WriteString(c.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
