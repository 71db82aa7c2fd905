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

// TypeKind identifies the shape of a type.
type TypeKind uint8

const (
	// BoolType is the type of formulas.
	BoolType TypeKind = iota
	// IntType is the type of unbounded integers.
	IntType
	// BitVecType is the type of fixed-width bit-vectors.
	BitVecType
	// FunType is the type of functions from a domain tuple to a codomain.
	FunType
	// DatatypeType is the type of user datatypes, including sygus
	// datatypes encoding grammars.
	DatatypeType
)

// Type represents the type of a term.  Types are immutable; two types
// are interchangeable iff Equals holds.
type Type struct {
	kind   TypeKind
	width  uint
	domain []*Type
	rng    *Type
	dt     *Datatype
}

var boolType = &Type{kind: BoolType}
var intType = &Type{kind: IntType}

// BoolT returns the Boolean type.
func BoolT() *Type { return boolType }

// IntT returns the integer type.
func IntT() *Type { return intType }

// BitVecT returns the bit-vector type of the given width.
func BitVecT(width uint) *Type {
	return &Type{kind: BitVecType, width: width}
}

// FunT returns the function type with the given domain and codomain.
func FunT(domain []*Type, rng *Type) *Type {
	if len(domain) == 0 {
		panic("function type requires a non-empty domain")
	}
	//
	return &Type{kind: FunType, domain: domain, rng: rng}
}

// DatatypeT returns the type of the given datatype.
func DatatypeT(dt *Datatype) *Type {
	return &Type{kind: DatatypeType, dt: dt}
}

// Kind returns the kind of this type.
func (p *Type) Kind() TypeKind { return p.kind }

// Width returns the width of a bit-vector type.
func (p *Type) Width() uint { return p.width }

// IsBool checks whether this is the Boolean type.
func (p *Type) IsBool() bool { return p.kind == BoolType }

// IsInt checks whether this is the integer type.
func (p *Type) IsInt() bool { return p.kind == IntType }

// IsFun checks whether this is a function type.
func (p *Type) IsFun() bool { return p.kind == FunType }

// IsDatatype checks whether this is a datatype type.
func (p *Type) IsDatatype() bool { return p.kind == DatatypeType }

// IsSygusDatatype checks whether this is the type of a sygus datatype,
// i.e. a datatype encoding a grammar.
func (p *Type) IsSygusDatatype() bool {
	return p.kind == DatatypeType && p.dt.sygus
}

// ArgTypes returns the domain of a function type.
func (p *Type) ArgTypes() []*Type {
	if p.kind != FunType {
		panic("argument types of non-function type")
	}
	//
	return p.domain
}

// Range returns the codomain of a function type, or the type itself
// otherwise.
func (p *Type) Range() *Type {
	if p.kind == FunType {
		return p.rng
	}
	//
	return p
}

// Datatype returns the datatype underlying this type.
func (p *Type) Datatype() *Datatype {
	if p.kind != DatatypeType {
		panic("datatype of non-datatype type")
	}
	//
	return p.dt
}

// Equals checks whether two types are identical.
func (p *Type) Equals(o *Type) bool {
	if p == o {
		return true
	} else if p.kind != o.kind {
		return false
	}
	//
	switch p.kind {
	case BoolType, IntType:
		return true
	case BitVecType:
		return p.width == o.width
	case DatatypeType:
		return p.dt == o.dt
	case FunType:
		if len(p.domain) != len(o.domain) || !p.rng.Equals(o.rng) {
			return false
		}
		//
		for i := range p.domain {
			if !p.domain[i].Equals(o.domain[i]) {
				return false
			}
		}
		//
		return true
	}
	//
	return false
}

// key writes a canonical key for this type to the given builder, such
// that two types share a key iff Equals holds.  Datatypes are
// reference-identified, matching Equals.  The registry's intern table
// relies on this key, since constructors such as BitVecT allocate a
// fresh Type per call.
func (p *Type) key(b *strings.Builder) {
	switch p.kind {
	case BoolType:
		b.WriteString("B")
	case IntType:
		b.WriteString("I")
	case BitVecType:
		fmt.Fprintf(b, "V%d", p.width)
	case DatatypeType:
		fmt.Fprintf(b, "D%p", p.dt)
	case FunType:
		b.WriteString("F(")
		//
		for _, t := range p.domain {
			t.key(b)
			b.WriteString(" ")
		}
		//
		b.WriteString(")")
		p.rng.key(b)
	}
}

func (p *Type) String() string {
	switch p.kind {
	case BoolType:
		return "Bool"
	case IntType:
		return "Int"
	case BitVecType:
		return fmt.Sprintf("(_ BitVec %d)", p.width)
	case DatatypeType:
		return p.dt.name
	case FunType:
		var builder strings.Builder
		//
		builder.WriteString("(->")
		//
		for _, t := range p.domain {
			builder.WriteString(" ")
			builder.WriteString(t.String())
		}
		//
		builder.WriteString(" ")
		builder.WriteString(p.rng.String())
		builder.WriteString(")")
		//
		return builder.String()
	}
	//
	panic("unreachable")
}

// ============================================================================
// Datatypes
// ============================================================================

// Datatype represents a (possibly sygus) datatype.  A sygus datatype
// encodes one non-terminal of a grammar: each constructor carries a
// sygus operator, being the term that production expands to in the
// target language.
type Datatype struct {
	name string
	// Indicates whether this datatype encodes a grammar non-terminal.
	sygus bool
	// Type of terms this non-terminal produces (sygus only).
	builtin *Type
	// Formal argument list in scope for all productions (sygus only).
	varList []*Term
	ctors   []*Constructor
}

// Constructor represents a single constructor of a datatype.  For sygus
// datatypes, the operator is either a closed term (nullary production)
// or a lambda whose formals stand for the constructor's arguments.
type Constructor struct {
	name     string
	op       *Term
	argTypes []*Type
}

// NewDatatype constructs a plain (non-sygus) datatype.
func NewDatatype(name string) *Datatype {
	return &Datatype{name: name}
}

// NewSygusDatatype constructs a datatype encoding a grammar non-terminal
// producing terms of the given builtin type, with the given formal
// argument list in scope.
func NewSygusDatatype(name string, builtin *Type, varList []*Term) *Datatype {
	return &Datatype{name: name, sygus: true, builtin: builtin, varList: varList}
}

// AddConstructor appends a constructor to this datatype.
func (p *Datatype) AddConstructor(name string, op *Term, argTypes []*Type) {
	p.ctors = append(p.ctors, &Constructor{name, op, argTypes})
}

// Name returns the name of this datatype.
func (p *Datatype) Name() string { return p.name }

// IsSygus checks whether this datatype encodes a grammar non-terminal.
func (p *Datatype) IsSygus() bool { return p.sygus }

// SygusType returns the type of terms this grammar non-terminal
// produces.
func (p *Datatype) SygusType() *Type { return p.builtin }

// SygusVarList returns the formal argument list in scope for the
// productions of this non-terminal, or nil if there is none.
func (p *Datatype) SygusVarList() []*Term { return p.varList }

// Constructors returns the constructors of this datatype.
func (p *Datatype) Constructors() []*Constructor { return p.ctors }

// Name returns the name of this constructor.
func (p *Constructor) Name() string { return p.name }

// SygusOp returns the sygus operator of this constructor.
func (p *Constructor) SygusOp() *Term { return p.op }

// NumArgs returns the number of arguments of this constructor.
func (p *Constructor) NumArgs() int { return len(p.argTypes) }

// ArgType returns the type of the jth argument of this constructor.
func (p *Constructor) ArgType(j int) *Type { return p.argTypes[j] }
