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

// Kind identifies the top-level operator of a term.
type Kind uint8

const (
	// Const represents a constant of Boolean, integer or bit-vector type.
	Const Kind = iota
	// Var represents a free symbol, e.g. a declared synthesis variable or
	// a function-to-synthesize.
	Var
	// BoundVar represents a variable only meaningful under a binder, e.g.
	// a lambda formal or a grammar argument.
	BoundVar
	// BoundVarList groups the variables bound by a quantifier or lambda.
	BoundVarList
	// Apply represents the application of a function-typed term to
	// arguments.
	Apply
	// Lambda represents a function literal binding its formals.
	Lambda
	// Not represents logical negation.
	Not
	// And represents logical conjunction over one or more children.
	And
	// Or represents logical disjunction over one or more children.
	Or
	// Implies represents logical implication.
	Implies
	// Ite represents if-then-else over a Boolean condition.
	Ite
	// Equal represents equality between two terms of the same type.
	Equal
	// Exists represents existential quantification.
	Exists
	// Forall represents universal quantification.
	Forall
	// SygusConjecture is the tagged universal quantifier wrapping a
	// synthesis conjecture.  It binds the functions-to-synthesize and is
	// recognized by reasoners as the synthesis target.
	SygusConjecture
	// Add represents integer addition over two or more children.
	Add
	// Sub represents integer subtraction.
	Sub
	// Neg represents integer negation.
	Neg
	// Mul represents integer multiplication.
	Mul
	// Leq represents integer less-than-or-equal.
	Leq
	// Lt represents integer less-than.
	Lt
	// Geq represents integer greater-than-or-equal.
	Geq
	// Gt represents integer greater-than.
	Gt
)

var kindNames = []string{
	Const: "const", Var: "var", BoundVar: "bvar", BoundVarList: "bvar-list",
	Apply: "apply", Lambda: "lambda", Not: "not", And: "and", Or: "or",
	Implies: "=>", Ite: "ite", Equal: "=", Exists: "exists", Forall: "forall",
	SygusConjecture: "sygus-forall", Add: "+", Sub: "-", Neg: "-", Mul: "*",
	Leq: "<=", Lt: "<", Geq: ">=", Gt: ">",
}

func (k Kind) String() string {
	return kindNames[k]
}

// IsBinder determines whether terms of this kind bind the variables of
// their first child.
func (k Kind) IsBinder() bool {
	switch k {
	case Lambda, Exists, Forall, SygusConjecture:
		return true
	}
	//
	return false
}

// IsVariable determines whether this kind denotes a variable-like leaf.
func (k Kind) IsVariable() bool {
	return k == Var || k == BoundVar
}
