package enum

import (
	"testing"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSolver(t *testing.T) (*smt.Engine, *Solver) {
	engine := smt.NewEngine(smt.DefaultOptions(), Factory)
	//
	return engine, engine.Reasoner().(*Solver)
}

func TestGroundSat(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	//
	require.NoError(t, s.AssertFormula(r.Compare(term.Leq, r.IntConst(1), r.IntConst(2))))
	assert.Equal(t, smt.Sat, s.CheckSat().Status())
}

func TestGroundUnsat(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	//
	require.NoError(t, s.AssertFormula(r.Equal(r.IntConst(1), r.IntConst(2))))
	assert.Equal(t, smt.Unsat, s.CheckSat().Status())
}

func TestBooleanUnsatExhaustive(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	a := r.Var("a", term.BoolT())
	b := r.Var("b", term.BoolT())
	//
	require.NoError(t, s.AssertFormula(r.Or(a, b)))
	require.NoError(t, s.AssertFormula(r.Not(a)))
	require.NoError(t, s.AssertFormula(r.Not(b)))
	//
	assert.Equal(t, smt.Unsat, s.CheckSat().Status())
}

func TestIntegerWitness(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	x := r.Var("x", term.IntT())
	//
	require.NoError(t, s.AssertFormula(r.Equal(r.Add(x, r.IntConst(1)), r.IntConst(3))))
	assert.Equal(t, smt.Sat, s.CheckSat().Status())
}

func TestIntegerOutOfBounds(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	x := r.Var("x", term.IntT())
	// satisfiable, but the witness lies outside the bounded grid
	require.NoError(t, s.AssertFormula(r.Equal(x, r.IntConst(100))))
	//
	result := s.CheckSat()
	assert.Equal(t, smt.Unknown, result.Status())
	assert.NotEmpty(t, result.UnknownReason())
}

func TestBitVectorWitness(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	x := r.Var("x", term.BitVecT(2))
	//
	require.NoError(t, s.AssertFormula(r.Equal(x, r.BitVecConst(1, 2))))
	assert.Equal(t, smt.Sat, s.CheckSat().Status())
}

func TestBitVectorUnsatExhaustive(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	x := r.Var("x", term.BitVecT(2))
	// no two-bit value equals both constants
	require.NoError(t, s.AssertFormula(r.Equal(x, r.BitVecConst(1, 2))))
	require.NoError(t, s.AssertFormula(r.Equal(x, r.BitVecConst(2, 2))))
	//
	assert.Equal(t, smt.Unsat, s.CheckSat().Status())
}

func TestDefinedFunction(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	g := r.Var("g", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	x := r.NamedBoundVar("x", term.IntT())
	//
	require.NoError(t, s.DefineFunction(g, []*term.Term{x}, r.Add(x, r.IntConst(1))))
	require.NoError(t, s.AssertFormula(r.Equal(r.Apply(g, r.IntConst(2)), r.IntConst(3))))
	//
	assert.Equal(t, smt.Sat, s.CheckSat().Status())
}

func TestSynthesizeConstantFunction(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	// conjecture: no valuation refutes f(0) = 0
	negBody := r.Not(r.Equal(r.Apply(f, r.IntConst(0)), r.IntConst(0)))
	conj := r.MkSygusConjecture([]*term.Term{f}, negBody)
	//
	require.NoError(t, s.AssertFormula(conj))
	result := s.CheckSat()
	assert.Equal(t, smt.Unknown, result.Status())
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSubsolverSynthSolutions(solMap))
	require.Contains(t, solMap, f)
	//
	sol := solMap[f]
	require.Equal(t, term.Lambda, sol.Kind())
	assert.Same(t, r.IntConst(0), sol.Body())
}

func TestUnsatisfiableConjecture(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	f0 := r.Apply(f, r.IntConst(0))
	// f(0) = 1 and f(0) = 0 has no realization
	negBody := r.Not(r.And(
		r.Equal(f0, r.IntConst(1)),
		r.Equal(f0, r.IntConst(0))))
	//
	require.NoError(t, s.AssertFormula(r.MkSygusConjecture([]*term.Term{f}, negBody)))
	assert.Equal(t, smt.Unsat, s.CheckSat().Status())
	//
	solMap := make(map[*term.Term]*term.Term)
	assert.False(t, s.GetSubsolverSynthSolutions(solMap))
}

func TestSynthesizeWithVariables(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	x := r.Var("x", term.IntT())
	// f(x) = x + 1 for all x, i.e. no x refutes it
	negBody := r.Not(r.Equal(r.Apply(f, x), r.Add(x, r.IntConst(1))))
	conj := r.MkSygusConjecture([]*term.Term{f},
		r.Exists(r.BoundVarListOf(x), negBody))
	//
	require.NoError(t, s.AssertFormula(conj))
	assert.Equal(t, smt.Unknown, s.CheckSat().Status())
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSubsolverSynthSolutions(solMap))
	// substituting the solution must refute the negated body everywhere
	subs := term.NewSubs(r)
	subs.Add(f, solMap[f])
	//
	for v := int64(-3); v <= 3; v++ {
		vsubs := term.NewSubs(r)
		vsubs.Add(x, r.IntConst(v))
		//
		ground := vsubs.Apply(subs.Apply(negBody))
		assert.True(t, s.rw.Rewrite(ground).IsFalse())
	}
}

func TestGrammarEnumeration(t *testing.T) {
	e, s := newSolver(t)
	r := e.Registry()
	x := r.NamedBoundVar("x", term.IntT())
	y := r.NamedBoundVar("y", term.IntT())
	// Start ::= x | y | (ite StartBool Start Start)
	// StartBool ::= (<= Start Start)
	start := term.NewSygusDatatype("Start", term.IntT(), []*term.Term{x, y})
	startBool := term.NewSygusDatatype("StartBool", term.BoolT(), []*term.Term{x, y})
	startT := term.DatatypeT(start)
	startBoolT := term.DatatypeT(startBool)
	//
	a := r.NamedBoundVar("a", term.IntT())
	b := r.NamedBoundVar("b", term.IntT())
	c := r.NamedBoundVar("c", term.BoolT())
	//
	start.AddConstructor("x", x, nil)
	start.AddConstructor("y", y, nil)
	start.AddConstructor("ite",
		r.Lambda(r.BoundVarListOf(c, a, b), r.Ite(c, a, b)),
		[]*term.Type{startBoolT, startT, startT})
	startBool.AddConstructor("leq",
		r.Lambda(r.BoundVarListOf(a, b), r.Compare(term.Leq, a, b)),
		[]*term.Type{startT, startT})
	//
	terms := s.enumerateGrammar(start)
	require.NotEmpty(t, terms)
	//
	expected := r.Ite(r.Compare(term.Leq, x, y), y, x)
	assert.Contains(t, terms, expected)
}

func TestTrustModeSkipsFullSearch(t *testing.T) {
	engine := smt.NewEngine(smt.DefaultOptions(), Factory)
	s := engine.SpawnSubsolver().(*Solver)
	s.Options().CegisSampleMode = smt.CegisSampleTrust
	r := engine.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	negBody := r.Not(r.Equal(r.Apply(f, r.IntConst(1)), r.IntConst(1)))
	require.NoError(t, s.AssertFormula(r.MkSygusConjecture([]*term.Term{f}, negBody)))
	//
	assert.Equal(t, smt.Unknown, s.CheckSat().Status())
	//
	solMap := make(map[*term.Term]*term.Term)
	assert.True(t, s.GetSubsolverSynthSolutions(solMap))
}
