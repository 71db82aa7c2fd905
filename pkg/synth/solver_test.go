package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/smt/enum"
	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/term/rewrite"
)

func newSynthSolver(opts *smt.Options) (*smt.Engine, *Solver) {
	engine := smt.NewEngine(opts, enum.Factory)
	//
	return engine, NewSolver(engine)
}

// evalTerm applies a candidate realization to the given arguments and
// normalizes the result down to a constant.
func evalTerm(t *testing.T, r *term.Registry, sol *term.Term, args ...*term.Term) *term.Term {
	rw := rewrite.NewRewriter(r)
	out := rw.Rewrite(r.Apply(sol, args...))
	require.Equal(t, term.Const, out.Kind(), "expected constant, got %s", out)
	//
	return out
}

func TestSynthesizeConstantFunction(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	//
	s.AssertSygusConstraint(r.Equal(r.Apply(f, r.IntConst(0)), r.IntConst(0)), false)
	//
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSynthSolutions(solMap))
	require.Contains(t, solMap, f)
	//
	got := evalTerm(t, r, solMap[f], r.IntConst(0))
	assert.Equal(t, int64(0), got.Value())
}

func TestTrivialFunctionElimination(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	g := r.Var("g", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	require.NoError(t, s.DeclareSynthFun(g, nil, false, nil))
	//
	s.AssertSygusConstraint(r.Equal(r.Apply(f, r.IntConst(0)), r.IntConst(0)), false)
	//
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	// g is unused, hence omitted from the conjecture
	assert.Equal(t, []*term.Term{g}, s.TrivialFuns())
	//
	free := make(map[*term.Term]bool)
	term.FreeVariables(s.Conjecture(), free)
	assert.False(t, free[g])
	// yet every declared function receives a realization
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSynthSolutions(solMap))
	require.Len(t, solMap, 2)
	require.Contains(t, solMap, g)
	assert.Equal(t, term.Lambda, solMap[g].Kind())
	// the fabricated realization is well-typed for g
	got := evalTerm(t, r, solMap[g], r.IntConst(7))
	assert.True(t, got.Type().IsInt())
}

func TestMaxOfTwoWithGrammar(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
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
	max := r.Var("max", term.FunT([]*term.Type{term.IntT(), term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(max, startT, false, []*term.Term{x, y}))
	//
	u := r.Var("u", term.IntT())
	v := r.Var("v", term.IntT())
	s.DeclareSygusVar(u)
	s.DeclareSygusVar(v)
	//
	maxUV := r.Apply(max, u, v)
	s.AssertSygusConstraint(r.And(
		r.Compare(term.Geq, maxUV, u),
		r.Compare(term.Geq, maxUV, v),
		r.Or(r.Equal(maxUV, u), r.Equal(maxUV, v))), false)
	// top-level conjunction was split into its conjuncts
	assert.Len(t, s.GetSygusConstraints(), 3)
	//
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSynthSolutions(solMap))
	sol := solMap[max]
	require.NotNil(t, sol)
	//
	for i := int64(-2); i <= 2; i++ {
		for j := int64(-2); j <= 2; j++ {
			got := evalTerm(t, r, sol, r.IntConst(i), r.IntConst(j))
			//
			expected := i
			if j > i {
				expected = j
			}
			//
			assert.Equal(t, expected, got.Value(), "max(%d,%d)", i, j)
		}
	}
}

func TestInvariantSynthesis(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	inv := r.Var("inv", term.FunT([]*term.Type{term.IntT()}, term.BoolT()))
	require.NoError(t, s.DeclareSynthFun(inv, nil, true, nil))
	// pre: s = 0, trans: s' = s + 1, post: s >= 0
	sv := r.NamedBoundVar("s", term.IntT())
	sn := r.NamedBoundVar("sn", term.IntT())
	pre := r.Lambda(r.BoundVarListOf(sv), r.Equal(sv, r.IntConst(0)))
	trans := r.Lambda(r.BoundVarListOf(sv, sn), r.Equal(sn, r.Add(sv, r.IntConst(1))))
	post := r.Lambda(r.BoundVarListOf(sv), r.Compare(term.Geq, sv, r.IntConst(0)))
	//
	require.NoError(t, s.AssertSygusInvConstraint(inv, pre, trans, post))
	// the triple introduced the state variable and its primed copy
	assert.Len(t, s.GetSygusVars(), 2)
	assert.Len(t, s.GetSygusConstraints(), 1)
	//
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSynthSolutions(solMap))
	sol := solMap[inv]
	require.NotNil(t, sol)
	//
	holds := func(i int64) bool {
		return evalTerm(t, r, sol, r.IntConst(i)).IsTrue()
	}
	// initiation, consecution and safety on sampled states
	assert.True(t, holds(0))
	//
	for i := int64(-4); i <= 3; i++ {
		if holds(i) {
			assert.True(t, holds(i+1), "inv not inductive at %d", i)
			assert.True(t, i >= 0, "inv admits unsafe state %d", i)
		}
	}
}

func TestUnsatisfiableConjecture(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	//
	f0 := r.Apply(f, r.IntConst(0))
	s.AssertSygusConstraint(r.Equal(f0, r.IntConst(1)), false)
	s.AssertSygusConstraint(r.Equal(f0, r.IntConst(0)), false)
	//
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	assert.Equal(t, NoSolution, res.Kind())
	//
	solMap := make(map[*term.Term]*term.Term)
	assert.False(t, s.GetSynthSolutions(solMap))
}

func TestIllScopedGrammarRejected(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	x := r.NamedBoundVar("x", term.IntT())
	z := r.NamedBoundVar("z", term.IntT())
	// Start ::= z, where z is not a grammar argument
	start := term.NewSygusDatatype("Start", term.IntT(), []*term.Term{x})
	start.AddConstructor("z", z, nil)
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	err := s.DeclareSynthFun(f, term.DatatypeT(start), false, []*term.Term{x})
	//
	var gerr *GrammarError
	require.ErrorAs(t, err, &gerr)
	assert.Same(t, f, gerr.Fun)
	assert.Same(t, z, gerr.Op)
	// the failed declaration left the session untouched
	assert.Empty(t, s.GetSynthFunctions())
	assert.Nil(t, r.SygusTypeOf(f))
	assert.Nil(t, r.SygusArgumentListOf(f))
}

func TestSelfReferentialGrammarAccepted(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	x := r.NamedBoundVar("x", term.IntT())
	// Start ::= x | (f Start): the function under synthesis may appear
	// in its own grammar
	start := term.NewSygusDatatype("Start", term.IntT(), []*term.Term{x})
	startT := term.DatatypeT(start)
	a := r.NamedBoundVar("a", term.IntT())
	start.AddConstructor("x", x, nil)
	start.AddConstructor("f", r.Lambda(r.BoundVarListOf(a), r.Apply(f, a)),
		[]*term.Type{startT})
	//
	assert.NoError(t, s.DeclareSynthFun(f, startT, false, []*term.Term{x}))
}

func TestBacktrackRestoresState(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	u := r.Var("u", term.IntT())
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	s.DeclareSygusVar(u)
	s.AssertSygusConstraint(r.Equal(r.Apply(f, u), u), false)
	//
	e.Push()
	//
	g := r.Var("g", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(g, nil, false, nil))
	s.DeclareSygusVar(r.Var("v", term.IntT()))
	s.AssertSygusConstraint(r.Equal(r.Apply(g, u), u), false)
	s.AssertSygusConstraint(r.Compare(term.Geq, u, r.IntConst(0)), true)
	//
	assert.Len(t, s.GetSynthFunctions(), 2)
	assert.Len(t, s.GetSygusVars(), 2)
	assert.Len(t, s.GetSygusConstraints(), 2)
	assert.Len(t, s.GetSygusAssumptions(), 1)
	//
	e.Pop()
	//
	assert.Len(t, s.GetSynthFunctions(), 1)
	assert.Equal(t, []*term.Term{u}, s.GetSygusVars())
	assert.Len(t, s.GetSygusConstraints(), 1)
	assert.Empty(t, s.GetSygusAssumptions())
}

func TestStalenessTransitions(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	// a fresh session has no conjecture to be current
	assert.True(t, s.IsStale())
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	s.AssertSygusConstraint(r.Equal(r.Apply(f, r.IntConst(0)), r.IntConst(0)), false)
	assert.True(t, s.IsStale())
	//
	_, err := s.CheckSynth(false)
	require.NoError(t, err)
	assert.False(t, s.IsStale())
	// declaring a variable alone cannot invalidate the conjecture
	s.DeclareSygusVar(r.Var("u", term.IntT()))
	assert.False(t, s.IsStale())
	// asserting does
	s.AssertSygusConstraint(r.Equal(r.Apply(f, r.IntConst(1)), r.IntConst(1)), false)
	assert.True(t, s.IsStale())
}

func TestRepeatedCheckIdempotent(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	s.AssertSygusConstraint(r.Equal(r.Apply(f, r.IntConst(0)), r.IntConst(0)), false)
	//
	res1, err := s.CheckSynth(false)
	require.NoError(t, err)
	conj1 := s.Conjecture()
	//
	res2, err := s.CheckSynth(false)
	require.NoError(t, err)
	//
	assert.Equal(t, res1.Kind(), res2.Kind())
	assert.Same(t, conj1, s.Conjecture())
}

func TestRepeatedQueriesRequireIncremental(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	s.AssertSygusConstraint(r.Equal(r.Apply(f, r.IntConst(0)), r.IntConst(0)), false)
	//
	_, err := s.CheckSynth(false)
	require.NoError(t, err)
	// a differing query in direct mode is unsupported
	s.AssertSygusConstraint(r.Equal(r.Apply(f, r.IntConst(1)), r.IntConst(1)), false)
	//
	_, err = s.CheckSynth(false)
	var uerr *UnsupportedError
	assert.ErrorAs(t, err, &uerr)
}

func TestCheckSynthNext(t *testing.T) {
	opts := smt.DefaultOptions()
	opts.IncrementalSolving = true
	e, s := newSynthSolver(opts)
	r := e.Registry()
	// check-synth-next without a previous check is unsupported
	_, err := s.CheckSynth(true)
	var uerr *UnsupportedError
	require.ErrorAs(t, err, &uerr)
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	s.AssertSygusConstraint(r.Equal(r.Apply(f, r.IntConst(0)), r.IntConst(0)), false)
	//
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	sub := s.Subsolver()
	require.NotNil(t, sub)
	// a further check continues with the same subsolver
	res, err = s.CheckSynth(true)
	require.NoError(t, err)
	assert.Equal(t, Solution, res.Kind())
	assert.Same(t, sub, s.Subsolver())
}

func TestCheckSynthNextRequiresIncremental(t *testing.T) {
	_, s := newSynthSolver(smt.DefaultOptions())
	//
	_, err := s.CheckSynth(true)
	var uerr *UnsupportedError
	assert.ErrorAs(t, err, &uerr)
}

func TestSubsolverReplacedAfterPop(t *testing.T) {
	opts := smt.DefaultOptions()
	opts.IncrementalSolving = true
	e, s := newSynthSolver(opts)
	r := e.Registry()
	//
	e.Push()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	s.AssertSygusConstraint(r.Equal(r.Apply(f, r.IntConst(0)), r.IntConst(0)), false)
	//
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	sub1 := s.Subsolver()
	require.NotNil(t, sub1)
	//
	e.Pop()
	// popping reverted the declarations; a fresh problem must not be
	// discharged by the stale subsolver
	g := r.Var("g", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(g, nil, false, nil))
	s.AssertSygusConstraint(r.Equal(r.Apply(g, r.IntConst(1)), r.IntConst(1)), false)
	//
	res, err = s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	assert.NotSame(t, sub1, s.Subsolver())
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSynthSolutions(solMap))
	require.Contains(t, solMap, g)
	assert.NotContains(t, solMap, f)
}

func TestSolutionVerification(t *testing.T) {
	opts := smt.DefaultOptions()
	opts.CheckSynthSol = true
	e, s := newSynthSolver(opts)
	r := e.Registry()
	//
	h := r.Var("h", term.FunT([]*term.Type{term.BoolT()}, term.BoolT()))
	require.NoError(t, s.DeclareSynthFun(h, nil, false, nil))
	//
	s.AssertSygusConstraint(r.Apply(h, r.True()), false)
	s.AssertSygusConstraint(r.Not(r.Apply(h, r.False())), false)
	// verification panics on a bogus solution; completing is the test
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSynthSolutions(solMap))
	assert.True(t, evalTerm(t, r, solMap[h], r.True()).IsTrue())
	assert.True(t, evalTerm(t, r, solMap[h], r.False()).IsFalse())
}

func TestDefinedFunctionExpansion(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	// (define-fun inc ((a Int)) Int (+ a 1))
	inc := r.Var("inc", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	a := r.NamedBoundVar("a", term.IntT())
	e.DefineFunction(inc, []*term.Term{a}, r.Add(a, r.IntConst(1)))
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	//
	u := r.Var("u", term.IntT())
	s.DeclareSygusVar(u)
	// f(u) = inc(u), i.e. f is the successor function
	s.AssertSygusConstraint(r.Equal(r.Apply(f, u), r.Apply(inc, u)), false)
	//
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSynthSolutions(solMap))
	//
	for i := int64(-3); i <= 3; i++ {
		got := evalTerm(t, r, solMap[f], r.IntConst(i))
		assert.Equal(t, i+1, got.Value(), "f(%d)", i)
	}
}

func TestForallConstraintPromotesVariables(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	require.NoError(t, s.DeclareSynthFun(f, nil, false, nil))
	//
	u := r.NamedBoundVar("u", term.IntT())
	body := r.Equal(r.Apply(f, u), u)
	s.AssertSygusConstraint(r.Forall(r.BoundVarListOf(u), body), false)
	//
	assert.Equal(t, []*term.Term{u}, s.GetSygusVars())
	assert.Equal(t, []*term.Term{body}, s.GetSygusConstraints())
	//
	res, err := s.CheckSynth(false)
	require.NoError(t, err)
	require.Equal(t, Solution, res.Kind())
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, s.GetSynthSolutions(solMap))
	got := evalTerm(t, r, solMap[f], r.IntConst(3))
	assert.Equal(t, int64(3), got.Value())
}

func TestInvConstraintRejectsNonPredicate(t *testing.T) {
	e, s := newSynthSolver(smt.DefaultOptions())
	r := e.Registry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	//
	err := s.AssertSygusInvConstraint(f, f, f, f)
	var uerr *UnsupportedError
	assert.ErrorAs(t, err, &uerr)
	assert.Empty(t, s.GetSygusConstraints())
}
