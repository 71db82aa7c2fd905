package rewrite

import (
	"math"
	"testing"

	"github.com/consensys/go-sygus/pkg/term"
	"github.com/stretchr/testify/assert"
)

func TestConstantFolding(t *testing.T) {
	r := term.NewRegistry()
	rw := NewRewriter(r)
	//
	sum := r.Add(r.IntConst(1), r.IntConst(2), r.IntConst(3))
	assert.Same(t, r.IntConst(6), rw.Rewrite(sum))
	//
	cmp := r.Compare(term.Leq, r.IntConst(2), r.IntConst(1))
	assert.True(t, rw.Rewrite(cmp).IsFalse())
	//
	ite := r.Ite(r.True(), r.IntConst(1), r.IntConst(2))
	assert.Same(t, r.IntConst(1), rw.Rewrite(ite))
}

func TestBitVectorEquality(t *testing.T) {
	r := term.NewRegistry()
	rw := NewRewriter(r)
	//
	same := r.Equal(r.BitVecConst(1, 2), r.BitVecConst(1, 2))
	assert.True(t, rw.Rewrite(same).IsTrue())
	//
	diff := r.Equal(r.BitVecConst(1, 2), r.BitVecConst(2, 2))
	assert.True(t, rw.Rewrite(diff).IsFalse())
	//
	x := r.Var("x", term.BitVecT(2))
	eq := r.Equal(x, r.BitVecConst(1, 2))
	assert.Same(t, eq, rw.Rewrite(eq))
}

func TestOverflowNotFolded(t *testing.T) {
	r := term.NewRegistry()
	rw := NewRewriter(r)
	max := r.IntConst(math.MaxInt64)
	min := r.IntConst(math.MinInt64)
	// constant folding declines rather than wrap around
	assert.Equal(t, term.Add, rw.Rewrite(r.Add(max, r.IntConst(1))).Kind())
	assert.Equal(t, term.Sub, rw.Rewrite(r.Sub(min, r.IntConst(1))).Kind())
	assert.Equal(t, term.Mul, rw.Rewrite(r.Mul(max, r.IntConst(2))).Kind())
	assert.Equal(t, term.Neg, rw.Rewrite(r.Neg(min)).Kind())
	// in-range folding still applies
	assert.Same(t, r.IntConst(math.MaxInt64), rw.Rewrite(r.Add(max, r.IntConst(0))))
}

func TestBooleanUnits(t *testing.T) {
	r := term.NewRegistry()
	rw := NewRewriter(r)
	a := r.Var("a", term.BoolT())
	//
	assert.Same(t, a, rw.Rewrite(r.And(a, r.True())))
	assert.True(t, rw.Rewrite(r.And(a, r.False())).IsFalse())
	assert.True(t, rw.Rewrite(r.Or(a, r.True())).IsTrue())
	assert.Same(t, a, rw.Rewrite(r.Not(r.Not(a))))
	assert.Same(t, a, rw.Rewrite(r.Implies(r.True(), a)))
	assert.True(t, rw.Rewrite(r.Implies(a, a)).IsTrue())
}

func TestContradictionDetection(t *testing.T) {
	r := term.NewRegistry()
	rw := NewRewriter(r)
	x := r.Var("x", term.IntT())
	// x = 0 and x = 1 is directly contradictory
	conj := r.And(r.Equal(x, r.IntConst(0)), r.Equal(x, r.IntConst(1)))
	assert.True(t, rw.Rewrite(conj).IsFalse())
	// a and (not a) likewise
	a := r.Var("a", term.BoolT())
	assert.True(t, rw.Rewrite(r.And(a, r.Not(a))).IsFalse())
	// a or (not a) is a tautology
	assert.True(t, rw.Rewrite(r.Or(r.Not(a), a)).IsTrue())
}

func TestBetaReduction(t *testing.T) {
	r := term.NewRegistry()
	rw := NewRewriter(r)
	x := r.NamedBoundVar("x", term.IntT())
	lam := r.Lambda(r.BoundVarListOf(x), r.Add(x, r.IntConst(1)))
	//
	app := r.Apply(lam, r.IntConst(4))
	assert.Same(t, r.IntConst(5), rw.Rewrite(app))
}

func TestBetaReductionThroughSubstitution(t *testing.T) {
	r := term.NewRegistry()
	rw := NewRewriter(r)
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	x := r.NamedBoundVar("x", term.IntT())
	lam := r.Lambda(r.BoundVarListOf(x), x)
	// substitute f by the identity, then rewrite the application
	subs := term.NewSubs(r)
	subs.Add(f, lam)
	//
	app := subs.Apply(r.Apply(f, r.IntConst(9)))
	assert.Same(t, r.IntConst(9), rw.Rewrite(app))
}

func TestQuantifierOverClosedBody(t *testing.T) {
	r := term.NewRegistry()
	rw := NewRewriter(r)
	x := r.Var("x", term.IntT())
	ex := r.Exists(r.BoundVarListOf(x), r.And(r.True(), r.True()))
	//
	assert.True(t, rw.Rewrite(ex).IsTrue())
}

func TestIdempotence(t *testing.T) {
	r := term.NewRegistry()
	rw := NewRewriter(r)
	x := r.Var("x", term.IntT())
	y := r.Var("y", term.IntT())
	//
	terms := []*term.Term{
		r.And(r.Equal(x, y), r.Compare(term.Lt, x, r.IntConst(3))),
		r.Add(x, r.IntConst(0), y),
		r.Implies(r.Equal(x, y), r.Equal(y, x)),
	}
	//
	for _, tm := range terms {
		once := rw.Rewrite(tm)
		assert.Same(t, once, rw.Rewrite(once))
	}
}
