package sygus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/smt/enum"
	"github.com/consensys/go-sygus/pkg/synth"
	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/term/rewrite"
	"github.com/consensys/go-sygus/pkg/util/sexp"
)

func runScript(t *testing.T, script string) (*Interpreter, string, error) {
	engine := smt.NewEngine(smt.DefaultOptions(), enum.Factory)
	solver := synth.NewSolver(engine)
	//
	var out strings.Builder
	//
	interp := NewInterpreter(solver, &out)
	err := interp.Run(sexp.NewSourceFile("test.sy", []byte(script)))
	//
	return interp, out.String(), err
}

func TestScriptMaxOfTwo(t *testing.T) {
	script := `
(set-logic LIA)
(synth-fun max2 ((x Int) (y Int)) Int
  ((Start Int) (StartBool Bool))
  ((Start Int (x y (ite StartBool Start Start)))
   (StartBool Bool ((<= Start Start)))))
(declare-var a Int)
(declare-var b Int)
(constraint (>= (max2 a b) a))
(constraint (>= (max2 a b) b))
(constraint (or (= (max2 a b) a) (= (max2 a b) b)))
(check-synth)
`
	interp, out, err := runScript(t, script)
	require.NoError(t, err)
	//
	assert.Equal(t, "LIA", interp.Logic())
	assert.True(t, strings.HasPrefix(out, "(\n(define-fun max2 ((x Int) (y Int)) Int "))
	assert.True(t, strings.HasSuffix(out, ")\n)\n"))
	// the realization genuinely computes max on sampled points
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, interp.solver.GetSynthSolutions(solMap))
	//
	r := interp.registry
	rw := rewrite.NewRewriter(r)
	//
	funs := interp.solver.GetSynthFunctions()
	require.Len(t, funs, 1)
	sol := solMap[funs[0].Symbol]
	//
	for i := int64(-2); i <= 2; i++ {
		for j := int64(-2); j <= 2; j++ {
			got := rw.Rewrite(r.Apply(sol, r.IntConst(i), r.IntConst(j)))
			//
			expected := i
			if j > i {
				expected = j
			}
			//
			assert.Equal(t, expected, got.Value(), "max2(%d,%d)", i, j)
		}
	}
}

func TestScriptInvariantTrack(t *testing.T) {
	script := `
(set-logic LIA)
(synth-inv inv-f ((x Int)))
(define-fun pre-f ((x Int)) Bool (= x 0))
(define-fun trans-f ((x Int) (xp Int)) Bool (= xp (+ x 1)))
(define-fun post-f ((x Int)) Bool (>= x 0))
(inv-constraint inv-f pre-f trans-f post-f)
(check-synth)
`
	_, out, err := runScript(t, script)
	require.NoError(t, err)
	//
	assert.Contains(t, out, "(define-fun inv-f ((x Int)) Bool ")
}

func TestScriptInfeasible(t *testing.T) {
	script := `
(set-logic LIA)
(synth-fun f ((x Int)) Int)
(constraint (= (f 0) 0))
(constraint (= (f 0) 1))
(check-synth)
`
	_, out, err := runScript(t, script)
	require.NoError(t, err)
	assert.Equal(t, "infeasible\n", out)
}

func TestScriptDefinedFunction(t *testing.T) {
	script := `
(set-logic LIA)
(define-fun inc ((a Int)) Int (+ a 1))
(synth-fun f ((x Int)) Int)
(declare-var u Int)
(constraint (= (f u) (inc u)))
(check-synth)
`
	interp, out, err := runScript(t, script)
	require.NoError(t, err)
	require.Contains(t, out, "(define-fun f ((x Int)) Int ")
	//
	solMap := make(map[*term.Term]*term.Term)
	require.True(t, interp.solver.GetSynthSolutions(solMap))
	//
	r := interp.registry
	rw := rewrite.NewRewriter(r)
	//
	funs := interp.solver.GetSynthFunctions()
	got := rw.Rewrite(r.Apply(solMap[funs[0].Symbol], r.IntConst(5)))
	assert.Equal(t, int64(6), got.Value())
}

func TestScriptPushPopScoping(t *testing.T) {
	script := `
(set-logic LIA)
(push 1)
(declare-var a Int)
(pop 1)
(declare-var a Bool)
`
	interp, _, err := runScript(t, script)
	require.NoError(t, err)
	// the popped declaration is gone; the rebinding took its place
	a, ok := interp.lookup("a")
	require.True(t, ok)
	assert.True(t, a.Type().IsBool())
	assert.Len(t, interp.solver.GetSygusVars(), 1)
}

func TestScriptSetOption(t *testing.T) {
	script := `
(set-option :check-synth-sol true)
(set-option :cegis-sample use)
(set-option :produce-proofs true)
`
	interp, _, err := runScript(t, script)
	require.NoError(t, err)
	//
	opts := interp.engine.Options()
	assert.True(t, opts.CheckSynthSol)
	assert.Equal(t, smt.CegisSampleUse, opts.CegisSampleMode)
}

func TestScriptErrors(t *testing.T) {
	for _, script := range []string{
		"(constraint (= x 0))",                      // unknown symbol
		"(declare-var x Real)",                      // unknown sort
		"(declare-var x Int)(constraint x)",         // non-Boolean constraint
		"(declare-var x Int)(constraint (= x true))", // ill-sorted equality
		"(declare-var x Int)(declare-var x Int)",    // redeclaration
		"(pop)",                                     // unmatched pop
		"(frobnicate)",                              // unknown command
		"(check-synth extra)",                       // malformed check-synth
	} {
		_, _, err := runScript(t, script)
		assert.Error(t, err, "script %q", script)
	}
}

func TestScriptSyntaxErrorLocation(t *testing.T) {
	_, _, err := runScript(t, "(set-logic LIA)\n(constraint (= y 0))")
	require.Error(t, err)
	//
	var serr *sexp.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Span().Length())
	assert.Contains(t, err.Error(), "test.sy:2:")
	assert.Contains(t, err.Error(), "unknown symbol y")
}

func TestScriptLetAndQuantifiers(t *testing.T) {
	script := `
(set-logic LIA)
(synth-fun f ((x Int)) Int)
(constraint (forall ((u Int)) (let ((v (+ u 0))) (= (f v) v))))
(check-synth)
`
	interp, out, err := runScript(t, script)
	require.NoError(t, err)
	assert.Contains(t, out, "(define-fun f ((x Int)) Int ")
	// the universal variable was promoted to a declared variable
	assert.Len(t, interp.solver.GetSygusVars(), 1)
}

func TestDefineFunFor(t *testing.T) {
	r := term.NewRegistry()
	//
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	x := r.NamedBoundVar("x", term.IntT())
	sol := r.Lambda(r.BoundVarListOf(x), r.Add(x, r.IntConst(1)))
	//
	assert.Equal(t, "(define-fun f ((x Int)) Int (+ x 1))", DefineFunFor(f, sol))
	// nullary realizations print with an empty argument list
	c := r.Var("c", term.IntT())
	assert.Equal(t, "(define-fun c () Int 5)", DefineFunFor(c, r.IntConst(5)))
}
