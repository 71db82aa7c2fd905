package smt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-sygus/pkg/term"
	"github.com/consensys/go-sygus/pkg/util/backtrack"
)

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	config := `
incremental: true
check-synth-sol: true
cegis-sample: use
backend: proc
solver-command: ["cvc5", "--lang=smt2"]
resource-limit: 1000
`
	require.NoError(t, os.WriteFile(path, []byte(config), 0644))
	//
	opts, err := LoadOptions(path)
	require.NoError(t, err)
	//
	assert.True(t, opts.IncrementalSolving)
	assert.True(t, opts.CheckSynthSol)
	assert.Equal(t, CegisSampleUse, opts.CegisSampleMode)
	assert.Equal(t, "proc", opts.Backend)
	assert.Equal(t, []string{"cvc5", "--lang=smt2"}, opts.SolverCommand)
	assert.Equal(t, uint64(1000), opts.ResourceLimit)
	// defaults survive when unmentioned
	assert.True(t, opts.SygusRecFun)
	assert.False(t, opts.SygusStream)
}

func TestLoadOptionsBadSampleMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cegis-sample: maybe\n"), 0644))
	//
	_, err := LoadOptions(path)
	assert.Error(t, err)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOptionsClone(t *testing.T) {
	opts := DefaultOptions()
	opts.SolverCommand = []string{"z3", "-in"}
	//
	clone := opts.Clone()
	clone.IncrementalSolving = true
	clone.SolverCommand[0] = "cvc5"
	//
	assert.False(t, opts.IncrementalSolving)
	assert.Equal(t, "z3", opts.SolverCommand[0])
}

func TestResourceManager(t *testing.T) {
	rm := NewResourceManager(10)
	//
	rm.Spend(9)
	assert.False(t, rm.Exhausted())
	rm.Spend(1)
	assert.True(t, rm.Exhausted())
	// never exhausted while disabled
	restore := rm.Disable()
	assert.False(t, rm.Exhausted())
	rm.Spend(100)
	restore()
	assert.True(t, rm.Exhausted())
	//
	rm.Reset()
	assert.False(t, rm.Exhausted())
}

func TestResourceManagerUnbounded(t *testing.T) {
	rm := NewResourceManager(0)
	rm.Spend(1 << 40)
	assert.False(t, rm.Exhausted())
}

func TestAssertionsFollowContext(t *testing.T) {
	r := term.NewRegistry()
	ctx := backtrack.NewContext()
	as := NewAssertions(r, ctx)
	//
	x := r.Var("x", term.IntT())
	as.Assert(r.Equal(x, r.IntConst(1)))
	//
	ctx.Push()
	as.Assert(r.Equal(x, r.IntConst(2)))
	as.AddDefinition(r.Var("c", term.IntT()), nil, r.IntConst(3))
	//
	assert.Len(t, as.GetAssertionList(), 3)
	assert.Len(t, as.GetAssertionListDefinitions(), 1)
	//
	ctx.Pop()
	//
	assert.Len(t, as.GetAssertionList(), 1)
	assert.Empty(t, as.GetAssertionListDefinitions())
}

func TestAddDefinitionShapes(t *testing.T) {
	r := term.NewRegistry()
	as := NewAssertions(r, backtrack.NewContext())
	// nullary: c = 5
	c := r.Var("c", term.IntT())
	def := as.AddDefinition(c, nil, r.IntConst(5))
	require.Equal(t, term.Equal, def.Kind())
	assert.Same(t, c, def.Child(0))
	assert.Same(t, r.IntConst(5), def.Child(1))
	// unary: f = (lambda (a) (+ a 1))
	f := r.Var("f", term.FunT([]*term.Type{term.IntT()}, term.IntT()))
	a := r.NamedBoundVar("a", term.IntT())
	def = as.AddDefinition(f, []*term.Term{a}, r.Add(a, r.IntConst(1)))
	assert.Equal(t, term.Lambda, def.Child(1).Kind())
}

func TestPreprocessorChainedDefinitions(t *testing.T) {
	r := term.NewRegistry()
	pp := NewPreprocessor(r, backtrack.NewContext())
	// a = 1, b = a + 1: expanding b must bottom out at constants
	a := r.Var("a", term.IntT())
	b := r.Var("b", term.IntT())
	pp.AddSubstitution(a, r.IntConst(1))
	pp.AddSubstitution(b, r.Add(a, r.IntConst(1)))
	//
	x := r.Var("x", term.IntT())
	out := pp.ApplySubstitutions(r.Equal(x, b))
	//
	assert.Same(t, r.Equal(x, r.Add(r.IntConst(1), r.IntConst(1))), out)
	// terms without defined symbols pass through untouched
	t2 := r.Equal(x, r.IntConst(0))
	assert.Same(t, t2, pp.ApplySubstitutions(t2))
}

func TestEnginePushPop(t *testing.T) {
	engine := NewEngine(DefaultOptions(), stubFactory)
	r := engine.Registry()
	//
	c := r.Var("c", term.IntT())
	engine.DefineFunction(c, nil, r.IntConst(1))
	//
	engine.Push()
	d := r.Var("d", term.IntT())
	engine.DefineFunction(d, nil, r.IntConst(2))
	assert.Len(t, engine.Assertions().GetAssertionListDefinitions(), 2)
	engine.Pop()
	//
	assert.Len(t, engine.Assertions().GetAssertionListDefinitions(), 1)
	// the substitution for d was likewise retracted
	x := r.Var("x", term.IntT())
	assert.Same(t, r.Equal(x, d), engine.Preprocessor().ApplySubstitutions(r.Equal(x, d)))
}

func TestSpawnSubsolverClonesOptions(t *testing.T) {
	engine := NewEngine(DefaultOptions(), stubFactory)
	//
	sub := engine.SpawnSubsolver()
	sub.Options().CheckSynthSol = true
	//
	assert.False(t, engine.Options().CheckSynthSol)
}

// stubReasoner is a minimal reasoner answering unknown to everything.
type stubReasoner struct {
	opts *Options
}

func stubFactory(engine *Engine, opts *Options) Reasoner {
	return &stubReasoner{opts}
}

func (p *stubReasoner) AssertFormula(t *term.Term) error { return nil }

func (p *stubReasoner) CheckSat() Result { return UnknownResult("stub") }

func (p *stubReasoner) DefineFunction(sym *term.Term, formals []*term.Term, body *term.Term) error {
	return nil
}

func (p *stubReasoner) Options() *Options { return p.opts }

func (p *stubReasoner) GetSubsolverSynthSolutions(solMap map[*term.Term]*term.Term) bool {
	return false
}
