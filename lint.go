package gr1

// SAT-based diagnostics for specifications. The game solver handles an
// unsatisfiable constraint fine (the side in question just loses or wins
// vacuously), but an author almost never means to write one, so the lint
// points at them before the fixpoint runs. Lint never changes the synthesis
// result.

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/go-air/gr1/spec"
)

// A Diagnostic is one lint finding.
type Diagnostic struct {
	Section string
	Line    int
	Msg     string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Section, d.Line, d.Msg)
	}
	return fmt.Sprintf("%s: %s", d.Section, d.Msg)
}

// Lint reports constraints that no valuation can satisfy: a contradictory
// initial+safety conjunction per side, and individual liveness goals that
// are constant false.
func Lint(doc *spec.Document) []Diagnostic {
	var diags []Diagnostic
	b := newLitBuilder()

	env := append(append([]spec.Formula{}, doc.EnvInit...), doc.EnvTrans...)
	if !b.sat(b.conj(env)) {
		diags = append(diags, Diagnostic{
			Section: "[ENV_INIT]/[ENV_TRANS]",
			Msg:     "environment initial and transition constraints are unsatisfiable",
		})
	}
	sys := append(append([]spec.Formula{}, doc.SysInit...), doc.SysTrans...)
	if !b.sat(b.conj(sys)) {
		diags = append(diags, Diagnostic{
			Section: "[SYS_INIT]/[SYS_TRANS]",
			Msg:     "system initial and transition constraints are unsatisfiable",
		})
	}
	for _, f := range doc.EnvLiveness {
		if !b.sat(b.lit(f.Root)) {
			diags = append(diags, Diagnostic{
				Section: "[ENV_LIVENESS]", Line: f.Line,
				Msg: fmt.Sprintf("liveness assumption %q is unsatisfiable", f.Src),
			})
		}
	}
	for _, f := range doc.SysLiveness {
		if !b.sat(b.lit(f.Root)) {
			diags = append(diags, Diagnostic{
				Section: "[SYS_LIVENESS]", Line: f.Line,
				Msg: fmt.Sprintf("liveness guarantee %q is unsatisfiable", f.Src),
			})
		}
	}
	return diags
}

// litBuilder turns formula trees into literals of a shared logic circuit.
// Variables are keyed by their spelled name, so the pre and post copies of
// a variable are distinct literals.
type litBuilder struct {
	c    *logic.C
	vars map[string]z.Lit
}

func newLitBuilder() *litBuilder {
	return &litBuilder{
		c:    logic.NewC(),
		vars: map[string]z.Lit{},
	}
}

func (b *litBuilder) conj(fs []spec.Formula) z.Lit {
	res := b.c.T
	for _, f := range fs {
		res = b.c.Ands(res, b.lit(f.Root))
	}
	return res
}

func (b *litBuilder) lit(n *spec.Node) z.Lit {
	switch n.Op {
	case spec.OpConst:
		if n.Val {
			return b.c.T
		}
		return b.c.F
	case spec.OpNot:
		return b.lit(n.L).Not()
	case spec.OpAnd:
		return b.c.Ands(b.lit(n.L), b.lit(n.R))
	case spec.OpOr:
		return b.c.Ors(b.lit(n.L), b.lit(n.R))
	}
	key := n.Name
	if n.Primed {
		key += "'"
	}
	if l, ok := b.vars[key]; ok {
		return l
	}
	l := b.c.Lit()
	b.vars[key] = l
	return l
}

func (b *litBuilder) sat(f z.Lit) bool {
	g := gini.New()
	b.c.ToCnf(g)
	g.Assume(f)
	return g.Solve() == 1
}
