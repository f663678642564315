package gr1

import (
	"strings"
	"testing"

	"github.com/go-air/gr1/bf"
	"github.com/go-air/gr1/spec"
)

func mustParse(t *testing.T, src string) *spec.Document {
	t.Helper()
	doc, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func mustContext(t *testing.T, src string) *Context {
	t.Helper()
	c, err := NewContext(mustParse(t, src))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustSolve(t *testing.T, c *Context) *Result {
	t.Helper()
	res, err := Default().Solve(c)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func mustExtract(t *testing.T, c *Context, res *Result) *Machine {
	t.Helper()
	mach, err := Default().Extract(c, res)
	if err != nil {
		t.Fatal(err)
	}
	return mach
}

// holds reports whether f contains the point assigning vals[i] to the
// pre variable at table index idxs[i]; idxs must cover f's support.
func holds(c *Context, f bf.BF, idxs []int, vals []bool) bool {
	g := f
	for i, idx := range idxs {
		lit := c.man.Var(idx)
		if !vals[i] {
			lit = c.man.NVar(idx)
		}
		g = c.man.And(g, lit)
	}
	return !c.man.IsFalse(g)
}

func binding(t *testing.T, bs []Binding, name string) bool {
	t.Helper()
	for _, b := range bs {
		if b.Name == name {
			return b.Value
		}
	}
	t.Fatalf("no binding for %q in %+v", name, bs)
	return false
}

// The scenario specifications used across the solver and strategy tests.
const (
	trivialRealizable = `
[OUTPUT]
o

[SYS_INIT]
o
`
	trivialUnrealizable = `
[INPUT]
i

[SYS_LIVENESS]
i
`
	requestGrant = `
[INPUT]
r

[OUTPUT]
g

[SYS_TRANS]
| ! r' g'

[SYS_LIVENESS]
| ! r g
`
	roundRobin = `
[OUTPUT]
a
b

[SYS_LIVENESS]
a

[SYS_LIVENESS]
b
`
	// once o is raised it can never drop, so only o=0 states can keep
	// satisfying the goal; the winning region is exactly !o
	latch = `
[OUTPUT]
o

[SYS_TRANS]
| ! o o'

[SYS_LIVENESS]
! o
`
	assumptionExploit = `
[INPUT]
i

[OUTPUT]
o

[ENV_LIVENESS]
i

[SYS_LIVENESS]
& i o
`
)
