package gr1

import (
	"fmt"
	"os"

	"github.com/go-air/gr1/bf"
	"github.com/go-air/gr1/debug"
)

// A LogEntry is one step of the solver's transition preference ranking: a
// set of transitions that bring the system strictly closer to guarantee
// Goal. Earlier entries are preferred during extraction.
type LogEntry struct {
	Goal        int
	Transitions bf.BF
}

// Result carries what a solve produced: the system-winning positions (over
// all pre variables), the strategy log in discovery order, and the
// realizability verdict for the game's initial constraints.
type Result struct {
	Realizable bool
	Winning    bf.BF
	Log        []LogEntry
}

// A Backend decides games and extracts strategies. Alternative synthesis
// algorithms plug in here; the package ships the nested-fixpoint solver
// returned by Default.
type Backend interface {
	Solve(*Context) (*Result, error)
	Extract(*Context, *Result) (*Machine, error)
}

// Default returns the standard GR(1) backend.
func Default() Backend {
	return fixpointBackend{}
}

type fixpointBackend struct{}

// fixpoint iterates a monotone operator to a fixed point, detected by
// semantic equality of consecutive iterates.
type fixpoint struct {
	cur  bf.BF
	done bool
}

func newFixpoint(init bf.BF) *fixpoint {
	return &fixpoint{cur: init}
}

func (fp *fixpoint) update(m *bf.Manager, next bf.BF) {
	if m.Equal(fp.cur, next) {
		fp.done = true
		return
	}
	fp.cur = next
}

// Solve computes the winning positions of the system player with the
// three-level nested fixpoint and records the strategy log.
//
// The outer loop (Z) is a greatest fixpoint cycling over the system goals.
// For each goal j, the middle least fixpoint (Y) grows the positions from
// which the system can force progress toward j. Inside, per environment
// assumption i, an innermost greatest fixpoint (X) admits positions where
// the system either reaches the accumulated progress transitions or keeps
// assumption i violated forever. The log is rewritten on every outer
// iteration, so the entries that survive are those of the final one,
// ordered from goal-closing transitions outward.
func (fixpointBackend) Solve(c *Context) (*Result, error) {
	m := c.man
	res := &Result{}
	z := newFixpoint(m.True())
	for round := 0; !z.done; round++ {
		res.Log = res.Log[:0]
		goalConj := m.True()
		for j, goal := range c.livenessGuarantees {
			live := m.And(goal, c.toPost(z.cur))
			y := newFixpoint(m.False())
			for !y.done {
				live = m.Or(live, c.toPost(y.cur))
				good := y.cur
				for _, assume := range c.livenessAssumptions {
					var paths bf.BF
					x := newFixpoint(m.True())
					for !x.done {
						paths = m.Or(live, m.And(c.toPost(x.cur), m.Not(assume)))
						paths = m.And(paths, c.safetySys)
						x.update(m, c.cox(paths))
					}
					good = m.Or(good, x.cur)
					res.Log = append(res.Log, LogEntry{Goal: j, Transitions: paths})
				}
				y.update(m, good)
			}
			goalConj = m.And(goalConj, y.cur)
		}
		if debug.Fixpoint() {
			fmt.Fprintf(os.Stderr, "gr1: outer iteration %d, %d log entries\n", round, len(res.Log))
		}
		z.update(m, goalConj)
	}
	res.Winning = z.cur

	// The system wins iff for every input allowed initially there is an
	// initial output landing in the winning region.
	bad := m.And(c.initEnv, m.Not(m.Exist(m.And(c.initSys, res.Winning), c.cubePreOutput)))
	res.Realizable = m.IsFalse(bad)

	if err := m.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
