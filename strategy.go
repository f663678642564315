package gr1

import (
	"fmt"
	"os"

	"github.com/go-air/gr1/bf"
	"github.com/go-air/gr1/debug"
)

// determinize narrows f to one satisfying assignment of vars by iterative
// cofactoring, preferring the positive branch. The preference is observable
// output: it fixes which explicit strategy the tool prints.
func (c *Context) determinize(f bf.BF, vars []int) bf.BF {
	return c.man.PickCube(f, vars)
}

// stateKey identifies an explicit strategy state: a concrete pre valuation
// (by its BDD node, unique per valuation on one manager) and the guarantee
// currently pursued.
type stateKey struct {
	node int
	rank int
}

type symState struct {
	cube  bf.BF
	rank  int
	succs []int
}

// Extract enumerates an explicit Mealy-style strategy from the winning
// initial positions. States are (pre valuation, pursued goal) pairs; for
// every admissible environment input the earliest applicable strategy-log
// entry of the current goal supplies the system response, and the goal
// advances when the chosen transition witnesses it.
func (fixpointBackend) Extract(c *Context, res *Result) (*Machine, error) {
	m := c.man

	index := map[stateKey]int{}
	var states []symState
	var queue []int

	add := func(cube bf.BF, rank int) int {
		k := stateKey{node: bf.ID(cube), rank: rank}
		if id, ok := index[k]; ok {
			return id
		}
		id := len(states)
		index[k] = id
		states = append(states, symState{cube: cube, rank: rank})
		queue = append(queue, id)
		return id
	}

	// One initial state per environment input allowed initially, with
	// some winning output choice; the pursued goal starts at 0.
	todo := m.And(m.And(c.initEnv, c.initSys), res.Winning)
	for !m.IsFalse(todo) {
		in := c.determinize(todo, c.preInputVars)
		full := c.determinize(in, c.preOutputVars)
		add(full, 0)
		todo = m.And(todo, m.Not(m.Exist(full, c.cubePreOutput)))
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		st := states[id]

		// Peel off admissible environment inputs one at a time. A
		// state whose inputs admit no environment move has no
		// successors: the environment is deadlocked and the system
		// wins by default.
		remaining := m.And(st.cube, c.safetyEnv)
		for !m.IsFalse(remaining) {
			inCap := c.determinize(remaining, c.postInputVars)

			var chosen bf.BF
			found := false
			for _, ent := range res.Log {
				if ent.Goal != st.rank {
					continue
				}
				cand := m.And(inCap, ent.Transitions)
				if !m.IsFalse(cand) {
					chosen = c.determinize(cand, c.postOutputVars)
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("%w: no strategy transition covers state %d (rank %d)",
					ErrInternal, id, st.rank)
			}

			nextRank := st.rank
			if !m.IsFalse(m.And(chosen, c.livenessGuarantees[st.rank])) {
				nextRank = (st.rank + 1) % len(c.livenessGuarantees)
			}
			succCube := c.toPre(m.Exist(chosen, c.cubePre))
			succ := add(succCube, nextRank)
			states[id].succs = append(states[id].succs, succ)
			if debug.Strategy() {
				fmt.Fprintf(os.Stderr, "gr1: state %d (rank %d) -> %d (rank %d)\n",
					id, st.rank, succ, nextRank)
			}

			remaining = m.And(remaining, m.Not(m.Exist(inCap, c.cubePre)))
		}
	}

	if err := m.Err(); err != nil {
		return nil, err
	}
	return c.explicate(states), nil
}

// explicate decodes the symbolic state set into the externally visible
// machine, reading each variable's value off the state cube.
func (c *Context) explicate(states []symState) *Machine {
	mach := &Machine{}
	for id, st := range states {
		out := State{ID: id, Rank: st.rank, Succs: st.succs}
		for _, v := range c.vars {
			if !v.Role.Pre() {
				continue
			}
			b := Binding{Name: v.Name, Value: !c.man.IsFalse(c.man.And(st.cube, c.man.Var(v.Index)))}
			if v.Role == PreInput {
				out.Inputs = append(out.Inputs, b)
			} else {
				out.Outputs = append(out.Outputs, b)
			}
		}
		mach.States = append(mach.States, out)
	}
	return mach
}
