// Package bf adapts a binary decision diagram package to the boolean
// function surface the synthesizer needs: connectives, quantification over
// variable cubes, and simultaneous renaming along paired variable vectors.
//
// A Manager owns the underlying BDD state. Every BF produced by a Manager is
// only meaningful together with that Manager and is valid for as long as the
// Manager is reachable.
package bf

import (
	"errors"
	"fmt"

	"github.com/dalzilio/rudd"
)

// BF is a boolean function over a Manager's variables.
type BF = rudd.Node

// Manager wraps the BDD package. Variable count is fixed at construction;
// callers count their variables before creating a Manager.
type Manager struct {
	bdd   *rudd.BDD
	nvars int
	err   error
}

// NewManager creates a manager with nvars variables, indexed [0..nvars).
func NewManager(nvars int) (*Manager, error) {
	n := nvars
	if n < 1 {
		// the BDD package wants at least one variable; a specification
		// with no declarations still needs the constants
		n = 1
	}
	bdd, err := rudd.New(n, rudd.Nodesize(1<<16), rudd.Cachesize(1<<14))
	if err != nil {
		return nil, fmt.Errorf("bf: cannot create bdd manager: %w", err)
	}
	return &Manager{bdd: bdd, nvars: nvars}, nil
}

// NumVars returns the number of variables requested at construction.
func (m *Manager) NumVars() int {
	return m.nvars
}

// Err reports the first fatal error the underlying package signalled, if
// any. Operations on a failed manager keep returning degenerate results, so
// checking once after a computation is enough.
func (m *Manager) Err() error {
	return m.err
}

func (m *Manager) ck(n BF) BF {
	if n == nil && m.err == nil {
		m.err = errors.New("bf: bdd manager failure (out of memory or misuse)")
	}
	return n
}

func (m *Manager) True() BF  { return m.bdd.True() }
func (m *Manager) False() BF { return m.bdd.False() }

// Var returns the function of the i'th variable.
func (m *Manager) Var(i int) BF { return m.ck(m.bdd.Ithvar(i)) }

// NVar returns the negation of the i'th variable.
func (m *Manager) NVar(i int) BF { return m.ck(m.bdd.NIthvar(i)) }

func (m *Manager) Not(f BF) BF      { return m.ck(m.bdd.Not(f)) }
func (m *Manager) And(a, b BF) BF   { return m.ck(m.bdd.And(a, b)) }
func (m *Manager) Or(a, b BF) BF    { return m.ck(m.bdd.Or(a, b)) }
func (m *Manager) Imp(a, b BF) BF   { return m.ck(m.bdd.Imp(a, b)) }
func (m *Manager) Biimp(a, b BF) BF { return m.ck(m.bdd.Equiv(a, b)) }

// Equal is semantic equality; on a shared manager equivalent functions are
// represented by the same node.
func (m *Manager) Equal(a, b BF) bool { return m.bdd.Equal(a, b) }

func (m *Manager) IsFalse(f BF) bool { return m.bdd.Equal(f, m.bdd.False()) }
func (m *Manager) IsTrue(f BF) bool  { return m.bdd.Equal(f, m.bdd.True()) }

// Cube returns the conjunction of the given variables, used as a
// quantification set.
func (m *Manager) Cube(vars []int) BF { return m.ck(m.bdd.Makeset(vars)) }

// Exist existentially quantifies the variables of cube out of f.
func (m *Manager) Exist(f, cube BF) BF { return m.ck(m.bdd.Exist(f, cube)) }

// Forall universally quantifies the variables of cube out of f. The BDD
// package only has existential quantification, so this is its dual.
func (m *Manager) Forall(f, cube BF) BF {
	return m.ck(m.bdd.Not(m.bdd.Exist(m.bdd.Not(f), cube)))
}

// AndExist computes Exist(And(a, b), cube) in one bottom-up pass.
func (m *Manager) AndExist(a, b, cube BF) BF {
	return m.ck(m.bdd.AndExist(cube, a, b))
}

// Cofactor restricts f by the chosen literal of variable v and removes v.
func (m *Manager) Cofactor(f BF, v int, positive bool) BF {
	lit := m.bdd.Ithvar(v)
	if !positive {
		lit = m.bdd.NIthvar(v)
	}
	return m.ck(m.bdd.Exist(m.bdd.And(f, lit), m.bdd.Makeset([]int{v})))
}

// A Subst renames variables; see Manager.Substitute.
type Subst struct {
	r rudd.Replacer
}

// NewSubst prepares a simultaneous renaming of the variables in from to the
// positionally matching variables in to. Substs are computed once and
// reused; building one per call is wasteful.
func (m *Manager) NewSubst(from, to []int) (*Subst, error) {
	if len(from) != len(to) {
		return nil, fmt.Errorf("bf: substitution vectors differ in length: %d vs %d", len(from), len(to))
	}
	r, err := m.bdd.NewReplacer(from, to)
	if err != nil {
		return nil, fmt.Errorf("bf: cannot build substitution: %w", err)
	}
	return &Subst{r: r}, nil
}

// Substitute applies s to f.
func (m *Manager) Substitute(f BF, s *Subst) BF {
	return m.ck(m.bdd.Replace(f, s.r))
}

// PickCube narrows f to a single satisfying assignment of vars, returning f
// conjoined with one literal per variable. The positive branch is taken
// whenever it is nonempty. The tie-break is observable: it decides which
// concrete moves an extracted strategy contains, so it must stay stable.
func (m *Manager) PickCube(f BF, vars []int) BF {
	for _, v := range vars {
		pos := m.bdd.And(f, m.bdd.Ithvar(v))
		if m.IsFalse(pos) {
			f = m.bdd.And(f, m.bdd.NIthvar(v))
		} else {
			f = pos
		}
	}
	return m.ck(f)
}

// ID returns a node identifier for f, stable while f is reachable. Equal
// functions on one manager share an ID.
func ID(f BF) int {
	return *f
}
