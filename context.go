package gr1

import (
	"errors"
	"fmt"

	"github.com/go-air/gr1/bf"
	"github.com/go-air/gr1/spec"
)

// ErrInternal marks invariant violations: conditions that indicate a bug in
// the solver or extractor rather than bad input.
var ErrInternal = errors.New("internal error")

// Context holds one game, immutable after construction: the variable table,
// the compiled constraints of both players, and the quantification cubes
// and renaming vectors every fixpoint iteration reuses.
type Context struct {
	man  *bf.Manager
	vars []Variable

	initEnv   bf.BF
	initSys   bf.BF
	safetyEnv bf.BF
	safetySys bf.BF

	livenessAssumptions []bf.BF
	livenessGuarantees  []bf.BF

	preInputVars   []int
	preOutputVars  []int
	postInputVars  []int
	postOutputVars []int
	preVars        []int
	postVars       []int

	cubePreInput   bf.BF
	cubePreOutput  bf.BF
	cubePostInput  bf.BF
	cubePostOutput bf.BF
	cubePre        bf.BF

	preToPost *bf.Subst
	postToPre *bf.Subst
}

var (
	envInitRoles  = roles(PreInput)
	sysInitRoles  = roles(PreOutput)
	envTransRoles = roles(PreInput, PreOutput, PostInput)
	sysTransRoles = roles(PreInput, PreOutput, PostInput, PostOutput)
)

// NewContext compiles doc into a game. Role and name resolution errors are
// parse errors citing the offending formula's line.
func NewContext(doc *spec.Document) (*Context, error) {
	man, err := bf.NewManager(2 * len(doc.Decls))
	if err != nil {
		return nil, err
	}
	c := &Context{man: man}

	// Two BDD variables per declaration, pre then post, in file order,
	// so the two copies of a variable sit on adjacent levels.
	for _, d := range doc.Decls {
		pre, post := PreInput, PostInput
		if d.Kind == spec.Output {
			pre, post = PreOutput, PostOutput
		}
		c.vars = append(c.vars,
			Variable{Name: d.Name, Role: pre, Index: len(c.vars)},
			Variable{Name: d.Name + "'", Role: post, Index: len(c.vars) + 1})
	}

	c.initEnv, err = c.compileAll(doc.EnvInit, envInitRoles)
	if err != nil {
		return nil, err
	}
	c.initSys, err = c.compileAll(doc.SysInit, sysInitRoles)
	if err != nil {
		return nil, err
	}
	c.safetyEnv, err = c.compileAll(doc.EnvTrans, envTransRoles)
	if err != nil {
		return nil, err
	}
	c.safetySys, err = c.compileAll(doc.SysTrans, sysTransRoles)
	if err != nil {
		return nil, err
	}
	for _, f := range doc.EnvLiveness {
		g, err := c.compile(f, envTransRoles)
		if err != nil {
			return nil, err
		}
		c.livenessAssumptions = append(c.livenessAssumptions, g)
	}
	for _, f := range doc.SysLiveness {
		g, err := c.compile(f, sysTransRoles)
		if err != nil {
			return nil, err
		}
		c.livenessGuarantees = append(c.livenessGuarantees, g)
	}
	// A side with no Büchi goals gets a single trivial one. The fixpoint
	// is unsound over an empty goal list, so this is not cosmetic.
	if len(c.livenessAssumptions) == 0 {
		c.livenessAssumptions = append(c.livenessAssumptions, man.True())
	}
	if len(c.livenessGuarantees) == 0 {
		c.livenessGuarantees = append(c.livenessGuarantees, man.True())
	}

	for _, v := range c.vars {
		switch v.Role {
		case PreInput:
			c.preVars = append(c.preVars, v.Index)
			c.preInputVars = append(c.preInputVars, v.Index)
		case PreOutput:
			c.preVars = append(c.preVars, v.Index)
			c.preOutputVars = append(c.preOutputVars, v.Index)
		case PostInput:
			c.postVars = append(c.postVars, v.Index)
			c.postInputVars = append(c.postInputVars, v.Index)
		case PostOutput:
			c.postVars = append(c.postVars, v.Index)
			c.postOutputVars = append(c.postOutputVars, v.Index)
		}
	}
	c.cubePreInput = man.Cube(c.preInputVars)
	c.cubePreOutput = man.Cube(c.preOutputVars)
	c.cubePostInput = man.Cube(c.postInputVars)
	c.cubePostOutput = man.Cube(c.postOutputVars)
	c.cubePre = man.Cube(c.preVars)
	if len(c.preVars) > 0 {
		c.preToPost, err = man.NewSubst(c.preVars, c.postVars)
		if err != nil {
			return nil, err
		}
		c.postToPre, err = man.NewSubst(c.postVars, c.preVars)
		if err != nil {
			return nil, err
		}
	}
	if err := man.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Vars returns the variable table in declaration order.
func (c *Context) Vars() []Variable {
	return c.vars
}

func (c *Context) compileAll(fs []spec.Formula, allowed roleSet) (bf.BF, error) {
	res := c.man.True()
	for _, f := range fs {
		g, err := c.compile(f, allowed)
		if err != nil {
			return nil, err
		}
		res = c.man.And(res, g)
	}
	return res, nil
}

func (c *Context) compile(f spec.Formula, allowed roleSet) (bf.BF, error) {
	return c.compileNode(f.Root, f.Line, allowed)
}

func (c *Context) compileNode(n *spec.Node, line int, allowed roleSet) (bf.BF, error) {
	switch n.Op {
	case spec.OpConst:
		if n.Val {
			return c.man.True(), nil
		}
		return c.man.False(), nil
	case spec.OpNot:
		l, err := c.compileNode(n.L, line, allowed)
		if err != nil {
			return nil, err
		}
		return c.man.Not(l), nil
	case spec.OpAnd, spec.OpOr:
		l, err := c.compileNode(n.L, line, allowed)
		if err != nil {
			return nil, err
		}
		r, err := c.compileNode(n.R, line, allowed)
		if err != nil {
			return nil, err
		}
		if n.Op == spec.OpAnd {
			return c.man.And(l, r), nil
		}
		return c.man.Or(l, r), nil
	case spec.OpVar:
		v, ok := c.lookup(n.Name, n.Primed)
		if !ok {
			return nil, fmt.Errorf("%w: line %d: unknown variable %q", spec.ErrParse, line, n.Name)
		}
		if !allowed.has(v.Role) {
			return nil, fmt.Errorf("%w: line %d: variable %q (%s) is not allowed in this section",
				spec.ErrParse, line, n.Name, v.Role)
		}
		return c.man.Var(v.Index), nil
	}
	return nil, fmt.Errorf("%w: unhandled formula node", ErrInternal)
}

func (c *Context) lookup(base string, primed bool) (Variable, bool) {
	for _, v := range c.vars {
		if v.Role.Pre() == primed {
			continue
		}
		name := base
		if primed {
			name += "'"
		}
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// toPost renames every pre variable in f to its post copy.
func (c *Context) toPost(f bf.BF) bf.BF {
	if c.preToPost == nil {
		return f
	}
	return c.man.Substitute(f, c.preToPost)
}

// toPre renames every post variable in f to its pre copy.
func (c *Context) toPre(f bf.BF) bf.BF {
	if c.postToPre == nil {
		return f
	}
	return c.man.Substitute(f, c.postToPre)
}

// cox is the controllable predecessor: the positions from which, whatever
// admissible next input the environment picks, some next output keeps the
// joint transition inside paths. paths must already include the system
// safety constraint.
func (c *Context) cox(paths bf.BF) bf.BF {
	m := c.man
	return m.Forall(m.Exist(m.Imp(c.safetyEnv, paths), c.cubePostOutput), c.cubePostInput)
}
