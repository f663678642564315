package spec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type section int

const (
	secNone section = iota
	secInput
	secOutput
	secEnvInit
	secSysInit
	secEnvTrans
	secSysTrans
	secEnvLiveness
	secSysLiveness
)

var sections = map[string]section{
	"[INPUT]":        secInput,
	"[OUTPUT]":       secOutput,
	"[ENV_INIT]":     secEnvInit,
	"[SYS_INIT]":     secSysInit,
	"[ENV_TRANS]":    secEnvTrans,
	"[SYS_TRANS]":    secSysTrans,
	"[ENV_LIVENESS]": secEnvLiveness,
	"[SYS_LIVENESS]": secSysLiveness,
}

// ParseFile reads the specification at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse reads a specification from r. Errors cite 1-based line numbers.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	declLines := map[string]int{}
	mode := secNone
	ln := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			s, ok := sections[line]
			if !ok {
				return nil, fmt.Errorf("%w: line %d: unknown section %q", ErrParse, ln, line)
			}
			mode = s
			continue
		}
		switch mode {
		case secNone:
			return nil, fmt.Errorf("%w: line %d: content before any section header", ErrParse, ln)
		case secInput, secOutput:
			kind := Input
			if mode == secOutput {
				kind = Output
			}
			if err := checkDeclName(line, ln, declLines); err != nil {
				return nil, err
			}
			declLines[line] = ln
			doc.Decls = append(doc.Decls, Decl{Name: line, Kind: kind, Line: ln})
		default:
			f, err := parseFormula(line, ln)
			if err != nil {
				return nil, err
			}
			switch mode {
			case secEnvInit:
				doc.EnvInit = append(doc.EnvInit, f)
			case secSysInit:
				doc.SysInit = append(doc.SysInit, f)
			case secEnvTrans:
				doc.EnvTrans = append(doc.EnvTrans, f)
			case secSysTrans:
				doc.SysTrans = append(doc.SysTrans, f)
			case secEnvLiveness:
				doc.EnvLiveness = append(doc.EnvLiveness, f)
			case secSysLiveness:
				doc.SysLiveness = append(doc.SysLiveness, f)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading: %w", err)
	}
	return doc, nil
}

// Variable names are arbitrary non-whitespace tokens, but tokens the formula
// grammar claims for itself cannot name variables, and the trailing
// apostrophe is reserved for next-state references.
func checkDeclName(name string, ln int, declLines map[string]int) error {
	switch name {
	case "|", "&", "!", "0", "1":
		return fmt.Errorf("%w: line %d: variable name %q collides with a formula token", ErrParse, ln, name)
	}
	if strings.HasSuffix(name, "'") {
		return fmt.Errorf("%w: line %d: variable name %q may not end in an apostrophe", ErrParse, ln, name)
	}
	if prev, ok := declLines[name]; ok {
		return fmt.Errorf("%w: line %d: variable %q already declared on line %d", ErrParse, ln, name, prev)
	}
	return nil
}

func parseFormula(line string, ln int) (Formula, error) {
	toks := strings.Fields(line)
	i := 0
	root, err := parsePrefix(toks, &i, ln)
	if err != nil {
		return Formula{}, err
	}
	if i < len(toks) {
		return Formula{}, fmt.Errorf("%w: line %d: stray token %q after formula", ErrParse, ln, toks[i])
	}
	return Formula{Line: ln, Root: root, Src: line}, nil
}

func parsePrefix(toks []string, i *int, ln int) (*Node, error) {
	if *i >= len(toks) {
		return nil, fmt.Errorf("%w: line %d: premature end of line", ErrParse, ln)
	}
	tok := toks[*i]
	*i++
	switch tok {
	case "|", "&":
		l, err := parsePrefix(toks, i, ln)
		if err != nil {
			return nil, err
		}
		r, err := parsePrefix(toks, i, ln)
		if err != nil {
			return nil, err
		}
		op := OpOr
		if tok == "&" {
			op = OpAnd
		}
		return &Node{Op: op, L: l, R: r}, nil
	case "!":
		l, err := parsePrefix(toks, i, ln)
		if err != nil {
			return nil, err
		}
		return &Node{Op: OpNot, L: l}, nil
	case "0":
		return &Node{Op: OpConst, Val: false}, nil
	case "1":
		return &Node{Op: OpConst, Val: true}, nil
	}
	name, primed := strings.CutSuffix(tok, "'")
	if name == "" {
		return nil, fmt.Errorf("%w: line %d: missing variable name in token %q", ErrParse, ln, tok)
	}
	return &Node{Op: OpVar, Name: name, Primed: primed}, nil
}
