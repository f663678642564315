package main

import (
	"fmt"
	"io"
	"os"

	"github.com/expr-lang/expr"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/go-air/gr1"
	"github.com/go-air/gr1/spec"
)

const banner = "gr1: GR(1) realizability checking and strategy synthesis"

func synth(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, banner)
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one specification file, got %d", cli.ErrUsage, len(args))
	}
	keep, err := stateFilter(cfg.Filter)
	if err != nil {
		return err
	}

	doc, err := spec.ParseFile(args[0])
	if err != nil {
		return err
	}
	if cfg.Lint {
		for _, d := range gr1.Lint(doc) {
			fmt.Fprintf(os.Stderr, "lint: %s\n", d)
		}
	}
	ctx, err := gr1.NewContext(doc)
	if err != nil {
		return err
	}
	backend := gr1.Default()
	res, err := backend.Solve(ctx)
	if err != nil {
		return err
	}
	printResult(os.Stderr, res.Realizable)
	if !res.Realizable || cfg.OnlyRealizability {
		return nil
	}
	mach, err := backend.Extract(ctx, res)
	if err != nil {
		return err
	}
	switch cfg.Format {
	case "", "text":
		return mach.WriteText(cc.Out, keep)
	case "json":
		return mach.WriteJSON(cc.Out)
	case "yaml":
		return mach.WriteYAML(cc.Out)
	default:
		return fmt.Errorf("%w: unknown output format %q", cli.ErrUsage, cfg.Format)
	}
}

func printResult(w io.Writer, realizable bool) {
	msg := "RESULT: Specification is realizable."
	paint := color.New(color.FgGreen)
	if !realizable {
		msg = "RESULT: Specification is not realizable."
		paint = color.New(color.FgRed)
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		paint.Fprintln(w, msg)
		return
	}
	fmt.Fprintln(w, msg)
}

// stateFilter compiles -filter into a predicate over explicit states. The
// expression sees each declared variable bound to its value in the state.
func stateFilter(src string) (func(*gr1.State) bool, error) {
	if src == "" {
		return nil, nil
	}
	prg, err := expr.Compile(src, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: bad filter expression: %w", cli.ErrUsage, err)
	}
	return func(st *gr1.State) bool {
		env := map[string]any{}
		for _, b := range st.Inputs {
			env[b.Name] = b.Value
		}
		for _, b := range st.Outputs {
			env[b.Name] = b.Value
		}
		out, err := expr.Run(prg, env)
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}, nil
}
