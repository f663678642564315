package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "gr1").
		WithSynopsis("gr1 [opts] <specfile>").
		WithDescription(description).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return synth(cfg, cc, args)
		})
}

const description = `gr1 decides realizability of GR(1) specifications and, when realizable,
extracts an explicit finite-state strategy for the system player.

A specification declares environment inputs and system outputs, and
constrains both players with initial, transition and liveness sections.
gr1 answers whether the system can satisfy all of its liveness goals
infinitely often no matter what the environment does, as long as the
environment honors its own constraints.

The realizability verdict is printed to standard error; the strategy, when
extracted, goes to standard output. The exit code is zero for both
realizable and unrealizable specifications and nonzero on any error.`
