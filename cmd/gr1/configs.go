package main

import (
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	OnlyRealizability bool   `cli:"name=onlyRealizability desc='check realizability only, do not extract a strategy'"`
	Lint              bool   `cli:"name=lint desc='report unsatisfiable constraints before solving'"`
	Format            string `cli:"name=O aliases=ofmt desc='strategy output format: text, json, yaml'"`
	Filter            string `cli:"name=filter desc='boolean expression over state variables selecting states to list'"`

	Main *cli.Command
}
