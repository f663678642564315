// Package debug holds environment-gated debug switches.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Fixpoint bool
	Strategy bool
}

var d *debug

func init() {
	d = &debug{}
	d.Fixpoint = boolEnv("GR1_DEBUG_FIXPOINT")
	d.Strategy = boolEnv("GR1_DEBUG_STRATEGY")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Fixpoint() bool {
	return d.Fixpoint
}
func Strategy() bool {
	return d.Strategy
}
