// Package gr1 decides generalized reactivity(1) games and extracts explicit
// finite-state strategies.
//
// A game is set up from a spec.Document with NewContext, which compiles the
// declared variables and constraints into boolean functions and precomputes
// the quantification cubes and pre/post renaming vectors. A Backend then
// decides the game (Solve) and, when the system player wins, turns the
// solver's transition preferences into a Mealy-style Machine (Extract). The
// package ships one backend, the nested-fixpoint solver returned by Default.
//
// Contexts are immutable after construction and a solver only writes its
// own Result; extraction reads both and writes neither.
package gr1
