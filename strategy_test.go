package gr1

import (
	"testing"
)

func TestExtractTrivial(t *testing.T) {
	c := mustContext(t, trivialRealizable)
	res := mustSolve(t, c)
	mach := mustExtract(t, c, res)

	if len(mach.States) != 1 {
		t.Fatalf("got %d states, want 1", len(mach.States))
	}
	st := mach.States[0]
	if st.ID != 0 || st.Rank != 0 {
		t.Errorf("state = %+v", st)
	}
	if len(st.Inputs) != 0 {
		t.Errorf("unexpected inputs %+v", st.Inputs)
	}
	if !binding(t, st.Outputs, "o") {
		t.Error("o should be set in the only state")
	}
	if len(st.Succs) != 1 || st.Succs[0] != 0 {
		t.Errorf("succs = %v, want self loop", st.Succs)
	}
}

func TestExtractRequestGrant(t *testing.T) {
	c := mustContext(t, requestGrant)
	res := mustSolve(t, c)
	mach := mustExtract(t, c, res)

	if len(mach.States) == 0 {
		t.Fatal("no states extracted")
	}
	ids := map[int]bool{}
	for _, st := range mach.States {
		ids[st.ID] = true
	}
	initial := map[bool]bool{}
	for i, st := range mach.States {
		// no dangling successor, and every input admitted
		for _, s := range st.Succs {
			if !ids[s] {
				t.Fatalf("state %d has dangling successor %d", st.ID, s)
			}
		}
		if len(st.Succs) != 2 {
			t.Errorf("state %d should branch on both next inputs, has %v", st.ID, st.Succs)
		}
		// the grant obligation: whenever a state is entered with the
		// request raised, the grant must be up with it
		if binding(t, st.Inputs, "r") && !binding(t, st.Outputs, "g") {
			t.Errorf("state %d has r without g", st.ID)
		}
		if st.Rank != 0 {
			t.Errorf("state %d rank = %d with a single guarantee", st.ID, st.Rank)
		}
		if i < 2 {
			initial[binding(t, st.Inputs, "r")] = true
		}
	}
	// both initial inputs get a state
	if !initial[false] || !initial[true] {
		t.Error("expected initial states for r=0 and r=1")
	}
}

func TestExtractRoundRobin(t *testing.T) {
	c := mustContext(t, roundRobin)
	res := mustSolve(t, c)
	mach := mustExtract(t, c, res)

	ranks := map[int]bool{}
	for _, st := range mach.States {
		ranks[st.Rank] = true
		if len(st.Succs) != 1 {
			t.Errorf("state %d: deterministic game should have one successor, got %v", st.ID, st.Succs)
		}
	}
	if !ranks[0] || !ranks[1] {
		t.Errorf("ranks %v, want the strategy to cycle through both goals", ranks)
	}

	// walking the unique successors must alternate the pursued goal
	st := mach.States[0]
	for i := 0; i < 4; i++ {
		next := mach.States[st.Succs[0]]
		if next.Rank == st.Rank {
			t.Fatalf("rank stuck at %d between states %d and %d", st.Rank, st.ID, next.ID)
		}
		st = next
	}
}

func TestExtractAssumptionExploit(t *testing.T) {
	c := mustContext(t, assumptionExploit)
	res := mustSolve(t, c)
	mach := mustExtract(t, c, res)

	if len(mach.States) == 0 {
		t.Fatal("no states extracted")
	}
	for _, st := range mach.States {
		for _, s := range st.Succs {
			if s < 0 || s >= len(mach.States) {
				t.Fatalf("state %d has dangling successor %d", st.ID, s)
			}
		}
		// o is the system's only lever: with the input up it must grab
		// the goal, so an i-state without o would be a wasted move
		if binding(t, st.Inputs, "i") && !binding(t, st.Outputs, "o") {
			t.Errorf("state %d has i without o", st.ID)
		}
	}
}

// The latch forces the negative branch of the determinizer: raising o is
// allowed by safety but loses, so the strategy must keep o down.
func TestExtractLatch(t *testing.T) {
	c := mustContext(t, latch)
	res := mustSolve(t, c)
	mach := mustExtract(t, c, res)

	if len(mach.States) != 1 {
		t.Fatalf("got %d states, want 1", len(mach.States))
	}
	st := mach.States[0]
	if binding(t, st.Outputs, "o") {
		t.Error("strategy raised o and trapped itself")
	}
	if len(st.Succs) != 1 || st.Succs[0] != 0 {
		t.Errorf("succs = %v, want self loop", st.Succs)
	}
}

func TestDeterminizeIdempotent(t *testing.T) {
	c := mustContext(t, requestGrant)
	m := c.man
	f := m.Or(m.Var(0), m.And(m.Var(2), m.Not(m.Var(0))))
	once := c.determinize(f, c.preVars)
	twice := c.determinize(once, c.preVars)
	if !m.Equal(once, twice) {
		t.Error("determinize is not idempotent")
	}
	if !m.IsTrue(m.Imp(once, f)) {
		t.Error("determinized function escapes the original")
	}
}
