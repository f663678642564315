package gr1

import (
	"strings"
	"testing"
)

func TestLintClean(t *testing.T) {
	doc := mustParse(t, requestGrant)
	if diags := Lint(doc); len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestLintContradictoryEnv(t *testing.T) {
	doc := mustParse(t, `
[INPUT]
i

[ENV_INIT]
i
! i
`)
	diags := Lint(doc)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0].String(), "environment initial and transition constraints") {
		t.Errorf("diagnostic = %q", diags[0])
	}
}

func TestLintContradictorySys(t *testing.T) {
	doc := mustParse(t, `
[OUTPUT]
o

[SYS_INIT]
o

[SYS_TRANS]
! o
`)
	diags := Lint(doc)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0].String(), "system initial and transition constraints") {
		t.Errorf("diagnostic = %q", diags[0])
	}
}

func TestLintFalseLiveness(t *testing.T) {
	doc := mustParse(t, `
[INPUT]
i

[ENV_LIVENESS]
& i ! i

[SYS_LIVENESS]
0
`)
	diags := Lint(doc)
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0].String(), "[ENV_LIVENESS]: line 6") {
		t.Errorf("diag[0] = %q", diags[0])
	}
	if !strings.Contains(diags[1].String(), "[SYS_LIVENESS]: line 9") {
		t.Errorf("diag[1] = %q", diags[1])
	}
}

// Pre and post copies of a variable are independent for satisfiability.
func TestLintPrimedIndependent(t *testing.T) {
	doc := mustParse(t, `
[INPUT]
i

[ENV_TRANS]
i
! i'
`)
	if diags := Lint(doc); len(diags) != 0 {
		t.Errorf("primed and unprimed copies conflated: %v", diags)
	}
}
