package domain

import "testing"

func TestAllowedActionsPerStatus(t *testing.T) {
	cases := []struct {
		status Status
		want   []Action
	}{
		{StatusOnWork, []Action{ActionReplace, ActionReportOff, ActionSendToOrder, ActionComplete, ActionRemove, ActionViewLog}},
		{StatusGotOff, []Action{ActionReturnToLine, ActionRemove, ActionViewLog}},
		{StatusOnOrder, []Action{ActionReturnToLine, ActionRemove, ActionViewLog}},
		{StatusCompleted, []Action{ActionViewLog}},
		{StatusRejected, []Action{ActionViewLog, ActionReturnToLine}},
		{StatusUnknown, []Action{ActionReplace, ActionReportOff, ActionSendToOrder, ActionComplete, ActionRemove, ActionViewLog}},
	}

	for _, tc := range cases {
		got := AllowedActions(tc.status)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %d actions, got %d", tc.status, len(tc.want), len(got))
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: expected action %d to be %s, got %s", tc.status, i, tc.want[i], got[i])
			}
		}
	}
}

func TestActionAllowedRejectsOffTableActions(t *testing.T) {
	if ActionAllowed(StatusCompleted, ActionRemove) {
		t.Fatal("remove must not be allowed on a completed row")
	}
	if ActionAllowed(StatusOnWork, ActionReturnToLine) {
		t.Fatal("return-to-line must not be allowed on an active row")
	}
	if !ActionAllowed(StatusUnknown, ActionComplete) {
		t.Fatal("unknown status must allow all working actions")
	}
}

func TestTransitionTargets(t *testing.T) {
	targets := map[Action]Status{
		ActionReportOff:    StatusGotOff,
		ActionSendToOrder:  StatusOnOrder,
		ActionComplete:     StatusCompleted,
		ActionRemove:       StatusRejected,
		ActionReturnToLine: StatusOnWork,
	}
	for action, want := range targets {
		rule, ok := Rule(action)
		if !ok {
			t.Fatalf("missing rule for %s", action)
		}
		if rule.Target != want {
			t.Fatalf("%s: expected target %s, got %s", action, want, rule.Target)
		}
	}

	for _, action := range []Action{ActionReplace, ActionViewLog} {
		rule, ok := Rule(action)
		if !ok {
			t.Fatalf("missing rule for %s", action)
		}
		if rule.Target != "" {
			t.Fatalf("%s must not change status, got target %s", action, rule.Target)
		}
	}
}

func TestStatementRequirement(t *testing.T) {
	for _, action := range []Action{ActionReportOff, ActionSendToOrder, ActionComplete, ActionRemove, ActionReturnToLine} {
		rule, _ := Rule(action)
		if !rule.NeedsStatement {
			t.Fatalf("%s must require a linked statement", action)
		}
	}
	for _, action := range []Action{ActionReplace, ActionViewLog} {
		rule, _ := Rule(action)
		if rule.NeedsStatement {
			t.Fatalf("%s must not require a linked statement", action)
		}
	}
}

func TestCompleteRequiresCount(t *testing.T) {
	rule, _ := Rule(ActionComplete)
	if !rule.NeedsCount {
		t.Fatal("complete must require a reported count")
	}
}

func TestReturnToLineGuard(t *testing.T) {
	if ReturnToLineAllowed(StatusOnWork, nil) {
		t.Fatal("return-to-line must be refused for an active row")
	}
	if !ReturnToLineAllowed(StatusGotOff, nil) {
		t.Fatal("return-to-line must be allowed from GotOff")
	}
	if !ReturnToLineAllowed(StatusOnOrder, nil) {
		t.Fatal("return-to-line must be allowed from OnOrder")
	}
	if !ReturnToLineAllowed(StatusRejected, nil) {
		t.Fatal("return-to-line must be allowed from Rejected")
	}

	// Canonical and raw status may diverge; the raw side alone must satisfy
	// the guard.
	raw := string(StatusGotOff)
	if !ReturnToLineAllowed(StatusOnWork, &raw) {
		t.Fatal("raw GotOff status must satisfy the guard even when canonical diverges")
	}
	active := string(StatusOnWork)
	if ReturnToLineAllowed(StatusOnWork, &active) {
		t.Fatal("active raw status must not satisfy the guard")
	}
}
