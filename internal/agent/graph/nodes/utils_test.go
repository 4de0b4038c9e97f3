package nodes

import (
	"testing"

	"github.com/jurislens-poc/server/internal/agent/model"
)

func TestNormalizeMaxToolCalls(t *testing.T) {
	if got := normalizeMaxToolCalls(0); got != DefaultMaxToolCalls {
		t.Errorf("normalize(0) = %d, want %d", got, DefaultMaxToolCalls)
	}
	if got := normalizeMaxToolCalls(-3); got != DefaultMaxToolCalls {
		t.Errorf("normalize(-3) = %d, want %d", got, DefaultMaxToolCalls)
	}
	if got := normalizeMaxToolCalls(7); got != 7 {
		t.Errorf("normalize(7) = %d, want 7", got)
	}
}

func TestToolCallLimitBounds(t *testing.T) {
	state := &model.AppState{}

	// Five executions are allowed; the sixth trips the limit.
	for i := 0; i < DefaultMaxToolCalls; i++ {
		if incrementToolCallAndCheck(state, DefaultMaxToolCalls) {
			t.Fatalf("call %d must not exceed the limit", i+1)
		}
	}
	if !incrementToolCallAndCheck(state, DefaultMaxToolCalls) {
		t.Fatal("call beyond the limit must be flagged")
	}
	if !state.ToolCallLimitReached {
		t.Fatal("limit flag must be set")
	}
}

func TestCheckAndMarkToolLimit(t *testing.T) {
	state := &model.AppState{ToolCallCount: DefaultMaxToolCalls}

	if !checkAndMarkToolLimit(state, DefaultMaxToolCalls) {
		t.Fatal("reaching the limit must mark the state")
	}
	// Marking is one-shot; later checks report false.
	if checkAndMarkToolLimit(state, DefaultMaxToolCalls) {
		t.Fatal("already-marked state must not be marked again")
	}
}
