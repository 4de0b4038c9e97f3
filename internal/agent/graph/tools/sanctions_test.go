package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jurislens-poc/server/internal/compliance"
)

type fakeRegistry struct {
	rec *compliance.Record
	err error
}

func (f *fakeRegistry) Lookup(context.Context, string) (*compliance.Record, error) {
	return f.rec, f.err
}

func TestCheckSanctionsMatch(t *testing.T) {
	deps := Deps{Registry: compliance.NewSimulatedRegistry(0)}

	got := checkSanctions(context.Background(), deps, "Ivan Drago")
	if !strings.HasPrefix(got, "MATCH FOUND: 'Ivan Drago'") {
		t.Fatalf("got %q, want a MATCH FOUND block", got)
	}
	for _, want := range []string{"Source: OFAC SDN", "ID: RU-8821", "IMMEDIATE FREEZE"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestCheckSanctionsClear(t *testing.T) {
	deps := Deps{Registry: compliance.NewSimulatedRegistry(0)}

	got := checkSanctions(context.Background(), deps, "John Smith")
	want := "CLEAR. No matches found for 'John Smith' in global sanctions lists."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCheckSanctionsRegistryUnavailable(t *testing.T) {
	deps := Deps{Registry: &fakeRegistry{err: errors.New("dial timeout")}}

	got := checkSanctions(context.Background(), deps, "Le Chiffre")
	if got != RegistryUnavailableMessage {
		t.Fatalf("got %q, want the registry-unavailable message", got)
	}
}
