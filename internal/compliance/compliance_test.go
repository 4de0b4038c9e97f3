package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	errx "github.com/jurislens-poc/server/internal/core/error"
)

func TestLedgerPriorExposure(t *testing.T) {
	ledger := NewSimulatedLedger(0)
	ctx := context.Background()

	cases := []struct {
		jurisdiction string
		want         float64
	}{
		{"Zylaria", 2500.00},
		{"zylaria", 2500.00},
		{"Republic of Zylaria", 2500.00},
		{"Germany", 0},
		{"", 0},
	}
	for _, c := range cases {
		got, err := ledger.PriorExposure(ctx, c.jurisdiction)
		if err != nil {
			t.Fatalf("PriorExposure(%q): %v", c.jurisdiction, err)
		}
		if got != c.want {
			t.Errorf("PriorExposure(%q) = %f, want %f", c.jurisdiction, got, c.want)
		}
	}
}

func TestLedgerCancelled(t *testing.T) {
	ledger := NewSimulatedLedger(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ledger.PriorExposure(ctx, "Zylaria")
	if !errors.Is(err, errx.ErrBackendUnavailable) {
		t.Fatalf("cancelled lookup should report backend unavailable, got %v", err)
	}
}

func TestRegistryMatch(t *testing.T) {
	registry := NewSimulatedRegistry(0)
	ctx := context.Background()

	rec, err := registry.Lookup(ctx, "  ivan drago ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a match for Ivan Drago")
	}
	if rec.List != "OFAC SDN" || rec.ID != "RU-8821" {
		t.Errorf("record = %+v, want OFAC SDN / RU-8821", rec)
	}
}

func TestRegistryClear(t *testing.T) {
	registry := NewSimulatedRegistry(0)

	rec, err := registry.Lookup(context.Background(), "John Smith")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no match, got %+v", rec)
	}
}

func TestRegistryCancelled(t *testing.T) {
	registry := NewSimulatedRegistry(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := registry.Lookup(ctx, "Le Chiffre")
	if !errors.Is(err, errx.ErrBackendUnavailable) {
		t.Fatalf("timed-out lookup should report backend unavailable, got %v", err)
	}
}
