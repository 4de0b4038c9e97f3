// Package compliance holds the external capabilities the risk and sanctions
// tools depend on. Both are modelled as interfaces with simulated
// implementations backed by fixture tables; a production deployment swaps in
// real ledger and registry clients.
package compliance

import "context"

// LedgerLookup answers how much a jurisdiction has already transacted today.
type LedgerLookup interface {
	// PriorExposure returns the same-day prior transaction total for the
	// jurisdiction.
	PriorExposure(ctx context.Context, jurisdiction string) (float64, error)
}

// Record describes one entry on a blocked-party registry.
type Record struct {
	Name   string `json:"name"`
	List   string `json:"list"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// SanctionsRegistry checks names against blocked-party lists.
type SanctionsRegistry interface {
	// Lookup returns the matching record, or nil when the name is clear.
	// Matching is case-insensitive exact after trimming.
	Lookup(ctx context.Context, name string) (*Record, error)
}
