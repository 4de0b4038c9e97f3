package compliance

import (
	"context"
	"strings"
	"time"

	errx "github.com/jurislens-poc/server/internal/core/error"
	logx "github.com/jurislens-poc/server/pkg/logger"
)

// sanctionedEntities is the fixture registry, keyed by upper-cased name.
var sanctionedEntities = map[string]Record{
	"IVAN DRAGO":   {Name: "IVAN DRAGO", List: "OFAC SDN", ID: "RU-8821", Reason: "Connection to prohibited energy sector"},
	"VICTOR KRUM":  {Name: "VICTOR KRUM", List: "EU Watchlist", ID: "BG-9910", Reason: "High-risk politically exposed person"},
	"LE CHIFFRE":   {Name: "LE CHIFFRE", List: "Interpol Red", ID: "FR-007", Reason: "Terrorist financing"},
	"GOLIATH BANK": {Name: "GOLIATH BANK", List: "Internal Blacklist", ID: "INT-001", Reason: "Conflict of interest"},
}

// SimulatedRegistry stands in for a global sanctions registry. Latency models
// the remote scan and respects context cancellation; pass zero in tests.
type SimulatedRegistry struct {
	Latency time.Duration
}

// NewSimulatedRegistry creates a registry double with the given simulated latency.
func NewSimulatedRegistry(latency time.Duration) *SimulatedRegistry {
	return &SimulatedRegistry{Latency: latency}
}

func (r *SimulatedRegistry) Lookup(ctx context.Context, name string) (*Record, error) {
	logx.Debug().Str("name", name).Msg("Scanning global sanctions index")

	if err := sleepCtx(ctx, r.Latency); err != nil {
		return nil, errx.BackendUnavailable(err, "sanctions lookup aborted")
	}

	if rec, ok := sanctionedEntities[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return &rec, nil
	}
	return nil, nil
}

var _ SanctionsRegistry = (*SimulatedRegistry)(nil)
