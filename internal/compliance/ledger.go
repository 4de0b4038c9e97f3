package compliance

import (
	"context"
	"strings"
	"time"

	errx "github.com/jurislens-poc/server/internal/core/error"
	logx "github.com/jurislens-poc/server/pkg/logger"
)

// SimulatedLedger stands in for the live transaction ledger. The only state
// it knows: Zylaria has already moved 2500.00 today. Latency models the
// remote round-trip and respects context cancellation; pass zero in tests.
type SimulatedLedger struct {
	Latency time.Duration
}

// NewSimulatedLedger creates a ledger double with the given simulated latency.
func NewSimulatedLedger(latency time.Duration) *SimulatedLedger {
	return &SimulatedLedger{Latency: latency}
}

const zylariaPriorExposure = 2500.00

func (l *SimulatedLedger) PriorExposure(ctx context.Context, jurisdiction string) (float64, error) {
	logx.Debug().Str("jurisdiction", jurisdiction).Msg("Connecting to ledger")

	if err := sleepCtx(ctx, l.Latency); err != nil {
		return 0, errx.BackendUnavailable(err, "ledger lookup aborted")
	}

	if strings.Contains(strings.ToUpper(jurisdiction), "ZYLARIA") {
		logx.Debug().Float64("prior", zylariaPriorExposure).Msg("Found prior transactions")
		return zylariaPriorExposure, nil
	}
	return 0, nil
}

// sleepCtx waits for d or until the context is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ LedgerLookup = (*SimulatedLedger)(nil)
