package tools

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/jurislens-poc/server/internal/compliance"
	"github.com/jurislens-poc/server/internal/knowledge"
	"github.com/jurislens-poc/server/internal/retrieval"
)

// Tool names bound to the response model. The model picks among this closed
// set; anything else is routed to the unknown-tool handler.
const (
	ToolSearchRegulations = "search_regulations"
	ToolCalculateRisk     = "calculate_risk"
	ToolCheckSanctions    = "check_sanctions"
)

// Deps carries the capabilities the tools run against. Knowledge is the
// session-scoped fallback store; Retriever may be nil when no remote vector
// backend is configured.
type Deps struct {
	Knowledge *knowledge.Store
	Retriever retrieval.Retriever
	Ledger    compliance.LedgerLookup
	Registry  compliance.SanctionsRegistry

	// LookupTimeout bounds the simulated ledger and sanctions round-trips.
	LookupTimeout time.Duration
}

func (d Deps) lookupTimeout() time.Duration {
	if d.LookupTimeout <= 0 {
		return 2 * time.Second
	}
	return d.LookupTimeout
}

// NewQueryTools returns the business tools for one agent session.
func NewQueryTools(deps Deps) []tool.BaseTool {
	return []tool.BaseTool{
		createSearchRegulationsTool(deps),
		createCalculateRiskTool(deps),
		createCheckSanctionsTool(deps),
	}
}

// GetToolInfos collects the ToolInfo of every tool for model binding.
func GetToolInfos(ctx context.Context, tools []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
