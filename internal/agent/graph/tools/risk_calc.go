package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/jurislens-poc/server/internal/agent/model"
	logx "github.com/jurislens-poc/server/pkg/logger"
)

// ===================================
// Risk Calculator Tool
// ===================================

// InvalidAmountMessage tells the model how to correct a malformed call.
const InvalidAmountMessage = `Error: invalid transaction amount. Expected a non-negative number, e.g. {"amount": 5000, "jurisdiction": "UK"}.`

// dailyAggregateLimit is the maximum permitted same-day total transaction
// value before a compliance violation is flagged.
const dailyAggregateLimit = 5000.0

// sanctionedJurisdictions blocks transactions outright, before any exposure
// math.
var sanctionedJurisdictions = map[string]bool{
	"NORTH KOREA": true,
	"IRAN":        true,
	"SYRIA":       true,
	"RUSSIA":      true,
}

type CalculateRiskInput struct {
	Amount       float64 `json:"amount"`
	Jurisdiction string  `json:"jurisdiction"`
}

func createCalculateRiskTool(deps Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCalculateRisk,
			Desc: "Checks a proposed transaction against the live ledger and computes its compliance risk level. Considers sanctioned jurisdictions and the daily aggregate exposure limit. Use for any question about transaction risk, transfers, or payment approval.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"amount": {
					Type:     "number",
					Desc:     "The transaction amount.",
					Required: true,
				},
				"jurisdiction": {
					Type:     "string",
					Desc:     "The receiving country or jurisdiction (e.g. 'Zylaria').",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CalculateRiskInput) (string, error) {
			return calculateRisk(ctx, deps, in.Amount, in.Jurisdiction), nil
		},
	)
}

// calculateRisk applies the ledger-aware aggregate-limit model. Malformed
// input and backend failures degrade to descriptive strings; nothing here
// aborts the turn.
func calculateRisk(ctx context.Context, deps Deps, amount float64, jurisdiction string) string {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return InvalidAmountMessage
	}

	if sanctionedJurisdictions[strings.ToUpper(strings.TrimSpace(jurisdiction))] {
		// Blocked outright: no ledger call, no exposure math.
		return model.RiskAssessment{
			Level:   model.RiskCritical,
			Message: "Sanctioned Jurisdiction. Blocked immediately.",
		}.String()
	}

	ctx, cancel := context.WithTimeout(ctx, deps.lookupTimeout())
	defer cancel()

	prior, err := deps.Ledger.PriorExposure(ctx, jurisdiction)
	if err != nil {
		// Ledger unreachable: assess against the request alone rather than
		// failing the turn.
		logx.Warn().Err(err).Str("jurisdiction", jurisdiction).Msg("Ledger lookup failed; assuming zero prior exposure")
		prior = 0
	}

	assessment := model.RiskAssessment{
		PriorExposure: prior,
		TotalExposure: amount + prior,
		Limit:         dailyAggregateLimit,
	}

	if assessment.TotalExposure > assessment.Limit {
		assessment.Level = model.RiskHigh
		assessment.Message = fmt.Sprintf(
			"TRANSGRESSION: Daily Aggregate Limit Exceeded.\nCurrent Request: $%.2f\nPrior Today: $%.2f\nTotal exposure: $%.2f (Limit: $%.2f)",
			amount, prior, assessment.TotalExposure, assessment.Limit,
		)
	} else {
		assessment.Level = model.RiskLow
		assessment.Message = fmt.Sprintf(
			"Safe. Total daily exposure $%.2f is within limit ($%.2f).",
			assessment.TotalExposure, assessment.Limit,
		)
	}
	return assessment.String()
}
