package model

import "fmt"

// RiskLevel classifies a transaction under the daily aggregate exposure rules.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskAssessment is the value produced by the risk calculator for one
// transaction. It is ephemeral; only its rendered string leaves the tool.
// A CRITICAL verdict short-circuits before any exposure math, so the
// exposure fields are only meaningful for non-critical levels.
type RiskAssessment struct {
	Level         RiskLevel
	FineEstimate  float64
	PriorExposure float64
	TotalExposure float64
	Limit         float64
	Message       string
}

// String renders the assessment in the "Risk Level: <level>. <message>" form
// the agent cites verbatim.
func (a RiskAssessment) String() string {
	return fmt.Sprintf("Risk Level: %s. %s", a.Level, a.Message)
}
