package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	logx "github.com/jurislens-poc/server/pkg/logger"
)

// ===================================
// Sanctions Checker Tool
// ===================================

// RegistryUnavailableMessage is the degraded result when the registry cannot
// be reached within the lookup timeout.
const RegistryUnavailableMessage = "Sanctions registry unavailable. Could not complete the screening; treat the party as unverified and retry."

type CheckSanctionsInput struct {
	Name string `json:"name"`
}

func createCheckSanctionsTool(deps Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCheckSanctions,
			Desc: "Checks whether a person or entity appears on global sanctions lists (OFAC, UN, EU). Use to validate clients or counterparties during onboarding or before approving a transaction.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     "string",
					Desc:     "The full name of the person or entity to check.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CheckSanctionsInput) (string, error) {
			return checkSanctions(ctx, deps, in.Name), nil
		},
	)
}

func checkSanctions(ctx context.Context, deps Deps, name string) string {
	ctx, cancel := context.WithTimeout(ctx, deps.lookupTimeout())
	defer cancel()

	rec, err := deps.Registry.Lookup(ctx, name)
	if err != nil {
		logx.Warn().Err(err).Str("name", name).Msg("Sanctions registry lookup failed")
		return RegistryUnavailableMessage
	}
	if rec == nil {
		return fmt.Sprintf("CLEAR. No matches found for '%s' in global sanctions lists.", name)
	}

	return fmt.Sprintf(
		"MATCH FOUND: '%s' is a Sanctioned Entity.\nSource: %s\nID: %s\nReason: %s\nAction: IMMEDIATE FREEZE required.",
		name, rec.List, rec.ID, rec.Reason,
	)
}
