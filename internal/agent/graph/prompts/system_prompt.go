package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/jurislens-poc/server/internal/agent/graph/tools"
	"github.com/jurislens-poc/server/internal/agent/model"
)

//go:embed template/system_prompt.txt
var coreSystemPrompt string

// RenderSystem renders the agent system prompt and triggers prompt callbacks.
func RenderSystem(ctx context.Context, config model.ResponsePromptConfig) (string, error) {
	// Render via Eino prompt component (Go template) to both format and emit callbacks
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(coreSystemPrompt),
	)
	vars := map[string]any{
		"AssistantName": config.AssistantName,
		"Domain":        config.Domain,
		"SearchTool":    tools.ToolSearchRegulations,
		"RiskTool":      tools.ToolCalculateRisk,
		"SanctionsTool": tools.ToolCheckSanctions,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system prompt render: empty result")
	}
	return msgs[0].Content, nil
}
