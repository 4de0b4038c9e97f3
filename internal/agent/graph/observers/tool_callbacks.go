package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	"github.com/jurislens-poc/server/internal/metrics"
	logx "github.com/jurislens-poc/server/pkg/logger"
)

type toolStartTimeKey struct{}

// newToolHandler builds a typed ToolCallbackHandler (not yet wrapped).
// Its start/finish events double as the progress signal a UI can surface
// while a tool runs.
func newToolHandler() *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			logx.Info().
				Str("tool", info.Name).
				Str("arguments", input.ArgumentsInJSON).
				Msg("Tool started")
			return context.WithValue(ctx, toolStartTimeKey{}, time.Now())
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			metrics.ToolInvocationsTotal.WithLabelValues(info.Name, "success").Inc()
			if start, ok := ctx.Value(toolStartTimeKey{}).(time.Time); ok {
				metrics.ToolDuration.WithLabelValues(info.Name).Observe(time.Since(start).Seconds())
			}
			logx.Info().
				Str("tool", info.Name).
				Str("result", output.Response).
				Msg("Tool finished")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			metrics.ToolInvocationsTotal.WithLabelValues(info.Name, "error").Inc()
			logx.Error().Err(err).Str("tool", info.Name).Msg("Tool execution failed")
			return ctx
		},
	}
}

// NewToolCallbacks constructs a callbacks.Handler that logs tool lifecycle events.
// Attach it via compose.WithCallbacks(...) when invoking or compiling the graph.
func NewToolCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Tool(newToolHandler()).
		Handler()
}
