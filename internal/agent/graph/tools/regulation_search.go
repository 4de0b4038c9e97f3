package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/jurislens-poc/server/internal/metrics"
	"github.com/jurislens-poc/server/internal/retrieval"
	logx "github.com/jurislens-poc/server/pkg/logger"
)

// ===================================
// Regulation Search Tool
// ===================================

// NoResultsMessage is returned when neither the remote index nor the local
// store has anything for the query.
const NoResultsMessage = "No relevant regulations found in the knowledge base. " +
	"Upload and ingest regulation documents first, then search again."

const searchTopK = 3

type SearchRegulationsInput struct {
	Query string `json:"query"`
}

func createSearchRegulationsTool(deps Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchRegulations,
			Desc: "Searches the regulatory knowledge base for laws, statutes, and compliance requirements. Returns the most relevant passages with source citations and relevance scores. Use whenever the user asks about regulations, legal requirements, or compliance rules.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "The question or keywords to find relevant regulations for.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *SearchRegulationsInput) (string, error) {
			return searchRegulations(ctx, deps, in.Query), nil
		},
	)
}

// searchRegulations merges remote and local retrieval into one cited result.
// Remote results always win when present; any remote failure degrades to the
// local keyword store, never to the caller.
func searchRegulations(ctx context.Context, deps Deps, query string) string {
	if deps.Retriever != nil {
		hits, err := deps.Retriever.Query(ctx, query, searchTopK)
		switch {
		case err != nil:
			logx.Warn().Err(err).Msg("Remote retrieval failed; falling back to local store")
			metrics.RetrievalFallbacksTotal.WithLabelValues("backend_error").Inc()
		case len(hits) > 0:
			return formatRemoteHits(hits)
		default:
			metrics.RetrievalFallbacksTotal.WithLabelValues("no_remote_results").Inc()
		}
	} else {
		metrics.RetrievalFallbacksTotal.WithLabelValues("not_configured").Inc()
	}

	matches := deps.Knowledge.Search(query, searchTopK)
	if len(matches) == 0 {
		return NoResultsMessage
	}

	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Source: %s | Relevance: %.2f (Local Keyword Match)]\n%s", m.Source, m.Relevance, m.Content)
	}
	return b.String()
}

// formatRemoteHits renders remote results with one citation line per hit.
// Pages are stored zero-indexed and displayed 1-indexed.
func formatRemoteHits(hits []retrieval.Hit) string {
	var b strings.Builder
	for i, h := range hits {
		if i > 0 {
			b.WriteString("\n\n")
		}
		source := h.Source
		if source == "" {
			source = "Unknown"
		}
		if h.Page >= 0 {
			fmt.Fprintf(&b, "[Source: %s (Page %d)] [Relevance: %.4f]\n%s", source, h.Page+1, h.Score, h.Content)
		} else {
			fmt.Fprintf(&b, "[Source: %s] [Relevance: %.4f]\n%s", source, h.Score, h.Content)
		}
	}
	return b.String()
}
