package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jurislens-poc/server/internal/agent/model"
	errx "github.com/jurislens-poc/server/internal/core/error"
	"github.com/jurislens-poc/server/internal/knowledge"
	"github.com/jurislens-poc/server/internal/metrics"
	logx "github.com/jurislens-poc/server/pkg/logger"
)

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type chatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

type ingestRequest struct {
	ConversationID string `json:"conversation_id"`
	Source         string `json:"source"`
	Page           *int   `json:"page,omitempty"`
	Text           string `json:"text"`
}

type ingestResponse struct {
	ConversationID string `json:"conversation_id"`
	Source         string `json:"source"`
	Chunks         int    `json:"chunks"`
	Indexed        bool   `json:"indexed"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return errx.InvalidArgument(err, "invalid request body")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.ConversationID == "" || req.Message == "" {
		return errx.InvalidArgument(errors.New("missing fields"), "conversation_id and message are required")
	}

	ctx := c.Request().Context()
	sess, err := s.sessions.Get(ctx, req.ConversationID)
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("error").Inc()
		return err
	}

	reply, err := sess.Runner.Invoke(ctx, model.QueryInput{
		ConversationID: req.ConversationID,
		Query:          req.Message,
	})
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("error").Inc()
		logx.Error().Err(err).Str("conversation_id", req.ConversationID).Msg("Chat turn failed")
		return errx.New(err, http.StatusBadGateway, "chat turn failed")
	}

	metrics.ChatTurnsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, chatResponse{
		ConversationID: req.ConversationID,
		Reply:          reply,
	})
}

func (s *Server) handleIngest(c echo.Context) error {
	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return errx.InvalidArgument(err, "invalid request body")
	}
	if req.ConversationID == "" || strings.TrimSpace(req.Text) == "" {
		return errx.InvalidArgument(errors.New("missing fields"), "conversation_id and text are required")
	}
	if req.Source == "" {
		req.Source = "uploaded_document"
	}
	page := -1
	if req.Page != nil {
		page = *req.Page
	}

	ctx := c.Request().Context()
	sess, err := s.sessions.Get(ctx, req.ConversationID)
	if err != nil {
		return err
	}

	pieces := knowledge.SplitText(req.Text)
	chunks := make([]knowledge.Chunk, 0, len(pieces))
	for _, p := range pieces {
		chunks = append(chunks, knowledge.Chunk{Source: req.Source, Page: page, Content: p})
	}
	sess.Knowledge.Add(chunks...)

	// Remote indexing is best effort: the local store already has the
	// content, so an embedding or Redis failure must not fail the upload.
	indexed := false
	if s.retriever != nil {
		if err := s.retriever.Index(ctx, req.Source, page, pieces); err != nil {
			logx.Warn().
				Err(err).
				Str("conversation_id", req.ConversationID).
				Str("source", req.Source).
				Msg("Remote indexing failed; keyword search still available")
		} else {
			indexed = true
		}
	}

	logx.Info().
		Str("conversation_id", req.ConversationID).
		Str("source", req.Source).
		Int("chunks", len(pieces)).
		Bool("indexed", indexed).
		Msg("Document ingested")

	return c.JSON(http.StatusOK, ingestResponse{
		ConversationID: req.ConversationID,
		Source:         req.Source,
		Chunks:         len(pieces),
		Indexed:        indexed,
	})
}

func (s *Server) handleResetSession(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return errx.InvalidArgument(errors.New("missing id"), "session id is required")
	}

	existed := s.sessions.Reset(id)

	if s.convRepo != nil {
		if err := s.convRepo.ClearHistory(c.Request().Context(), id); err != nil {
			logx.Warn().Err(err).Str("conversation_id", id).Msg("Failed to clear conversation history")
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"conversation_id": id,
		"existed":         existed,
	})
}
