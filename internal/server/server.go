package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jurislens-poc/server/internal/agent/model"
	"github.com/jurislens-poc/server/internal/agent/session"
	errx "github.com/jurislens-poc/server/internal/core/error"
	"github.com/jurislens-poc/server/internal/retrieval"
	logx "github.com/jurislens-poc/server/pkg/logger"
)

// Server wires the HTTP API over the session manager and shared backends.
type Server struct {
	echo      *echo.Echo
	sessions  *session.Manager
	convRepo  model.ConversationRepository
	retriever retrieval.Retriever // nil when remote retrieval is disabled
}

func New(sessions *session.Manager, convRepo model.ConversationRepository, retriever retrieval.Retriever) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.HTTPErrorHandler = httpErrorHandler

	s := &Server{
		echo:      e,
		sessions:  sessions,
		convRepo:  convRepo,
		retriever: retriever,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/ingest", s.handleIngest)
	api.DELETE("/sessions/:id", s.handleResetSession)
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start(addr string) error {
	logx.Info().Str("addr", addr).Msg("HTTP server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// httpErrorHandler renders all errors as structured JSON and maps
// AppError statuses through. Internal details stay out of responses.
func httpErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := errx.SystemErrorMessage

	var appErr *errx.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Status
		msg = appErr.Message
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if echoErr.Message != nil {
			msg = fmt.Sprint(echoErr.Message)
		}
	}

	req := c.Request()
	logx.Error().
		Err(err).
		Int("status", code).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Msg("Request failed")

	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}
