package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jurislens-poc/server/internal/agent/model"
	"github.com/jurislens-poc/server/internal/agent/repo"
	"github.com/jurislens-poc/server/internal/agent/session"
	"github.com/jurislens-poc/server/internal/knowledge"
	"github.com/jurislens-poc/server/internal/retrieval"
)

type echoRunner struct {
	err error
}

func (r echoRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "echo: " + in.Query, nil
}

type recordingRetriever struct {
	source string
	chunks []string
	err    error
}

func (r *recordingRetriever) Query(ctx context.Context, text string, k int) ([]retrieval.Hit, error) {
	return nil, nil
}

func (r *recordingRetriever) Index(ctx context.Context, source string, page int, chunks []string) error {
	if r.err != nil {
		return r.err
	}
	r.source = source
	r.chunks = chunks
	return nil
}

func newTestServer(t *testing.T, runnerErr error, rr *recordingRetriever) *Server {
	t.Helper()
	mgr := session.NewManager(func(ctx context.Context, store *knowledge.Store) (session.Runner, error) {
		return echoRunner{err: runnerErr}, nil
	})
	convRepo := repo.NewInMemoryConversationRepository()
	if rr != nil {
		return New(mgr, convRepo, rr)
	}
	return New(mgr, convRepo, nil)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestChatHappyPath(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/chat",
		`{"conversation_id":"c1","message":"is this wire allowed?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "echo: is this wire allowed?" {
		t.Errorf("reply = %q", resp.Reply)
	}
	if resp.ConversationID != "c1" {
		t.Errorf("conversation_id = %q", resp.ConversationID)
	}
}

func TestChatValidation(t *testing.T) {
	s := newTestServer(t, nil, nil)

	cases := []string{
		`{"conversation_id":"","message":"hi"}`,
		`{"conversation_id":"c1","message":"   "}`,
		`not json`,
	}
	for _, body := range cases {
		rec := doJSON(t, s, http.MethodPost, "/api/chat", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestChatRunnerFailure(t *testing.T) {
	s := newTestServer(t, errors.New("model timeout"), nil)

	rec := doJSON(t, s, http.MethodPost, "/api/chat",
		`{"conversation_id":"c1","message":"hello"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "model timeout") {
		t.Error("internal error details must not leak into the response body")
	}
}

func TestIngestPopulatesSessionStore(t *testing.T) {
	s := newTestServer(t, nil, nil)

	text := strings.Repeat("daily aggregate transaction limits for corporate accounts. ", 40)
	body, _ := json.Marshal(ingestRequest{ConversationID: "c1", Source: "aml_policy.pdf", Text: text})
	rec := doJSON(t, s, http.MethodPost, "/api/ingest", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ingestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Chunks < 2 {
		t.Errorf("chunks = %d, want at least 2 for a long document", resp.Chunks)
	}
	if resp.Indexed {
		t.Error("indexed should be false without a retriever")
	}

	sess, err := s.sessions.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Get session: %v", err)
	}
	if sess.Knowledge.Len() != resp.Chunks {
		t.Errorf("store has %d chunks, response said %d", sess.Knowledge.Len(), resp.Chunks)
	}
}

func TestIngestRemoteFailureIsBestEffort(t *testing.T) {
	s := newTestServer(t, nil, &recordingRetriever{err: errors.New("redis down")})

	rec := doJSON(t, s, http.MethodPost, "/api/ingest",
		`{"conversation_id":"c1","source":"doc.pdf","text":"transaction monitoring thresholds"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when remote indexing fails", rec.Code)
	}

	var resp ingestResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Indexed {
		t.Error("indexed should be false when the backend rejects the write")
	}
}

func TestResetSession(t *testing.T) {
	s := newTestServer(t, nil, nil)

	doJSON(t, s, http.MethodPost, "/api/ingest",
		`{"conversation_id":"c1","source":"doc.pdf","text":"sanctions screening procedures"}`)

	rec := doJSON(t, s, http.MethodDelete, "/api/sessions/c1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"existed":true`) {
		t.Errorf("body = %s, want existed true", rec.Body.String())
	}

	sess, _ := s.sessions.Get(context.Background(), "c1")
	if sess.Knowledge.Len() != 0 {
		t.Error("knowledge store should be empty after reset")
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}
