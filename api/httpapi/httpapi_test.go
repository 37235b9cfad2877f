package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"translatescore/engine"
	"translatescore/leaderboard"
	"translatescore/scoring"
)

func newTestService(board *leaderboard.Board) *engine.ScoreService {
	opts := []scoring.Option{scoring.WithDispatchMode(engine.DispatchSync)}
	if board != nil {
		opts = append(opts, scoring.WithLeaderboard(board))
	}
	return scoring.New(opts...)
}

func postJSON(handler http.Handler, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTranslationCreatedIngest(t *testing.T) {
	svc := newTestService(nil)
	handler := NewMux(svc, nil, nil, nil, Options{PathPrefix: "/api"})

	rec := postJSON(handler, "/api/events/translation-created",
		`{"translation_id":"t1","user_id":"alice","upvotes":0,"downvotes":0}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type on accept, got %q", ct)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/alice", nil)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec2.Code)
	}
	var rep map[string]any
	_ = json.Unmarshal(rec2.Body.Bytes(), &rep)
	if rep["points"] != float64(5) {
		t.Fatalf("expected 5 points, got %v", rep["points"])
	}
}

func TestVotesChangedIngest(t *testing.T) {
	svc := newTestService(nil)
	handler := NewMux(svc, nil, nil, nil, Options{PathPrefix: "/api"})

	rec := postJSON(handler, "/api/events/votes-changed",
		`{"translation_id":"t1","user_id":"bob","before":{"upvotes":0,"downvotes":0},"after":{"upvotes":1,"downvotes":0}}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/bob", nil)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req)
	var rep map[string]any
	_ = json.Unmarshal(rec2.Body.Bytes(), &rep)
	if rep["points"] != float64(2) {
		t.Fatalf("expected 2 points, got %v", rep["points"])
	}
}

func TestIngestValidation(t *testing.T) {
	svc := newTestService(nil)
	handler := NewMux(svc, nil, nil, nil, Options{PathPrefix: "/api"})

	// missing user_id
	rec := postJSON(handler, "/api/events/translation-created", `{"translation_id":"t1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	// missing snapshots
	rec = postJSON(handler, "/api/events/votes-changed", `{"translation_id":"t1","user_id":"bob"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	// malformed JSON
	rec = postJSON(handler, "/api/events/translation-created", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPushTokenRegistration(t *testing.T) {
	svc := newTestService(nil)
	handler := NewMux(svc, nil, nil, nil, Options{PathPrefix: "/api"})

	rec := postJSON(handler, "/api/users/alice/push-token", `{"token":"fcm-tok"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(handler, "/api/users/alice/push-token", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %d", rec.Code)
	}
}

func TestLeaderboardRoute(t *testing.T) {
	board := leaderboard.New()
	svc := newTestService(board)
	handler := NewMux(svc, nil, board, nil, Options{PathPrefix: "/api"})

	_ = postJSON(handler, "/api/events/translation-created",
		`{"translation_id":"t1","user_id":"alice"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit=5", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &entries)
	if len(entries) != 1 || entries[0]["user_id"] != "alice" {
		t.Fatalf("unexpected leaderboard: %v", entries)
	}
}

func TestHealthz(t *testing.T) {
	svc := newTestService(nil)
	handler := NewMux(svc, nil, nil, nil, Options{PathPrefix: "/api"})

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	svc := newTestService(nil)
	handler := NewMux(svc, nil, nil, nil, Options{
		PathPrefix:      "/api",
		APIKeys:         []string{"secret"},
		AllowCORSOrigin: "*",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/alice", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/users/alice", nil)
	req2.Header.Set("Authorization", "Bearer secret")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec2.Code)
	}
}

func TestRateLimit(t *testing.T) {
	svc := newTestService(nil)
	handler := NewMux(svc, nil, nil, nil, Options{
		PathPrefix:       "/api",
		APIKeys:          []string{"k"},
		RateLimitEnabled: true,
		RateLimitRPM:     1,
		RateLimitBurst:   1,
	})

	req1 := httptest.NewRequest(http.MethodGet, "/api/users/alice", nil)
	req1.Header.Set("X-API-Key", "k")
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected 200 first request, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/users/alice", nil)
	req2.Header.Set("X-API-Key", "k")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec2.Code)
	}
}
