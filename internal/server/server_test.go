package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleAsk_Success(t *testing.T) {
	ask := func(ctx context.Context, req AskRequest) (AskResponse, error) {
		if req.Query != "Điều 2 quy định gì?" {
			t.Errorf("query = %q", req.Query)
		}
		return AskResponse{
			Answer: "Điều 2 quy định về hợp đồng.",
			Sources: []Source{
				{Rank: 1, Score: 0.91, ID: "điều_2.txt", Path: "corpus/điều_2.txt"},
			},
		}, nil
	}

	handler := NewHandler(ask, "")
	req := httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"query": "Điều 2 quy định gì?", "top_k": 3}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp AskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Answer == "" || len(resp.Sources) != 1 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Sources[0].Rank != 1 {
		t.Errorf("source rank = %d, want 1", resp.Sources[0].Rank)
	}
}

func TestHandleAsk_PipelineErrorIs400(t *testing.T) {
	ask := func(ctx context.Context, req AskRequest) (AskResponse, error) {
		return AskResponse{}, fmt.Errorf("vector index not found")
	}

	handler := NewHandler(ask, "")
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"query": "q"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(resp.Error, "vector index not found") {
		t.Errorf("error = %q, want the pipeline message", resp.Error)
	}
}

func TestHandleAsk_Validation(t *testing.T) {
	ask := func(ctx context.Context, req AskRequest) (AskResponse, error) {
		t.Fatal("pipeline should not run for invalid requests")
		return AskResponse{}, nil
	}
	handler := NewHandler(ask, "")

	t.Run("empty query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"query": ""}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ask", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func TestHandleAsk_CORS(t *testing.T) {
	ask := func(ctx context.Context, req AskRequest) (AskResponse, error) {
		return AskResponse{Answer: "ok"}, nil
	}
	handler := NewHandler(ask, "")

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q, want *", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
			t.Errorf("Allow-Methods = %q, want POST", got)
		}
	})

	t.Run("cross-origin post", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"query": "q"}`))
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q, want *", got)
		}
	})
}

func TestStaticFrontEnd(t *testing.T) {
	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>ok</html>"), 0644); err != nil {
		t.Fatal(err)
	}

	ask := func(ctx context.Context, req AskRequest) (AskResponse, error) {
		return AskResponse{}, nil
	}
	handler := NewHandler(ask, staticDir)

	req := httptest.NewRequest(http.MethodGet, "/app/index.html", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
