// Package server exposes the ask pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hmnguyen/lexrag/internal/logger"
)

// AskRequest is the request body for POST /ask.
type AskRequest struct {
	Query       string `json:"query"`
	IndexDir    string `json:"index_dir,omitempty"`
	Provider    string `json:"provider,omitempty"`
	OllamaModel string `json:"ollama_model,omitempty"`
	TopK        int    `json:"top_k,omitempty"`
	GroqModel   string `json:"groq_model,omitempty"`
}

// Source identifies one retrieved section backing an answer.
type Source struct {
	Rank  int     `json:"rank"`
	Score float32 `json:"score"`
	ID    string  `json:"id"`
	Path  string  `json:"path"`
}

// AskResponse is the response body for POST /ask.
type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// errorResponse is the body of failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// AskFunc runs the full retrieval + generation pipeline for one request.
type AskFunc func(ctx context.Context, req AskRequest) (AskResponse, error)

// NewHandler builds the HTTP handler: POST /ask for the pipeline, plus
// the static front-end under /app/ when staticDir is non-empty. CORS is
// permissive so front-ends served from other origins can call /ask.
// Pipeline failures are reported as 400 responses with a message, since
// most are caller-input-driven (bad index path, missing credentials,
// malformed query).
func NewHandler(ask AskFunc, staticDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		handleAsk(w, r, ask)
	})
	if staticDir != "" {
		mux.Handle("/app/", http.StripPrefix("/app/", http.FileServer(http.Dir(staticDir))))
	}
	return mux
}

func handleAsk(w http.ResponseWriter, r *http.Request, ask AskFunc) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parsing request: %w", err))
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query must not be empty"))
		return
	}

	logger.Debug("ask request: query=%q index_dir=%q provider=%q", req.Query, req.IndexDir, req.Provider)

	resp, err := ask(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
