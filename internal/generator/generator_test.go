package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

func TestFormatContext_JoinsWithinBudget(t *testing.T) {
	got := FormatContext([]string{"aaa", "bbb"}, 100)
	if got != "aaa\n\nbbb" {
		t.Errorf("FormatContext = %q, want %q", got, "aaa\n\nbbb")
	}
}

func TestFormatContext_KeepsEarliestWhole(t *testing.T) {
	// Budget fits the first passage whole; the second is truncated; the
	// third is dropped.
	got := FormatContext([]string{"aaaa", "bbbb", "cccc"}, 8)
	if got != "aaaa\n\nbb" {
		t.Errorf("FormatContext = %q, want %q", got, "aaaa\n\nbb")
	}
}

func TestFormatContext_TruncatesFirstOversized(t *testing.T) {
	got := FormatContext([]string{strings.Repeat("x", 50)}, 10)
	if got != strings.Repeat("x", 10) {
		t.Errorf("FormatContext length = %d, want 10", len(got))
	}
}

func TestFormatContext_TruncationKeepsValidUTF8(t *testing.T) {
	// Vietnamese headings are full of multi-byte runes; truncation must
	// never cut one in half, whatever byte the budget lands on.
	text := strings.Repeat("Điều ", 10)
	for budget := 1; budget < len(text); budget++ {
		got := FormatContext([]string{text}, budget)
		if !utf8.ValidString(got) {
			t.Fatalf("budget %d produced invalid UTF-8: %q", budget, got)
		}
		if len(got) > budget {
			t.Fatalf("budget %d produced %d bytes", budget, len(got))
		}
	}
}

func TestFormatContext_TruncationBacksOffToRuneBoundary(t *testing.T) {
	// "Đ" is two bytes; a one-byte budget cannot hold any of it.
	if got := FormatContext([]string{"Điều 1"}, 1); got != "" {
		t.Errorf("FormatContext = %q, want empty", got)
	}
	// Three bytes hold "Đ" (2 bytes) plus "i".
	if got := FormatContext([]string{"Điều 1"}, 3); got != "Đi" {
		t.Errorf("FormatContext = %q, want %q", got, "Đi")
	}
}

func TestFormatContext_SkipsEmptyContexts(t *testing.T) {
	got := FormatContext([]string{"", "aaa", "", "bbb"}, 100)
	if got != "aaa\n\nbbb" {
		t.Errorf("FormatContext = %q, want %q", got, "aaa\n\nbbb")
	}
}

func TestFormatContext_DefaultBudget(t *testing.T) {
	long := strings.Repeat("y", DefaultMaxContextChars+500)
	got := FormatContext([]string{long}, 0)
	if len(got) != DefaultMaxContextChars {
		t.Errorf("default budget length = %d, want %d", len(got), DefaultMaxContextChars)
	}
}

func TestNewGroqGenerator_MissingKey(t *testing.T) {
	t.Setenv(GroqKeyEnv, "")

	_, err := NewGroqGenerator()
	if err == nil {
		t.Fatal("expected error when API key is missing")
	}
}

func TestGroqGenerator_Generate(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: "Điều 2 quy định về hợp đồng lao động.",
				}},
			},
		})
	}))
	defer server.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"

	g, err := NewGroqGenerator(WithGroqClient(openai.NewClientWithConfig(cfg)))
	if err != nil {
		t.Fatalf("NewGroqGenerator failed: %v", err)
	}

	answer, err := g.Generate(context.Background(),
		"Điều 2 quy định gì?",
		[]string{"Điều 2\nhợp đồng lao động", "Điều 1\nquy định chung"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "Điều 2 quy định về hợp đồng lao động." {
		t.Errorf("answer = %q", answer)
	}

	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(gotReq.Messages))
	}
	user := gotReq.Messages[1].Content
	if !strings.Contains(user, "Điều 2\nhợp đồng lao động") {
		t.Error("user prompt should contain the first context")
	}
	// The direct-lookup context must appear before the others.
	if strings.Index(user, "hợp đồng lao động") > strings.Index(user, "quy định chung") {
		t.Error("contexts should keep their given order in the prompt")
	}
	if gotReq.Model != DefaultGroqModel {
		t.Errorf("model = %q, want %q", gotReq.Model, DefaultGroqModel)
	}
}
