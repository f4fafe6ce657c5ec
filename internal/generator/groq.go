package generator

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// GroqBaseURL is the OpenAI-compatible Groq API endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultGroqModel is the default generation model.
	DefaultGroqModel = "llama-3.3-70b-versatile"

	// GroqKeyEnv is the environment variable holding the API key.
	GroqKeyEnv = "GROQ_API_KEY"

	// generationTemperature is kept low for stable, grounded answers.
	generationTemperature = 0.2

	// generationMaxTokens bounds the length of generated answers.
	generationMaxTokens = 800
)

// Prompts are written for Vietnamese legal text, matching the corpus.
const (
	systemPrompt = "Bạn là trợ lý trả lời câu hỏi dựa trên ngữ cảnh pháp luật Việt Nam. " +
		"Chỉ dùng thông tin trong ngữ cảnh. Nếu thiếu thông tin, hãy nói không đủ dữ liệu."
	userPromptFormat = "Ngữ cảnh:\n%s\n\nCâu hỏi: %s\nYêu cầu: Trả lời ngắn gọn, kèm trích dẫn điều luật (nếu có)."
)

// GroqGenerator generates answers with a Groq-hosted chat model through
// the OpenAI-compatible API.
type GroqGenerator struct {
	client          *openai.Client
	model           string
	maxContextChars int
}

// GroqOption configures a GroqGenerator.
type GroqOption func(*GroqGenerator)

// WithGroqModel sets the generation model.
func WithGroqModel(model string) GroqOption {
	return func(g *GroqGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithMaxContextChars sets the context character budget.
func WithMaxContextChars(n int) GroqOption {
	return func(g *GroqGenerator) {
		if n > 0 {
			g.maxContextChars = n
		}
	}
}

// WithGroqClient replaces the API client. Used in tests.
func WithGroqClient(client *openai.Client) GroqOption {
	return func(g *GroqGenerator) {
		g.client = client
	}
}

// NewGroqGenerator creates a Groq answer generator. The API key is read
// from GROQ_API_KEY; its absence is an error before any request is made.
func NewGroqGenerator(opts ...GroqOption) (*GroqGenerator, error) {
	g := &GroqGenerator{
		model:           DefaultGroqModel,
		maxContextChars: DefaultMaxContextChars,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.client == nil {
		key := os.Getenv(GroqKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, GroqKeyEnv)
		}
		cfg := openai.DefaultConfig(key)
		cfg.BaseURL = GroqBaseURL
		g.client = openai.NewClientWithConfig(cfg)
	}

	return g, nil
}

// Generate answers the question from the ordered contexts, most
// relevant first. The concatenated context is capped at the configured
// character budget before being sent.
func (g *GroqGenerator) Generate(ctx context.Context, question string, contexts []string) (string, error) {
	contextBlock := FormatContext(contexts, g.maxContextChars)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPromptFormat, contextBlock, question)},
		},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
