package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// GeminiGenerator asks Gemini for portfolio advice. Responses are requested
// as JSON; a response that decodes into nothing useful degrades to the
// canned unavailable advice rather than an error.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGeminiGenerator initializes a Gemini client for the given API key
func NewGeminiGenerator(ctx context.Context, apiKey, model string, log zerolog.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		log:    log.With().Str("client", "gemini").Logger(),
	}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini" }

// Generate sends the portfolio prompt to Gemini and parses the JSON reply
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (*Advice, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(0.7)),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(adviceSystemInstruction, genai.RoleUser),
	}

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(buildPrompt(req))},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate advice: %w", err)
	}

	text := cleanMarkdownFences(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("advice model returned no text")
	}

	var out Advice
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		g.log.Warn().Err(err).Msg("Advice response was not valid JSON")
		return UnavailableAdvice(), nil
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}

	g.log.Info().Int("recommendations", len(out.Recommendations)).Msg("Generated advice")
	return &out, nil
}

// cleanMarkdownFences strips the ```json fences models sometimes wrap around
// JSON payloads even when asked not to.
func cleanMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
