package extractor

import (
	"context"
	"fmt"
	"sync"

	"scanledger/internal/parsererror"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient is a CompletionClient backed by the Gemini API. The
// underlying client is created lazily on first use so that pipelines built
// without an API key still work until AI extraction is actually invoked.
type GeminiClient struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
	gm     *genai.GenerativeModel
}

// NewGeminiClient returns a lazily-initialized Gemini completion client.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey, model: model}
}

func (g *GeminiClient) ensureClient(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return nil
	}
	if g.apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	g.gm = client.GenerativeModel(g.model)
	return nil
}

// Complete sends the system and user prompts as a single content request
// and returns the first candidate's text.
func (g *GeminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	if err := g.ensureClient(ctx); err != nil {
		return "", &parsererror.UpstreamError{Service: "gemini", Err: err}
	}

	prompt := system + "\n\n" + user
	resp, err := g.gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &parsererror.UpstreamError{Service: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &parsererror.UpstreamError{
			Service: "gemini",
			Err:     fmt.Errorf("empty response from model"),
		}
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	g.gm = nil
	return err
}
