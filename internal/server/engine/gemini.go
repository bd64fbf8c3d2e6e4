package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const geminiAPIVersion = "v1beta"

// GeminiOptions configures GeminiClient.
type GeminiOptions struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// GeminiClient generates text with a Gemini model through the genai SDK.
// Attachments are sent inline with their media type.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, o GeminiOptions) (*GeminiClient, error) {
	if o.APIKey == "" {
		return nil, errors.New("gemini api key is not set")
	}

	cc := &genai.ClientConfig{
		APIKey:     o.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: o.Timeout},
		HTTPOptions: genai.HTTPOptions{
			APIVersion: geminiAPIVersion,
		},
	}
	if o.BaseURL != "" {
		cc.HTTPOptions.BaseURL = strings.TrimRight(o.BaseURL, "/") + "/"
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: o.Model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	for _, a := range req.Attachments {
		parts = append(parts, genai.NewPartFromBytes(a.Data, a.MediaType))
	}

	var cfg *genai.GenerateContentConfig
	if req.System != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.System)}},
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Role: "user", Parts: parts}}, cfg)
	if err != nil {
		return "", err
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", fb.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", errors.New("no candidates in response")
	}

	var sb strings.Builder
	if content := resp.Candidates[0].Content; content != nil {
		for _, p := range content.Parts {
			if p != nil {
				sb.WriteString(p.Text)
			}
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty response text")
	}
	return sb.String(), nil
}
