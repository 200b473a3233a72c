package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const maxIcebreakers = 3

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.ResponseMIMEType = "application/json"

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// GenerateIcebreakers asks the model for opening lines for two people who
// just matched at a party.
func (c *GeminiClient) GenerateIcebreakers(ctx context.Context, a, b *domain.Profile) ([]string, error) {
	prompt := fmt.Sprintf(`
		Two guests of the same party just matched with each other.
		Guest 1: %s. Interests: %v. About: %q
		Guest 2: %s. Interests: %v. About: %q

		Task: write %d short, friendly opening lines either guest could send first.
		Lean on shared interests or interesting contrasts. No pickup lines.
		Output: JSON array of strings. Example: ["Hi...", "Hello..."]
	`, a.DisplayName, a.Interests, a.BioText(), b.DisplayName, b.Interests, b.BioText(), maxIcebreakers)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return parseIcebreakers(sb.String())
}

// parseIcebreakers reads a JSON array of strings, tolerating a markdown code
// fence around it or, failing that, one line per icebreaker.
func parseIcebreakers(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var lines []string
	if err := json.Unmarshal([]byte(text), &lines); err != nil {
		for _, line := range strings.Split(text, "\n") {
			line = strings.Trim(strings.TrimSpace(line), `",`)
			if line == "" || line == "[" || line == "]" {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
		}
	}

	out := make([]string, 0, maxIcebreakers)
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
		if len(out) == maxIcebreakers {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no icebreakers in response")
	}
	return out, nil
}
