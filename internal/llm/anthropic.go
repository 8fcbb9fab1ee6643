package llm

import (
	"context"
	"net/http"
	"strings"
)

const (
	anthropicAPI     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// Anthropic calls the Anthropic Messages API.
type Anthropic struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		apiKey:   apiKey,
		model:    model,
		endpoint: anthropicAPI,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicReply struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends prompt as a single user message.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (*Response, error) {
	req := anthropicRequest{
		Model:       a.model,
		MaxTokens:   draftMaxTokens,
		Temperature: draftTemperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	}
	header := http.Header{}
	header.Set("x-api-key", a.apiKey)
	header.Set("anthropic-version", anthropicVersion)

	var reply anthropicReply
	if err := postJSON(ctx, a.client, "anthropic", a.endpoint, header, req, &reply); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range reply.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return &Response{
		Content:    strings.TrimSpace(text.String()),
		Provider:   "anthropic",
		TokensUsed: reply.Usage.InputTokens + reply.Usage.OutputTokens,
	}, nil
}
