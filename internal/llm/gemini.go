package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const geminiAPI = "https://generativelanguage.googleapis.com/v1beta/models"

// Gemini calls the Google Generative Language generateContent endpoint.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiAPI,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiReply struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Complete sends a single-turn prompt to Gemini.
func (g *Gemini) Complete(ctx context.Context, prompt string) (*Response, error) {
	req := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}
	req.GenerationConfig.Temperature = draftTemperature
	req.GenerationConfig.MaxOutputTokens = draftMaxTokens

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))

	var reply geminiReply
	if err := postJSON(ctx, g.client, "gemini", endpoint, nil, req, &reply); err != nil {
		return nil, err
	}
	if len(reply.Candidates) == 0 {
		return nil, errors.New("gemini api: no candidates returned")
	}

	var text strings.Builder
	for _, p := range reply.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return &Response{
		Content:    strings.TrimSpace(text.String()),
		Provider:   "gemini",
		TokensUsed: reply.UsageMetadata.TotalTokenCount,
	}, nil
}
