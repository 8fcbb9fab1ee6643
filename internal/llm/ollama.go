package llm

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Ollama calls a local Ollama instance, for drafting without a cloud key.
type Ollama struct {
	url    string
	model  string
	client *http.Client
}

func NewOllama(url, model string) *Ollama {
	return &Ollama{
		url:    strings.TrimRight(url, "/"),
		model:  model,
		client: &http.Client{Timeout: 2 * time.Minute}, // local models load slowly
	}
}

type ollamaRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature"`
		NumPredict  int     `json:"num_predict"`
	} `json:"options"`
}

type ollamaReply struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Complete runs a non-streaming generate call.
func (o *Ollama) Complete(ctx context.Context, prompt string) (*Response, error) {
	req := ollamaRequest{Model: o.model, Prompt: prompt}
	req.Options.Temperature = draftTemperature
	req.Options.NumPredict = draftMaxTokens

	var reply ollamaReply
	if err := postJSON(ctx, o.client, "ollama", o.url+"/api/generate", nil, req, &reply); err != nil {
		return nil, err
	}
	return &Response{
		Content:    strings.TrimSpace(reply.Response),
		Provider:   "ollama",
		TokensUsed: reply.PromptEvalCount + reply.EvalCount,
	}, nil
}
