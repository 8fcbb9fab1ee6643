package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Generation settings shared by every provider. Drafts are a few sentences.
const (
	draftTemperature = 0.7
	draftMaxTokens   = 512
	maxReplyBytes    = 1 << 20
	requestTimeout   = 60 * time.Second
)

// StatusError is a non-200 reply from a provider API.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api status %d: %s", e.Provider, e.Code, e.Body)
}

// postJSON posts payload to endpoint and decodes a 200 reply into out.
// Transport errors drop the request URL, which may carry an API key.
func postJSON(ctx context.Context, hc *http.Client, provider, endpoint string, header http.Header, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", provider, err)
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return fmt.Errorf("%s api: %w", provider, err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", provider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Provider: provider, Code: resp.StatusCode, Body: string(reply)}
	}
	if err := json.Unmarshal(reply, out); err != nil {
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}
