package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lazypower/stayintouch/internal/llm"
	"github.com/lazypower/stayintouch/internal/store"
)

var alice = store.Contact{ID: 1, Name: "Alice", Birthday: "1990-06-09", Notes: "new job"}

func TestDraftSuccess(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "  Happy belated birthday, Alice!  ", Provider: "mock"}}
	d := New(mock, nil)

	res := d.Draft(context.Background(), alice, "mention cake")
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if res.Fallback {
		t.Error("Fallback = true on success")
	}
	if res.Message != "Happy belated birthday, Alice!" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Provider != "mock" {
		t.Errorf("Provider = %q, want mock", res.Provider)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if !strings.Contains(calls[0], "Name: Alice") || !strings.Contains(calls[0], "mention cake") {
		t.Errorf("prompt does not carry contact context: %q", calls[0])
	}
}

func TestDraftLLMError(t *testing.T) {
	boom := errors.New("quota exceeded")
	d := New(&llm.MockClient{Err: boom}, nil)

	res := d.Draft(context.Background(), alice, "")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if !errors.Is(res.Err, boom) {
		t.Errorf("Err = %v, want %v", res.Err, boom)
	}
	if !res.Fallback || res.Message != FallbackMessage {
		t.Errorf("result = %+v, want fallback", res)
	}
}

func TestDraftEmptyCompletion(t *testing.T) {
	d := New(&llm.MockClient{Response: &llm.Response{Content: "   "}}, nil)

	res := d.Draft(context.Background(), alice, "")
	if res.OK() || !res.Fallback {
		t.Errorf("result = %+v, want fallback for empty completion", res)
	}
}

func TestDraftNotConfigured(t *testing.T) {
	d := New(nil, nil)

	res := d.Draft(context.Background(), alice, "")
	if !errors.Is(res.Err, ErrNotConfigured) {
		t.Errorf("Err = %v, want ErrNotConfigured", res.Err)
	}
	if res.Message != FallbackMessage {
		t.Errorf("Message = %q, want fallback", res.Message)
	}
}
