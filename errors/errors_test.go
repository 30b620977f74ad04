package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", 0)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if New(ErrCodeAuth, "nope", http.StatusUnauthorized).Retryable {
		t.Error("AUTH_FAILED should not be retryable")
	}
}

func TestAuth_CarriesStatusAndBody(t *testing.T) {
	err := Auth(http.StatusBadRequest, `{"error":"invalid_grant"}`)
	if err.Code != ErrCodeAuth {
		t.Errorf("expected AUTH_FAILED, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}
	if err.Body() != `{"error":"invalid_grant"}` {
		t.Errorf("unexpected body %q", err.Body())
	}
}

func TestTruncateBody_RuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		body string
		keep int
	}{
		{"hangul only", strings.Repeat("안", 300), 510},
		{"rune straddles limit", strings.Repeat("x", MaxBodyLength-1) + strings.Repeat("가", 10), MaxBodyLength - 1},
		{"ascii", strings.Repeat("x", MaxBodyLength+1), MaxBodyLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateBody(tt.body)
			if !utf8.ValidString(got) {
				t.Fatalf("expected valid UTF-8, got %q", got)
			}
			kept, ok := strings.CutSuffix(got, "...(truncated)")
			if !ok {
				t.Fatalf("expected truncation marker, got %q", got)
			}
			if len(kept) != tt.keep || !strings.HasPrefix(tt.body, kept) {
				t.Errorf("expected %d kept bytes, got %d", tt.keep, len(kept))
			}
		})
	}
	if got := TruncateBody("짧은 본문"); got != "짧은 본문" {
		t.Errorf("expected short body unchanged, got %q", got)
	}
}

func TestProvider_TruncatesBody(t *testing.T) {
	body := strings.Repeat("x", MaxBodyLength*2)
	err := Provider("google", http.StatusInternalServerError, body)
	if !strings.HasPrefix(err.Body(), strings.Repeat("x", MaxBodyLength)) {
		t.Error("expected body prefix to be kept")
	}
	if len(err.Body()) >= len(body) {
		t.Errorf("expected truncated body, got %d bytes", len(err.Body()))
	}
	if !err.Retryable {
		t.Error("5xx provider errors should be retryable")
	}
	if err.Details["provider"] != "google" {
		t.Errorf("expected provider=google, got %v", err.Details["provider"])
	}
}

func TestProvider_ClientErrorNotRetryable(t *testing.T) {
	if Provider("clova", http.StatusBadRequest, "").Retryable {
		t.Error("4xx provider errors should not be retryable")
	}
}

func TestErrorString_IncludesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Cache("put", cause)
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIsHelpers_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("router: %w", Timeout("google.poll"))
	if !IsTimeout(wrapped) {
		t.Error("expected IsTimeout through fmt wrapping")
	}
	if IsAuth(wrapped) {
		t.Error("timeout must not report as auth")
	}
	if CodeOf(stderrors.New("plain")) != "" {
		t.Error("plain errors have no code")
	}
	if IsCode(nil, ErrCodeTimeout) {
		t.Error("nil error has no code")
	}
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := Interrupted("poll", nil)
	if !stderrors.Is(err, New(ErrCodeInterrupted, "", 0)) {
		t.Error("expected code-based match")
	}
	if stderrors.Is(err, New(ErrCodeTimeout, "", 0)) {
		t.Error("different codes must not match")
	}
}

func TestNotFound_EmptyID(t *testing.T) {
	err := NotFound("engine", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}
