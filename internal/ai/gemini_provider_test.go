package ai

import (
	"context"
	"fmt"
	"testing"
	"time"

	"google.golang.org/api/googleapi"

	"fitcheck/internal/errors"
)

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		first   string
	}{
		{
			name:  "plain json",
			raw:   `{"labels":[{"label":"a","score":0.2},{"label":"b","score":0.9}]}`,
			first: "b",
		},
		{
			name:  "fenced json",
			raw:   "```json\n{\"labels\":[{\"label\":\"x\",\"score\":0.5}]}\n```",
			first: "x",
		},
		{
			name:    "not json",
			raw:     "the model rambled instead",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClassification(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got[0].Label != tt.first {
				t.Errorf("first label = %q, want %q (sorted by score)", got[0].Label, tt.first)
			}
		})
	}
}

func TestParseClassificationClampsScores(t *testing.T) {
	got, err := parseClassification(`{"labels":[{"label":"a","score":1.7},{"label":"b","score":-0.3}]}`)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Score != 1 || got[1].Score != 0 {
		t.Errorf("scores not clamped: %+v", got)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 503}, true},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"unauthorized", &googleapi.Error{Code: 401}, false},
		{"connection reset", fmt.Errorf("read tcp: connection reset by peer"), true},
		{"plain error", fmt.Errorf("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.expected {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyRequestError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType errors.ErrorType
		wantCode string
	}{
		{"deadline exceeded", context.DeadlineExceeded, errors.ErrorTypeAI, errors.ErrCodeAITimeout},
		{"wrapped deadline", fmt.Errorf("call failed: %w", context.DeadlineExceeded), errors.ErrorTypeAI, errors.ErrCodeAITimeout},
		{"network timeout", timeoutError{}, errors.ErrorTypeNetwork, errors.ErrCodeNetworkTimeout},
		{"unauthorized", &googleapi.Error{Code: 401}, errors.ErrorTypeAI, errors.ErrCodeAIAuthFailed},
		{"forbidden", &googleapi.Error{Code: 403}, errors.ErrorTypeAI, errors.ErrCodeAIAuthFailed},
		{"server error", &googleapi.Error{Code: 500}, errors.ErrorTypeAI, errors.ErrCodeAIServiceFailed},
		{"plain error", fmt.Errorf("something broke"), errors.ErrorTypeAI, errors.ErrCodeAIServiceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyRequestError(tt.err, "request failed")
			if got.Type != tt.wantType || got.Code != tt.wantCode {
				t.Errorf("classified as %s/%s, want %s/%s", got.Type, got.Code, tt.wantType, tt.wantCode)
			}
			if got.Cause == nil {
				t.Error("cause not preserved")
			}
		})
	}
}

func TestClassifyRequestErrorAfterRetryExhaustion(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := executeWithRetry(ctx, testLogger(), 5, func() (string, error) {
		return "", &googleapi.Error{Code: 503}
	})
	if err == nil {
		t.Fatal("expected context error")
	}

	got := classifyRequestError(err, "request failed")
	if got.Code != errors.ErrCodeAITimeout {
		t.Errorf("exhausted deadline classified as %s, want %s", got.Code, errors.ErrCodeAITimeout)
	}
}

func TestExecuteWithRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := executeWithRetry(context.Background(), testLogger(), 3, func() (string, error) {
		calls++
		return "", fmt.Errorf("invalid input")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("non-retryable error retried %d times", calls)
	}
}

func TestExecuteWithRetrySucceedsAfterRetry(t *testing.T) {
	calls := 0
	got, err := executeWithRetry(context.Background(), testLogger(), 3, func() (string, error) {
		calls++
		if calls == 1 {
			return "", &googleapi.Error{Code: 503}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" || calls != 2 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}

func TestExecuteWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := executeWithRetry(ctx, testLogger(), 5, func() (string, error) {
		return "", &googleapi.Error{Code: 503}
	})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestJitterBounds(t *testing.T) {
	base := 10 * time.Second
	for i := 0; i < 50; i++ {
		j := jitter(base)
		if j < 0 || j > base/10 {
			t.Fatalf("jitter %v outside [0, %v]", j, base/10)
		}
	}
}
