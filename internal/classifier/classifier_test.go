package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestHuggingFaceClassify tests the zero-shot HTTP client.
func TestHuggingFaceClassify(t *testing.T) {
	t.Parallel()

	t.Run("sends labels and token and returns top label", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotAuth, gotType string
		var gotBody zeroShotRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			gotType = r.Header.Get("Content-Type")
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"sequence":"x","labels":["phishing","benign"],"scores":[0.91,0.09]}`)
		}))
		defer server.Close()

		h := NewHuggingFace("hf_secret",
			WithEndpoint(server.URL+"/models/"),
			WithLogger(discardLogger()),
		)

		got, err := h.Classify(context.Background(), "verify your account")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Label != "phishing" || got.Score != 0.91 {
			t.Errorf("unexpected prediction: %+v", got)
		}
		if gotPath != "/models/facebook/bart-large-mnli" {
			t.Errorf("unexpected path: %s", gotPath)
		}
		if gotAuth != "Bearer hf_secret" {
			t.Errorf("unexpected authorization header: %q", gotAuth)
		}
		if gotType != "application/json" {
			t.Errorf("unexpected content type: %q", gotType)
		}
		if gotBody.Inputs != "verify your account" {
			t.Errorf("unexpected inputs: %q", gotBody.Inputs)
		}
		if !slices.Equal(gotBody.Parameters.CandidateLabels, CandidateLabels) {
			t.Errorf("unexpected labels: %v", gotBody.Parameters.CandidateLabels)
		}
	})

	t.Run("custom model and labels", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		var gotBody zeroShotRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = io.WriteString(w, `{"labels":["benign"],"scores":[0.7]}`)
		}))
		defer server.Close()

		h := NewHuggingFace("",
			WithEndpoint(server.URL),
			WithModel("org/other"),
			WithCandidateLabels([]string{"benign", "spam"}),
			WithLogger(discardLogger()),
		)
		if _, err := h.Classify(context.Background(), "hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotPath != "/org/other" {
			t.Errorf("unexpected path: %s", gotPath)
		}
		if !slices.Equal(gotBody.Parameters.CandidateLabels, []string{"benign", "spam"}) {
			t.Errorf("unexpected labels: %v", gotBody.Parameters.CandidateLabels)
		}
	})

	t.Run("omits authorization without token", func(t *testing.T) {
		t.Parallel()

		var hadAuth atomic.Bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hadAuth.Store(r.Header.Get("Authorization") != "")
			_, _ = io.WriteString(w, `{"labels":["benign"],"scores":[0.7]}`)
		}))
		defer server.Close()

		h := NewHuggingFace("", WithEndpoint(server.URL), WithLogger(discardLogger()))
		if _, err := h.Classify(context.Background(), "hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hadAuth.Load() {
			t.Error("expected no authorization header")
		}
	})

	t.Run("non-OK status is reported with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":"Model is currently loading"}`)
		}))
		defer server.Close()

		h := NewHuggingFace("t", WithEndpoint(server.URL), WithLogger(discardLogger()))
		_, err := h.Classify(context.Background(), "hello")
		if !errors.Is(err, ErrClassifier) {
			t.Fatalf("expected ErrClassifier, got %v", err)
		}

		var cerr *Error
		if !errors.As(err, &cerr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if cerr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("unexpected status: %d", cerr.StatusCode)
		}
		if !strings.Contains(cerr.Error(), "Model is currently loading") {
			t.Errorf("expected body in message, got %q", cerr.Error())
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `not json`)
		}))
		defer server.Close()

		h := NewHuggingFace("t", WithEndpoint(server.URL), WithLogger(discardLogger()))
		_, err := h.Classify(context.Background(), "hello")
		if !errors.Is(err, ErrClassifier) {
			t.Fatalf("expected ErrClassifier, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "decode response:") {
			t.Errorf("unexpected message: %q", err.Error())
		}
	})

	t.Run("empty labels", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"labels":[],"scores":[]}`)
		}))
		defer server.Close()

		h := NewHuggingFace("t", WithEndpoint(server.URL), WithLogger(discardLogger()))
		if _, err := h.Classify(context.Background(), "hello"); !errors.Is(err, ErrClassifier) {
			t.Fatalf("expected ErrClassifier, got %v", err)
		}
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		endpoint := server.URL
		server.Close()

		h := NewHuggingFace("t", WithEndpoint(endpoint), WithLogger(discardLogger()))
		_, err := h.Classify(context.Background(), "hello")
		var cerr *Error
		if !errors.As(err, &cerr) {
			t.Fatalf("expected *Error, got %v", err)
		}
		if cerr.StatusCode != 0 {
			t.Errorf("expected no status code, got %d", cerr.StatusCode)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		h := NewHuggingFace("t",
			WithEndpoint(server.URL),
			WithTimeout(50*time.Millisecond),
			WithLogger(discardLogger()),
		)
		_, err := h.Classify(context.Background(), "hello")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
		if !errors.Is(err, ErrClassifier) {
			t.Errorf("expected ErrClassifier, got %v", err)
		}
	})
}

// TestIsRisk tests risk label detection.
func TestIsRisk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    model.Prediction
		want bool
	}{
		{name: "phishing above threshold", p: model.Prediction{Label: "phishing", Score: 0.9}, want: true},
		{name: "mixed case label", p: model.Prediction{Label: "Credential Harvesting", Score: 0.6}, want: true},
		{name: "suspicious", p: model.Prediction{Label: "suspicious", Score: 0.51}, want: true},
		{name: "at threshold", p: model.Prediction{Label: "malware", Score: 0.5}, want: false},
		{name: "benign", p: model.Prediction{Label: "benign", Score: 0.99}, want: false},
		{name: "spam is not a risk label", p: model.Prediction{Label: "spam", Score: 0.99}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsRisk(tt.p); got != tt.want {
				t.Errorf("IsRisk(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

// TestExcerpt tests excerpt bounds.
func TestExcerpt(t *testing.T) {
	t.Parallel()

	if got := Excerpt("short"); got != "short" {
		t.Errorf("unexpected excerpt: %q", got)
	}

	long := strings.Repeat("क", MaxExcerptLength+10)
	got := Excerpt(long)
	if n := utf8.RuneCountInString(got); n != MaxExcerptLength {
		t.Errorf("expected %d runes, got %d", MaxExcerptLength, n)
	}
	if !utf8.ValidString(got) {
		t.Error("excerpt is not valid UTF-8")
	}
}

// TestStubs tests the in-process classifiers.
func TestStubs(t *testing.T) {
	t.Parallel()

	t.Run("static", func(t *testing.T) {
		t.Parallel()

		s := Static{Label: "benign", Score: 0.9}
		got, err := s.Classify(context.Background(), "anything")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != (model.Prediction{Label: "benign", Score: 0.9}) {
			t.Errorf("unexpected prediction: %+v", got)
		}
	})

	t.Run("static honors cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Static{Label: "benign", Score: 0.9}.Classify(ctx, "anything")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("func", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f := Func(func(_ context.Context, text string) (model.Prediction, error) {
			calls.Add(1)
			return model.Prediction{Label: text, Score: 1}, nil
		})
		got, err := f.Classify(context.Background(), "spam")
		if err != nil || got.Label != "spam" {
			t.Errorf("unexpected result: %+v, %v", got, err)
		}
		if calls.Load() != 1 {
			t.Errorf("expected one call, got %d", calls.Load())
		}
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		_, err := Disabled{Reason: "HF_API_TOKEN is not set"}.Classify(context.Background(), "x")
		if !errors.Is(err, ErrClassifier) {
			t.Fatalf("expected ErrClassifier, got %v", err)
		}
		if err.Error() != "HF_API_TOKEN is not set" {
			t.Errorf("unexpected message: %q", err.Error())
		}

		_, err = Disabled{}.Classify(context.Background(), "x")
		if err.Error() != "classifier disabled" {
			t.Errorf("unexpected default message: %q", err.Error())
		}
	})
}
