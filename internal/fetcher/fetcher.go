package fetcher

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

const (
	// DefaultUserAgent is sent with every fetch.
	DefaultUserAgent = "Mozilla/5.0 (compatible; CyberWatchdog/1.0)"

	// DefaultTimeout bounds a single fetch including all redirects.
	DefaultTimeout = 8 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Fetcher downloads one page and turns it into model.ExtractedContent.
type Fetcher struct {
	// client is shared by all fetches and must be safe for concurrent use.
	client *http.Client

	// userAgent is the User-Agent header sent with the request.
	userAgent string

	// timeout bounds the whole fetch, redirects included.
	timeout time.Duration

	// maxBodySize limits the number of body bytes read.
	maxBodySize int64

	// maxTextLength caps the extracted visible text in characters.
	maxTextLength int

	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client used for fetching.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout sets the fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithMaxTextLength sets the cap on extracted visible text.
func WithMaxTextLength(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxTextLength = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher with sensible defaults.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:        &http.Client{},
		userAgent:     DefaultUserAgent,
		timeout:       DefaultTimeout,
		maxBodySize:   DefaultMaxBodySize,
		maxTextLength: model.MaxTextLength,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Fetch issues a single GET for rawURL and extracts its content.
// rawURL is expected to be an already validated absolute URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, newError(rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, newError(rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, newError(rawURL, err)
	}

	markup := f.decode(body, resp.Header.Get("Content-Type"))

	doc, err := Parse(strings.NewReader(markup))
	if err != nil {
		return nil, newError(rawURL, err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	redirects := countRedirects(resp)

	f.logger.Debug("page fetched",
		"url", rawURL,
		"final_url", finalURL,
		"status", resp.StatusCode,
		"redirects", redirects,
		"bytes", len(body),
	)

	return &model.ExtractedContent{
		FinalURL:      finalURL,
		RedirectCount: redirects,
		Title:         doc.Title,
		Text:          model.Truncate(doc.Text, f.maxTextLength),
		RawMarkup:     markup,
	}, nil
}

// decode converts body to UTF-8 using the declared or sniffed charset.
// Undecodable input falls back to the raw bytes with invalid sequences replaced.
func (f *Fetcher) decode(body []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		f.logger.Debug("unknown charset, using raw body", "content_type", contentType, "error", err)
		return strings.ToValidUTF8(string(body), "\uFFFD")
	}

	decoded, err := io.ReadAll(r)
	if err != nil {
		f.logger.Debug("charset decoding failed, using raw body", "content_type", contentType, "error", err)
		return strings.ToValidUTF8(string(body), "\uFFFD")
	}
	return strings.ToValidUTF8(string(decoded), "\uFFFD")
}

// countRedirects walks the chain of responses that led to resp.
// Each redirected request keeps the response that caused it, so the chain
// length is the number of hops without any per-client state.
func countRedirects(resp *http.Response) int {
	count := 0
	for req := resp.Request; req != nil && req.Response != nil; req = req.Response.Request {
		count++
	}
	return count
}
