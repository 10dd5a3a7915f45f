package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/webshepherd/webshepherd/internal/config"
)

// htmlMediaTypes are the media types accepted by the content-type gate.
var htmlMediaTypes = map[string]bool{
	"text/html":             true,
	"application/xhtml+xml": true,
}

// Fetcher retrieves a single HTML document with enforced resource bounds.
//
// Design decision: the fetcher owns its http.Client rather than accepting
// one, because the redirect hop limit must live in the client's
// CheckRedirect and handing that responsibility to callers would let the
// bound silently disappear. Bounds are plain per-instance values, never
// ambient globals, so fetchers with different bounds coexist safely.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodySize  int64
	maxRedirects int
	timeout      time.Duration
	logger       *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets a custom logger for the fetcher.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher enforcing the bounds in cfg: timeout, redirect
// limit, and body size limit.
func New(cfg *config.Config, opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:    cfg.UserAgent,
		maxBodySize:  cfg.MaxBodySize,
		maxRedirects: cfg.MaxRedirects,
		timeout:      cfg.Timeout,
	}

	f.client = &http.Client{
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > f.maxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Fetch issues one GET for the given absolute HTTP/HTTPS URL and returns
// the document text. The caller is expected to have validated the URL's
// scheme and host, but the fetcher still enforces its own bounds as
// defense in depth. All failures wrap the taxonomy in errors.go.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &NetworkError{Cause: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	f.logger.Debug("fetching url", "url", rawURL, "timeout", f.timeout)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", f.classifyTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !htmlMediaTypes[mediaType] {
		return "", fmt.Errorf("%w: %q (expected an HTML media type)",
			ErrUnsupportedContentType, resp.Header.Get("Content-Type"))
	}

	// Read one byte past the limit so an oversized body is detected
	// rather than silently truncated.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return "", f.classifyTransportError(err)
	}
	if int64(len(body)) > f.maxBodySize {
		return "", fmt.Errorf("%w: body exceeds %d bytes", ErrContentTooLarge, f.maxBodySize)
	}

	f.logger.Debug("fetched document", "url", rawURL, "bytes", len(body))

	return string(body), nil
}

// classifyTransportError maps a transport failure onto the fetch taxonomy.
// Timeouts and redirect-limit errors arrive wrapped in *url.Error, so we
// classify with errors.Is rather than type switches.
func (f *Fetcher) classifyTransportError(err error) error {
	switch {
	case errors.Is(err, ErrTooManyRedirects):
		return fmt.Errorf("%w: more than %d hops", ErrTooManyRedirects, f.maxRedirects)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: after %v", ErrTimeout, f.timeout)
	default:
		return &NetworkError{Cause: err}
	}
}
