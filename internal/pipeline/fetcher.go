package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/ppiankov/edgarscan/internal/cache"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/util"
	"github.com/ppiankov/edgarscan/internal/worker"
)

// statusError is a non-2xx response
type statusError struct {
	Code   int
	Status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Fetcher downloads filings over HTTP. It honors a per-host rate limit,
// optionally robots.txt, and serves repeated addresses from a cache.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	attempts   uint
	retryDelay time.Duration
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	cache      cache.Cache
	logger     *slog.Logger
}

// FetcherOptions holds the collaborators of a Fetcher. Nil fields disable
// the corresponding feature.
type FetcherOptions struct {
	Limiter *worker.Limiter
	Robots  *util.RobotsChecker
	Cache   cache.Cache
	Logger  *slog.Logger
}

// NewFetcher creates a new Fetcher from the HTTP settings
func NewFetcher(cfg model.HTTPConfig, maxBytes int64, opts FetcherOptions) *Fetcher {
	if cfg.MaxBodyBytes > 0 && (maxBytes <= 0 || cfg.MaxBodyBytes < maxBytes) {
		maxBytes = cfg.MaxBodyBytes
	}
	// The first request plus cfg.Retries retries
	attempts := uint(1)
	if cfg.Retries > 0 {
		attempts += uint(cfg.Retries)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := util.NewHTTPClient(cfg)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return fmt.Errorf("stopped after 3 redirects")
		}
		return nil
	}

	return &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		attempts:   attempts,
		retryDelay: time.Second,
		limiter:    opts.Limiter,
		robots:     opts.Robots,
		cache:      opts.Cache,
		logger:     logger,
	}
}

// Open implements Source
func (f *Fetcher) Open(ctx context.Context, address string) (string, error) {
	body, err := f.Fetch(ctx, address)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Fetch retrieves a filing body, retrying transient failures
// (network errors, 429 and 5xx responses).
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	key := cache.CacheKey(rawURL)
	if f.cache != nil {
		if body, found := f.cache.Get(key); found {
			f.logger.Debug("filing served from cache", "url", rawURL)
			return body, nil
		}
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s disallowed by robots.txt", model.ErrSourceUnavailable, rawURL)
		}
		if f.limiter != nil {
			f.limiter.SlowDown(rawURL, delay)
		}
	}

	var body []byte
	err := retry.Do(
		func() error {
			var err error
			body, err = f.fetchOnce(ctx, rawURL)
			if err != nil && !isRetryableFetchError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Debug("retrying filing fetch", "url", rawURL, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		if errors.Is(err, model.ErrFilingTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
	}

	if f.cache != nil {
		if err := f.cache.Set(key, body, 0); err != nil {
			f.logger.Warn("cache write failed", "url", rawURL, "error", err)
		}
	}
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,text/html,application/xhtml+xml,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{Code: resp.StatusCode, Status: resp.Status}
	}

	// Read one byte past the cap to detect oversize bodies
	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", model.ErrFilingTooLarge, rawURL, f.maxBytes)
	}

	return body, nil
}

// transportError is a failure to get any response
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "fetch: " + e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

// isRetryableFetchError reports whether a fetch failure may succeed on retry
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var status *statusError
	if errors.As(err, &status) {
		return status.Code == http.StatusTooManyRequests || status.Code >= 500
	}

	var transport *transportError
	return errors.As(err, &transport)
}
