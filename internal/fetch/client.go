// Package fetch performs bounded-timeout HTTP GETs for feeds, media and
// images. Every failure is reported as domain.ErrFetchFailed so callers can
// degrade instead of aborting.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"podcaster/internal/domain"
)

const maxBodySize = 64 << 20

// Config holds HTTP fetch configuration.
type Config struct {
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	UserAgent      string
	TempDir        string
}

type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	userAgent      string
	tempDir        string
	logger         *slog.Logger
}

// Download is a response body spooled to a temporary file. The caller owns
// the file and must call Remove.
type Download struct {
	Path        string
	ContentType string
	Size        int64
}

func (d *Download) Remove() error {
	if d == nil || d.Path == "" {
		return nil
	}
	return os.Remove(d.Path)
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Podcaster/1.0"
	}
	return &Client{
		httpClient: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		timeout:        cfg.Timeout,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		userAgent:      cfg.UserAgent,
		tempDir:        cfg.TempDir,
		logger:         logger.With("component", "fetch"),
	}
}

// Get fetches url into memory. timeout bounds each attempt; zero uses the
// configured default.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) (int, []byte, error) {
	var body []byte
	status, err := c.withRetry(ctx, url, timeout, func(resp *http.Response) error {
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		body = data
		return nil
	})
	return status, body, err
}

// Download streams url into a temporary file.
func (c *Client) Download(ctx context.Context, url string, timeout time.Duration) (*Download, error) {
	var dl *Download
	_, err := c.withRetry(ctx, url, timeout, func(resp *http.Response) error {
		f, err := os.CreateTemp(c.tempDir, "podcaster-*")
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		n, copyErr := io.Copy(f, resp.Body)
		closeErr := f.Close()
		if copyErr != nil || closeErr != nil {
			_ = os.Remove(f.Name())
			return fmt.Errorf("write temp file: %w", errors.Join(copyErr, closeErr))
		}
		dl = &Download{Path: f.Name(), ContentType: resp.Header.Get("Content-Type"), Size: n}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dl, nil
}

type statusError struct {
	status int
}

func (e statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.status)
}

func (c *Client) withRetry(ctx context.Context, url string, timeout time.Duration, consume func(*http.Response) error) (int, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}

	var status int
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		status, err = c.doRequest(ctx, url, timeout, consume)
		if err == nil {
			return status, nil
		}

		var se statusError
		if errors.As(err, &se) && se.status < 500 && se.status != http.StatusTooManyRequests {
			break
		}
		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"url", url,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return status, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, url, ctx.Err())
		case <-time.After(backoff):
		}
	}

	return status, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, url, err)
}

func (c *Client) doRequest(ctx context.Context, url string, timeout time.Duration, consume func(*http.Response) error) (int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, statusError{status: resp.StatusCode}
	}
	return resp.StatusCode, consume(resp)
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if c.maxBackoff > 0 && backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
