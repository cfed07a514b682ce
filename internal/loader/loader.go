// Package loader fetches vocabulary files and turns them into decks.
//
// A Loader never touches application state. It returns either a Result or
// one of ErrNoSource, *TransportError or *FormatError and leaves applying
// the outcome to the caller.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal/deck"
	"codeberg.org/snonux/flipgrid/internal/logging"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

// Options configures a Loader
type Options struct {
	Timeout  time.Duration // Per-request timeout (0 = none)
	MaxBytes int64         // Maximum accepted body size (0 = no limit)

	// Consecutive HTTP failures after which the breaker opens, and how long
	// it stays open before letting a probe request through.
	BreakerFailures uint32
	BreakerCooldown time.Duration

	Parser     vocab.Parser
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// DefaultOptions returns sensible defaults for fetching vocabularies
func DefaultOptions() *Options {
	return &Options{
		Timeout:         15 * time.Second,
		MaxBytes:        5 * 1024 * 1024, // 5MB
		BreakerFailures: 3,
		BreakerCooldown: 30 * time.Second,
	}
}

// Result is a successfully loaded vocabulary
type Result struct {
	Source    string
	RequestID string
	Parsed    vocab.ParseResult
}

// Deck returns the loaded vocabulary as a deck
func (r *Result) Deck() deck.Deck {
	return deck.FromResult(r.Parsed)
}

// Loader fetches and validates vocabularies
type Loader struct {
	opts    Options
	parser  vocab.Parser
	client  *http.Client
	logger  *zap.Logger

	// One breaker per host so a dead server does not block the others
	breakersMu sync.Mutex
	breakers   map[string]*gobreaker.CircuitBreaker
}

// New creates a loader. Zero-valued options fall back to DefaultOptions.
func New(opts *Options) *Loader {
	defaults := DefaultOptions()
	if opts == nil {
		opts = defaults
	}
	o := *opts
	if o.BreakerFailures == 0 {
		o.BreakerFailures = defaults.BreakerFailures
	}
	if o.BreakerCooldown == 0 {
		o.BreakerCooldown = defaults.BreakerCooldown
	}

	l := &Loader{
		opts:     o,
		parser:   o.Parser,
		client:   o.HTTPClient,
		logger:   logging.OrNop(o.Logger).Named("loader"),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
	if l.parser == nil {
		l.parser = &vocab.SimpleParser{}
	}
	if l.client == nil {
		l.client = &http.Client{}
	}
	return l
}

// breaker returns the circuit breaker for host, creating it on first use
func (l *Loader) breaker(host string) *gobreaker.CircuitBreaker {
	l.breakersMu.Lock()
	defer l.breakersMu.Unlock()

	if cb, ok := l.breakers[host]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "vocabulary-fetch " + host,
		Timeout: l.opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= l.opts.BreakerFailures
		},
		IsSuccessful: isHealthyResponse,
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	l.breakers[host] = cb
	return cb
}

// isHealthyResponse reports whether err says nothing bad about the server.
// A 4xx answer means the server is up; only network errors and 5xx trip.
func isHealthyResponse(err error) bool {
	if err == nil {
		return true
	}
	var te *TransportError
	if errors.As(err, &te) && te.StatusCode >= 400 && te.StatusCode < 500 {
		return true
	}
	return false
}

// Load fetches source, parses it and validates the pair count. source is an
// http(s) URL, a file:// URL or a local path.
func (l *Loader) Load(ctx context.Context, source string) (*Result, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrNoSource
	}

	reqID := uuid.NewString()
	logger := l.logger.With(zap.String("request_id", reqID), zap.String("source", source))
	start := time.Now()

	text, err := l.fetch(ctx, source)
	if err != nil {
		logger.Warn("Vocabulary fetch failed", zap.Error(err))
		return nil, err
	}

	parsed := l.parser.Parse(text)
	logger.Debug("Vocabulary parsed",
		zap.String("parser", l.parser.Name()),
		zap.Int("pairs", parsed.Len()),
		zap.Int("target_column", parsed.TargetColumn),
		zap.Duration("elapsed", time.Since(start)))

	if parsed.Len() < deck.MinWordsForGrid {
		err := &FormatError{Loaded: parsed.Len()}
		logger.Warn("Vocabulary rejected", zap.Error(err))
		return nil, err
	}

	logger.Info("Vocabulary loaded", zap.Int("pairs", parsed.Len()))
	return &Result{Source: source, RequestID: reqID, Parsed: parsed}, nil
}

func (l *Loader) fetch(ctx context.Context, source string) (string, error) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path, including Windows drive letters
		return l.readFile(source, source)
	}

	switch u.Scheme {
	case "file":
		return l.readFile(source, u.Path)
	case "http", "https":
		body, err := l.breaker(u.Host).Execute(func() (interface{}, error) {
			return l.get(ctx, source)
		})
		if err != nil {
			var te *TransportError
			if errors.As(err, &te) {
				return "", err
			}
			// Open or half-open breaker rejections
			return "", &TransportError{Source: source, Err: fmt.Errorf("fetch of %s rejected: %w", u.Host, err)}
		}
		return body.(string), nil
	default:
		return "", &TransportError{Source: source, Err: fmt.Errorf("unsupported source scheme: %s", u.Scheme)}
	}
}

func (l *Loader) get(ctx context.Context, source string) (string, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", &TransportError{Source: source, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", &TransportError{Source: source, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{Source: source, StatusCode: resp.StatusCode, Status: statusText(resp)}
	}

	return l.readLimited(source, resp.Body)
}

func (l *Loader) readFile(source, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &TransportError{Source: source, Err: fmt.Errorf("failed to open vocabulary file: %w", err)}
	}
	defer f.Close()

	return l.readLimited(source, f)
}

func (l *Loader) readLimited(source string, r io.Reader) (string, error) {
	if l.opts.MaxBytes > 0 {
		r = io.LimitReader(r, l.opts.MaxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", &TransportError{Source: source, Err: fmt.Errorf("failed to read vocabulary: %w", err)}
	}
	if l.opts.MaxBytes > 0 && int64(len(data)) > l.opts.MaxBytes {
		return "", &TransportError{Source: source, Err: fmt.Errorf("vocabulary exceeds maximum size of %d bytes", l.opts.MaxBytes)}
	}

	return string(data), nil
}

// statusText prefers the reason phrase ("Not Found") over the full status line
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
