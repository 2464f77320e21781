package types

import (
	"context"
	"net/http"
	"time"
)

// Logger receives structured debug output from the client and its transports.
// Key/value pairs alternate, as in log/slog.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RetryConfig controls how the sync proxy and insights calls are retried on
// connection failures and 5xx responses. A nil config disables retries.
type RetryConfig struct {
	MaxRetries int           `json:"maxRetries"`
	RetryWait  time.Duration `json:"retryWait"`
	MaxWait    time.Duration `json:"maxWait"`
}

// DefaultRetryConfig suits long-running processes such as the daemon, where
// a dropped sync is worse than a slow one.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		RetryWait:  500 * time.Millisecond,
		MaxWait:    5 * time.Second,
	}
}

// Hooks observe remote calls. Any of them may be nil.
type Hooks struct {
	// OnRequest runs before the first attempt and may modify the request
	OnRequest func(ctx context.Context, req *http.Request)

	// OnRetry runs before each repeated attempt; attempt starts at 1
	OnRetry func(ctx context.Context, req *http.Request, attempt int)

	// OnResponse runs once with the final response
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)

	// OnError runs when no response could be obtained
	OnError func(ctx context.Context, err error)
}
