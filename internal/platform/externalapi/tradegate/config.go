// Package tradegate provides a client for the Tradegate quote and trade-tick endpoints.
package tradegate

import "time"

// MalformedPolicy decides what happens to a page that contains a record
// which cannot be normalized.
type MalformedPolicy string

const (
	// MalformedRetry fails the whole page so the caller retries it.
	MalformedRetry MalformedPolicy = "retry"
	// MalformedSkip drops the offending record and keeps the rest of the page.
	MalformedSkip MalformedPolicy = "skip"
)

// DefaultUserAgent is sent with every request; the upstream rejects bare HTTP clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36"

// Config holds configuration for the Tradegate client.
type Config struct {
	BaseURL         string          // e.g. "https://www.tradegate.de"
	Timeout         time.Duration   // HTTP request timeout
	UserAgent       string          // User-Agent header
	MalformedPolicy MalformedPolicy // retry (default) or skip
}

// DefaultConfig returns the production endpoint with conservative defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://www.tradegate.de",
		Timeout:         10 * time.Second,
		UserAgent:       DefaultUserAgent,
		MalformedPolicy: MalformedRetry,
	}
}
