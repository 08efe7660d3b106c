package platform

import (
	"net/http"
	"time"
)

// NewHTTPClient builds the process-wide outbound HTTP client used for
// provider price feeds. It is created once at startup and passed into
// fetchers explicitly so tests can substitute their own client.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        32,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
