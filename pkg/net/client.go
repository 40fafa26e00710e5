package net

import (
	"net/http"
	"time"
)

const (
	maxIdleConns = 10
	idleTimeout  = 60 * time.Second
	clientAgent  = "hajjdash-probe/1.0"

	// TimeoutDefault bounds a single probe when no timeout is configured.
	TimeoutDefault = 5 * time.Second
)

// NewClient returns the HTTP client shared by the status probes. A zero
// timeout uses TimeoutDefault.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = TimeoutDefault
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:          maxIdleConns,
			IdleConnTimeout:       idleTimeout,
			DisableCompression:    true,
			ResponseHeaderTimeout: timeout,
		},
	}
}
