package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	stdnet "net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy = "healthy"
	StatusWarning = "warning"
	StatusError   = "error"

	// LatencyTimeout is reported instead of a duration when a probe times out.
	LatencyTimeout = "timeout"

	// SlowDefault is the latency above which a healthy response is a warning.
	SlowDefault = 100 * time.Millisecond

	// drain at most this much so keep-alive connections can be reused
	maxDrainBytes = 64 << 10
)

// Endpoint is an upstream system checked by the status page.
type Endpoint struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Result is the classified outcome of one probe.
type Result struct {
	Name     string        `json:"name" yaml:"name"`
	Status   string        `json:"status" yaml:"status"`
	Latency  string        `json:"latency" yaml:"latency"`
	Code     int           `json:"code,omitempty" yaml:"code,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Probe issues a GET to ep and classifies the response: 2xx within slow is
// healthy, a slower 2xx is a warning, anything else is an error.
func Probe(ctx context.Context, client *http.Client, ep Endpoint, slow time.Duration) *Result {
	if client == nil {
		client = NewClient(0)
	}
	if slow <= 0 {
		slow = SlowDefault
	}

	r := &Result{Name: ep.Name, Status: StatusError}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		r.Latency = "n/a"
		r.Error = fmt.Sprintf("invalid request: %v", err)
		return r
	}
	req.Header.Set("User-Agent", clientAgent)

	start := time.Now()
	resp, err := client.Do(req) //nolint:gosec // URL comes from local config
	r.Duration = time.Since(start)
	r.Latency = formatLatency(r.Duration)

	if err != nil {
		if isTimeout(err) {
			r.Latency = LatencyTimeout
		}
		r.Error = err.Error()
		slog.Debug("probe failed", "name", ep.Name, "url", ep.URL, "error", err)
		return r
	}
	defer resp.Body.Close()
	_, _ = io.CopyN(io.Discard, resp.Body, maxDrainBytes)

	logResponse(ctx, resp)
	r.Code = resp.StatusCode

	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		r.Error = resp.Status
	case r.Duration > slow:
		r.Status = StatusWarning
	default:
		r.Status = StatusHealthy
	}

	return r
}

// ProbeAll probes every endpoint concurrently. Results keep the endpoint
// order. The only error is the context's.
func ProbeAll(ctx context.Context, client *http.Client, eps []Endpoint, slow time.Duration) ([]*Result, error) {
	if client == nil {
		client = NewClient(0)
	}

	results := make([]*Result, len(eps))
	g, gctx := errgroup.WithContext(ctx)
	for i, ep := range eps {
		g.Go(func() error {
			results[i] = Probe(gctx, client, ep, slow)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func formatLatency(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne stdnet.Error
	return errors.As(err, &ne) && ne.Timeout()
}
