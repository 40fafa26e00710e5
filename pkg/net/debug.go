package net

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httputil"
)

// logResponse dumps the response headers at debug level.
func logResponse(ctx context.Context, resp *http.Response) {
	if resp == nil || !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}
	if dump, err := httputil.DumpResponse(resp, false); err == nil {
		slog.Debug("probe response", "url", resp.Request.URL.String(), "dump", string(dump))
	}
}
