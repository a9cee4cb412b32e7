package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// transport issues a single JSON POST per call. It never retries.
type transport struct {
	httpClient *http.Client
	logger     *slog.Logger
	verbose    bool
}

func newTransport(timeout time.Duration, logger *slog.Logger, verbose bool) *transport {
	return &transport{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		verbose:    verbose,
	}
}

// post sends body to endpoint and returns the status code and raw response body.
// Any failure to complete the exchange is a *NetworkError.
func (t *transport) post(ctx context.Context, endpoint string, body []byte) (int, []byte, error) {
	if t.verbose {
		t.logger.Info("llm request", "url", redactURL(endpoint), "body", string(body))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, &NetworkError{Op: "create llm request", Err: stripURL(err)}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, nil, &NetworkError{Op: "llm request", Err: stripURL(err)}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &NetworkError{Op: "read llm response", Err: stripURL(err)}
	}

	t.logger.Debug("llm response",
		"status", resp.StatusCode,
		"bytes", len(respBytes),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return resp.StatusCode, respBytes, nil
}

// stripURL drops the *url.Error wrapper, whose message embeds the request URL
// and with it the API key.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

// redactURL masks the "key" query parameter.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
