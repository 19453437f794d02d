// Package netx uploads object bodies to presigned storage URLs.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

var (
	// HTTPClient is the client used for uploads; tests may swap it.
	HTTPClient = &http.Client{Timeout: 30 * time.Second}

	// Transport errors and 5xx answers are retried this many times.
	uploadRetries uint64 = 3
	uploadBackoff        = 200 * time.Millisecond
)

// StatusError is a non-2xx answer from the storage endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upload failed: %d %s; body: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// UploadToPresignedURL PUTs body to url. contentType must match the one
// the URL was signed for.
func UploadToPresignedURL(ctx context.Context, url, contentType string, body []byte) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	backoff := retry.WithMaxRetries(uploadRetries, retry.NewExponential(uploadBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := HTTPClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		serr := &StatusError{Code: resp.StatusCode, Body: string(msg)}
		if resp.StatusCode >= 500 {
			return retry.RetryableError(serr)
		}
		return serr
	})
}
