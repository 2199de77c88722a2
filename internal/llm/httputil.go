package llm

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxRetryAfter caps server-supplied Retry-After hints.
const maxRetryAfter = 30 * time.Second

// retryAfter reads the Retry-After header (delta-seconds form) from resp.
// It returns 0 when the header is absent or unparseable.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	secs, err := strconv.Atoi(ra)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d
}
