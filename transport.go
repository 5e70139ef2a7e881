package fhirclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrRetryBudgetExceeded is returned when a call exhausts its retry
// budget without obtaining a usable response.
var ErrRetryBudgetExceeded = errors.New("retry budget exceeded")

// maxBackoff caps the delay between attempts.
const maxBackoff = 2 * time.Minute

// RetryConfig bounds the retry behavior of a client's HTTP session.
// Each failure class has its own budget; a call fails as soon as any
// applicable budget runs out.
type RetryConfig struct {
	// Total caps retries across all failure classes.
	Total int

	// Read caps retries after a request was sent but the response could
	// not be read.
	Read int

	// Connect caps retries on connection setup failures.
	Connect int

	// Status caps retries triggered by ForceStatus codes.
	Status int

	// BackoffFactor scales the exponential delay between attempts, in
	// seconds. Zero disables the delay.
	BackoffFactor float64

	// ForceStatus lists status codes that always force a retry.
	ForceStatus []int
}

// DefaultRetryConfig returns the retry budget the client ships with.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Total:         10,
		Read:          10,
		Connect:       1,
		Status:        10,
		BackoffFactor: 5,
		ForceStatus:   []int{500, 502, 503, 504},
	}
}

// probeRetryConfig is the single-attempt budget used by status probes.
func probeRetryConfig() RetryConfig {
	return RetryConfig{Total: 1, Read: 1, Connect: 1, Status: 1}
}

// errClass partitions transport failures for budget accounting.
type errClass int

const (
	errConnect errClass = iota
	errRead
	errStatus
)

func (c errClass) String() string {
	switch c {
	case errConnect:
		return "connect"
	case errRead:
		return "read"
	default:
		return "status"
	}
}

// budget tracks the remaining retries per failure class.
type budget struct {
	total, read, connect, status int
}

// spend consumes one retry of the given class and reports whether the
// call may try again.
func (b *budget) spend(class errClass) bool {
	b.total--
	switch class {
	case errConnect:
		b.connect--
	case errRead:
		b.read--
	case errStatus:
		b.status--
	}
	return b.total >= 0 && b.connect >= 0 && b.read >= 0 && b.status >= 0
}

// classifyNetErr sorts a transport error into the connect or read
// budget. Dial failures count against connect; everything else,
// including timeouts mid-response, counts against read.
func classifyNetErr(err error) errClass {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return errConnect
	}
	return errRead
}

// session is the retrying HTTP transport shared by all operations of
// one Client. The pooled connection set lives as long as the session.
// The retry loop applies to every HTTP method alike: the usual
// idempotent-only filter is disabled on purpose, see the package
// documentation.
type session struct {
	httpClient *http.Client
	retry      RetryConfig
	force      map[int]bool
	logger     *logrus.Entry
	metrics    *Metrics
}

func newSession(httpClient *http.Client, retry RetryConfig, logger *logrus.Entry, metrics *Metrics) *session {
	force := make(map[int]bool, len(retry.ForceStatus))
	for _, code := range retry.ForceStatus {
		force[code] = true
	}
	return &session{
		httpClient: httpClient,
		retry:      retry,
		force:      force,
		logger:     logger,
		metrics:    metrics,
	}
}

// do performs one HTTP call with retries. It returns the first response
// whose status is not in the force list; the caller owns the body. When
// every budgeted attempt fails, do returns an error wrapping
// ErrRetryBudgetExceeded and no response.
func (s *session) do(ctx context.Context, method, url string, body []byte, header http.Header, auth *BasicAuth) (*http.Response, error) {
	// An unbuildable request never becomes buildable; fail before the
	// retry loop.
	if _, err := http.NewRequestWithContext(ctx, method, url, http.NoBody); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	remaining := budget{
		total:   s.retry.Total,
		read:    s.retry.Read,
		connect: s.retry.Connect,
		status:  s.retry.Status,
	}

	attempt := 0
	for {
		resp, err := s.attempt(ctx, method, url, body, header, auth)
		if err == nil && !s.force[resp.StatusCode] {
			return resp, nil
		}

		var class errClass
		var cause error
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			class = classifyNetErr(err)
			cause = err
		} else {
			class = errStatus
			cause = fmt.Errorf("server status %d", resp.StatusCode)
			drain(resp)
		}

		attempt++
		if !remaining.spend(class) {
			return nil, fmt.Errorf("%s %s: %w after %d attempts: %v",
				method, url, ErrRetryBudgetExceeded, attempt, cause)
		}

		s.metrics.RecordRetry()
		s.logger.WithFields(logrus.Fields{
			"method":  method,
			"url":     url,
			"attempt": attempt,
			"class":   class.String(),
		}).Debugf("retrying: %v", cause)

		if err := s.sleep(ctx, attempt); err != nil {
			return nil, err
		}
	}
}

// attempt issues a single request. The body is replayed from its byte
// slice so every attempt sends identical content.
func (s *session) attempt(ctx context.Context, method, url string, body []byte, header http.Header, auth *BasicAuth) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if header != nil {
		req.Header = header.Clone()
	}
	if auth != nil {
		req.SetBasicAuth(auth.Username, auth.Password)
	}

	return s.httpClient.Do(req)
}

// sleep blocks for the backoff delay before retry n, honoring
// cancellation.
func (s *session) sleep(ctx context.Context, retries int) error {
	delay := s.backoffDelay(retries)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoffDelay computes the delay before retry n (1-based):
// factor * 2^(n-1) seconds, capped at maxBackoff.
func (s *session) backoffDelay(retries int) time.Duration {
	if retries < 1 || s.retry.BackoffFactor <= 0 {
		return 0
	}
	secs := s.retry.BackoffFactor * math.Pow(2, float64(retries-1))
	if secs >= maxBackoff.Seconds() {
		return maxBackoff
	}
	return time.Duration(secs * float64(time.Second))
}

// drain discards and closes a response body so the underlying
// connection returns to the pool.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
