package fhirclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"
)

// Client talks to one FHIR server. It owns a pooled HTTP session that
// is reused across all operations and torn down with the client; the
// session is the only shared state, safe for sequential reuse.
type Client struct {
	baseURL        string
	statusEndpoint string
	version        Version
	auth           *BasicAuth
	session        *session
	logger         *logrus.Entry
	metrics        *Metrics
}

// New creates a Client for the FHIR server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.Version != "" {
		if _, err := options.Version.Name(); err != nil {
			return nil, err
		}
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}

	logger := options.Logger
	if logger == nil {
		logger = discardLogger()
	}

	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		statusEndpoint: options.StatusEndpoint,
		version:        options.Version,
		auth:           options.Auth,
		logger:         logger,
		metrics:        NewMetrics(),
	}
	c.session = newSession(httpClient, options.Retry, logger, c.metrics)

	return c, nil
}

// BaseURL returns the server base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Version returns the configured FHIR version.
func (c *Client) Version() Version {
	return c.version
}

// Metrics returns the client's activity counters.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// Send executes one operation against the server and classifies its
// outcome. The returned error reports transport faults only: a request
// that reached the server and produced a response always comes back as
// a Result, with Success false for protocol-status and protocol-issue
// failures.
func (c *Client) Send(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if req.Op.Method() == "" {
		return nil, fmt.Errorf("unsupported operation %s", req.Op)
	}

	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	header := make(http.Header, len(req.Headers)+1)
	for name, values := range req.Headers {
		header[name] = values
	}
	if header.Get("Content-Type") == "" {
		if ct := c.version.ContentType(); ct != "" {
			header.Set("Content-Type", ct)
		}
	}

	auth := req.Auth
	if auth == nil {
		auth = c.auth
	}

	resp, err := c.session.do(ctx, req.Op.Method(), req.URL, payload, header, auth)
	if err != nil {
		c.metrics.RecordTransportFault()
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordTransportFault()
		return nil, fmt.Errorf("read response body: %w", err)
	}

	result := classify(req.Op, resp, data)
	c.metrics.RecordOperation(time.Since(start), result.Success)

	entry := c.logger.WithFields(logrus.Fields{
		"method": req.Op.Method(),
		"url":    result.RequestURL,
		"status": result.StatusCode,
	})
	if result.Success {
		entry.Debug("operation succeeded")
	} else {
		entry.Debugf("operation failed: %s", failureCause(result))
	}

	return result, nil
}

// classify applies the two-layer success check: the status code must be
// in the accepted set for the operation, and a structured body must be
// free of error issues. Raw bodies cannot carry issues, so for them the
// status check alone decides.
func classify(op Operation, resp *http.Response, data []byte) *Result {
	result := &Result{
		StatusCode: resp.StatusCode,
		RequestURL: unescapeURL(resp.Request.URL.String()),
		Body:       parseBody(data),
	}

	accepted, ok := acceptedStatus[op]
	if !ok || !accepted[resp.StatusCode] {
		return result
	}

	if result.Body.Structured {
		result.Issues = errorIssues(data)
	}
	result.Success = len(result.Issues) == 0

	return result
}

// failureCause summarizes why a result was classified failed.
func failureCause(result *Result) string {
	if len(result.Issues) > 0 {
		return result.Issues[0].String()
	}
	return fmt.Sprintf("status %d", result.StatusCode)
}

// unescapeURL percent-decodes a request URL so redirect targets read
// the way the server spelled them.
func unescapeURL(raw string) string {
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return unescaped
}

// discardLogger returns a logger that drops everything, so an
// unconfigured client stays silent.
func discardLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
