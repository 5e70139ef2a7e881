package fhirclient

import (
	"context"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ServiceStatus reports the reachability of a FHIR server.
type ServiceStatus int

const (
	// StatusUp means the server answered with a status below 300.
	StatusUp ServiceStatus = iota
	// StatusDown means the server was unreachable or answered with a
	// status of 300 or higher.
	StatusDown
)

// String returns the status name.
func (s ServiceStatus) String() string {
	if s == StatusUp {
		return "up"
	}
	return "down"
}

// CheckStatus probes the configured status endpoint, falling back to
// the base URL, with a single-attempt retry budget. It only reports;
// whether a down server terminates the process is the caller's call.
func (c *Client) CheckStatus(ctx context.Context) ServiceStatus {
	endpoint := c.statusEndpoint
	if endpoint == "" {
		endpoint = c.baseURL
	}

	header := make(http.Header, 1)
	if ct := c.version.ContentType(); ct != "" {
		header.Set("Content-Type", ct)
	}

	probe := newSession(c.session.httpClient, probeRetryConfig(), c.logger, c.metrics)
	resp, err := probe.do(ctx, http.MethodGet, endpoint, nil, header, c.auth)
	if err != nil {
		c.logger.WithError(err).WithField("url", endpoint).Warn("service unreachable")
		return StatusDown
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"url":    endpoint,
			"status": resp.StatusCode,
		}).Warnf("service up but unhealthy: %s", body)
		return StatusDown
	}

	return StatusUp
}
