package fhirclient

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Option configures the Client.
type Option func(*Options)

// Options holds all configuration for the Client.
type Options struct {
	// Version is the FHIR version of the server, used for the
	// version-tagged Content-Type header.
	Version Version

	// Auth is the client-level credential, applied to every request
	// that does not carry its own.
	Auth *BasicAuth

	// StatusEndpoint is probed by CheckStatus. Defaults to the base URL.
	StatusEndpoint string

	// HTTPClient replaces the default pooled HTTP client.
	HTTPClient *http.Client

	// Retry bounds the transport retry behavior.
	Retry RetryConfig

	// Logger receives structured request logs. Silent by default.
	Logger *logrus.Entry
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Version: DefaultVersion,
		Retry:   DefaultRetryConfig(),
	}
}

// WithVersion sets the FHIR version of the server.
func WithVersion(v Version) Option {
	return func(o *Options) {
		o.Version = v
	}
}

// WithAuth sets the client-level basic-auth credential.
func WithAuth(username, password string) Option {
	return func(o *Options) {
		o.Auth = &BasicAuth{Username: username, Password: password}
	}
}

// WithStatusEndpoint sets the URL probed by CheckStatus.
func WithStatusEndpoint(url string) Option {
	return func(o *Options) {
		o.StatusEndpoint = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

// WithRetry sets the transport retry budget.
func WithRetry(retry RetryConfig) Option {
	return func(o *Options) {
		o.Retry = retry
	}
}

// WithLogger sets the logger for request and batch logs.
func WithLogger(logger *logrus.Entry) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
