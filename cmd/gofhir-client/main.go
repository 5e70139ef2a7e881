// Package main implements the gofhir-client CLI tool for loading
// resources into and clearing out a FHIR server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	fc "github.com/gofhir/client"
	"github.com/gofhir/client/loader"
)

const (
	version = "0.1.0"
	usage   = `gofhir-client - FHIR API Client

Usage:
  gofhir-client [options] upload <file|dir>...
  gofhir-client [options] delete <endpoint>
  gofhir-client [options] status

Examples:
  gofhir-client -url http://localhost:8080 upload resources/
  gofhir-client -url http://localhost:8080 -endpoint http://localhost:8080/Patient upload patient.json
  gofhir-client -url http://localhost:8080 -method put upload patient.json
  gofhir-client -url http://localhost:8080 delete http://localhost:8080/Patient
  gofhir-client -url http://localhost:8080 -status-url http://localhost:8080/health status

Options:
`
)

// Config holds CLI configuration
type Config struct {
	BaseURL     string
	StatusURL   string
	Endpoint    string
	FHIRVersion string
	Method      string
	Username    string
	Password    string
	Verbose     bool
	ShowVersion bool
	Command     string
	Args        []string
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("gofhir-client v%s\n", version)
		os.Exit(0)
	}

	if config.Command == "" {
		flag.Usage()
		os.Exit(0)
	}

	os.Exit(run(config))
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.BaseURL, "url", "", "FHIR server base URL (required)")
	flag.StringVar(&config.StatusURL, "status-url", "", "Status endpoint to probe (defaults to base URL)")
	flag.StringVar(&config.Endpoint, "endpoint", "", "Endpoint for uploads without a per-resource endpoint")
	flag.StringVar(&config.FHIRVersion, "fhir-version", fc.DefaultVersion.String(), "FHIR version of the server")
	flag.StringVar(&config.Method, "method", "post", "Write method for uploads: post, put")
	flag.StringVar(&config.Username, "user", "", "Basic-auth username")
	flag.StringVar(&config.Password, "password", "", "Basic-auth password")
	flag.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) > 0 {
		config.Command = args[0]
		config.Args = args[1:]
	}

	return config
}

func run(config *Config) int {
	logger := newLogger(config.Verbose)

	if config.BaseURL == "" {
		logger.Error("-url is required")
		return 2
	}

	opts := []fc.Option{
		fc.WithVersion(fc.Version(config.FHIRVersion)),
		fc.WithLogger(logger),
	}
	if config.StatusURL != "" {
		opts = append(opts, fc.WithStatusEndpoint(config.StatusURL))
	}
	if config.Username != "" {
		opts = append(opts, fc.WithAuth(config.Username, config.Password))
	}

	client, err := fc.New(config.BaseURL, opts...)
	if err != nil {
		logger.Errorf("create client: %v", err)
		return 2
	}

	ctx := context.Background()

	switch config.Command {
	case "upload":
		return runUpload(ctx, client, config, logger)
	case "delete":
		return runDelete(ctx, client, config, logger)
	case "status":
		return runStatus(ctx, client, logger)
	default:
		logger.Errorf("unknown command %q", config.Command)
		flag.Usage()
		return 2
	}
}

func runUpload(ctx context.Context, client *fc.Client, config *Config, logger *logrus.Entry) int {
	if len(config.Args) == 0 {
		logger.Error("upload requires at least one file or directory")
		return 2
	}

	var op fc.Operation
	switch config.Method {
	case "post":
		op = fc.OpCreate
	case "put":
		op = fc.OpReplace
	default:
		logger.Errorf("unknown method %q, want post or put", config.Method)
		return 2
	}

	if client.CheckStatus(ctx) == fc.StatusDown {
		logger.Error("FHIR server is down, no resources were sent")
		return 1
	}

	items, err := loader.LoadAll(config.Args)
	if err != nil {
		logger.Errorf("load resources: %v", err)
		return 2
	}

	batch, err := client.UploadAll(ctx, items, config.Endpoint, op)
	if err != nil {
		logger.Errorf("upload: %v", err)
		return 1
	}

	return report(batch, logger)
}

func runDelete(ctx context.Context, client *fc.Client, config *Config, logger *logrus.Entry) int {
	if len(config.Args) != 1 {
		logger.Error("delete requires exactly one endpoint")
		return 2
	}

	batch, err := client.DeleteAll(ctx, config.Args[0])
	if err != nil {
		logger.Errorf("delete: %v", err)
		return 1
	}

	return report(batch, logger)
}

func runStatus(ctx context.Context, client *fc.Client, logger *logrus.Entry) int {
	status := client.CheckStatus(ctx)
	fmt.Println(status)
	if status == fc.StatusDown {
		logger.Error("FHIR server is down")
		return 1
	}
	return 0
}

// report prints the batch summary and maps it to an exit code.
func report(batch *fc.BatchResult, logger *logrus.Entry) int {
	for key, result := range batch.Failures {
		logger.WithFields(logrus.Fields{
			"item":   key,
			"status": result.StatusCode,
		}).Error("failed")
	}

	logger.Infof("%d succeeded, %d failed", len(batch.Successes), len(batch.Failures))
	if !batch.OK() {
		return 1
	}
	return 0
}

func newLogger(verbose bool) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(logger)
}
