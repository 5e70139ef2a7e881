// Package fhirclient provides an HTTP client for FHIR servers that
// classifies every operation into success or failure.
//
// A 2xx status code is not enough to call a FHIR operation successful:
// servers routinely return 200 with an OperationOutcome whose issue list
// carries error-severity entries. This package performs a two-layer
// check on every response: the status code must be in the accepted set
// for the operation, and the body must be free of error issues.
//
// # Quick Start
//
//	import fc "github.com/gofhir/client"
//
//	client, err := fc.New("https://fhir.example.com",
//	    fc.WithAuth("admin", "password"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Send(ctx, fc.Request{
//	    Op:   fc.OpCreate,
//	    URL:  "https://fhir.example.com/Patient",
//	    Body: patient,
//	})
//	if err != nil {
//	    log.Fatal(err) // transport fault, no classified result
//	}
//	if !result.Success {
//	    for _, issue := range result.Issues {
//	        fmt.Println(issue.Diagnostics)
//	    }
//	}
//
// # Batch Operations
//
// UploadAll writes a collection of resources and DeleteAll empties a
// collection endpoint. Both tolerate partial failure: one item's failure
// never stops the remaining items, and every item lands in exactly one
// of the success or failure maps of the returned BatchResult.
//
// # Retry Policy
//
// The underlying session retries connection errors, read errors, and a
// configurable set of server status codes with exponential backoff, each
// class with its own budget. The retry loop deliberately does not filter
// by HTTP method: non-idempotent operations are retried too, trading
// strict idempotence safety for resilience against flaky servers. A POST
// that was partially processed before an ambiguous failure may therefore
// be created twice; callers that cannot tolerate that should disable
// status retries via WithRetry.
//
// # Functional Options
//
//	client, err := fc.New(baseURL,
//	    fc.WithVersion(fc.R4),
//	    fc.WithRetry(fc.RetryConfig{Total: 3, BackoffFactor: 1}),
//	    fc.WithLogger(logger),
//	)
package fhirclient
