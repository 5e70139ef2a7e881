package fhirclient

import "encoding/json"

// Body is the payload carried by a Result. Exactly one variant is
// populated: JSON when the server returned parseable JSON, Raw
// otherwise. A body that fails to parse is not an error; it simply
// degrades to the raw text.
type Body struct {
	// JSON holds the parsed body for the structured variant.
	JSON any

	// Raw holds the verbatim body text for the unstructured variant.
	Raw string

	// Structured reports which variant is populated.
	Structured bool
}

// parseBody parses data as JSON, falling back to the raw text.
func parseBody(data []byte) Body {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Body{Raw: string(data)}
	}
	return Body{JSON: parsed, Structured: true}
}

// Result is the classified outcome of a single operation. It is
// produced once per operation and never mutated afterwards.
type Result struct {
	// Success is true when the status code is in the accepted set for
	// the operation and the body carries no error issues.
	Success bool

	// StatusCode is the HTTP status code of the final response.
	StatusCode int

	// RequestURL is the final request URL after redirects, percent-decoded.
	RequestURL string

	// Body is the response payload.
	Body Body

	// Issues lists the error issues found in the body, if any.
	Issues []Issue
}

// BatchResult aggregates per-item outcomes of a batch operation. Every
// input item appears in exactly one of the two maps, keyed by the
// caller-supplied identifier.
type BatchResult struct {
	Successes map[string]*Result
	Failures  map[string]*Result
}

// NewBatchResult creates an empty BatchResult.
func NewBatchResult() *BatchResult {
	return &BatchResult{
		Successes: make(map[string]*Result),
		Failures:  make(map[string]*Result),
	}
}

// OK reports whether every item in the batch succeeded.
func (r *BatchResult) OK() bool {
	return len(r.Failures) == 0
}

// Len returns the number of items routed into the batch result.
func (r *BatchResult) Len() int {
	return len(r.Successes) + len(r.Failures)
}

// faultResult wraps a transport fault as a classified failure so the
// batch invariant (every item in exactly one map) holds for items whose
// call never produced a response.
func faultResult(err error) *Result {
	return &Result{Body: Body{Raw: err.Error()}}
}
