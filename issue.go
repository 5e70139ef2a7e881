package fhirclient

import (
	"encoding/json"

	"github.com/buger/jsonparser"
)

// IssueSeverity represents the severity of an issue reported by the
// server. Maps to OperationOutcome.issue.severity in FHIR.
type IssueSeverity string

const (
	// SeverityFatal indicates the issue stopped the server from
	// processing the request at all.
	SeverityFatal IssueSeverity = "fatal"
	// SeverityError indicates the operation failed.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a problem that did not stop the operation.
	SeverityWarning IssueSeverity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation IssueSeverity = "information"
)

// Issue represents a single entry in a response body's issue list.
// It maps to OperationOutcome.issue in FHIR.
type Issue struct {
	// Severity of the issue
	Severity IssueSeverity `json:"severity"`

	// Code identifying the type of issue
	Code string `json:"code,omitempty"`

	// Diagnostics contains human-readable details about the issue
	Diagnostics string `json:"diagnostics,omitempty"`

	// Expression contains FHIRPath expression(s) to the element(s) in error
	Expression []string `json:"expression,omitempty"`

	// Location contains XPath or other location info (deprecated, use Expression)
	Location []string `json:"location,omitempty"`
}

// IsError reports whether the issue carries error severity. Only plain
// error severity fails an operation; this matches what servers put on
// outcome entries that reject a resource.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	s := string(i.Severity) + ": " + i.Diagnostics
	if len(i.Expression) > 0 {
		s += " at " + i.Expression[0]
	}
	return s
}

// errorIssues combs the issue list of a response body and returns the
// entries marked error. Bodies without an issue list, including bodies
// that are not JSON at all, yield nil.
func errorIssues(body []byte) []Issue {
	var issues []Issue
	_, err := jsonparser.ArrayEach(body, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		severity, _ := jsonparser.GetString(value, "severity")
		if IssueSeverity(severity) != SeverityError {
			return
		}
		var issue Issue
		if err := json.Unmarshal(value, &issue); err != nil {
			issue = Issue{Severity: SeverityError, Diagnostics: string(value)}
		}
		issues = append(issues, issue)
	}, "issue")
	if err != nil {
		return nil
	}
	return issues
}
