package fhirclient

import (
	"errors"
	"testing"
)

func TestParseBody(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		structured bool
	}{
		{"json object", `{"resourceType":"Patient"}`, true},
		{"json array", `[1,2,3]`, true},
		{"plain text", `something went wrong`, false},
		{"empty", ``, false},
		{"truncated json", `{"resourceType":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := parseBody([]byte(tt.data))
			if body.Structured != tt.structured {
				t.Fatalf("parseBody(%q).Structured = %v; want %v", tt.data, body.Structured, tt.structured)
			}
			if !tt.structured && body.Raw != tt.data {
				t.Errorf("parseBody(%q).Raw = %q; want the input back", tt.data, body.Raw)
			}
			if tt.structured && body.JSON == nil {
				t.Errorf("parseBody(%q).JSON is nil for structured variant", tt.data)
			}
		})
	}
}

func TestBatchResult_OK(t *testing.T) {
	batch := NewBatchResult()
	if !batch.OK() {
		t.Error("empty batch should be OK")
	}

	batch.Successes["a.json"] = &Result{Success: true}
	if !batch.OK() {
		t.Error("batch with only successes should be OK")
	}

	batch.Failures["b.json"] = &Result{StatusCode: 400}
	if batch.OK() {
		t.Error("batch with a failure should not be OK")
	}
	if batch.Len() != 2 {
		t.Errorf("Len() = %d; want 2", batch.Len())
	}
}

func TestFaultResult(t *testing.T) {
	result := faultResult(errors.New("connection refused"))
	if result.Success {
		t.Error("fault result must not be successful")
	}
	if result.StatusCode != 0 {
		t.Errorf("StatusCode = %d; want 0 for a call with no response", result.StatusCode)
	}
	if result.Body.Raw != "connection refused" {
		t.Errorf("Body.Raw = %q; want the error text", result.Body.Raw)
	}
}
