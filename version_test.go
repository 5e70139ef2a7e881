package fhirclient

import (
	"errors"
	"testing"
)

func TestVersion_Name(t *testing.T) {
	tests := []struct {
		version Version
		want    string
		wantErr bool
	}{
		{DSTU2, "dstu2", false},
		{STU3, "stu3", false},
		{R4, "r4", false},
		{Version("4.0.0"), "r4", false},
		{Version("2.1.0"), "dstu2", false},
		{Version("5.0.0"), "", true},
		{Version("garbage"), "", true},
		{Version(""), "", true},
	}

	for _, tt := range tests {
		got, err := tt.version.Name()
		if (err != nil) != tt.wantErr {
			t.Errorf("Version(%q).Name() error = %v; wantErr %v", tt.version, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("Version(%q).Name() error = %v; want ErrUnsupportedVersion", tt.version, err)
		}
		if got != tt.want {
			t.Errorf("Version(%q).Name() = %q; want %q", tt.version, got, tt.want)
		}
	}
}

func TestVersion_Major(t *testing.T) {
	major, err := R4.Major()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if major != 4 {
		t.Errorf("R4.Major() = %d; want 4", major)
	}

	if _, err := Version("not-a-version").Major(); err == nil {
		t.Error("expected error for unparseable version")
	}
}

func TestVersion_ContentType(t *testing.T) {
	tests := []struct {
		version Version
		want    string
	}{
		{R4, "application/fhir+json; fhirVersion=4.0"},
		{STU3, "application/fhir+json; fhirVersion=3.0"},
		{Version("4.0.0"), "application/fhir+json; fhirVersion=4.0"},
		{Version(""), ""},
	}

	for _, tt := range tests {
		if got := tt.version.ContentType(); got != tt.want {
			t.Errorf("Version(%q).ContentType() = %q; want %q", tt.version, got, tt.want)
		}
	}
}

func TestIsConformanceResource(t *testing.T) {
	tests := []struct {
		resourceType string
		want         bool
	}{
		{"CapabilityStatement", true},
		{"StructureDefinition", true},
		{"ValueSet", true},
		{"Patient", false},
		{"OperationOutcome", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsConformanceResource(tt.resourceType); got != tt.want {
			t.Errorf("IsConformanceResource(%q) = %v; want %v", tt.resourceType, got, tt.want)
		}
	}
}
