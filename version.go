package fhirclient

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Version represents a FHIR specification version number, e.g. "4.0.1".
type Version string

// Final releases of the supported FHIR versions.
const (
	// DSTU2 is FHIR DSTU2 (1.0.2)
	DSTU2 Version = "1.0.2"
	// STU3 is FHIR STU3 (3.0.2)
	STU3 Version = "3.0.2"
	// R4 is FHIR Release 4 (4.0.1)
	R4 Version = "4.0.1"
)

// DefaultVersion is used when no version is configured.
const DefaultVersion = R4

// ErrUnsupportedVersion is returned for FHIR versions the client has no
// release name for.
var ErrUnsupportedVersion = errors.New("unsupported FHIR version")

// String returns the version string.
func (v Version) String() string {
	return string(v)
}

// Major returns the major version number.
func (v Version) Major() (int, error) {
	s, _, _ := strings.Cut(string(v), ".")
	major, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedVersion, v)
	}
	return major, nil
}

// Name returns the release family name for the version: dstu2 for
// majors below 3, stu3 for 3.x, r4 for 4.x. Anything else is a
// configuration error.
func (v Version) Name() (string, error) {
	major, err := v.Major()
	if err != nil {
		return "", err
	}

	switch {
	case major < 3:
		return "dstu2", nil
	case major < 4:
		return "stu3", nil
	case major < 5:
		return "r4", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVersion, v)
	}
}

// ContentType returns the version-tagged media type attached to requests
// that do not set their own Content-Type. Empty when no version is set.
func (v Version) ContentType() string {
	if v == "" {
		return ""
	}
	major, _, _ := strings.Cut(string(v), ".")
	return fmt.Sprintf("application/fhir+json; fhirVersion=%s.0", major)
}

// ConformanceResources lists the resource types that describe server
// capabilities rather than clinical data.
var ConformanceResources = map[string]struct{}{
	"CapabilityStatement":   {},
	"StructureDefinition":   {},
	"CodeSystem":            {},
	"ValueSet":              {},
	"ImplementationGuide":   {},
	"SearchParameter":       {},
	"MessageDefinition":     {},
	"OperationDefinition":   {},
	"CompartmentDefinition": {},
	"StructureMap":          {},
	"GraphDefinition":       {},
	"ExampleScenario":       {},
}

// IsConformanceResource reports whether resourceType is a conformance
// resource.
func IsConformanceResource(resourceType string) bool {
	_, ok := ConformanceResources[resourceType]
	return ok
}
