package fhirclient

import "net/http"

// Operation identifies one logical FHIR interaction.
type Operation int

// Supported operations.
const (
	// OpCreate writes a new resource to a collection endpoint (POST).
	OpCreate Operation = iota
	// OpReplace overwrites a resource at its instance endpoint (PUT).
	OpReplace
	// OpFetch reads a resource or collection (GET).
	OpFetch
	// OpDelete removes a resource at its instance endpoint (DELETE).
	OpDelete
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpReplace:
		return "replace"
	case OpFetch:
		return "fetch"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Method returns the HTTP method for the operation.
func (op Operation) Method() string {
	switch op {
	case OpCreate:
		return http.MethodPost
	case OpReplace:
		return http.MethodPut
	case OpFetch:
		return http.MethodGet
	case OpDelete:
		return http.MethodDelete
	default:
		return ""
	}
}

// acceptedStatus maps each operation to the status codes that count as
// success. Built once here; operations outside the table always
// classify as failed.
var acceptedStatus = map[Operation]map[int]bool{
	OpFetch:   {http.StatusOK: true},
	OpCreate:  {http.StatusOK: true, http.StatusCreated: true},
	OpReplace: {http.StatusOK: true, http.StatusCreated: true},
	OpDelete:  {http.StatusOK: true, http.StatusNoContent: true},
}

// BasicAuth is a username/password credential pair.
type BasicAuth struct {
	Username string
	Password string
}

// Request describes one operation to execute. A Request is immutable
// once constructed and exists only for the duration of one call.
type Request struct {
	// Op is the operation to perform.
	Op Operation

	// URL is the target endpoint.
	URL string

	// Body is the JSON-serializable payload, nil for none.
	Body any

	// Auth overrides the client-level credential when set.
	Auth *BasicAuth

	// Headers carries extra request headers. Setting Content-Type here
	// suppresses the version-tagged default.
	Headers http.Header
}
