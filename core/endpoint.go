package core

// Endpoint describes one route of the site. Adapters bind a framework-specific
// handler to it by OperationID.
type Endpoint struct {
	Path      string
	Method    string
	Protected bool // requires a valid session
	Metadata  EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
}

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
