package dto

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NotFound reports that the named resource does not exist.
func NotFound(resource string) APIError {
	return APIError{Code: "not_found", Message: resource + " not found"}
}

// BadRequest reports a request the server could not parse.
func BadRequest(message string) APIError {
	return APIError{Code: "bad_request", Message: message}
}

// Invalid reports a request that parsed but failed validation.
func Invalid(message string) APIError {
	return APIError{Code: "validation_error", Message: message}
}

// Internal hides the underlying failure from the client; the detail goes
// to the server log instead.
func Internal() APIError {
	return APIError{Code: "internal_error", Message: "an internal error occurred"}
}
