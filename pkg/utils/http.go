// Package utils provides common utility functions.
package utils

import (
	"net/http"
	"strings"
)

// UserAgent identifies registry downloads.
const UserAgent = "perrons/1.0"

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct{}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper() *HTTPHelper {
	return &HTTPHelper{}
}

// BuildHeaders creates HTTP headers with defaults.
func (h *HTTPHelper) BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	// Add default headers
	headers.Set("User-Agent", UserAgent)
	headers.Set("Accept", "application/json, application/x-ndjson")

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}

// IsHTTPURL reports whether src names an http or https resource.
func IsHTTPURL(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
