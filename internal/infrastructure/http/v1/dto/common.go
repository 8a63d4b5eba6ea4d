// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// IDResponse returns a created resource identifier.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse returns a simple success message.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}
