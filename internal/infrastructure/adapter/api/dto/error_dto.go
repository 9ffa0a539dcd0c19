package dto

// ErrorResponse is the error body every endpoint returns. Code carries the
// domain error code, not the HTTP status.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
