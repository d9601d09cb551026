// models/common_models.go
package models

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error     string `json:"error" example:"Invalid domain format"`
	Timestamp string `json:"timestamp,omitempty" example:"2024-01-01T12:00:00Z"` // set by the recovery handler only
}

// RateLimitResponse is returned with 429 Too Many Requests.
type RateLimitResponse struct {
	Error      string `json:"error" example:"Too many requests from this IP, please try again later"`
	RetryAfter int    `json:"retryAfter" example:"840"` // seconds until the window resets
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message" example:"History item deleted successfully"`
}

// HealthResponse reports service liveness and its dependencies.
type HealthResponse struct {
	Status       string `json:"status" example:"UP"`
	Database     string `json:"database" example:"UP"`
	CacheEntries int    `json:"cacheEntries" example:"12"`
	Timestamp    string `json:"timestamp" example:"2024-01-01T12:00:00Z"`
}
