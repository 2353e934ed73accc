package models

// SearchResponse is the response for GET /api/v1/search.
type SearchResponse struct {
	Success bool           `json:"success"`
	Query   string         `json:"query,omitempty"`
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
	Timing  TimingInfo     `json:"timing"`
	Error   *ErrorDetail   `json:"error,omitempty"`
}

// DetailsResponse is the response for GET /api/v1/details.
type DetailsResponse struct {
	Success bool          `json:"success"`
	Record  *DetailRecord `json:"record,omitempty"`

	// Snapshot is the detail container rendered as Markdown, present only
	// when format=markdown was requested.
	Snapshot string `json:"snapshot,omitempty"`

	Timing TimingInfo   `json:"timing"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent serving a request.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string       `json:"status"` // "healthy" or "degraded"
	Uptime       string       `json:"uptime"`
	State        string       `json:"state"`
	SessionStats SessionStats `json:"session_stats"`
	Version      string       `json:"version"`
}

// SessionStats reports browser session usage.
type SessionStats struct {
	Remote         bool  `json:"remote"`
	ActiveSessions int   `json:"active_sessions"`
	TotalSessions  int64 `json:"total_sessions"`
	FailedSessions int64 `json:"failed_sessions"`
}

// ErrorResponse is written by middleware that rejects a request before it
// reaches a handler.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}
