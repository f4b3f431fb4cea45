package common

// Pagination defaults and bounds for list endpoints
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// StatusResponse is the webhook acknowledgement shape
type StatusResponse struct {
	Status    string `json:"status"`
	EventType string `json:"eventType,omitempty"`
}

// TokenResponse carries a minted provider token
type TokenResponse struct {
	Token string `json:"token"`
}

// ClampPage normalizes a requested page number
func ClampPage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// ClampPageSize normalizes a requested page size into [min, max]
func ClampPageSize(size int) int {
	if size < MinPageSize {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages computes the page count for a total at the given page size
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return int(pages)
}
