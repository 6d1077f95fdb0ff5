package openarch

// ErrorCode defines error types for Open Archieven operations
type ErrorCode string

const (
	// ErrInvalidQuery represents a query that violates the search
	// mini-language; it is rejected before any network call
	ErrInvalidQuery ErrorCode = "InvalidQuery"

	// ErrOverBroadQuery represents a search that matched more records
	// than one page can hold while multi-page mode was not requested
	ErrOverBroadQuery ErrorCode = "OverBroadQuery"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
