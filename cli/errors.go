package cli

// ErrorCode defines error types for CLI operations
type ErrorCode string

const (
	InvalidArguments ErrorCode = "InvalidArguments"
	UnknownSource    ErrorCode = "UnknownSource"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
