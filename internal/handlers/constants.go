package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrInvalidChoice       = "Choice must be an index or a label"
	ErrInvalidLimit        = "limit must be a positive number"
	ErrTopicRequired       = "topic is required"
	ErrRunNotFound         = "Run not found"
	ErrInternalServerError = "Internal server error"

	DefaultRunsLimit = 20
	MaxRunsLimit     = 100

	maxBodyBytes = 1 << 16
)
