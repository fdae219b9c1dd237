package service

import "github.com/pkg/errors"

var (
	ErrClassNotFound      = errors.New("class not found")
	ErrFolderNotFound     = errors.New("folder not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrDraftNotFound      = errors.New("draft not found or expired")
	ErrSubmissionExists   = errors.New("assignment already submitted")
	ErrForbidden          = errors.New("permission denied")
	ErrAIUnavailable      = errors.New("AI service unavailable, please try again")
	ErrMediaNotFound      = errors.New("media not found")
)

// FieldError is used to indicate an error with a specific field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError blocks an action before anything is written.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

// NewValidationError builds a ValidationError with a human-readable message.
func NewValidationError(msg string, flds ...FieldError) error {
	return &ValidationError{Err: errors.New(msg), Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
