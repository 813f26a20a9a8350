package mailpreview

import (
	"errors"
	"fmt"
)

// Sentinel errors for preview definition and evaluation.
var (
	ErrDefinition        = errors.New("mailpreview: invalid preview definition")
	ErrValidation        = errors.New("mailpreview: invalid preview details")
	ErrMissingTitle      = fmt.Errorf("%w: title is required", ErrValidation)
	ErrNotFound          = errors.New("mailpreview: not found")
	ErrInvalidAttachment = errors.New("mailpreview: attachment has neither data nor path")
)

// IsDefinitionError checks if err was raised while declaring previews.
func IsDefinitionError(err error) bool {
	return errors.Is(err, ErrDefinition)
}

// IsValidationError checks if err is a details validation error,
// including a missing title.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsMissingTitle checks if err reports details without a title.
func IsMissingTitle(err error) bool {
	return errors.Is(err, ErrMissingTitle)
}

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidAttachment checks if err reports a malformed attachment.
func IsInvalidAttachment(err error) bool {
	return errors.Is(err, ErrInvalidAttachment)
}

func definitionErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDefinition}, args...)...)
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func missingTitleError(path string) error {
	return fmt.Errorf("%w for preview %q: return a Title from PreviewDetails, e.g. mailpreview.Details{Title: \"Welcome email\"}",
		ErrMissingTitle, path)
}
