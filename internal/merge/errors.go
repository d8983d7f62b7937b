package merge

import (
	"errors"
	"fmt"

	"cloudcover/internal/domain"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyClass   = errors.New("empty ROI class")
)

// InvalidInputError reports a discovered file whose name carries neither
// ROI token.
type InvalidInputError struct {
	File string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("filename %s does not contain %q or %q",
		e.File, domain.ClassSmall, domain.ClassLarge)
}

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// EmptyClassError reports that no file in the input folder belongs to an ROI
// class, so there is nothing to join against.
type EmptyClassError struct {
	Class  domain.ROIClass
	Folder string
}

func (e *EmptyClassError) Error() string {
	return fmt.Sprintf("no %s ROI files found in %s", e.Class, e.Folder)
}

// Is matches ErrEmptyClass.
func (e *EmptyClassError) Is(target error) bool {
	return target == ErrEmptyClass
}
