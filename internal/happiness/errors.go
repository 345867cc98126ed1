package happiness

import (
	"errors"
	"fmt"
)

var (
	// ErrDataLoad is returned when the source CSV is missing or malformed.
	ErrDataLoad = errors.New("dataset load failure")
	// ErrUnknownIndicator is returned when a query names a column the dataset does not have.
	ErrUnknownIndicator = errors.New("unknown indicator")
	// ErrUnknownRegion is only produced by strict region checks; filtering itself is permissive.
	ErrUnknownRegion = errors.New("unknown region")
	ErrInvalidOrder  = errors.New("invalid sort order")
	ErrInvalidLimit  = errors.New("invalid rank limit")
	ErrInvalidScope  = errors.New("invalid world scope")
	ErrUnknownView   = errors.New("unknown view kind")
)

// LoadError describes where loading the dataset failed.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("loading %s line %d: %v", e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("loading dataset line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("loading dataset: %v", e.Err)
}

// Unwrap exposes both ErrDataLoad and the underlying cause to errors.Is.
func (e *LoadError) Unwrap() []error {
	return []error{ErrDataLoad, e.Err}
}
