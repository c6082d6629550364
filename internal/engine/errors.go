package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSetup marks problems that stop a run before any file is touched.
	ErrSetup = errors.New("setup error")
	// ErrCanceled marks a run stopped between phases.
	ErrCanceled = errors.New("run canceled")
	// ErrJournal marks journal failures during undo.
	ErrJournal = errors.New("journal error")
)

// Wrap builds an error message that includes phase context while tagging it
// with the provided marker for errors.Is classification.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrSetup
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsSetup reports whether err stopped a run during setup.
func IsSetup(err error) bool {
	return errors.Is(err, ErrSetup)
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
