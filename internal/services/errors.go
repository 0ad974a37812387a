package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAmbiguousHierarchy marks rigs that do not have exactly one
	// parentless bone. Raised before any mutation.
	ErrAmbiguousHierarchy = errors.New("ambiguous hierarchy")
	// ErrAlreadyProcessed marks rigs whose sole root bone already carries the
	// root-motion bone name. This is the idempotency guard that prevents
	// injecting a second root bone into a converted rig.
	ErrAlreadyProcessed = errors.New("already processed")
	// ErrUnknownBone marks lookups of bone names absent from the hierarchy.
	ErrUnknownBone = errors.New("unknown bone")
	// ErrImport marks interchange codec failures while reading an asset.
	ErrImport = errors.New("import failure")
	// ErrExport marks interchange codec failures while writing an asset.
	ErrExport = errors.New("export failure")
	// ErrValidation marks bad inputs and configuration.
	ErrValidation = errors.New("validation error")
	// ErrExternalTool marks failures of external converter binaries.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Details extracts the human-readable portion of a wrapped stage error,
// dropping the sentinel prefix when present.
func Details(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, marker := range []error{
		ErrAmbiguousHierarchy,
		ErrAlreadyProcessed,
		ErrUnknownBone,
		ErrImport,
		ErrExport,
		ErrValidation,
		ErrExternalTool,
	} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
