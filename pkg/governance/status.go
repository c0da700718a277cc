package governance

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationStatus is the outcome of evaluating one rule against one node.
type ValidationStatus int

// Validation statuses.
const (
	// StatusPassed indicates the rule passed successfully.
	StatusPassed ValidationStatus = iota
	// StatusFailed indicates the rule failed validation.
	StatusFailed
	// StatusError indicates the rule could not be evaluated due to an issue.
	StatusError
	// StatusWarning indicates the rule raised a non-critical concern.
	StatusWarning
)

// String returns the lowercase string representation of the status.
func (v ValidationStatus) String() string {
	switch v {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusError:
		return "error"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Description returns a user-friendly description of the status.
func (v ValidationStatus) Description() string {
	switch v {
	case StatusPassed:
		return "The rule passed successfully."
	case StatusFailed:
		return "The rule failed validation."
	case StatusError:
		return "The rule could not be evaluated due to an issue."
	case StatusWarning:
		return "The rule raised a non-critical concern."
	default:
		return "Unknown validation status."
	}
}

// ParseValidationStatus converts a string to a ValidationStatus.
func ParseValidationStatus(s string) (ValidationStatus, bool) {
	switch strings.ToLower(s) {
	case "passed":
		return StatusPassed, true
	case "failed":
		return StatusFailed, true
	case "error":
		return StatusError, true
	case "warning":
		return StatusWarning, true
	default:
		return StatusError, false
	}
}

// MarshalJSON encodes the status as its lowercase string form.
func (v ValidationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a lowercase status string.
func (v *ValidationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status, ok := ParseValidationStatus(str)
	if !ok {
		return fmt.Errorf("invalid validation status: %q", str)
	}
	*v = status
	return nil
}
