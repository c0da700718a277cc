package governance

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity indicates the governance impact of a rule.
type Severity int

// Severity levels, ordered by governance impact (critical highest).
const (
	// SeverityCritical issues should be addressed immediately.
	SeverityCritical Severity = iota
	// SeverityHigh issues should be addressed promptly.
	SeverityHigh
	// SeverityMedium issues should be addressed in a timely manner.
	SeverityMedium
	// SeverityLow issues should be addressed as resources allow.
	SeverityLow
)

// DefaultSeverity is used when a rule or the evaluation config omits one.
const DefaultSeverity = SeverityMedium

// Severities lists all levels from highest to lowest impact.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// String returns the lowercase string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or DefaultSeverity and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "critical":
		return SeverityCritical, true
	case "high":
		return SeverityHigh, true
	case "medium":
		return SeverityMedium, true
	case "low":
		return SeverityLow, true
	default:
		return DefaultSeverity, false
	}
}

// MarshalJSON encodes the severity as its lowercase string form. The report
// JSON contract requires exact lowercase enum values.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a lowercase severity string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sev, ok := ParseSeverity(str)
	if !ok {
		return fmt.Errorf("invalid severity: %q", str)
	}
	*s = sev
	return nil
}
