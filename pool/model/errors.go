package model

import "fmt"

// ValidationError reports a malformed candidate field during ingestion.
// The whole batch containing the offending candidate is rejected.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
