package broker

import "fmt"

// NetworkError marks a broker call that failed at the transport layer or
// timed out. The caller aborts that step only; the next scheduled scan is
// the retry mechanism.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("broker network failure during %s", e.Op)
	}
	return fmt.Sprintf("broker network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConfigurationError marks invalid or missing broker credentials or
// settings. It is fatal for the affected account only.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("broker configuration invalid: %s", e.Reason)
	}
	return fmt.Sprintf("broker configuration invalid (%s): %s", e.Field, e.Reason)
}
