package sheetdb

import "fmt"

// ConnectionError reports that the store cannot reach or has released
// its transport handle.
type ConnectionError struct {
	Reason string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sheetdb: connection: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("sheetdb: connection: %s", e.Reason)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ConfigurationError reports a ModelDef that cannot serve the requested
// operation (missing id column, missing key field).
type ConfigurationError struct {
	Model  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("sheetdb: model %q: %s", e.Model, e.Reason)
}

// NotFoundError reports an id-addressed update whose target row is absent.
type NotFoundError struct {
	Sheet string
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sheetdb: %s: no row with id %q", e.Sheet, e.ID)
}
