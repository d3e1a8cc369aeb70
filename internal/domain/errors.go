package domain

import (
	"errors"
	"fmt"
)

// DataSourceError is returned when reference data cannot be read. It is fatal at startup.
type DataSourceError struct {
	Op        string
	Err       error
	Transient bool
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a DataSourceError worth retrying.
func IsTransient(err error) bool {
	var dsErr *DataSourceError
	return errors.As(err, &dsErr) && dsErr.Transient
}

// ValidationError marks invalid filter input. It is shown to the user as a hint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
