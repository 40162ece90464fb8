// Package domain defines core types, interfaces, and errors for the ETL service.
package domain

import "fmt"

// ValidationError indicates a malformed or incomplete trigger.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RetrievalError covers every failure while fetching the remote file:
// connect, login, missing file, transport. Callers are deliberately not
// told which; the retrieval stage reports a single failure kind.
type RetrievalError struct {
	Remote string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %s: %v", e.Remote, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// TransformError indicates the fetched file could not be parsed into rows.
type TransformError struct {
	Path string
	Err  error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Path, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// LoadError indicates the warehouse load job failed or could not be submitted.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrRetrieval wraps err as a RetrievalError for the given remote path.
func ErrRetrieval(remote string, err error) *RetrievalError {
	return &RetrievalError{Remote: remote, Err: err}
}

// ErrTransform wraps err as a TransformError for the given local path.
func ErrTransform(path string, err error) *TransformError {
	return &TransformError{Path: path, Err: err}
}

// ErrLoad wraps err as a LoadError for the given table reference.
func ErrLoad(table string, err error) *LoadError {
	return &LoadError{Table: table, Err: err}
}
