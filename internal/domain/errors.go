package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField           = errors.New("missing field")
	ErrMalformedRecord        = errors.New("malformed record")
	ErrEmptyCatalogFile       = errors.New("catalog file has no record")
	ErrMultipleCatalogRecords = errors.New("catalog file has more than one record")
	ErrUnknownKind            = errors.New("unknown record kind")
)

// FieldError reports a required field absent from a source record
type FieldError struct {
	Record RecordKind
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s record: missing field %q", e.Record, e.Field)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMissingField
}

// FileError ties a load failure to the input file being processed
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
