package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNoInputFiles      = errors.New("at least one input file is required")
	ErrDuplicateCategory = errors.New("category mapped to more than one group")
	ErrEmptyGroup        = errors.New("empty group label")

	ErrHighlighterMissing = errors.New("highlight does not seem to be installed, install it with `brew install highlight` then try again")
	ErrEmptySyntax        = errors.New("a syntax name is required")
	ErrDriveNotConnected  = errors.New("connect the external hard drive and try again")
)

// FileAccessError reports an input file that could not be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// MalformedRecordError reports a row that lacks a required column or
// carries a value that cannot be converted. Row 0 is the header.
type MalformedRecordError struct {
	Path   string
	Row    int
	Column string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	where := fmt.Sprintf("%s row %d", e.Path, e.Row)
	if e.Row == 0 {
		where = e.Path + " header"
	}
	msg := "malformed record in " + where
	if e.Column != "" {
		msg += fmt.Sprintf(", column %q", e.Column)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// CategorizationError reports a timestamp that cannot be placed in a month.
type CategorizationError struct {
	Timestamp string
	Source    Source
	Err       error
}

func (e *CategorizationError) Error() string {
	msg := fmt.Sprintf("invalid timestamp %q", e.Timestamp)
	if src := e.Source.String(); src != "" {
		msg += " at " + src
	}
	return msg
}

func (e *CategorizationError) Unwrap() error { return e.Err }

// UnknownCategoryError reports a category missing from the mapping.
type UnknownCategoryError struct {
	Category string
	Source   Source
}

func (e *UnknownCategoryError) Error() string {
	msg := fmt.Sprintf("unknown category %q", e.Category)
	if src := e.Source.String(); src != "" {
		msg += " at " + src
	}
	return msg
}
