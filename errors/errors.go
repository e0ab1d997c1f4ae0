// Package errors provides error handling for propsort.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, error wrapping with context, and rich error inspection, plus the
// sentinel errors shared across the parse/sort/reconstruct pipeline.
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNoEntities) {
//	    // nothing sortable in the input
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
	Join   = crdb.Join
)

// Sentinel errors for the processing pipeline.
var (
	// ErrNoEntities signals that parsing found nothing sortable.
	ErrNoEntities = New("no sortable entities found")
	// ErrNoProperties signals that every parsed entity was empty.
	ErrNoProperties = New("entities contain no properties")
	// ErrUnsupportedFileType signals an unrecognized language hint.
	ErrUnsupportedFileType = New("unsupported file type")
)
