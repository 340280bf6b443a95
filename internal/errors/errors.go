// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrEmptyDepth means the required side of the book has no levels at
	// all; the scrip is currently untradeable at market.
	ErrEmptyDepth = errors.New("no bids or asks to match order against")

	// ErrInsufficientDepth means the book had some liquidity but not
	// enough for the full order. Wrapped by DepthError, which carries the
	// unfilled remainder.
	ErrInsufficientDepth = errors.New("market depth falls short of order quantity")

	ErrInvalidOrder   = errors.New("invalid order")
	ErrFlatHolding    = errors.New("holding is flat, average price undefined")
	ErrDataNotFound   = errors.New("data not found")
	ErrNonFinitePrice = errors.New("non-finite price computed")
)

// DepthError reports a partial fill: the walked side ran out of levels
// with Remaining quantity still unmatched. Remaining is the shortfall on
// the queried side only, so the caller can retry with a reduced size.
type DepthError struct {
	Scrip     string
	Side      string
	Remaining int64
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s %s depth falls short of %d quantity to satisfy order", e.Scrip, e.Side, e.Remaining)
}

func (e *DepthError) Unwrap() error {
	return ErrInsufficientDepth
}

// NewDepthError creates a new DepthError.
func NewDepthError(scrip, side string, remaining int64) *DepthError {
	return &DepthError{Scrip: scrip, Side: side, Remaining: remaining}
}

// ParseError represents malformed external data: a depth level, a ticker
// field or a metadata attribute that could not be decoded.
type ParseError struct {
	Field   string
	Value   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s (%q): %s", e.Field, e.Value, e.Message)
}

// NewParseError creates a new ParseError.
func NewParseError(field, value, message string) *ParseError {
	return &ParseError{Field: field, Value: value, Message: message}
}

// DataError represents a failure of an external data collaborator.
type DataError struct {
	DataType string
	Scrip    string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Scrip, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Scrip, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, scrip, message string, err error) *DataError {
	return &DataError{DataType: dataType, Scrip: scrip, Message: message, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
