// Package yerr describes flightdata errors
package yerr

import (
	"errors"
	"fmt"
)

// Error is an error that carries an ErrorCode.
type Error interface {
	error
	// ErrorCode getter method
	ErrorCode() ErrorCode
}

type codedError struct {
	errorCode ErrorCode
	err       error
}

// New create a coded error
func New(code ErrorCode, err error) Error {
	return &codedError{
		errorCode: code,
		err:       err,
	}
}

// Error is the built-in error interface
func (e *codedError) Error() string {
	return fmt.Sprintf("%s error: message=%s", e.errorCode, e.err.Error())
}

// ErrorCode getter method
func (e *codedError) ErrorCode() ErrorCode {
	return e.errorCode
}

// Unwrap returns the underlying error.
func (e *codedError) Unwrap() error {
	return e.err
}

// ErrorCode error code
type ErrorCode uint64

const (
	// ErrorCodeUnknown unknown error
	ErrorCodeUnknown ErrorCode = 0xC0
	// ErrorCodeTruncatedTag the input ended where a tag byte was expected
	ErrorCodeTruncatedTag ErrorCode = 0xC1
	// ErrorCodeTruncatedPayload the input ended inside a payload
	ErrorCodeTruncatedPayload ErrorCode = 0xC2
	// ErrorCodeUnknownTag the tag byte names no record kind
	ErrorCodeUnknownTag ErrorCode = 0xC3
	// ErrorCodeInvalidID the packet id names no sensor in the layout
	ErrorCodeInvalidID ErrorCode = 0xC4
	// ErrorCodeInvalidValueCount packet and layout disagree on value count
	ErrorCodeInvalidValueCount ErrorCode = 0xC5
	// ErrorCodeConfig layout file could not be loaded or is invalid
	ErrorCodeConfig ErrorCode = 0xC6
	// ErrorCodeExport output could not be produced
	ErrorCodeExport ErrorCode = 0xC7
)

var errCodeStringMap = map[ErrorCode]string{
	ErrorCodeUnknown:           "UnknownError",
	ErrorCodeTruncatedTag:      "TruncatedTag",
	ErrorCodeTruncatedPayload:  "TruncatedPayload",
	ErrorCodeUnknownTag:        "UnknownTag",
	ErrorCodeInvalidID:         "InvalidID",
	ErrorCodeInvalidValueCount: "InvalidValueCount",
	ErrorCodeConfig:            "Config",
	ErrorCodeExport:            "Export",
}

func (e ErrorCode) String() string {
	msg, ok := errCodeStringMap[e]
	if !ok {
		return "XXX"
	}
	return msg
}

// Code returns the ErrorCode of the first error in err's chain that carries one.
// It returns ErrorCodeUnknown for nil or uncoded errors.
func Code(err error) ErrorCode {
	var ce Error
	if errors.As(err, &ce) {
		return ce.ErrorCode()
	}
	return ErrorCodeUnknown
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && Code(err) == code
}
