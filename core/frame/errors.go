package frame

import (
	"errors"
	"fmt"

	"github.com/yomorun/flightdata/core/yerr"
)

// Sentinels matched by *DecodeError through errors.Is.
var (
	ErrTruncatedTag     = errors.New("frame: truncated tag")
	ErrTruncatedPayload = errors.New("frame: truncated payload")
	ErrUnknownTag       = errors.New("frame: unknown tag")
)

// DecodeError reports where and why decoding stopped.
type DecodeError struct {
	// Code is one of yerr.ErrorCodeTruncatedTag, yerr.ErrorCodeTruncatedPayload
	// or yerr.ErrorCodeUnknownTag.
	Code yerr.ErrorCode
	// Tag is the tag of the failing frame. Zero for TruncatedTag.
	Tag Tag
	// Offset is the position of the failing frame's tag byte.
	Offset int
	// Required is the number of bytes the frame needed after Offset's tag byte
	// (1 for a missing tag).
	Required int
	// Available is the number of bytes that were actually left.
	Available int
}

func (e *DecodeError) Error() string {
	switch e.Code {
	case yerr.ErrorCodeTruncatedTag:
		return fmt.Sprintf("frame: truncated tag at offset %d", e.Offset)
	case yerr.ErrorCodeTruncatedPayload:
		return fmt.Sprintf("frame: truncated %s payload at offset %d: required %d bytes, available %d",
			e.Tag, e.Offset, e.Required, e.Available)
	case yerr.ErrorCodeUnknownTag:
		return fmt.Sprintf("frame: unknown tag 0x%02X at offset %d", uint8(e.Tag), e.Offset)
	default:
		return fmt.Sprintf("frame: %s at offset %d", e.Code, e.Offset)
	}
}

// ErrorCode implements yerr.Error.
func (e *DecodeError) ErrorCode() yerr.ErrorCode { return e.Code }

// Missing returns how many more bytes would have completed the frame.
func (e *DecodeError) Missing() int {
	if e.Required <= e.Available {
		return 0
	}
	return e.Required - e.Available
}

// Is lets errors.Is match the package sentinels.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrTruncatedTag:
		return e.Code == yerr.ErrorCodeTruncatedTag
	case ErrTruncatedPayload:
		return e.Code == yerr.ErrorCodeTruncatedPayload
	case ErrUnknownTag:
		return e.Code == yerr.ErrorCodeUnknownTag
	}
	return false
}

func errTruncatedTag(offset int) *DecodeError {
	return &DecodeError{Code: yerr.ErrorCodeTruncatedTag, Offset: offset, Required: tagSize}
}

func errTruncatedPayload(tag Tag, offset, required, available int) *DecodeError {
	return &DecodeError{
		Code:      yerr.ErrorCodeTruncatedPayload,
		Tag:       tag,
		Offset:    offset,
		Required:  required,
		Available: available,
	}
}

func errUnknownTag(tag Tag, offset int) *DecodeError {
	return &DecodeError{Code: yerr.ErrorCodeUnknownTag, Tag: tag, Offset: offset}
}
