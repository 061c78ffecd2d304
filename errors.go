package mailkit

import "errors"

// Error kinds returned by mailkit (spec.md §7). Callers compare with
// errors.Is; every error mailkit itself detects wraps exactly one of
// these. Errors from the caller's io.Writer are returned as they are.
var (
	ErrInvalidAddress          = errors.New("mailkit: invalid address")
	ErrInvalidDomain           = errors.New("mailkit: invalid domain")
	ErrHeaderTooLong           = errors.New("mailkit: header too long")
	ErrUnknownHeaderValueShape = errors.New("mailkit: unknown header value shape")
	ErrBodyViolatesEncoding    = errors.New("mailkit: body violates declared encoding")
	ErrBodyAlreadySet          = errors.New("mailkit: body already set")
	ErrUpstreamPayloadError    = errors.New("mailkit: upstream payload error")
)
