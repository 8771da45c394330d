package errors

import "errors"

var (
	ErrNotFound             = errors.New("product not found")
	ErrRequestFailed        = errors.New("remote store request failed")
	ErrUnrecognizedResponse = errors.New("remote store response has no document identifier")
	ErrMissingID            = errors.New("missing product id")
	ErrInvalidID            = errors.New("invalid product id")
)
