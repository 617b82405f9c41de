package domain

import "errors"

// BadInputError marks a failure caused by the client's request. The HTTP
// layer maps it to a 400 response.
type BadInputError struct {
	Msg string
}

func (e *BadInputError) Error() string { return e.Msg }

// NewBadInput builds a client-input error.
func NewBadInput(msg string) error { return &BadInputError{Msg: msg} }

// ContentConfigError marks missing or inconsistent reference data. The
// service cannot recover; the HTTP layer maps it to a 500 response.
type ContentConfigError struct {
	Msg string
}

func (e *ContentConfigError) Error() string { return e.Msg }

// NewContentConfig builds a content-configuration error.
func NewContentConfig(msg string) error { return &ContentConfigError{Msg: msg} }

// IsBadInput reports whether err is (or wraps) a client-input error.
func IsBadInput(err error) bool {
	var t *BadInputError
	return errors.As(err, &t)
}

// IsContentConfig reports whether err is (or wraps) a content-config error.
func IsContentConfig(err error) bool {
	var t *ContentConfigError
	return errors.As(err, &t)
}
