package spd

import "errors"

var (
	ErrMalformedAccount    = errors.New("malformed account number")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrFieldTooLong        = errors.New("field too long")
	ErrInvalidField        = errors.New("invalid field value")
	ErrInvalidLabelConfig  = errors.New("invalid label config")
)
