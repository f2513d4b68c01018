package model

import (
	"errors"
	"strconv"
)

// Sentinel errors for common cases
var (
	ErrUnsupportedForm   = errors.New("unsupported form type")
	ErrUnknownItem       = errors.New("unknown item for form type")
	ErrFilingTooLarge    = errors.New("filing exceeds size limit")
	ErrSourceUnavailable = errors.New("filing source unavailable")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
