package core

import "errors"

var (
	ErrBadInputFile   = errors.New("input file cannot be read")
	ErrMissingField   = errors.New("mandatory field is missing")
	ErrAuthentication = errors.New("authentication failed")
)
