package mailvet

import "errors"

var (
	ErrUnsupportedInput = errors.New("mailvet: input file must be .csv or .txt")
	ErrMissingAtSign    = errors.New("mailvet: address has no @ sign")
)
