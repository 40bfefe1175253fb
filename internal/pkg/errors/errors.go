package errors

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalid    = errors.New("invalid")
	ErrInternal   = errors.New("internal")
	ErrEmptyInput = errors.New("empty input")
	ErrExtraction = errors.New("extraction failed")
	ErrEmbedding  = errors.New("embedding failed")
	ErrGeneration = errors.New("generation failed")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}
