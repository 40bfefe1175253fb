package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrNotFound
	ErrInvalid
	ErrInternal
	ErrEmptyInput
	ErrInvalidFile
	ErrExtractionFailed
	ErrEmbeddingFailed
	ErrGenerationFailed
	ErrUploadFailed
	ErrAIUnavailable
)
