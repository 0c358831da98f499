package domain

import "errors"

// Input errors.
var (
	ErrEmptyQuery      = errors.New("query must not be empty")
	ErrEmptyScriptName = errors.New("script name must not be empty")
)

// Network errors.
var (
	ErrCompletionTimeout = errors.New("completion request timed out")
	ErrCompletion        = errors.New("completion request failed")
	ErrMissingAPIKey     = errors.New("OpenRouter API key is not set")
)

// ErrDecryptKey is returned when the stored API key cannot be decrypted with the given password.
var ErrDecryptKey = errors.New("wrong decryption password or corrupted key")

// Screening rejections. They are displayed by the output sink before being returned.
var (
	ErrRefusal          = errors.New("model declined the request")
	ErrMarkdownResponse = errors.New("response contains markdown instead of a command")
)

// ErrTooManyModifications stops a run that keeps modifying the query.
var ErrTooManyModifications = errors.New("too many query modifications in one run")

// IsScreeningRejection reports whether err is a deliberate screening stop.
func IsScreeningRejection(err error) bool {
	return errors.Is(err, ErrRefusal) || errors.Is(err, ErrMarkdownResponse)
}
