package ticker

import (
	"fmt"
)

// FetchError reports a non-success HTTP status from the provider endpoint.
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("rss2json: HTTP %d", e.StatusCode)
}

// ProviderError reports a provider envelope whose status is not "ok",
// or one that could not be decoded at all.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
