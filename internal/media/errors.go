package media

import "fmt"

// FetchError reports a remote resource that could not be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FileMissingError reports a local path that no longer resolves to an
// existing file.
type FileMissingError struct {
	Path string
}

func (e *FileMissingError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}
