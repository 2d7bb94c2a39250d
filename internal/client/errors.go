package client

import "fmt"

// UpstreamError reports a non-200 response from a gd2 endpoint. The
// upstream body is carried verbatim so callers can surface it.
type UpstreamError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// MalformedFeedError reports a feed document whose expected JSON
// structure is absent. Doc holds the raw document for diagnostics.
type MalformedFeedError struct {
	URL string
	Doc string
}

func (e *MalformedFeedError) Error() string {
	return fmt.Sprintf("malformed feed from %s: %s", e.URL, e.Doc)
}
