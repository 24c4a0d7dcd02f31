package attachmentsrepo

import (
	"io"
)

// Upload is a file accepted at the boundary and waiting to be stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredFile describes a blob written to the backend.
type StoredFile struct {
	Key         string
	Filename    string
	ContentType string
	Size        int64
}

// Retrieval is how a stored blob is handed back: either a body to stream or
// a time limited URL the client fetches itself.
type Retrieval struct {
	Body io.ReadCloser
	URL  string
}
