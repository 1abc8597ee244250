package storage

// Source is where an asset's bytes come from: LocalFile or RemoteURL.
type Source interface {
	isSource()
}

// LocalFile is an uploaded file held in memory.
type LocalFile struct {
	Data     []byte
	Name     string
	MimeType string
}

// RemoteURL is an asset already hosted elsewhere; it is passed through.
type RemoteURL struct {
	URL string
}

func (LocalFile) isSource() {}
func (RemoteURL) isSource() {}

// Resolved is the durable location of an asset.
type Resolved struct {
	URL         string
	Backend     string // empty for foreign remote URLs
	Key         string // empty when Backend is empty
	Size        int64
	SizeKnown   bool
	ContentType string
	// Uploaded is set only when this resolver wrote the bytes. Passed-through
	// URLs that point into one of our backends keep it false.
	Uploaded bool
}

// Stored reports whether the asset lives in one of our backends.
func (r *Resolved) Stored() bool {
	return r != nil && r.Backend != "" && r.Key != ""
}

// UnknownSize is recorded when a remote asset's size cannot be determined.
const UnknownSize int64 = 1
