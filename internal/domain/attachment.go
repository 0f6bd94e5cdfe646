package domain

// StorageKind tells which backend holds the file bytes.
type StorageKind string

const (
	StorageLocal  StorageKind = "local"
	StorageRemote StorageKind = "remote"
)

// Attachment is the embedded reference to a file stored outside the
// owning record. It has no lifecycle of its own: it is written and
// removed together with its Notice or Gallery row.
type Attachment struct {
	FileName     string      `json:"file_name"`
	OriginalName string      `json:"original_name"`
	Size         int64       `json:"size"`
	MimeType     string      `json:"mime_type"`
	Storage      StorageKind `json:"storage"`

	// Local backend: path relative to the uploads base dir.
	Path string `json:"path,omitempty"`

	// Remote backend: public URL plus the provider object key and
	// whatever the provider told us about the image.
	URL       string `json:"url,omitempty"`
	ObjectKey string `json:"-"`
	Format    string `json:"format,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}
