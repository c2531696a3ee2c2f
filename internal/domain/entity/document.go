package entity

// Metadata keys carried by Document.
const (
	MetaSource   = "source"
	MetaTitle    = "title"
	MetaSiteName = "site_name"
	MetaByline   = "byline"
	MetaChunk    = "chunk"
)

// Document is a unit of extracted text plus the metadata describing where it came from.
// It is produced once by a loader and passed downstream unchanged.
type Document struct {
	Content  string
	Metadata map[string]string
}

// NewDocument creates a Document tagged with its source URL.
func NewDocument(content, source string) Document {
	return Document{
		Content:  content,
		Metadata: map[string]string{MetaSource: source},
	}
}

// WithMeta returns a copy of d with key set to value. Empty values are skipped.
func (d Document) WithMeta(key, value string) Document {
	if value == "" {
		return d
	}
	meta := make(map[string]string, len(d.Metadata)+1)
	for k, v := range d.Metadata {
		meta[k] = v
	}
	meta[key] = value
	d.Metadata = meta
	return d
}

// Source returns the source URL recorded in the metadata.
func (d Document) Source() string {
	return d.Metadata[MetaSource]
}

// Title returns the title recorded in the metadata, if any.
func (d Document) Title() string {
	return d.Metadata[MetaTitle]
}
