package docstore

import "strconv"

// Metadata keys as they are written to every backend.
const (
	SourceKey     = "source"
	PageKey       = "page"
	TotalPagesKey = "total_pages"
	TextKey       = "text"
)

type Metadata struct {
	Source     string
	Page       int
	TotalPages int
}

type Document struct {
	Text     string
	Metadata Metadata
}

type Chunk struct {
	Text     string
	Metadata Metadata
}

type Record struct {
	ID       string
	Text     string
	Metadata Metadata
	Vector   []float32
}

func (m Metadata) strings() map[string]string {
	return map[string]string{
		SourceKey:     m.Source,
		PageKey:       strconv.Itoa(m.Page),
		TotalPagesKey: strconv.Itoa(m.TotalPages),
	}
}
