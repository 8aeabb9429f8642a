package domain

import "time"

// Document represents an indexed document with metadata.
// It is the canonical representation after text extraction.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the human-readable title the document was uploaded under.
	Name string

	// URI is the original location (file path, upload name, etc).
	URI string

	// Content is the full extracted text before chunking.
	Content string

	// ChunkCount is the number of chunks produced at indexing time.
	// It is fixed once the document is stored.
	ChunkCount int

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Record returns the external summary view of the document.
func (d *Document) Record() DocumentRecord {
	return DocumentRecord{
		ID:         d.ID,
		Name:       d.Name,
		ChunkCount: d.ChunkCount,
	}
}

// DocumentRecord is the boundary view of an indexed document.
type DocumentRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ChunkCount int    `json:"chunk_count"`
}

// Chunk represents a retrievable unit within a document.
// Documents are split into chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document. Chunks never outlive
	// their document; deleting the document deletes its chunks.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	// Insertion order is preserved for context reconstruction.
	Position int

	// Embedding is the vector representation for semantic retrieval.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// RawDocument represents opaque bytes submitted for indexing,
// before any text extraction.
type RawDocument struct {
	// Name is the upload name, also used as the document title.
	Name string

	// URI is the original location when known (watched files).
	URI string

	// MIMEType is the declared content type (e.g. "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-specific key-value pairs.
	Metadata map[string]any
}

// RetrievedChunk is a chunk returned by retrieval, scored and joined
// with its originating document.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// DocumentID is the owning document's identifier.
	DocumentID string

	// DocumentName is the owning document's title.
	DocumentName string

	// Score is the relevance score (cosine similarity, 0-1).
	Score float64
}
