// Package normalisers provides text extraction implementations for the
// supported document formats (plain text, Markdown, PDF, DOCX).
package normalisers

import (
	"fmt"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry selects a normaliser by declared MIME type.
// When several normalisers claim a type, the highest priority wins.
type Registry struct {
	byMIME map[string][]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		byMIME: make(map[string][]driven.Normaliser),
	}
}

// Register adds a normaliser for all its supported MIME types.
func (r *Registry) Register(n driven.Normaliser) {
	for _, mime := range n.SupportedMIMETypes() {
		r.byMIME[mime] = append(r.byMIME[mime], n)
	}
}

// ForMIMEType returns the highest-priority normaliser for the type.
func (r *Registry) ForMIMEType(mimeType string) (driven.Normaliser, error) {
	candidates := r.byMIME[mimeType]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}

	best := candidates[0]
	for _, n := range candidates[1:] {
		if n.Priority() > best.Priority() {
			best = n
		}
	}
	return best, nil
}

// SupportedMIMETypes returns every registered MIME type.
func (r *Registry) SupportedMIMETypes() []string {
	types := make([]string, 0, len(r.byMIME))
	for mime := range r.byMIME {
		types = append(types, mime)
	}
	return types
}
