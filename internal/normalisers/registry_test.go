package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
)

// stubNormaliser is a configurable test double.
type stubNormaliser struct {
	mimeTypes []string
	priority  int
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.mimeTypes }
func (s *stubNormaliser) Priority() int                { return s.priority }
func (s *stubNormaliser) Normalise(_ context.Context, _ *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{}, nil
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	require.NotNil(t, registry)
}

func TestForMIMEType_Registered(t *testing.T) {
	registry := NewRegistry()
	n := &stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5}
	registry.Register(n)

	got, err := registry.ForMIMEType("text/plain")
	require.NoError(t, err)
	assert.Same(t, driven.Normaliser(n), got)
}

func TestForMIMEType_Unsupported(t *testing.T) {
	registry := NewRegistry()

	got, err := registry.ForMIMEType("application/octet-stream")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Nil(t, got)
}

func TestForMIMEType_HighestPriorityWins(t *testing.T) {
	registry := NewRegistry()
	fallback := &stubNormaliser{mimeTypes: []string{"text/markdown"}, priority: 5}
	specific := &stubNormaliser{mimeTypes: []string{"text/markdown"}, priority: 50}
	registry.Register(fallback)
	registry.Register(specific)

	got, err := registry.ForMIMEType("text/markdown")
	require.NoError(t, err)
	assert.Same(t, driven.Normaliser(specific), got)
}

func TestSupportedMIMETypes(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/plain", "text/csv"}, priority: 5})
	registry.Register(&stubNormaliser{mimeTypes: []string{"application/pdf"}, priority: 50})

	types := registry.SupportedMIMETypes()
	assert.ElementsMatch(t, []string{"text/plain", "text/csv", "application/pdf"}, types)
}
