package postprocessors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
)

// namedProcessor is a minimal processor for registry tests.
type namedProcessor struct {
	name string
}

func (p *namedProcessor) Name() string { return p.name }

func (p *namedProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	return chunks, nil
}

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("splitter"))

	r.Register("splitter", func(cfg map[string]any) (driven.PostProcessor, error) {
		name := "splitter"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &namedProcessor{name: name}, nil
	})

	require.True(t, r.Has("splitter"))

	proc, err := r.Build("splitter", map[string]any{"name": "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom", proc.Name())
}

func TestRegistry_BuildUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("unknown", nil)
	assert.ErrorContains(t, err, "unknown processor")
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Names())

	r.Register("alpha", func(map[string]any) (driven.PostProcessor, error) {
		return &namedProcessor{name: "alpha"}, nil
	})
	r.Register("beta", func(map[string]any) (driven.PostProcessor, error) {
		return &namedProcessor{name: "beta"}, nil
	})

	assert.ElementsMatch(t, []string{"alpha", "beta"}, r.Names())
}

func TestRegisterDefaults_ProvidesChunker(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	require.True(t, r.Has("chunker"))

	proc, err := r.Build("chunker", nil)
	require.NoError(t, err)
	assert.Equal(t, "chunker", proc.Name())
}

func TestBuildChunker_ConfigIsApplied(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	proc, err := r.Build("chunker", map[string]any{"chunk_size": 4, "overlap": 1})
	require.NoError(t, err)

	doc := &domain.Document{
		ID:      "doc-1",
		Name:    "Leave Policy",
		Content: "All employees receive fifteen vacation days and ten sick days annually",
	}
	chunks, err := proc.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	// With four-word chunks this sentence cannot fit in one.
	assert.Greater(t, len(chunks), 1)
}

func TestGetIntFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]any
		want int
	}{
		{name: "int", cfg: map[string]any{"k": 7}, want: 7},
		{name: "int64 from TOML", cfg: map[string]any{"k": int64(7)}, want: 7},
		{name: "float64 from JSON", cfg: map[string]any{"k": float64(7)}, want: 7},
		{name: "missing key", cfg: map[string]any{}, want: 0},
		{name: "wrong type", cfg: map[string]any{"k": "7"}, want: 0},
		{name: "nil config", cfg: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getIntFromConfig(tt.cfg, "k"))
		})
	}
}
