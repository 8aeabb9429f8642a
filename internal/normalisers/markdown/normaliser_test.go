package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	normaliser := New()
	mimeTypes := normaliser.SupportedMIMETypes()

	require.NotEmpty(t, mimeTypes)
	assert.Contains(t, mimeTypes, "text/markdown")
	assert.Contains(t, mimeTypes, "text/x-markdown")
	assert.Len(t, mimeTypes, 2)
}

func TestPriority(t *testing.T) {
	normaliser := New()
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_Success(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	raw := &domain.RawDocument{
		URI:      "/path/to/handbook.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Employee Handbook\n\nThis covers leave policy."),
	}

	result, err := normaliser.Normalise(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, "Employee Handbook", doc.Name) // Name from first H1
	assert.Equal(t, "text/markdown", doc.Metadata["mime_type"])
	assert.Equal(t, "markdown", doc.Metadata["format"])
}

func TestNormalise_ExplicitNameWins(t *testing.T) {
	normaliser := New()

	raw := &domain.RawDocument{
		Name:     "handbook.md",
		URI:      "/path/to/handbook.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Some Heading\n\nBody."),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "handbook.md", result.Document.Name)
}

func TestNormalise_NilDocument(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_NoHeading(t *testing.T) {
	normaliser := New()

	raw := &domain.RawDocument{
		URI:      "/path/to/plain.md",
		MIMEType: "text/markdown",
		Content:  []byte("Just a paragraph without headings."),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", result.Document.Name)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "headings",
			input:    "# Title\n## Subtitle\nBody",
			expected: "Title\nSubtitle\nBody",
		},
		{
			name:     "links keep text",
			input:    "See [the policy](https://example.com/policy) for details",
			expected: "See the policy for details",
		},
		{
			name:     "images removed",
			input:    "Before ![diagram](img.png) after",
			expected: "Before  after",
		},
		{
			name:     "bold and italic",
			input:    "This is **bold** and *italic*",
			expected: "This is bold and italic",
		},
		{
			name:     "code blocks removed",
			input:    "Text\n```\ncode here\n```\nMore",
			expected: "Text\n\nMore",
		},
		{
			name:     "list markers",
			input:    "- first\n- second\n1. third",
			expected: "first\nsecond\nthird",
		},
		{
			name:     "blockquotes",
			input:    "> quoted text",
			expected: "quoted text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripMarkdown(tt.input))
		})
	}
}
