package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

func fittedService(t *testing.T) *EmbeddingService {
	t.Helper()

	svc := NewEmbeddingService()
	corpus := []string{
		"employees work remotely two days per week",
		"expense reimbursement requires manager approval",
		"security policy mandates disk encryption on laptops",
	}
	require.NoError(t, svc.Fit(corpus))
	return svc
}

func TestFit_EmptyCorpus(t *testing.T) {
	svc := NewEmbeddingService()
	err := svc.Fit(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmbed_Unfitted(t *testing.T) {
	svc := NewEmbeddingService()

	_, err := svc.Embed(context.Background(), "query")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestEmbed_Dimensions(t *testing.T) {
	svc := fittedService(t)

	vec, err := svc.Embed(context.Background(), "expense reimbursement")
	require.NoError(t, err)
	assert.Len(t, vec, svc.Dimensions())
	assert.Greater(t, svc.Dimensions(), 0)
}

func TestEmbed_L2Normalised(t *testing.T) {
	svc := fittedService(t)

	vec, err := svc.Embed(context.Background(), "security policy encryption")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 0.0001)
}

func TestEmbed_OutOfVocabulary(t *testing.T) {
	svc := fittedService(t)

	vec, err := svc.Embed(context.Background(), "zebra quantum xylophone")
	require.NoError(t, err)

	// Unknown terms produce the zero vector.
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbed_SimilarTextsScoreHigher(t *testing.T) {
	svc := fittedService(t)
	ctx := context.Background()

	query, err := svc.Embed(ctx, "laptop encryption policy")
	require.NoError(t, err)
	onTopic, err := svc.Embed(ctx, "security policy mandates disk encryption on laptops")
	require.NoError(t, err)
	offTopic, err := svc.Embed(ctx, "employees work remotely two days per week")
	require.NoError(t, err)

	assert.Greater(t, dot(query, onTopic), dot(query, offTopic))
}

func TestEmbedBatch(t *testing.T) {
	svc := fittedService(t)

	vectors, err := svc.EmbedBatch(context.Background(), []string{"expense", "security"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[0], svc.Dimensions())
}

func TestRefit_ChangesDimensions(t *testing.T) {
	svc := NewEmbeddingService()
	require.NoError(t, svc.Fit([]string{"alpha beta"}))
	first := svc.Dimensions()

	require.NoError(t, svc.Fit([]string{"alpha beta gamma delta epsilon"}))
	assert.Greater(t, svc.Dimensions(), first)
}

func TestPing(t *testing.T) {
	svc := NewEmbeddingService()
	assert.Error(t, svc.Ping(context.Background()))

	require.NoError(t, svc.Fit([]string{"some corpus text"}))
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestModelName(t *testing.T) {
	assert.Equal(t, "tfidf", NewEmbeddingService().ModelName())
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
