// Package tfidf provides a corpus-fitted TF-IDF embedding service.
// It needs no network access and is the default embedding backend.
package tfidf

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService vectorises text with TF-IDF weights over a
// vocabulary fitted from the indexed corpus. Vectors are L2-normalised
// so cosine similarity reduces to a dot product.
type EmbeddingService struct {
	mu           sync.RWMutex
	vocabulary   map[string]int
	idf          []float32
	fitted       bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewEmbeddingService creates an unfitted TF-IDF embedding service.
// Call Fit with corpus text before embedding.
func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Fit builds the vocabulary and IDF weights from the corpus.
// Refitting replaces the previous vocabulary, so existing vectors in
// any index must be rebuilt afterwards.
func (s *EmbeddingService) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("tfidf: %w: empty corpus", domain.ErrInvalidInput)
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range s.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Stable term ordering keeps vector positions deterministic.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return fmt.Errorf("tfidf: %w: no tokens found in corpus", domain.ErrInvalidInput)
	}

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float32, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		// Smoothed IDF.
		idf[i] = float32(math.Log((1+n)/(1+float64(df[term]))) + 1.0)
	}

	s.mu.Lock()
	s.vocabulary = vocabulary
	s.idf = idf
	s.fitted = true
	s.mu.Unlock()

	return nil
}

// Embed generates a TF-IDF vector for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.fitted {
		return nil, fmt.Errorf("tfidf: %w: embedder not fitted", domain.ErrEmbeddingUnavailable)
	}

	vec := make([]float32, len(s.idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range s.tokenize(text) {
		if idx, ok := s.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}

	for idx, count := range tf {
		vec[idx] = float32(count) / float32(total) * s.idf[idx]
	}

	// L2 normalise.
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size (the vocabulary size).
func (s *EmbeddingService) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.idf)
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return "tfidf"
}

// Ping validates the service is usable.
func (s *EmbeddingService) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.fitted {
		return fmt.Errorf("tfidf: %w: embedder not fitted", domain.ErrEmbeddingUnavailable)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) tokenize(text string) []string {
	raw := s.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := s.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again",
		"further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just",
		"should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
