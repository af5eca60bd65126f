package match

import (
	"math"
)

// Model is a fitted TF-IDF vector space. It is immutable once returned by
// Fit; callers may share it freely within a match request.
type Model struct {
	vocabulary map[string]int
	idf        []float64
	docVectors [][]float64
}

// Fit builds the term dictionary and IDF statistics from the corpus and
// vectorizes every corpus document. Terms absent from the corpus get no
// dictionary slot; an all-empty corpus yields an empty dictionary and
// zero-length vectors.
func Fit(corpus []string) *Model {
	m := &Model{vocabulary: make(map[string]int)}

	docCount := float64(len(corpus))
	tokenized := make([][]string, len(corpus))
	wordDocCounts := make(map[string]int)

	for i, doc := range corpus {
		tokens := Tokenize(doc)
		tokenized[i] = tokens
		seenInDoc := make(map[string]bool)
		for _, token := range tokens {
			if !seenInDoc[token] {
				wordDocCounts[token]++
				seenInDoc[token] = true
			}
			if _, exists := m.vocabulary[token]; !exists {
				m.vocabulary[token] = len(m.vocabulary)
			}
		}
	}

	// idf = log(N / (df + 1)) + 1, strictly positive for df <= N
	m.idf = make([]float64, len(m.vocabulary))
	for word, idx := range m.vocabulary {
		df := float64(wordDocCounts[word])
		m.idf[idx] = math.Log(docCount/(df+1)) + 1
	}

	m.docVectors = make([][]float64, len(corpus))
	for i, tokens := range tokenized {
		m.docVectors[i] = m.vectorize(tokens)
	}
	return m
}

// Transform projects arbitrary text into the fitted vector space.
// Out-of-vocabulary tokens contribute nothing; document frequencies are
// those learned during Fit, never recomputed.
func (m *Model) Transform(text string) []float64 {
	return m.vectorize(Tokenize(text))
}

// DocumentVectors returns the TF-IDF vectors of the corpus documents,
// aligned 1:1 with the corpus order passed to Fit.
func (m *Model) DocumentVectors() [][]float64 {
	return m.docVectors
}

// Terms reports the dictionary size.
func (m *Model) Terms() int {
	return len(m.vocabulary)
}

func (m *Model) vectorize(tokens []string) []float64 {
	vector := make([]float64, len(m.vocabulary))
	if len(tokens) == 0 {
		return vector
	}

	tf := make(map[string]float64)
	for _, token := range tokens {
		tf[token]++
	}
	for token, count := range tf {
		if idx, exists := m.vocabulary[token]; exists {
			vector[idx] = (count / float64(len(tokens))) * m.idf[idx]
		}
	}
	return vector
}
