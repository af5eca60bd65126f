package match

import (
	"math"
	"sort"

	"github.com/jobmatch-engine/backend/internal/catalogue"
)

// Ranked pairs a catalogue posting with its similarity score.
type Ranked struct {
	Posting    catalogue.JobPosting
	Similarity float64
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns 0 on length mismatch or when either vector has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores every posting against the query vector, drops zero scores,
// sorts by similarity descending (ties keep catalogue order), keeps the
// best-scoring posting per company, and truncates to topN.
//
// docVectors must be aligned 1:1 with postings. topN is assumed to be a
// validated positive integer.
func Rank(queryVector []float64, docVectors [][]float64, postings []catalogue.JobPosting, topN int) []Ranked {
	results := make([]Ranked, 0)
	for i, posting := range postings {
		score := CosineSimilarity(queryVector, docVectors[i])
		if score > 0 {
			results = append(results, Ranked{Posting: posting, Similarity: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	deduped := make([]Ranked, 0, len(results))
	seen := make(map[string]bool)
	for _, r := range results {
		if seen[r.Posting.Company] {
			continue
		}
		seen[r.Posting.Company] = true
		deduped = append(deduped, r)
	}

	if len(deduped) > topN {
		return deduped[:topN]
	}
	return deduped
}
