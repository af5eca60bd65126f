package skills

import (
	"strings"
)

// Extractor scans resume text for a fixed vocabulary of skill terms.
// The vocabulary is injected at construction and immutable afterwards.
type Extractor struct {
	vocabulary []string
}

func New(vocabulary []string) *Extractor {
	vocab := make([]string, len(vocabulary))
	for i, term := range vocabulary {
		vocab[i] = strings.ToLower(term)
	}
	return &Extractor{vocabulary: vocab}
}

// DefaultVocabulary returns the built-in skill list, in declaration order.
func DefaultVocabulary() []string {
	return []string{
		"python", "java", "sql", "machine learning", "data analysis", "deep learning",
		"nlp", "flask", "django", "excel", "pandas", "numpy", "c++", "react", "node.js",
		"cloud", "aws", "azure", "linux", "javascript", "html", "css", "r", "git", "github",
	}
}

// Vocabulary returns the active skill terms in declaration order.
func (e *Extractor) Vocabulary() []string {
	out := make([]string, len(e.vocabulary))
	copy(out, e.vocabulary)
	return out
}

// Extract returns the vocabulary terms present in text as whole words,
// in vocabulary order. Matching is case-insensitive.
func (e *Extractor) Extract(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, term := range e.vocabulary {
		if containsWholeWord(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

// containsWholeWord reports whether term occurs in text bounded by
// non-alphanumeric characters or string edges. Boundary checks apply only
// to the alphanumeric edges of the term, so "c++" needs a boundary before
// the 'c' but none after the trailing '+'.
func containsWholeWord(text, term string) bool {
	if term == "" {
		return false
	}
	checkLeft := isAlnum(term[0])
	checkRight := isAlnum(term[len(term)-1])

	for start := 0; start <= len(text)-len(term); {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)

		leftOK := !checkLeft || idx == 0 || !isAlnum(text[idx-1])
		rightOK := !checkRight || end == len(text) || !isAlnum(text[end])
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
	return false
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
