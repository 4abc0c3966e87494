package retriever

import "strings"

// TokenOverlap is the Jaccard overlap of lowercase token sets. Cheap lexical
// signal used to break semantic-score ties and as an embedding fallback.
func TokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		token := strings.Trim(field, ".,!?;:()[]\"'")
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}
