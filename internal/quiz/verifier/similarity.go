package verifier

import (
	"context"
	"math"

	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/quiz/retriever"
)

// embeddingSimilarity scores how close the question, answer and explanation
// sit to the supporting material in embedding space. When the embedder is
// down it degrades to lexical overlap rather than failing verification.
func (v *Verifier) embeddingSimilarity(ctx context.Context, question quizModel.Question, material string) quizModel.EmbeddingSimilarity {
	texts := []string{material, question.Question, question.CorrectAnswer, question.Explanation}
	vectors, err := v.embedder.BatchEmbedding(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		similarity := quizModel.EmbeddingSimilarity{
			Question:    retriever.TokenOverlap(question.Question, material),
			Answer:      retriever.TokenOverlap(question.CorrectAnswer, material),
			Explanation: retriever.TokenOverlap(question.Explanation, material),
		}
		similarity.Average = (similarity.Question + similarity.Answer + similarity.Explanation) / 3
		return similarity
	}

	materialVector := vectors[0]
	similarity := quizModel.EmbeddingSimilarity{
		Question:    cosineSimilarity(vectors[1], materialVector),
		Answer:      cosineSimilarity(vectors[2], materialVector),
		Explanation: cosineSimilarity(vectors[3], materialVector),
	}
	similarity.Average = (similarity.Question + similarity.Answer + similarity.Explanation) / 3
	return similarity
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
