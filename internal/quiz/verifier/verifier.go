package verifier

import (
	"context"
	"strings"
	"sync"

	"github.com/nchandra/eduquest/internal/config"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/metrics"
	"github.com/nchandra/eduquest/internal/quiz/retriever"
	"github.com/nchandra/eduquest/internal/rag/embedding"
	"github.com/nchandra/eduquest/internal/rag/llm"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

// Score weights. The judge verdict carries most of the signal; embedding
// similarity keeps the score honest when the judge is too generous.
const (
	hallucinationWeight = 0.4
	qualityWeight       = 0.3
	semanticWeight      = 0.3

	judgeWeight     = 0.7
	embeddingWeight = 0.3
)

// Verifier scores each generated question against the document it claims to
// come from. Verification attaches a result to every question and never fails
// the request: a broken judge degrades to the embedding signal with the error
// recorded on the question.
type Verifier struct {
	provider llm.Provider
	embedder embedding.Embedder
	sem      chan struct{}
	logger   *logger_i.Logger
}

func NewVerifier(provider llm.Provider, embedder embedding.Embedder) *Verifier {
	return &Verifier{
		provider: provider,
		embedder: embedder,
		sem:      make(chan struct{}, config.MaxConcurrentModelCalls),
		logger:   logger_i.NewLogger("Verifier"),
	}
}

func (v *Verifier) Verify(ctx context.Context, index *retriever.Index, questions []quizModel.Question) []quizModel.Question {
	var wg sync.WaitGroup
	for i := range questions {
		wg.Add(1)
		go func(question *quizModel.Question) {
			defer wg.Done()

			select {
			case v.sem <- struct{}{}:
				defer func() { <-v.sem }()
			case <-ctx.Done():
				question.Verification = &quizModel.Verification{Error: ctx.Err().Error()}
				return
			}

			question.Verification = v.verifyOne(ctx, index, question)
			metrics.ObserveVerificationScore(question.Verification.TotalScore)
		}(&questions[i])
	}
	wg.Wait()
	return questions
}

func (v *Verifier) verifyOne(ctx context.Context, index *retriever.Index, question *quizModel.Question) *quizModel.Verification {
	material, supported := v.gatherSupport(ctx, index, question)

	verification := &quizModel.Verification{
		EmbeddingSimilarity: v.embeddingSimilarity(ctx, *question, material),
	}

	verdict, err := v.judge(ctx, *question, material)
	if err != nil {
		// Judge down: score on embedding similarity alone.
		v.logger.Warn("Judge unavailable, falling back to embedding score", "error", err)
		verification.Error = err.Error()
		verification.TotalScore = verification.EmbeddingSimilarity.Average
	} else {
		verification.HallucinationCheck = &verdict.HallucinationCheck
		verification.QualityCheck = &verdict.QualityCheck
		semanticAverage := (verdict.SemanticConsistency.ContentRelevance +
			verdict.SemanticConsistency.FactualAccuracy +
			verdict.SemanticConsistency.ContextAlignment) / 3
		verification.SemanticConsistency = &quizModel.SemanticConsistency{
			ContentRelevance: verdict.SemanticConsistency.ContentRelevance,
			FactualAccuracy:  verdict.SemanticConsistency.FactualAccuracy,
			ContextAlignment: verdict.SemanticConsistency.ContextAlignment,
			AverageScore:     semanticAverage,
		}

		judgeScore := hallucinationWeight*hallucinationScore(verdict.HallucinationCheck.Result) +
			qualityWeight*qualityScore(verdict.QualityCheck.Rating) +
			semanticWeight*semanticAverage
		verification.TotalScore = judgeWeight*judgeScore + embeddingWeight*verification.EmbeddingSimilarity.Average
	}

	if !supported {
		verification.TotalScore -= config.NoSupportPenalty
	}
	verification.TotalScore = clamp01(verification.TotalScore)
	verification.IsValid = verification.TotalScore >= config.AcceptThreshold
	return verification
}

// gatherSupport re-queries the index with the question and answer, replaces
// the generation-time chunk refs with the retrieved ones, and reports whether
// any retrieved chunk clears the relevance floor.
func (v *Verifier) gatherSupport(ctx context.Context, index *retriever.Index, question *quizModel.Question) (string, bool) {
	matches, err := index.Query(ctx, question.Question+" "+question.CorrectAnswer, config.RetrievalTopK)
	if err != nil || len(matches) == 0 {
		// Fall back to the chunks the question was generated from.
		if err != nil {
			v.logger.Warn("Support retrieval failed", "error", err)
		}
		return v.materialFromRefs(index, question.SupportingChunks), len(question.SupportingChunks) > 0
	}

	refs := make([]quizModel.ChunkRef, 0, len(matches))
	parts := make([]string, 0, len(matches))
	supported := false
	for _, match := range matches {
		refs = append(refs, quizModel.ChunkRef{
			ChunkId:   match.Chunk.ChunkId,
			Position:  match.Chunk.Position,
			Relevance: match.Score,
		})
		parts = append(parts, match.Chunk.Chunk)
		if match.Score >= config.MinChunkRelevance {
			supported = true
		}
	}
	question.SupportingChunks = refs
	return strings.Join(parts, "\n\n"), supported
}

func (v *Verifier) materialFromRefs(index *retriever.Index, refs []quizModel.ChunkRef) string {
	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Position < index.Len() {
			parts = append(parts, index.ChunkAt(ref.Position).Chunk)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ApplyPolicy removes questions that failed verification when the policy is
// "drop"; under "flag" everything is kept with its verification attached.
func ApplyPolicy(policy string, questions []quizModel.Question) []quizModel.Question {
	if policy != config.VerifyPolicyDrop {
		return questions
	}
	kept := make([]quizModel.Question, 0, len(questions))
	for _, question := range questions {
		if question.Verification == nil || question.Verification.IsValid {
			kept = append(kept, question)
		} else {
			metrics.CountQuestionOutcome("invalid")
		}
	}
	return kept
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
