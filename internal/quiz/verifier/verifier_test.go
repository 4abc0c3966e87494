package verifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nchandra/eduquest/internal/config"
	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/quiz/retriever"
	"github.com/nchandra/eduquest/internal/rag/vectorDB/memoryDB"
)

const groundedVerdict = `{
  "hallucination_check": {"result": "Y", "evidence": "cats purr when they are content", "explanation": "Directly stated."},
  "quality_check": {"rating": "excellent", "reasoning": "Clear and answerable."},
  "semantic_consistency": {"content_relevance": 0.9, "factual_accuracy": 0.9, "context_alignment": 0.9}
}`

const hallucinatedVerdict = `{
  "hallucination_check": {"result": "N", "evidence": "", "explanation": "The material never mentions this."},
  "quality_check": {"rating": "poor", "reasoning": "Unsupported claim."},
  "semantic_consistency": {"content_relevance": 0.2, "factual_accuracy": 0.1, "context_alignment": 0.2}
}`

type stubProvider struct {
	output string
	err    error
}

func (p *stubProvider) Generate(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return p.output, p.err
}

type unitEmbedder struct{}

func (e *unitEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (e *unitEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func verifierIndex(t *testing.T) *retriever.Index {
	t.Helper()
	chunks := []commonModels.DocChunk{
		{ChunkId: "c0", Chunk: "cats purr when they are content", Position: 0},
		{ChunkId: "c1", Chunk: "dogs bark at strangers", Position: 1},
	}
	builder := retriever.NewBuilder(memoryDB.NewStore(), &unitEmbedder{})
	index, err := builder.Build(context.Background(), "verify_test", chunks)
	require.NoError(t, err)
	return index
}

func sampleQuestion() quizModel.Question {
	return quizModel.Question{
		Question:      "What do cats do when content?",
		CorrectAnswer: "Purr",
		Explanation:   "The material says cats purr when content.",
		QuestionType:  quizModel.ShortAnswer,
	}
}

func TestVerifyGroundedQuestionPasses(t *testing.T) {
	v := NewVerifier(&stubProvider{output: groundedVerdict}, &unitEmbedder{})

	questions := v.Verify(context.Background(), verifierIndex(t), []quizModel.Question{sampleQuestion()})
	require.Len(t, questions, 1)

	verification := questions[0].Verification
	require.NotNil(t, verification)
	assert.True(t, verification.IsValid)
	assert.GreaterOrEqual(t, verification.TotalScore, config.AcceptThreshold)
	assert.LessOrEqual(t, verification.TotalScore, 1.0)
	assert.Equal(t, "Y", verification.HallucinationCheck.Result)
	assert.Equal(t, "excellent", verification.QualityCheck.Rating)
	assert.InDelta(t, 0.9, verification.SemanticConsistency.AverageScore, 1e-9)
	assert.NotEmpty(t, questions[0].SupportingChunks, "support refs should be re-resolved")
}

func TestVerifyHallucinatedQuestionFails(t *testing.T) {
	v := NewVerifier(&stubProvider{output: hallucinatedVerdict}, &unitEmbedder{})

	questions := v.Verify(context.Background(), verifierIndex(t), []quizModel.Question{sampleQuestion()})
	require.Len(t, questions, 1)

	verification := questions[0].Verification
	require.NotNil(t, verification)
	assert.False(t, verification.IsValid)
	assert.Less(t, verification.TotalScore, config.AcceptThreshold)
}

func TestVerifyJudgeFailureFallsBackToEmbedding(t *testing.T) {
	v := NewVerifier(&stubProvider{err: errors.New("model offline")}, &unitEmbedder{})

	questions := v.Verify(context.Background(), verifierIndex(t), []quizModel.Question{sampleQuestion()})
	require.Len(t, questions, 1)

	verification := questions[0].Verification
	require.NotNil(t, verification)
	assert.NotEmpty(t, verification.Error)
	assert.Nil(t, verification.HallucinationCheck)
	// The unit embedder makes every similarity 1, so the fallback score is
	// the embedding average with no support penalty applied.
	assert.InDelta(t, verification.EmbeddingSimilarity.Average, verification.TotalScore, 1e-9)
}

func TestVerifyScoresAreClamped(t *testing.T) {
	v := NewVerifier(&stubProvider{output: hallucinatedVerdict}, &unitEmbedder{})

	questions := v.Verify(context.Background(), verifierIndex(t), []quizModel.Question{sampleQuestion()})
	require.Len(t, questions, 1)
	score := questions[0].Verification.TotalScore
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestQualityScoreMapping(t *testing.T) {
	assert.Equal(t, 1.0, qualityScore("excellent"))
	assert.Equal(t, 0.7, qualityScore("Adequate"))
	assert.Equal(t, 0.3, qualityScore("poor"))
	assert.Equal(t, 0.3, qualityScore("nonsense"))
}

func TestHallucinationScoreMapping(t *testing.T) {
	assert.Equal(t, 1.0, hallucinationScore("Y"))
	assert.Equal(t, 1.0, hallucinationScore(" y "))
	assert.Equal(t, 0.0, hallucinationScore("N"))
	assert.Equal(t, 0.0, hallucinationScore(""))
}

func TestApplyPolicyDropRemovesInvalid(t *testing.T) {
	questions := []quizModel.Question{
		{Question: "good", Verification: &quizModel.Verification{IsValid: true}},
		{Question: "bad", Verification: &quizModel.Verification{IsValid: false}},
		{Question: "unverified"},
	}

	kept := ApplyPolicy(config.VerifyPolicyDrop, questions)
	require.Len(t, kept, 2)
	assert.Equal(t, "good", kept[0].Question)
	assert.Equal(t, "unverified", kept[1].Question)
}

func TestApplyPolicyFlagKeepsEverything(t *testing.T) {
	questions := []quizModel.Question{
		{Question: "good", Verification: &quizModel.Verification{IsValid: true}},
		{Question: "bad", Verification: &quizModel.Verification{IsValid: false}},
	}

	kept := ApplyPolicy(config.VerifyPolicyFlag, questions)
	assert.Len(t, kept, 2)
}
