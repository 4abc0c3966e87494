package grader

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/nchandra/eduquest/internal/config"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/metrics"
	"github.com/nchandra/eduquest/internal/quiz/retriever"
	"github.com/nchandra/eduquest/internal/rag/embedding"
	"github.com/nchandra/eduquest/internal/rag/llm"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

// Grader scores submitted answers. Multiple choice is exact match after
// normalization; short answers earn full or partial credit from semantic
// similarity against the expected answer.
type Grader struct {
	provider llm.Provider
	embedder embedding.Embedder
	sem      chan struct{}
	logger   *logger_i.Logger
}

func NewGrader(provider llm.Provider, embedder embedding.Embedder) *Grader {
	return &Grader{
		provider: provider,
		embedder: embedder,
		sem:      make(chan struct{}, config.MaxConcurrentModelCalls),
		logger:   logger_i.NewLogger("Grader"),
	}
}

// Grade scores every submission and aggregates the report. Results keep
// submission order. Grading is deterministic for a fixed embedder; only the
// feedback text comes from the model.
func (g *Grader) Grade(ctx context.Context, submissions []quizModel.AnswerSubmission) (*quizModel.GradingReport, error) {
	if len(submissions) == 0 {
		return nil, quizModel.ErrEmptySubmission
	}

	results := make([]quizModel.GradingResult, len(submissions))
	var wg sync.WaitGroup
	for i, submission := range submissions {
		wg.Add(1)
		go func(i int, submission quizModel.AnswerSubmission) {
			defer wg.Done()

			select {
			case g.sem <- struct{}{}:
				defer func() { <-g.sem }()
			case <-ctx.Done():
				results[i] = g.scoreOnly(ctx, submission)
				return
			}

			result := g.scoreOnly(ctx, submission)
			result.Feedback = g.itemFeedback(ctx, submission, result.Score)
			results[i] = result
		}(i, submission)
	}
	wg.Wait()

	report := &quizModel.GradingReport{
		Answers:        results,
		TotalQuestions: len(results),
	}
	for _, result := range results {
		report.TotalScore += result.Score
		metrics.ObserveGradingScore(result.Score)
	}
	report.Percentage = roundToTenth(report.TotalScore / float64(report.TotalQuestions) * 100)
	report.OverallFeedback = g.overallFeedback(ctx, report)
	return report, nil
}

func (g *Grader) scoreOnly(ctx context.Context, submission quizModel.AnswerSubmission) quizModel.GradingResult {
	result := quizModel.GradingResult{
		Question:      submission.Question,
		UserAnswer:    submission.UserAnswer,
		CorrectAnswer: submission.CorrectAnswer,
	}

	if submission.QuestionType == quizModel.ShortAnswer {
		score, similarity := g.scoreShortAnswer(ctx, submission.UserAnswer, submission.CorrectAnswer)
		result.Score = score
		result.Similarity = &similarity
	} else if Normalize(submission.UserAnswer) == Normalize(submission.CorrectAnswer) {
		result.Score = 1
	}

	result.IsCorrect = result.Score >= config.CorrectScoreThreshold
	return result
}

// scoreShortAnswer grades on semantic similarity with two credit tiers.
// Exact normalized matches skip the embedder entirely.
func (g *Grader) scoreShortAnswer(ctx context.Context, userAnswer, correctAnswer string) (score float64, similarity float64) {
	if Normalize(userAnswer) == Normalize(correctAnswer) {
		return 1, 1
	}
	if Normalize(userAnswer) == "" {
		return 0, 0
	}

	similarity = g.answerSimilarity(ctx, userAnswer, correctAnswer)
	switch {
	case similarity >= config.FullCreditSimilarity:
		score = 1
	case similarity >= config.PartialCreditSimilarity:
		score = 0.5
	}
	return score, similarity
}

func (g *Grader) answerSimilarity(ctx context.Context, userAnswer, correctAnswer string) float64 {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	vectors, err := g.embedder.BatchEmbedding(ctx, []string{Normalize(userAnswer), Normalize(correctAnswer)})
	if err != nil || len(vectors) != 2 {
		// Lexical overlap is a weaker but always-available signal.
		return retriever.TokenOverlap(Normalize(userAnswer), Normalize(correctAnswer))
	}
	return cosineSimilarity(vectors[0], vectors[1])
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

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
