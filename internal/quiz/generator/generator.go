package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nchandra/eduquest/internal/config"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/metrics"
	"github.com/nchandra/eduquest/internal/quiz/retriever"
	"github.com/nchandra/eduquest/internal/rag/llm"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

// Generator turns an indexed document into quiz questions. Each requested
// question is one slot: a (type, chunk) pair generated independently under a
// shared concurrency cap.
type Generator struct {
	provider llm.Provider
	sem      chan struct{}
	logger   *logger_i.Logger
}

func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{
		provider: provider,
		sem:      make(chan struct{}, config.MaxConcurrentModelCalls),
		logger:   logger_i.NewLogger("Generator"),
	}
}

type slotResult struct {
	question quizModel.Question
	ok       bool
	fatal    error
}

// Generate produces up to numQuestions questions. Types rotate across slots
// and chunks rotate round-robin so questions spread over the document.
// A slot whose output stays malformed after the retry budget is dropped; the
// call fails outright only when the provider is unavailable or nothing at all
// could be produced.
func (g *Generator) Generate(ctx context.Context, index *retriever.Index, numQuestions int, questionTypes []quizModel.QuestionType) ([]quizModel.Question, error) {
	if index == nil || index.Len() == 0 {
		return nil, quizModel.ErrIndexNotBuilt
	}
	if len(questionTypes) == 0 {
		questionTypes = []quizModel.QuestionType{quizModel.MultipleChoice, quizModel.ShortAnswer}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]slotResult, numQuestions)
	var wg sync.WaitGroup
	for slot := 0; slot < numQuestions; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()

			select {
			case g.sem <- struct{}{}:
				defer func() { <-g.sem }()
			case <-ctx.Done():
				results[slot] = slotResult{fatal: ctx.Err()}
				return
			}

			questionType := questionTypes[slot%len(questionTypes)]
			chunk := index.ChunkAt(slot)
			question, err := g.generateOne(ctx, questionType, chunk.Chunk)
			if err == nil {
				question.SupportingChunks = []quizModel.ChunkRef{
					{ChunkId: chunk.ChunkId, Position: chunk.Position, Relevance: 1},
				}
				results[slot] = slotResult{question: question, ok: true}
				metrics.CountQuestionOutcome("ok")
				return
			}

			var malformed *quizModel.MalformedOutputError
			if errors.As(err, &malformed) {
				// Retries exhausted on bad output; drop this slot and keep the rest.
				g.logger.Warn("Dropping question slot", "slot", slot, "reason", malformed.Reason)
				metrics.CountQuestionOutcome("dropped")
				return
			}

			results[slot] = slotResult{fatal: err}
			cancel()
		}(slot)
	}
	wg.Wait()

	questions := make([]quizModel.Question, 0, numQuestions)
	for _, result := range results {
		if result.fatal != nil && !errors.Is(result.fatal, context.Canceled) {
			return nil, result.fatal
		}
		if result.ok {
			questions = append(questions, result.question)
		}
	}
	if len(questions) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, &quizModel.MalformedOutputError{Reason: "every generated question was malformed"}
	}
	return questions, nil
}

func (g *Generator) generateOne(ctx context.Context, questionType quizModel.QuestionType, material string) (quizModel.Question, error) {
	basePrompt := buildPrompt(questionType, material)
	prompt := basePrompt

	var lastErr error
	for attempt := 0; attempt <= config.GenerationRetryBound; attempt++ {
		start := time.Now()
		rawOutput, err := g.provider.Generate(ctx, systemInstruction, prompt)
		metrics.CaptureExecutionMetrics("llm_generate", time.Since(start))
		if err != nil {
			return quizModel.Question{}, fmt.Errorf("generating %s question: %w", questionType, err)
		}

		question, parseErr := parseQuestion(questionType, rawOutput)
		if parseErr == nil {
			return question, nil
		}
		lastErr = parseErr

		var malformed *quizModel.MalformedOutputError
		if errors.As(parseErr, &malformed) {
			g.logger.Debug("Malformed model output, retrying", "attempt", attempt, "reason", malformed.Reason)
			prompt = correctivePrompt(basePrompt, malformed.Raw, malformed.Reason)
			continue
		}
		return quizModel.Question{}, parseErr
	}
	return quizModel.Question{}, lastErr
}
