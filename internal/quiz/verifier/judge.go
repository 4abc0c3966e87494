package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/metrics"
	"github.com/nchandra/eduquest/internal/quiz/generator"
)

const judgeInstruction = `You are a strict fact checker for quiz questions. You compare a
generated question against source material and judge whether it is grounded. You respond
with a single JSON object and nothing else.`

const judgeFormat = `Return a JSON object with exactly these keys:
{
  "hallucination_check": {"result": "Y or N", "evidence": "quote from the material", "explanation": "..."},
  "quality_check": {"rating": "excellent, adequate or poor", "reasoning": "..."},
  "semantic_consistency": {"content_relevance": 0.0, "factual_accuracy": 0.0, "context_alignment": 0.0}
}
result is "Y" when the question and answer are fully supported by the material, "N" otherwise.
The three semantic_consistency values are each between 0.0 and 1.0.`

type judgeVerdict struct {
	HallucinationCheck  quizModel.HallucinationCheck `json:"hallucination_check"`
	QualityCheck        quizModel.QualityCheck       `json:"quality_check"`
	SemanticConsistency semanticScores               `json:"semantic_consistency"`
}

type semanticScores struct {
	ContentRelevance float64 `json:"content_relevance"`
	FactualAccuracy  float64 `json:"factual_accuracy"`
	ContextAlignment float64 `json:"context_alignment"`
}

func (v *Verifier) judge(ctx context.Context, question quizModel.Question, material string) (*judgeVerdict, error) {
	prompt := fmt.Sprintf(`Source material:
---
%s
---

Question: %s
Correct answer: %s
Explanation: %s

Judge whether this question is grounded in the source material.

%s`, material, question.Question, question.CorrectAnswer, question.Explanation, judgeFormat)

	start := time.Now()
	rawOutput, err := v.provider.Generate(ctx, judgeInstruction, prompt)
	metrics.CaptureExecutionMetrics("llm_judge", time.Since(start))
	if err != nil {
		return nil, err
	}

	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(generator.StripCodeFence(rawOutput)), &verdict); err != nil {
		return nil, fmt.Errorf("parsing judge output: %w", err)
	}
	return &verdict, nil
}

func hallucinationScore(result string) float64 {
	if strings.EqualFold(strings.TrimSpace(result), "Y") {
		return 1
	}
	return 0
}

func qualityScore(rating string) float64 {
	switch strings.ToLower(strings.TrimSpace(rating)) {
	case "excellent":
		return 1.0
	case "adequate":
		return 0.7
	default:
		return 0.3
	}
}
