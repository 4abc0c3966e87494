package grader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/metrics"
)

const feedbackInstruction = `You are an encouraging tutor. You write short, specific feedback
for quiz answers: one or two sentences, no headings, no JSON.`

// itemFeedback explains a wrong or partially right answer. Correct answers
// get a fixed line; the model is only consulted when there is something to
// explain, and any model failure falls back to a static template.
func (g *Grader) itemFeedback(ctx context.Context, submission quizModel.AnswerSubmission, score float64) string {
	if score >= 1 {
		return "Correct! Well done."
	}

	prompt := fmt.Sprintf(`Question: %s
The student answered: %s
The correct answer is: %s

Briefly explain why the correct answer is right. Address the student directly.`,
		submission.Question, submission.UserAnswer, submission.CorrectAnswer)

	start := time.Now()
	feedback, err := g.provider.Generate(ctx, feedbackInstruction, prompt)
	metrics.CaptureExecutionMetrics("llm_feedback", time.Since(start))
	if err != nil {
		g.logger.Debug("Feedback generation failed, using fallback", "error", err)
		if score > 0 {
			return fmt.Sprintf("Close! The expected answer was %q.", submission.CorrectAnswer)
		}
		return fmt.Sprintf("Not quite. The correct answer is %q.", submission.CorrectAnswer)
	}
	return strings.TrimSpace(feedback)
}

func (g *Grader) overallFeedback(ctx context.Context, report *quizModel.GradingReport) string {
	missed := make([]string, 0)
	for _, answer := range report.Answers {
		if !answer.IsCorrect {
			missed = append(missed, answer.Question)
		}
	}

	prompt := fmt.Sprintf(`A student scored %.1f%% on a %d-question quiz (%.1f points).
Questions they missed:
%s

Write two or three sentences of overall feedback: acknowledge what went well and suggest what to review.`,
		report.Percentage, report.TotalQuestions, report.TotalScore, missedList(missed))

	start := time.Now()
	feedback, err := g.provider.Generate(ctx, feedbackInstruction, prompt)
	metrics.CaptureExecutionMetrics("llm_feedback", time.Since(start))
	if err != nil {
		g.logger.Debug("Overall feedback generation failed, using fallback", "error", err)
		return fallbackOverallFeedback(report.Percentage)
	}
	return strings.TrimSpace(feedback)
}

func missedList(missed []string) string {
	if len(missed) == 0 {
		return "(none)"
	}
	return "- " + strings.Join(missed, "\n- ")
}

func fallbackOverallFeedback(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Excellent work! You have a strong grasp of this material."
	case percentage >= 70:
		return "Good job! Review the questions you missed to solidify your understanding."
	case percentage >= 50:
		return "Decent effort. Going over the material again should help close the gaps."
	default:
		return "Keep at it. Re-reading the material and retrying the quiz will help."
	}
}
