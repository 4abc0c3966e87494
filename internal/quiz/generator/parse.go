package generator

import (
	"encoding/json"
	"strings"

	"github.com/nchandra/eduquest/internal/domain/quizModel"
)

// StripCodeFence removes a leading/trailing markdown fence the model may wrap
// its JSON in, including a language tag on the opening fence.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.Index(trimmed, "\n"); newline >= 0 {
		firstLine := strings.TrimSpace(trimmed[:newline])
		// a bare language tag like "json" sits alone on the fence line
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[") {
			trimmed = trimmed[newline+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func parseQuestion(questionType quizModel.QuestionType, rawOutput string) (quizModel.Question, error) {
	cleaned := StripCodeFence(rawOutput)

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return quizModel.Question{}, &quizModel.MalformedOutputError{
			Reason: "response is not valid JSON: " + err.Error(),
			Raw:    rawOutput,
		}
	}

	if err := validateShape(questionType, parsed); err != nil {
		return quizModel.Question{}, &quizModel.MalformedOutputError{
			Reason: "response does not match the required shape: " + err.Error(),
			Raw:    rawOutput,
		}
	}

	var question quizModel.Question
	if err := json.Unmarshal([]byte(cleaned), &question); err != nil {
		return quizModel.Question{}, &quizModel.MalformedOutputError{
			Reason: "response fields have wrong types: " + err.Error(),
			Raw:    rawOutput,
		}
	}
	question.QuestionType = questionType
	question.Question = strings.TrimSpace(question.Question)
	question.CorrectAnswer = strings.TrimSpace(question.CorrectAnswer)
	question.Explanation = strings.TrimSpace(question.Explanation)
	for i, option := range question.Options {
		question.Options[i] = strings.TrimSpace(option)
	}

	if questionType == quizModel.MultipleChoice && !containsAnswer(question.Options, question.CorrectAnswer) {
		return quizModel.Question{}, &quizModel.MalformedOutputError{
			Reason: "correct_answer is not one of the options",
			Raw:    rawOutput,
		}
	}
	return question, nil
}

func containsAnswer(options []string, answer string) bool {
	for _, option := range options {
		if strings.EqualFold(option, answer) {
			return true
		}
	}
	return false
}
