package generator

import (
	"fmt"

	"github.com/nchandra/eduquest/internal/domain/quizModel"
)

const systemInstruction = `You are a quiz author. You write exam questions that are answerable
strictly from the study material given to you. Never use outside knowledge and never invent
facts that are not in the material. You respond with a single JSON object and nothing else:
no markdown fences, no commentary.`

const multipleChoiceFormat = `Return a JSON object with exactly these keys:
{
  "question": "the question text",
  "options": ["option A", "option B", "option C", "option D"],
  "correct_answer": "the correct option, copied verbatim from options",
  "explanation": "one or two sentences citing the material"
}
There must be exactly 4 options and correct_answer must match one of them exactly.`

const shortAnswerFormat = `Return a JSON object with exactly these keys:
{
  "question": "the question text",
  "correct_answer": "a 1-3 word answer",
  "explanation": "one or two sentences citing the material"
}
Do not include an options key.`

func buildPrompt(questionType quizModel.QuestionType, material string) string {
	format := shortAnswerFormat
	kind := "short-answer question with a concise 1-3 word answer"
	if questionType == quizModel.MultipleChoice {
		format = multipleChoiceFormat
		kind = "multiple-choice question with 4 options"
	}
	return fmt.Sprintf(`Study material:
---
%s
---

Write one %s based only on the study material above.

%s`, material, kind, format)
}

// correctivePrompt feeds the model its own rejected output so the retry can
// fix the formatting instead of regenerating blind.
func correctivePrompt(base string, raw string, reason string) string {
	return fmt.Sprintf(`%s

Your previous response was rejected: %s

Previous response:
%s

Respond again with only the corrected JSON object.`, base, reason, raw)
}
