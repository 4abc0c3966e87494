package adapter

import (
	"github.com/nchandra/eduquest/internal/api"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/quiz/extract"
)

func ToUploadResponse(extraction extract.Extraction) api.UploadResponse {
	return api.UploadResponse{
		Success:   true,
		Text:      extraction.Text,
		PageCount: extraction.PageCount,
	}
}

func ToGenerateResponse(questions []quizModel.Question) api.GenerateQuestionsResponse {
	out := make([]api.QuestionResponse, 0, len(questions))
	for _, question := range questions {
		response := api.QuestionResponse{
			Question:         question.Question,
			Options:          question.Options,
			CorrectAnswer:    question.CorrectAnswer,
			Explanation:      question.Explanation,
			QuestionType:     string(question.QuestionType),
			SupportingChunks: toChunkRefs(question.SupportingChunks),
			Verification:     toVerificationResponse(question.Verification),
		}
		out = append(out, response)
	}
	return api.GenerateQuestionsResponse{Questions: out, Count: len(out)}
}

func toChunkRefs(refs []quizModel.ChunkRef) []api.ChunkRefResponse {
	if len(refs) == 0 {
		return nil
	}
	out := make([]api.ChunkRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, api.ChunkRefResponse{
			ChunkId:   ref.ChunkId,
			Position:  ref.Position,
			Relevance: ref.Relevance,
		})
	}
	return out
}

func toVerificationResponse(verification *quizModel.Verification) *api.VerificationResponse {
	if verification == nil {
		return nil
	}
	response := &api.VerificationResponse{
		EmbeddingSimilarity: api.EmbeddingSimilarityResponse{
			Question:    verification.EmbeddingSimilarity.Question,
			Answer:      verification.EmbeddingSimilarity.Answer,
			Explanation: verification.EmbeddingSimilarity.Explanation,
			Average:     verification.EmbeddingSimilarity.Average,
		},
		TotalScore: verification.TotalScore,
		IsValid:    verification.IsValid,
		Error:      verification.Error,
	}
	if check := verification.HallucinationCheck; check != nil {
		response.HallucinationCheck = &api.HallucinationCheckResponse{
			Result:      check.Result,
			Evidence:    check.Evidence,
			Explanation: check.Explanation,
		}
	}
	if check := verification.QualityCheck; check != nil {
		response.QualityCheck = &api.QualityCheckResponse{
			Rating:    check.Rating,
			Reasoning: check.Reasoning,
		}
	}
	if consistency := verification.SemanticConsistency; consistency != nil {
		response.SemanticConsistency = &api.SemanticConsistencyResponse{
			ContentRelevance: consistency.ContentRelevance,
			FactualAccuracy:  consistency.FactualAccuracy,
			ContextAlignment: consistency.ContextAlignment,
			AverageScore:     consistency.AverageScore,
		}
	}
	return response
}

func ToQuestionTypes(names []string) []quizModel.QuestionType {
	types := make([]quizModel.QuestionType, 0, len(names))
	for _, name := range names {
		types = append(types, quizModel.QuestionType(name))
	}
	return types
}

func ToSubmissions(request api.CheckAnswersRequest) []quizModel.AnswerSubmission {
	submissions := make([]quizModel.AnswerSubmission, 0, len(request.Answers))
	for _, answer := range request.Answers {
		submissions = append(submissions, quizModel.AnswerSubmission{
			Question:      answer.Question,
			UserAnswer:    answer.UserAnswer,
			CorrectAnswer: answer.CorrectAnswer,
			QuestionType:  quizModel.QuestionType(answer.QuestionType),
		})
	}
	return submissions
}

func ToCheckAnswersResponse(report *quizModel.GradingReport) api.CheckAnswersResponse {
	answers := make([]api.AnswerResult, 0, len(report.Answers))
	for _, result := range report.Answers {
		answers = append(answers, api.AnswerResult{
			Question:      result.Question,
			UserAnswer:    result.UserAnswer,
			CorrectAnswer: result.CorrectAnswer,
			IsCorrect:     result.IsCorrect,
			Score:         result.Score,
			Similarity:    result.Similarity,
			Feedback:      result.Feedback,
		})
	}
	return api.CheckAnswersResponse{
		Answers:         answers,
		TotalScore:      report.TotalScore,
		TotalQuestions:  report.TotalQuestions,
		Percentage:      report.Percentage,
		OverallFeedback: report.OverallFeedback,
	}
}

func BadRequest(message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Error: api.OutgoingError{
			Code:    code,
			Message: message,
			Retry:   false,
		},
	}
}

func RetryableError(message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Error: api.OutgoingError{
			Code:    code,
			Message: message,
			Retry:   true,
		},
	}
}
