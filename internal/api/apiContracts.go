package api

type UploadResponse struct {
	Success   bool   `json:"success" example:"true"`
	Text      string `json:"text"`
	PageCount int    `json:"page_count" example:"12"`
}

type GenerateQuestionsRequest struct {
	Content       string   `json:"content" validate:"required"`
	NumQuestions  int      `json:"num_questions" example:"5"`
	QuestionTypes []string `json:"question_types,omitempty" example:"multiple_choice,short_answer"`
}

type QuestionResponse struct {
	Question         string                `json:"question"`
	Options          []string              `json:"options,omitempty"`
	CorrectAnswer    string                `json:"correct_answer"`
	Explanation      string                `json:"explanation"`
	QuestionType     string                `json:"question_type" example:"multiple_choice"`
	SupportingChunks []ChunkRefResponse    `json:"supporting_chunks,omitempty"`
	Verification     *VerificationResponse `json:"verification,omitempty"`
}

type ChunkRefResponse struct {
	ChunkId   string  `json:"chunk_id"`
	Position  int     `json:"chunk_order"`
	Relevance float64 `json:"relevance" example:"0.71"`
}

type VerificationResponse struct {
	EmbeddingSimilarity EmbeddingSimilarityResponse  `json:"embedding_similarity"`
	HallucinationCheck  *HallucinationCheckResponse  `json:"hallucination_check,omitempty"`
	QualityCheck        *QualityCheckResponse        `json:"quality_check,omitempty"`
	SemanticConsistency *SemanticConsistencyResponse `json:"semantic_consistency,omitempty"`
	TotalScore          float64                      `json:"total_score" example:"0.84"`
	IsValid             bool                         `json:"is_valid" example:"true"`
	Error               string                       `json:"error,omitempty"`
}

type EmbeddingSimilarityResponse struct {
	Question    float64 `json:"question" example:"0.88"`
	Answer      float64 `json:"answer" example:"0.81"`
	Explanation float64 `json:"explanation" example:"0.85"`
	Average     float64 `json:"average" example:"0.85"`
}

type HallucinationCheckResponse struct {
	Result      string `json:"result" example:"Y"`
	Evidence    string `json:"evidence"`
	Explanation string `json:"explanation"`
}

type QualityCheckResponse struct {
	Rating    string `json:"rating" example:"excellent"`
	Reasoning string `json:"reasoning"`
}

type SemanticConsistencyResponse struct {
	ContentRelevance float64 `json:"content_relevance" example:"0.9"`
	FactualAccuracy  float64 `json:"factual_accuracy" example:"0.9"`
	ContextAlignment float64 `json:"context_alignment" example:"0.9"`
	AverageScore     float64 `json:"average_score" example:"0.9"`
}

type GenerateQuestionsResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Count     int                `json:"count" example:"5"`
}

type SubmittedAnswer struct {
	Question      string `json:"question" validate:"required"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer" validate:"required"`
	QuestionType  string `json:"question_type" example:"short_answer"`
}

type CheckAnswersRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"required"`
}

type AnswerResult struct {
	Question      string   `json:"question"`
	UserAnswer    string   `json:"user_answer"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
	Score         float64  `json:"score" example:"0.5"`
	Similarity    *float64 `json:"similarity,omitempty" example:"0.72"`
	Feedback      string   `json:"feedback"`
}

type CheckAnswersResponse struct {
	Answers         []AnswerResult `json:"answers"`
	TotalScore      float64        `json:"total_score" example:"4"`
	TotalQuestions  int            `json:"total_questions" example:"5"`
	Percentage      float64        `json:"percentage" example:"80"`
	OverallFeedback string         `json:"overall_feedback"`
}

type ErrorResponse struct {
	Error OutgoingError `json:"error"`
}

type OutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"content is required"`
	Retry   bool   `json:"can_retry" example:"false"`
}
