package quizModel

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
)

func (t QuestionType) IsValid() bool {
	return t == MultipleChoice || t == ShortAnswer
}

// Question is one generated assessment item. The generator creates it,
// the verifier attaches Verification and SupportingChunks, nothing mutates
// it after that.
type Question struct {
	Question      string        `json:"question"`
	Options       []string      `json:"options"`
	CorrectAnswer string        `json:"correct_answer"`
	Explanation   string        `json:"explanation"`
	QuestionType  QuestionType  `json:"question_type"`

	SupportingChunks []ChunkRef    `json:"supporting_chunks,omitempty"`
	Verification     *Verification `json:"verification,omitempty"`
}

// ChunkRef points at a source chunk that supports a question.
type ChunkRef struct {
	ChunkId   string  `json:"chunk_id"`
	Position  int     `json:"chunk_order"`
	Relevance float64 `json:"relevance"`
}

// Verification mirrors the scoring dimensions the judge model reports plus
// the embedding similarities computed against the retrieved chunks.
type Verification struct {
	EmbeddingSimilarity EmbeddingSimilarity  `json:"embedding_similarity"`
	HallucinationCheck  *HallucinationCheck  `json:"hallucination_check,omitempty"`
	QualityCheck        *QualityCheck        `json:"quality_check,omitempty"`
	SemanticConsistency *SemanticConsistency `json:"semantic_consistency,omitempty"`
	TotalScore          float64              `json:"total_score"`
	IsValid             bool                 `json:"is_valid"`
	Error               string               `json:"error,omitempty"`
}

type EmbeddingSimilarity struct {
	Question    float64 `json:"question"`
	Answer      float64 `json:"answer"`
	Explanation float64 `json:"explanation"`
	Average     float64 `json:"average"`
}

type HallucinationCheck struct {
	Result      string `json:"result"` //"Y" grounded, "N" hallucinated
	Evidence    string `json:"evidence"`
	Explanation string `json:"explanation"`
}

type QualityCheck struct {
	Rating    string `json:"rating"` //excellent, adequate, poor
	Reasoning string `json:"reasoning"`
}

type SemanticConsistency struct {
	ContentRelevance float64 `json:"content_relevance"`
	FactualAccuracy  float64 `json:"factual_accuracy"`
	ContextAlignment float64 `json:"context_alignment"`
	AverageScore     float64 `json:"average_score"`
}

// AnswerSubmission is caller supplied and only lives for one grading call.
type AnswerSubmission struct {
	Question      string       `json:"question"`
	UserAnswer    string       `json:"user_answer"`
	CorrectAnswer string       `json:"correct_answer"`
	QuestionType  QuestionType `json:"question_type"`
}

type GradingResult struct {
	Question      string   `json:"question"`
	UserAnswer    string   `json:"user_answer"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
	Score         float64  `json:"score"`
	Similarity    *float64 `json:"similarity,omitempty"` //short answers only
	Feedback      string   `json:"feedback"`
}

type GradingReport struct {
	Answers         []GradingResult `json:"answers"`
	TotalScore      float64         `json:"total_score"`
	TotalQuestions  int             `json:"total_questions"`
	Percentage      float64         `json:"percentage"`
	OverallFeedback string          `json:"overall_feedback"`
}
