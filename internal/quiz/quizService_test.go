package quiz_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/domain/sessionModel"
	"github.com/nchandra/eduquest/internal/quiz"
	"github.com/nchandra/eduquest/internal/rag/vectorDB"
	"github.com/nchandra/eduquest/internal/rag/vectorDB/memoryDB"
)

const sampleContent = `Photosynthesis is the process plants use to convert light into chemical energy.
It takes place in the chloroplasts of plant cells.

Plants absorb carbon dioxide from the air and water from the soil.
The light reactions produce oxygen as a byproduct.`

// routingProvider answers whichever kind of prompt it receives, so one stub
// serves generation, verification and feedback.
type routingProvider struct{}

func (p *routingProvider) Generate(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Judge whether"):
		return `{
  "hallucination_check": {"result": "Y", "evidence": "plants use light", "explanation": "Supported."},
  "quality_check": {"rating": "excellent", "reasoning": "Clear."},
  "semantic_consistency": {"content_relevance": 0.9, "factual_accuracy": 0.9, "context_alignment": 0.9}
}`, nil
	case strings.Contains(prompt, "multiple-choice"):
		return `{
  "question": "What do plants convert light into?",
  "options": ["Chemical energy", "Sound", "Plastic", "Heat only"],
  "correct_answer": "Chemical energy",
  "explanation": "Photosynthesis converts light into chemical energy."
}`, nil
	case strings.Contains(prompt, "short-answer"):
		return `{
  "question": "Where does photosynthesis take place?",
  "correct_answer": "chloroplasts",
  "explanation": "The material names the chloroplasts."
}`, nil
	default:
		return "Good effort overall.", nil
	}
}

type constantEmbedder struct{}

func (e *constantEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{1, 0.2}, nil
}

func (e *constantEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{1, 0.2}
	}
	return vectors, nil
}

// countingStore wraps the in-memory backend to observe index builds and the
// number of points each collection ends up holding.
type countingStore struct {
	inner           *memoryDB.Store
	collectionsMade int64

	mu     sync.Mutex
	points map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{inner: memoryDB.NewStore(), points: make(map[string]int)}
}

func (c *countingStore) CreateCollection(ctx context.Context, name string) error {
	atomic.AddInt64(&c.collectionsMade, 1)
	return c.inner.CreateCollection(ctx, name)
}

func (c *countingStore) DropCollection(ctx context.Context, name string) error {
	c.mu.Lock()
	delete(c.points, name)
	c.mu.Unlock()
	return c.inner.DropCollection(ctx, name)
}

func (c *countingStore) UpsertBatch(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	c.mu.Lock()
	c.points[name] += len(chunks)
	c.mu.Unlock()
	return c.inner.UpsertBatch(ctx, name, chunks, vectors)
}

func (c *countingStore) pointCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.points[name]
}

func (c *countingStore) Search(ctx context.Context, name string, vector []float32, limit uint64) ([]vectorDB.Hit, error) {
	return c.inner.Search(ctx, name, vector, limit)
}

// recordingSessionStore remembers what was saved.
type recordingSessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionModel.Session
	saves    int
}

func newRecordingSessionStore() *recordingSessionStore {
	return &recordingSessionStore{sessions: make(map[string]sessionModel.Session)}
}

func (r *recordingSessionStore) SaveSession(ctx context.Context, session sessionModel.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ContentHash] = session
	r.saves++
	return nil
}

func (r *recordingSessionStore) GetSession(ctx context.Context, contentHash string) (sessionModel.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, found := r.sessions[contentHash]
	return session, found
}

func (r *recordingSessionStore) DeleteSession(ctx context.Context, contentHash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, contentHash)
}

func newTestService(store *countingStore, sessions *recordingSessionStore) quiz.Service {
	return quiz.NewService(store, &routingProvider{}, &constantEmbedder{}, sessions)
}

func TestGenerateQuestionsValidation(t *testing.T) {
	service := newTestService(newCountingStore(), newRecordingSessionStore())
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		_, err := service.GenerateQuestions(ctx, "   ", 3, nil)
		assert.True(t, errors.Is(err, quizModel.ErrEmptyDocument))
	})

	t.Run("zero questions", func(t *testing.T) {
		_, err := service.GenerateQuestions(ctx, sampleContent, 0, nil)
		assert.Error(t, err)
	})

	t.Run("too many questions", func(t *testing.T) {
		_, err := service.GenerateQuestions(ctx, sampleContent, 11, nil)
		assert.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := service.GenerateQuestions(ctx, sampleContent, 3, []quizModel.QuestionType{"essay"})
		assert.Error(t, err)
	})
}

func TestGenerateQuestionsEndToEnd(t *testing.T) {
	sessions := newRecordingSessionStore()
	service := newTestService(newCountingStore(), sessions)

	questions, err := service.GenerateQuestions(context.Background(), sampleContent, 2,
		[]quizModel.QuestionType{quizModel.MultipleChoice, quizModel.ShortAnswer})
	require.NoError(t, err)
	require.Len(t, questions, 2)

	for _, question := range questions {
		assert.NotEmpty(t, question.Question)
		assert.NotEmpty(t, question.CorrectAnswer)
		require.NotNil(t, question.Verification, "every question must carry a verification result")
		assert.True(t, question.Verification.IsValid)
	}

	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	assert.Equal(t, 1, sessions.saves, "one session per new document")
}

func TestGenerateQuestionsReusesIndexForSameContent(t *testing.T) {
	store := newCountingStore()
	service := newTestService(store, newRecordingSessionStore())
	ctx := context.Background()

	_, err := service.GenerateQuestions(ctx, sampleContent, 1, []quizModel.QuestionType{quizModel.MultipleChoice})
	require.NoError(t, err)
	_, err = service.GenerateQuestions(ctx, sampleContent, 1, []quizModel.QuestionType{quizModel.MultipleChoice})
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&store.collectionsMade), "second request should reuse the cached index")
}

func TestGenerateQuestionsCleansContentBeforeIndexing(t *testing.T) {
	store := newCountingStore()
	service := newTestService(store, newRecordingSessionStore())
	ctx := context.Background()

	_, err := service.GenerateQuestions(ctx, sampleContent, 1, []quizModel.QuestionType{quizModel.MultipleChoice})
	require.NoError(t, err)

	// Bullet glyphs and ragged whitespace from PDF extraction are stripped
	// before hashing, so this is the same document as far as indexing goes.
	messy := "• " + strings.ReplaceAll(sampleContent, "\n", " \n\t • ")
	_, err = service.GenerateQuestions(ctx, messy, 1, []quizModel.QuestionType{quizModel.MultipleChoice})
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&store.collectionsMade), "cleaned variants must share one index")
}

func TestGenerateQuestionsRebuildAfterRestartDoesNotDuplicatePoints(t *testing.T) {
	store := newCountingStore()
	sessions := newRecordingSessionStore()
	ctx := context.Background()

	first := newTestService(store, sessions)
	_, err := first.GenerateQuestions(ctx, sampleContent, 1, []quizModel.QuestionType{quizModel.MultipleChoice})
	require.NoError(t, err)

	var collection string
	var basePoints int
	sessions.mu.Lock()
	for _, session := range sessions.sessions {
		collection = session.Collection
	}
	sessions.mu.Unlock()
	require.NotEmpty(t, collection)
	basePoints = store.pointCount(collection)
	require.Greater(t, basePoints, 0)

	// A fresh service over the same stores is a process restart: the session
	// record survives but the in-process index cache does not. The rebuild
	// must replace the collection's points, not add a second copy.
	second := newTestService(store, sessions)
	_, err = second.GenerateQuestions(ctx, sampleContent, 1, []quizModel.QuestionType{quizModel.MultipleChoice})
	require.NoError(t, err)

	assert.Equal(t, basePoints, store.pointCount(collection))
}

func TestGradeAnswersDelegation(t *testing.T) {
	service := newTestService(newCountingStore(), newRecordingSessionStore())

	_, err := service.GradeAnswers(context.Background(), nil)
	assert.True(t, errors.Is(err, quizModel.ErrEmptySubmission))

	report, err := service.GradeAnswers(context.Background(), []quizModel.AnswerSubmission{{
		Question:      "Where does photosynthesis take place?",
		UserAnswer:    "Chloroplasts",
		CorrectAnswer: "chloroplasts",
		QuestionType:  quizModel.ShortAnswer,
	}})
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.Percentage)
	assert.True(t, report.Answers[0].IsCorrect)
}
