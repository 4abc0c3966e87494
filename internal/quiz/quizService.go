package quiz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nchandra/eduquest/internal/adapter/utils"
	"github.com/nchandra/eduquest/internal/config"
	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/domain/sessionModel"
	"github.com/nchandra/eduquest/internal/metrics"
	"github.com/nchandra/eduquest/internal/quiz/chunker"
	"github.com/nchandra/eduquest/internal/quiz/extract"
	"github.com/nchandra/eduquest/internal/quiz/generator"
	"github.com/nchandra/eduquest/internal/quiz/grader"
	"github.com/nchandra/eduquest/internal/quiz/retriever"
	"github.com/nchandra/eduquest/internal/quiz/verifier"
	"github.com/nchandra/eduquest/internal/rag/embedding"
	"github.com/nchandra/eduquest/internal/rag/llm"
	"github.com/nchandra/eduquest/internal/rag/vectorDB"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

// Service is the one entry point the handlers call - they never touch the
// vector store, the embedder or the model directly. The private struct holds
// the wired dependencies so tests can swap mocks in through NewService.
type Service interface {
	ExtractDocument(ctx context.Context, path string) (extract.Extraction, error)
	GenerateQuestions(ctx context.Context, content string, numQuestions int, questionTypes []quizModel.QuestionType) ([]quizModel.Question, error)
	GradeAnswers(ctx context.Context, submissions []quizModel.AnswerSubmission) (*quizModel.GradingReport, error)
}

type service struct {
	vectorDB  vectorDB.DataProcessor
	embedder  embedding.Embedder
	generator *generator.Generator
	verifier  *verifier.Verifier
	grader    *grader.Grader
	sessions  sessionModel.SessionStore
	logger    *logger_i.Logger

	// indexes caches the built retrieval index per content hash. The cache
	// only lives in this process; after a restart the session record in the
	// store lets us rebuild under the same collection name.
	indexMu sync.RWMutex
	indexes map[string]*retriever.Index
}

func NewService(vector vectorDB.DataProcessor, provider llm.Provider, embedder embedding.Embedder, sessions sessionModel.SessionStore) Service {
	return &service{
		vectorDB:  vector,
		embedder:  embedder,
		generator: generator.NewGenerator(provider),
		verifier:  verifier.NewVerifier(provider, embedder),
		grader:    grader.NewGrader(provider, embedder),
		sessions:  sessions,
		logger:    logger_i.NewLogger("Quiz Service"),
	}
}

func (s *service) ExtractDocument(ctx context.Context, path string) (extract.Extraction, error) {
	start := time.Now()
	defer func() { metrics.CapturePipelineMetrics("extract_document", time.Since(start)) }()
	return extract.File(path)
}

func (s *service) GenerateQuestions(ctx context.Context, content string, numQuestions int, questionTypes []quizModel.QuestionType) ([]quizModel.Question, error) {
	start := time.Now()
	defer func() { metrics.CapturePipelineMetrics("generate_questions", time.Since(start)) }()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if strings.TrimSpace(content) == "" {
		return nil, quizModel.ErrEmptyDocument
	}
	if numQuestions < config.MinQuestionsPerRequest || numQuestions > config.MaxQuestionsPerRequest {
		return nil, fmt.Errorf("num_questions must be between %d and %d", config.MinQuestionsPerRequest, config.MaxQuestionsPerRequest)
	}
	for _, questionType := range questionTypes {
		if !questionType.IsValid() {
			return nil, fmt.Errorf("unknown question type %q", questionType)
		}
	}

	index, err := s.resolveIndex(ctx, content)
	if err != nil {
		return nil, err
	}

	questions, err := s.generator.Generate(ctx, index, numQuestions, questionTypes)
	if err != nil {
		return nil, err
	}
	log.Debug("Questions generated", "requested", numQuestions, "produced", len(questions))

	questions = s.verifier.Verify(ctx, index, questions)
	questions = verifier.ApplyPolicy(config.VerifyPolicy, questions)
	return questions, nil
}

func (s *service) GradeAnswers(ctx context.Context, submissions []quizModel.AnswerSubmission) (*quizModel.GradingReport, error) {
	start := time.Now()
	defer func() { metrics.CapturePipelineMetrics("grade_answers", time.Since(start)) }()
	return s.grader.Grade(ctx, submissions)
}

// resolveIndex returns the retrieval index for the content, building and
// persisting a session on first sight of a document.
func (s *service) resolveIndex(ctx context.Context, content string) (*retriever.Index, error) {
	content = chunker.CleanText(content)
	contentHash := hashContent(content)

	s.indexMu.RLock()
	index, cached := s.indexes[contentHash]
	s.indexMu.RUnlock()
	if cached {
		return index, nil
	}

	collection := collectionName(contentHash)
	if session, found := s.sessions.GetSession(ctx, contentHash); found {
		// A persisted session without a cached index means a previous process
		// already filled this collection. Rebuilding on top would layer a
		// second copy of every chunk into it, so tear the old one down first.
		collection = session.Collection
		if err := s.vectorDB.DropCollection(ctx, collection); err != nil {
			return nil, fmt.Errorf("dropping stale collection %q: %w", collection, err)
		}
		s.sessions.DeleteSession(ctx, contentHash)
	}

	doc := commonModels.Document{
		Id:          utils.GetNewUUID(),
		Name:        collection,
		UploadedAt:  time.Now(),
		ContentType: commonModels.RAW,
	}
	chunks, err := chunker.Chunk(doc, content, config.ChunkTargetSize, config.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	builder := retriever.NewBuilder(s.vectorDB, s.embedder)
	index, err = builder.Build(ctx, collection, chunks)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveSession(ctx, sessionModel.Session{
		Id:          doc.Id,
		ContentHash: contentHash,
		DocName:     doc.Name,
		ChunkCount:  len(chunks),
		Collection:  collection,
		CreatedTime: time.Now(),
	}); err != nil {
		// Session persistence is best effort; the index is already usable.
		s.logger.Warn("Failed to persist session", "error", err)
	}

	s.indexMu.Lock()
	if s.indexes == nil {
		s.indexes = make(map[string]*retriever.Index)
	}
	if existing, raced := s.indexes[contentHash]; raced {
		index = existing
	} else {
		s.indexes[contentHash] = index
	}
	s.indexMu.Unlock()
	return index, nil
}

func hashContent(content string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(content)))
	return hex.EncodeToString(sum[:])
}

func collectionName(contentHash string) string {
	return "quiz_" + contentHash[:16]
}
