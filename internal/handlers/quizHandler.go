package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nchandra/eduquest/internal/adapter"
	"github.com/nchandra/eduquest/internal/api"
	"github.com/nchandra/eduquest/internal/config"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/quiz"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

var (
	handlerInstance *QuizHandler //private singleton
	once            sync.Once
	logQH           *logger_i.Logger
)

type QuizHandler struct {
	service quiz.Service
}

func InitQuizHandler(quizService quiz.Service) {
	once.Do(func() {
		handlerInstance = &QuizHandler{service: quizService}
		logQH = logger_i.NewLogger("QuizHandler")
		logQH.Info("Starting quiz handler")
	})
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// UploadPDFHandler godoc
// @Summary      Upload a document and extract its text
// @Description  Receives a PDF, DOCX or TXT file via multipart/form-data and returns the extracted text and page count.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "The document to extract"
// @Success      200  {object}  api.UploadResponse
// @Failure      400  {object}  api.ErrorResponse "Unsupported type or no extractable text"
// @Failure      500  {object}  api.ErrorResponse "Storage or extraction error"
// @Router       /api/upload-pdf [post]
func UploadPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logQH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logQH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		destinationFileWriter.Close()
		WriteErrorResponse(w, http.StatusInternalServerError, "Write error")
		return
	}
	destinationFileWriter.Close()
	defer os.Remove(tempFilePath)

	extraction, err := handlerInstance.service.ExtractDocument(r.Context(), tempFilePath)
	if err != nil {
		if errors.Is(err, quizModel.ErrEmptyDocument) {
			WriteErrorResponse(w, http.StatusBadRequest, "Document has no extractable text")
			return
		}
		if errors.Is(err, quizModel.ErrUnsupportedDocument) {
			WriteErrorResponse(w, http.StatusBadRequest, "Unsupported document type")
			return
		}
		logQH.Error("Extraction failed", "file", fileMetadata.Filename, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Could not extract text")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(extraction))
}

// GenerateQuestionsHandler godoc
// @Summary      Generate quiz questions from document text
// @Description  Chunks and indexes the content, generates the requested number of questions and verifies each one against the source.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        request  body      api.GenerateQuestionsRequest  true  "Document text, question count and optional types"
// @Success      200  {object}  api.GenerateQuestionsResponse
// @Failure      400  {object}  api.ErrorResponse "Empty content, bad count or unknown type"
// @Failure      502  {object}  api.ErrorResponse "Model kept returning malformed output"
// @Failure      503  {object}  api.ErrorResponse "Model unavailable"
// @Router       /api/generate-questions [post]
func GenerateQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logQH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.GenerateQuestionsRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logQH.Warn("Bad generate request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return
	}
	if message, valid := validateGenerateRequest(requestData); !valid {
		WriteErrorResponse(w, http.StatusBadRequest, message)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.GenerateRequestTimeout)
	defer cancel()

	questions, err := handlerInstance.service.GenerateQuestions(
		ctx,
		requestData.Content,
		requestData.NumQuestions,
		adapter.ToQuestionTypes(requestData.QuestionTypes),
	)
	if err != nil {
		writeGenerateError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToGenerateResponse(questions))
}

// CheckAnswersHandler godoc
// @Summary      Grade submitted quiz answers
// @Description  Scores each submitted answer and returns per-answer feedback plus an aggregate report.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        request  body      api.CheckAnswersRequest  true  "The submitted answers"
// @Success      200  {object}  api.CheckAnswersResponse
// @Failure      400  {object}  api.ErrorResponse "Empty submission"
// @Router       /api/check-answers [post]
func CheckAnswersHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logQH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.CheckAnswersRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logQH.Warn("Bad check-answers request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.GradeRequestTimeout)
	defer cancel()

	report, err := handlerInstance.service.GradeAnswers(ctx, adapter.ToSubmissions(requestData))
	if err != nil {
		if errors.Is(err, quizModel.ErrEmptySubmission) {
			WriteErrorResponse(w, http.StatusBadRequest, "No answers to grade")
			return
		}
		logQH.Error("Grading failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Grading failed")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToCheckAnswersResponse(report))
}

func validateGenerateRequest(requestData api.GenerateQuestionsRequest) (string, bool) {
	if requestData.Content == "" {
		return "content is required", false
	}
	if requestData.NumQuestions < config.MinQuestionsPerRequest || requestData.NumQuestions > config.MaxQuestionsPerRequest {
		return fmt.Sprintf("num_questions must be between %d and %d", config.MinQuestionsPerRequest, config.MaxQuestionsPerRequest), false
	}
	for _, name := range requestData.QuestionTypes {
		if !quizModel.QuestionType(name).IsValid() {
			return fmt.Sprintf("unknown question type %q", name), false
		}
	}
	return "", true
}

func writeGenerateError(w http.ResponseWriter, err error) {
	var malformed *quizModel.MalformedOutputError
	switch {
	case errors.Is(err, quizModel.ErrEmptyDocument):
		WriteErrorResponse(w, http.StatusBadRequest, "Content has no usable text")
	case errors.Is(err, quizModel.ErrGenerationUnavailable):
		WriteRetryableErrorResponse(w, http.StatusServiceUnavailable, "Question generation is temporarily unavailable")
	case errors.As(err, &malformed):
		WriteRetryableErrorResponse(w, http.StatusBadGateway, "Model returned unusable output")
	case errors.Is(err, context.DeadlineExceeded):
		WriteRetryableErrorResponse(w, http.StatusGatewayTimeout, "Generation timed out")
	default:
		logQH.Error("Generation failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Generation failed")
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logQH.Error("Couldn't close the request body :", err)
	}
}
