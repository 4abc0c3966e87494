package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/nchandra/eduquest/internal/config"
	"github.com/nchandra/eduquest/internal/customHttpClient"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/rag/llm"
	"github.com/nchandra/eduquest/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Alternative provider to Gemini, selected with LLM_PROVIDER=openai.

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OPENAI_API_KEY is not set")
			return
		}
		openaiClient = &llmClient{
			client: openai.NewClient(
				option.WithAPIKey(apikey),
				option.WithHTTPClient(customHttpClient.GetPooledClient()),
			),
			modelName: modelName,
		}
		logger.Info("OpenAI client created")
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func (c *llmClient) Generate(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, openai.SystemMessage(systemInstruction))
	}
	messages = append(messages, openai.UserMessage(prompt))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.modelName),
		Messages:    messages,
		Temperature: openai.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		log.Error("OpenAI generation failed", "error", err)
		if isUnavailable(err) {
			return "", fmt.Errorf("%w: %v", quizModel.ErrGenerationUnavailable, err)
		}
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty openai response")
	}
	return completion.Choices[0].Message.Content, nil
}

func isUnavailable(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusTooManyRequests || apierr.StatusCode >= 500
	}
	return false
}
