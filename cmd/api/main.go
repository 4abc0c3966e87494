package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/nchandra/eduquest/internal/config"
	"github.com/nchandra/eduquest/internal/data/store"
	"github.com/nchandra/eduquest/internal/domain/sessionModel"
	"github.com/nchandra/eduquest/internal/handlers"
	"github.com/nchandra/eduquest/internal/quiz"
	"github.com/nchandra/eduquest/internal/rag/embedding/googleEmbedding"
	"github.com/nchandra/eduquest/internal/rag/llm"
	"github.com/nchandra/eduquest/internal/rag/llm/gemini"
	"github.com/nchandra/eduquest/internal/rag/llm/openaiLLM"
	"github.com/nchandra/eduquest/internal/rag/vectorDB"
	"github.com/nchandra/eduquest/internal/rag/vectorDB/memoryDB"
	"github.com/nchandra/eduquest/internal/rag/vectorDB/qdrantDB"
	"github.com/nchandra/eduquest/internal/server"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//session store with in-memory fallback when redis is offline
	var sessionStore sessionModel.SessionStore
	if redisSessions := store.GetRedisSessionStore(serviceContext); redisSessions != nil {
		sessionStore = redisSessions
	} else {
		logger.Error("Redis store is offline, falling back to in-memory sessions")
		sessionStore = store.InitInMemorySessionStore()
	}

	//vector store with in-memory fallback when qdrant is offline
	var vectorStore vectorDB.DataProcessor
	if qdrantClient := qdrantDB.GetQuadrantClient(serviceContext); qdrantClient != nil {
		vectorStore = qdrantClient
	} else {
		logger.Error("Qdrant is offline, falling back to the in-memory vector store")
		vectorStore = memoryDB.NewStore()
	}

	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey)

	var llmProvider llm.Provider
	switch config.LLMProvider {
	case "openai":
		llmProvider = openaiLLM.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey)
	default:
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey)
	}

	if embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	quizService := quiz.NewService(vectorStore, llmProvider, embeddingService, sessionStore)
	handlers.InitQuizHandler(quizService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
