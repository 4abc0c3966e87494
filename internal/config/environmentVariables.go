package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking
	ChunkTargetSize   = 1000 //characters
	ChunkOverlap      = 150  //generous overlap helps semantic continuity
	RetrievalTopK     = 3
	MinChunkRelevance = 0.35 //below this a retrieved chunk counts as "no support"

	//question generation
	MaxQuestionsPerRequest  = 10
	MinQuestionsPerRequest  = 1
	GenerationRetryBound    = 2 //corrective re-prompts per slot before dropping it
	MaxConcurrentModelCalls = 4

	//grounding verification
	AcceptThreshold  = 0.6 //below this a question is flagged (or dropped, see VerifyPolicy)
	NoSupportPenalty = 0.3

	//grading
	FullCreditSimilarity    = 0.8
	PartialCreditSimilarity = 0.6
	CorrectScoreThreshold   = 0.7

	//TODO:this will differ based on the request and provider
	EmbeddingOutputDimensionality int32 = 1536

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 120 * time.Second //generation fans out over several model calls
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//model call budget per request
	GenerateRequestTimeout = 90 * time.Second
	GradeRequestTimeout    = 60 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1 //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second

	//llm
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"

	ModelTemperature float32 = 0.0 //grading and verification must be reproducible

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisSessionStore = 0

	//document sessions live for a day, matching the frontend's working set
	RedisSessionTTL = 24 * time.Hour

	//auth
	NoAuthBypass = true //set false once the frontend sends the bearer token
)

// VerifyPolicy decides what happens to questions scoring below AcceptThreshold:
// "flag" keeps them with verification attached, "drop" removes them from the
// returned set. The observed frontend renders a confidence chip, so flag is
// the default.
const (
	VerifyPolicyFlag = "flag"
	VerifyPolicyDrop = "drop"
)

var (
	GoogleAPIKey  = os.Getenv("GOOGLE_API_KEY")
	OpenAIAPIKey  = os.Getenv("OPENAI_API_KEY")
	LLMProvider   = getEnv("LLM_PROVIDER", "gemini") //gemini or openai
	VerifyPolicy  = getEnv("VERIFY_POLICY", VerifyPolicyFlag)
	AuthToken     = os.Getenv("AUTH_TOKEN")
	RedisPassword = os.Getenv("REDIS_PASSWORD")
)

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
