package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Keys     APIKeys
	Ai       AIConfig
	Chat     ChatConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port                   string
	Environment            string
	LogFilePath            string
	ProfileLearningLogPath string
	CorsAllowedOrigins     string
	NatsURL                string
	RedisURL               string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type APIKeys struct {
	OpenAI string
	Tavily string
}

type AIConfig struct {
	LLMProvider       string // "openai", "ollama" or "none"
	LLMModel          string
	LLMBaseURL        string
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	SearchProvider    string // "tavily", "duckduckgo" or "none"
	SearchCacheTTL    time.Duration
}

// ChatConfig holds the orchestration tunables.
type ChatConfig struct {
	SimilarityThreshold    float64
	RetrievalTopK          int
	WebMaxResults          int
	HistoryWindow          int
	LearningWindow         int
	LearningEveryNTurns    int
	LearningTransport      string // "gochannel" or "nats"
	UnavailableResponse    string
	ConversationTitleRunes int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                   getEnv("APP_PORT", "8000"),
			Environment:            getEnv("GO_ENV", "development"),
			LogFilePath:            getEnv("LOG_FILE_PATH", "logs/app.log"),
			ProfileLearningLogPath: getEnv("PROFILE_LEARNING_LOG_PATH", "logs/profile_learning.log"),
			CorsAllowedOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:                getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:               getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me"),
			TokenTTL:  time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24*8)) * time.Minute,
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
			Tavily: getEnv("TAVILY_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			SearchProvider:    getEnv("SEARCH_PROVIDER", "tavily"),
			SearchCacheTTL:    time.Duration(getEnvAsInt("SEARCH_CACHE_TTL_SECONDS", 600)) * time.Second,
		},
		Chat: ChatConfig{
			SimilarityThreshold:    getEnvAsFloat("RAG_SIMILARITY_THRESHOLD", 0.7),
			RetrievalTopK:          getEnvAsInt("RAG_TOP_K", 3),
			WebMaxResults:          getEnvAsInt("WEB_SEARCH_MAX_RESULTS", 3),
			HistoryWindow:          getEnvAsInt("CHAT_HISTORY_WINDOW", 10),
			LearningWindow:         getEnvAsInt("PROFILE_LEARNING_WINDOW", 20),
			LearningEveryNTurns:    getEnvAsInt("PROFILE_LEARNING_EVERY_N_TURNS", 1),
			LearningTransport:      getEnv("PROFILE_LEARNING_TRANSPORT", "gochannel"),
			UnavailableResponse:    getEnv("CHAT_UNAVAILABLE_RESPONSE", "I'm sorry, I cannot process your request because the generation service is not configured."),
			ConversationTitleRunes: getEnvAsInt("CONVERSATION_TITLE_LENGTH", 20),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "skintech-consultant-backend"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
