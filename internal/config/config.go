package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Commerce  CommerceConfig
	Queue     QueueConfig
	Ai        AIConfig
	Assistant AssistantConfig
	SMTP      SMTPConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Connection      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogQueries      bool
	AutoMigrate     bool
}

type CommerceConfig struct {
	BaseURL        string
	PublishableKey string
	AdminToken     string
	Timeout        time.Duration
}

const (
	QueueGoChannel = "gochannel"
	QueueNats      = "nats"
	QueueRedis     = "redis"
)

type QueueConfig struct {
	Driver        string
	Topic         string
	RedisKey      string
	BatchSize     int
	BatchInterval time.Duration
}

type AIConfig struct {
	LLMProvider   string // "gemini", "ollama" or "none"
	LLMModel      string
	OllamaBaseURL string
	GeminiAPIKey  string
	LLMTimeout    time.Duration
	AgentsEnabled bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string

	// EscalationRecipients get an email whenever a chat is escalated.
	EscalationRecipients []string
	ConsoleURL           string
}

// Enabled reports whether escalation mail can be sent.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && len(s.EscalationRecipients) > 0
}

type AssistantConfig struct {
	SuggestionTreeFile string // empty means the embedded tree
	HistoryLimit       int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/chatbot.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/staff_ws.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			LogQueries:      getEnvAsBool("DB_LOG_QUERIES", false),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Commerce: CommerceConfig{
			BaseURL:        getEnv("MEDUSA_BASE_URL", "http://localhost:9000"),
			PublishableKey: getEnv("MEDUSA_PUBLISHABLE_KEY", ""),
			AdminToken:     getEnv("MEDUSA_ADMIN_TOKEN", ""),
			Timeout:        getEnvAsDuration("MEDUSA_TIMEOUT", 10*time.Second),
		},
		Queue: QueueConfig{
			Driver:        strings.ToLower(getEnv("QUEUE_DRIVER", QueueGoChannel)),
			Topic:         getEnv("CHAT_MESSAGE_TOPIC", "chat_messages"),
			RedisKey:      getEnv("CHAT_MESSAGE_QUEUE", "chatbot:message_queue"),
			BatchSize:     getEnvAsInt("BATCH_SIZE", 50),
			BatchInterval: getEnvAsDuration("BATCH_INTERVAL", time.Second),
		},
		Ai: AIConfig{
			LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			LLMModel:      getEnv("LLM_MODEL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GeminiAPIKey:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			LLMTimeout:    getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			AgentsEnabled: getEnvAsBool("AGENTS_ENABLED", true),
		},
		Assistant: AssistantConfig{
			SuggestionTreeFile: getEnv("SUGGESTION_TREE_FILE", ""),
			HistoryLimit:       getEnvAsInt("HISTORY_LIMIT", 10),
		},
		SMTP: SMTPConfig{
			Host:                 getEnv("SMTP_HOST", ""),
			Port:                 getEnvAsInt("SMTP_PORT", 587),
			Email:                getEnv("SMTP_EMAIL", ""),
			Password:             getEnv("SMTP_PASSWORD", ""),
			SenderName:           getEnv("SMTP_SENDER_NAME", "Shop Assistant"),
			EscalationRecipients: getEnvAsList("ESCALATION_EMAILS"),
			ConsoleURL:           getEnv("STAFF_CONSOLE_URL", ""),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(strValue, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
