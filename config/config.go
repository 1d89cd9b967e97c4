package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AdminKey          string `mapstructure:"ADMIN_KEY"`

	// Completion gateway. Provider is one of "openai", "openai-threads", "gemini".
	AIProvider       string `mapstructure:"AI_PROVIDER"`
	OpenAIKey        string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel      string `mapstructure:"OPENAI_MODEL"`
	OpenAIAssistant  string `mapstructure:"OPENAI_ASSISTANT_ID"`
	GeminiKey        string `mapstructure:"GEMINI_API_KEY"`
	RunPollMillis    int    `mapstructure:"RUN_POLL_MILLIS"`
	RunPollMaxChecks int    `mapstructure:"RUN_POLL_MAX_CHECKS"`

	// Telegram relay.
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `mapstructure:"TELEGRAM_CHAT_ID"`

	// Handoff dispatch mode: "inline" sends on the request goroutine,
	// "queue" enqueues a Redis-backed task with retries.
	HandoffDispatch string `mapstructure:"HANDOFF_DISPATCH"`

	// Session store. Backend is "memory" or "redis".
	SessionBackend    string `mapstructure:"SESSION_BACKEND"`
	SessionIdleTTLMin int    `mapstructure:"SESSION_IDLE_TTL_MIN"`

	// Redis configuration (used when SESSION_BACKEND=redis).
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// MongoDB (handoff records). Empty disables persistence.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Google service-account credentials (raw JSON) and resource IDs.
	GoogleSheetsKey   string `mapstructure:"GOOGLE_SHEETS_KEY"`
	GoogleCalendarKey string `mapstructure:"GOOGLE_CALENDAR_KEY"`
	SpreadsheetID     string `mapstructure:"SPREADSHEET_ID"`
	CalendarID        string `mapstructure:"CALENDAR_ID"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "3000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("AI_PROVIDER", "openai")
	viper.SetDefault("OPENAI_MODEL", "gpt-4")
	viper.SetDefault("RUN_POLL_MILLIS", 300)
	viper.SetDefault("RUN_POLL_MAX_CHECKS", 100)
	viper.SetDefault("HANDOFF_DISPATCH", "inline")
	viper.SetDefault("SESSION_BACKEND", "memory")
	viper.SetDefault("SESSION_IDLE_TTL_MIN", 0)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SPREADSHEET_ID", "")
	viper.SetDefault("CALENDAR_ID", "primary")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
