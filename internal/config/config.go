package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the assistant process.
type Config struct {
	// Identity
	Username      string
	AssistantName string

	// Server configuration
	Port string

	// Cohere decision-model configuration
	CohereAPIKey      string
	CohereBaseURL     string
	CohereModel       string
	CohereTemperature float64

	// Groq chat configuration
	GroqAPIKey      string
	GroqBaseURL     string
	GroqModel       string
	GroqMaxTokens   int
	GroqTemperature float64

	// Hugging Face image generation (used by cmd/imagegen only)
	HuggingFaceAPIKey string
	HuggingFaceModel  string
	ImageCount        int

	// Text to speech
	TTSBaseURL   string
	TTSVoice     string
	TTSRate      string
	TTSAudioPath string

	// Runtime files shared with the display and the image generator
	DataPath  string
	FilesPath string

	// Orchestrator tuning
	ClassifierMaxAttempts int
	MicPollInterval       time.Duration
	HistoryContextSize    int
}

var AppConfig *Config

// Load loads configuration from environment variables. Missing required
// keys are a fatal startup condition for the caller: no cycle may start
// without them.
func Load() error {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	AppConfig = &Config{
		Username:              getEnv("USERNAME_OVERRIDE", getEnv("Username", "User")),
		AssistantName:         getEnv("Assistantname", "Friday"),
		Port:                  getEnv("PORT", "8080"),
		CohereAPIKey:          getEnv("COHERE_API_KEY", getEnv("CohereAPIkey", "")),
		CohereBaseURL:         getEnv("COHERE_BASE_URL", "https://api.cohere.ai/v1"),
		CohereModel:           getEnv("COHERE_MODEL", "command-r-plus"),
		CohereTemperature:     getEnvFloat("COHERE_TEMPERATURE", 0.7),
		GroqAPIKey:            getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:           getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:             getEnv("GROQ_MODEL", "llama3-70b-8192"),
		GroqMaxTokens:         getEnvInt("GROQ_MAX_TOKENS", 1024),
		GroqTemperature:       getEnvFloat("GROQ_TEMPERATURE", 0.7),
		HuggingFaceAPIKey:     getEnv("HuggingFaceAPIKey", ""),
		HuggingFaceModel:      getEnv("HUGGINGFACE_MODEL", "stabilityai/stable-diffusion-xl-base-1.0"),
		ImageCount:            getEnvInt("IMAGE_COUNT", 4),
		TTSBaseURL:            getEnv("TTS_BASE_URL", ""),
		TTSVoice:              getEnv("AssistantVoice", "en-AU-NatashaNeural"),
		TTSRate:               getEnv("TTS_RATE", "+10%"),
		TTSAudioPath:          getEnv("TTS_AUDIO_PATH", "./Data/speech.mp3"),
		DataPath:              getEnv("DATA_PATH", "./Data"),
		FilesPath:             getEnv("FILES_PATH", "./Frontend/Files"),
		ClassifierMaxAttempts: getEnvInt("CLASSIFIER_MAX_ATTEMPTS", 3),
		MicPollInterval:       getEnvDuration("MIC_POLL_INTERVAL", 100*time.Millisecond),
		HistoryContextSize:    getEnvInt("HISTORY_CONTEXT_SIZE", 10),
	}

	// Validate required configuration
	if AppConfig.CohereAPIKey == "" {
		return fmt.Errorf("COHERE_API_KEY is required")
	}
	if AppConfig.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}

	// Ensure runtime directories exist
	if err := os.MkdirAll(AppConfig.DataPath, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(AppConfig.FilesPath, 0755); err != nil {
		return fmt.Errorf("failed to create files directory: %w", err)
	}

	return nil
}

// ImageRecordPath is the shared handshake file coordinating the
// out-of-process image generator.
func (c *Config) ImageRecordPath() string {
	return filepath.Join(c.FilesPath, "ImageGeneration.data")
}

// TranscriptPath is the wholesale-rewritten chat log.
func (c *Config) TranscriptPath() string {
	return filepath.Join(c.DataPath, "ChatLog.json")
}

// Helper functions for getting environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
