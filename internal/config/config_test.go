package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Save original env
	originalCohere := os.Getenv("COHERE_API_KEY")
	originalGroq := os.Getenv("GROQ_API_KEY")
	defer func() {
		os.Setenv("COHERE_API_KEY", originalCohere)
		os.Setenv("GROQ_API_KEY", originalGroq)
	}()

	tmp := t.TempDir()
	os.Setenv("DATA_PATH", filepath.Join(tmp, "Data"))
	os.Setenv("FILES_PATH", filepath.Join(tmp, "Files"))
	defer os.Unsetenv("DATA_PATH")
	defer os.Unsetenv("FILES_PATH")

	// Test with missing Cohere key
	os.Unsetenv("COHERE_API_KEY")
	os.Unsetenv("CohereAPIkey")
	os.Setenv("GROQ_API_KEY", "test-groq-key")
	if err := Load(); err == nil {
		t.Error("Expected error when COHERE_API_KEY is missing")
	}

	// Test with missing Groq key
	os.Setenv("COHERE_API_KEY", "test-cohere-key")
	os.Unsetenv("GROQ_API_KEY")
	if err := Load(); err == nil {
		t.Error("Expected error when GROQ_API_KEY is missing")
	}

	// Test with both keys present
	os.Setenv("GROQ_API_KEY", "test-groq-key")
	if err := Load(); err != nil {
		t.Fatalf("Expected no error with valid keys, got: %v", err)
	}

	if AppConfig == nil {
		t.Fatal("AppConfig should not be nil after successful load")
	}

	if AppConfig.CohereAPIKey != "test-cohere-key" {
		t.Errorf("Expected CohereAPIKey to be 'test-cohere-key', got: %s", AppConfig.CohereAPIKey)
	}

	// Runtime directories should exist after load
	if _, err := os.Stat(AppConfig.DataPath); err != nil {
		t.Errorf("Data directory should exist: %v", err)
	}
	if _, err := os.Stat(AppConfig.FilesPath); err != nil {
		t.Errorf("Files directory should exist: %v", err)
	}
}

func TestPaths(t *testing.T) {
	c := &Config{DataPath: "/tmp/d", FilesPath: "/tmp/f"}

	if got := c.ImageRecordPath(); got != filepath.Join("/tmp/f", "ImageGeneration.data") {
		t.Errorf("Unexpected image record path: %s", got)
	}
	if got := c.TranscriptPath(); got != filepath.Join("/tmp/d", "ChatLog.json") {
		t.Errorf("Unexpected transcript path: %s", got)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	os.Setenv("TEST_STR", "value")
	os.Setenv("TEST_INT", "42")
	os.Setenv("TEST_FLOAT", "1.5")
	os.Setenv("TEST_DUR", "250ms")
	os.Setenv("TEST_BAD_INT", "nope")
	defer func() {
		for _, k := range []string{"TEST_STR", "TEST_INT", "TEST_FLOAT", "TEST_DUR", "TEST_BAD_INT"} {
			os.Unsetenv(k)
		}
	}()

	if got := getEnv("TEST_STR", "default"); got != "value" {
		t.Errorf("getEnv = %s, want value", got)
	}
	if got := getEnv("TEST_MISSING", "default"); got != "default" {
		t.Errorf("getEnv = %s, want default", got)
	}
	if got := getEnvInt("TEST_INT", 0); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}
	if got := getEnvInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvInt = %d, want fallback 7", got)
	}
	if got := getEnvFloat("TEST_FLOAT", 0); got != 1.5 {
		t.Errorf("getEnvFloat = %f, want 1.5", got)
	}
	if got := getEnvDuration("TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("getEnvDuration = %v, want 250ms", got)
	}
}
