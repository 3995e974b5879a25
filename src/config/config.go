package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvPathVar points at an alternate .env file when none sits beside the
	// executable.
	EnvPathVar = "BOOKCAP_ENV"
)

type Config struct {
	// RawRoot is the directory receiving per-session frame directories.
	RawRoot string
	// PDFRoot receives the human-named copy of each finished book.
	PDFRoot string
	// Pattern is the frame glob used by the assembler.
	Pattern string

	// DelaySec is the pause after each advance action.
	DelaySec float64
	// FocusEvery reasserts application focus every N pages.
	FocusEvery int
	// AdvanceKey is the key tapped when keyboard advance is enabled.
	AdvanceKey string

	// Trigger keys for recording the advance point and region corners.
	NextTrigger       string
	TopRightTrigger   string
	BottomLeftTrigger string

	EnableFileLogging bool
}

func Load() (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use BOOKCAP_ENV as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		RawRoot:           getEnvWithDefault("BOOKCAP_RAW_DIR", "bookraw"),
		PDFRoot:           getEnvWithDefault("BOOKCAP_PDF_DIR", "PDF"),
		Pattern:           getEnvWithDefault("BOOKCAP_PATTERN", "page_*.png"),
		DelaySec:          getEnvFloat("BOOKCAP_DELAY_SEC", 1.2),
		FocusEvery:        getEnvInt("BOOKCAP_FOCUS_EVERY", 10),
		AdvanceKey:        getEnvWithDefault("BOOKCAP_ADVANCE_KEY", "right"),
		NextTrigger:       getEnvWithDefault("BOOKCAP_TRIGGER_NEXT", "f8"),
		TopRightTrigger:   getEnvWithDefault("BOOKCAP_TRIGGER_TOPRIGHT", "f6"),
		BottomLeftTrigger: getEnvWithDefault("BOOKCAP_TRIGGER_BOTTOMLEFT", "f7"),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
