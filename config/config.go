package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	LanguageEnvVar   = "OCR_LANGUAGE"
	OutputModeEnvVar = "OCR_OUTPUT_MODE"
	OutputModeText   = "txt"
	OutputModeTSV    = "tsv"
)

type LoadOptions struct {
	LanguageOverride   string
	OutputModeOverride string
}

type Config struct {
	Language          string
	OutputMode        string
	OCRDeadlineSec    int
	Workers           int
	EnableFileLogging bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use SCREEN_OCR_TESSERACT env var as a path to a config file
	envPath := resolveEnvPath()
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// Resolve OCR deadline (seconds) with env override and sane default
	ocrDeadlineSec := 20
	if v := os.Getenv("OCR_DEADLINE_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ocrDeadlineSec = n
		}
	}

	// Worker count; zero means one worker per CPU
	workers := 0
	if v := os.Getenv("OCR_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}

	cfg := &Config{
		Language:          resolveLanguageValue(opts),
		OutputMode:        resolveOutputModeValue(opts),
		OCRDeadlineSec:    ocrDeadlineSec,
		Workers:           workers,
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv("SCREEN_OCR_TESSERACT"); alt != "" {
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

func resolveLanguageValue(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.LanguageOverride); override != "" {
		return override
	}
	return getEnvWithDefault(LanguageEnvVar, "eng")
}

func resolveOutputMode(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "text", OutputModeText:
		return OutputModeText
	case OutputModeTSV:
		return OutputModeTSV
	default:
		return OutputModeText
	}
}

func resolveOutputModeValue(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.OutputModeOverride); override != "" {
		return resolveOutputMode(override)
	}
	return resolveOutputMode(os.Getenv(OutputModeEnvVar))
}
