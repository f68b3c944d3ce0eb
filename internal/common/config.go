package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	AWS      AWSConfig
	Paths    PathsConfig
	Pipeline PipelineConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Convert  ConvertConfig
}

// AWSConfig holds S3/Textract-related configuration
type AWSConfig struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// PathsConfig holds the local directory layout
type PathsConfig struct {
	InputDir  string
	TmpDir    string
	OutputDir string
	LogDir    string
}

// PipelineConfig holds batching and fan-out configuration
type PipelineConfig struct {
	BatchSize int
	Workers   int
}

// OCRConfig holds Textract polling configuration
type OCRConfig struct {
	PollMaxAttempts int
	PollDelay       time.Duration
	MaxResultPages  int
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// ConvertConfig selects the JPG->PDF conversion engine.
// "pdfcpu" runs in-process; "magick" shells out to ImageMagick.
type ConvertConfig struct {
	Engine        string
	MagickCommand string
}

// LoadConfig loads configuration from a .env file (if present) and environment variables
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		AWS: AWSConfig{
			Region:    getEnv("REGION", "us-east-1"),
			Bucket:    getEnv("BUCKET_NAME", ""),
			AccessKey: getEnv("AWS_ACCESS_KEY", ""),
			SecretKey: getEnv("AWS_SECRET_KEY", ""),
		},
		Paths: PathsConfig{
			InputDir:  getEnv("INPUT_DIR", ""),
			TmpDir:    getEnv("TMP_DIR", "./tmp"),
			OutputDir: getEnv("OUTPUT_DIR", "./output"),
			LogDir:    getEnv("LOG_DIR", "./logs"),
		},
		Pipeline: PipelineConfig{
			BatchSize: getEnvAsInt("BATCH_SIZE", 10),
			Workers:   getEnvAsInt("WORKERS", 4),
		},
		OCR: OCRConfig{
			PollMaxAttempts: getEnvAsInt("OCR_POLL_MAX_ATTEMPTS", 60),
			PollDelay:       getEnvAsDuration("OCR_POLL_DELAY", 5*time.Second),
			MaxResultPages:  getEnvAsInt("OCR_MAX_RESULT_PAGES", 1000),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Convert: ConvertConfig{
			Engine:        getEnv("CONVERT_ENGINE", "pdfcpu"),
			MagickCommand: getEnv("IMAGEMAGICK_COMMAND", "convert"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Paths.InputDir == "" {
		return NewAppError("CONFIG_ERROR", "INPUT_DIR is required", ErrInvalidInput)
	}
	if c.AWS.Bucket == "" {
		return NewAppError("CONFIG_ERROR", "BUCKET_NAME is required", ErrInvalidInput)
	}
	if c.Pipeline.BatchSize < 1 {
		return NewAppError("CONFIG_ERROR", "BATCH_SIZE must be positive", ErrInvalidInput)
	}
	if c.Pipeline.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "WORKERS must be positive", ErrInvalidInput)
	}
	if c.OCR.PollMaxAttempts < 1 {
		return NewAppError("CONFIG_ERROR", "OCR_POLL_MAX_ATTEMPTS must be positive", ErrInvalidInput)
	}
	return nil
}
