package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingAPIKey is returned when neither OPENAI_API_KEY nor AZURE_OPENAI_API_KEY is usable.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")
	// ErrMissingDeployment is returned when an Azure endpoint is configured without a deployment.
	ErrMissingDeployment = errors.New("AZURE_OPENAI_DEPLOYMENT_NAME is not set")
)

// Config holds all configuration for the application. Secrets are only read
// from the environment.
type Config struct {
	OpenAIAPIKey    string `yaml:"-"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	AzureAPIKey     string `yaml:"-"`
	AzureEndpoint   string `yaml:"azure_endpoint"`
	AzureAPIVersion string `yaml:"azure_api_version"`
	AzureDeployment string `yaml:"azure_deployment"`

	Model            string  `yaml:"model"`
	MaxTokens        int     `yaml:"max_tokens"`
	Temperature      float64 `yaml:"temperature"`
	JudgeTemperature float64 `yaml:"judge_temperature"`
	MaxRetries       int     `yaml:"max_retries"`

	Workers         int  `yaml:"workers"`
	NumericPrecheck bool `yaml:"numeric_precheck"`

	DataDir       string `yaml:"data_dir"`
	InputFile     string `yaml:"input_file"`
	OutputFile    string `yaml:"output_file"`
	EvaluationDir string `yaml:"evaluation_dir"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when nothing overrides it. The low
// temperature favours consistent numbers over creative wording.
func Default() *Config {
	return &Config{
		AzureAPIVersion:  "2024-02-01",
		Model:            "gpt-4o",
		MaxTokens:        1000,
		Temperature:      0.1,
		JudgeTemperature: 0.1,
		MaxRetries:       3,
		Workers:          1,
		DataDir:          "data",
		InputFile:        filepath.Join("data", "input", "processed_train.json"),
		OutputFile:       filepath.Join("data", "output", "predictions.json"),
		EvaluationDir:    filepath.Join("data", "output"),
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// LoadConfig reads configuration from the .env file, an optional YAML file and
// environment variables, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	// Load .env file. In production, env variables are often set directly.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports configuration problems that make a run impossible.
func (c *Config) Validate() error {
	var errs []error

	if c.AzureEndpoint != "" {
		if c.AzureAPIKey == "" {
			errs = append(errs, ErrMissingAPIKey)
		}
		if c.AzureDeployment == "" {
			errs = append(errs, ErrMissingDeployment)
		}
	} else if c.OpenAIAPIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}

	if c.Model == "" && c.AzureDeployment == "" {
		errs = append(errs, errors.New("model is not set"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("max_tokens must not be negative, got %d", c.MaxTokens))
	}

	return errors.Join(errs...)
}

// EnsureDirectories creates the data and output directories used by a run.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		filepath.Dir(c.InputFile),
		filepath.Dir(c.OutputFile),
		c.EvaluationDir,
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.AzureAPIKey = getEnv("AZURE_OPENAI_API_KEY", c.AzureAPIKey)
	c.AzureEndpoint = getEnv("AZURE_OPENAI_ENDPOINT", c.AzureEndpoint)
	c.AzureAPIVersion = getEnv("AZURE_OPENAI_API_VERSION", c.AzureAPIVersion)
	c.AzureDeployment = getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", c.AzureDeployment)
	c.Model = getEnv("FINQA_MODEL", c.Model)
	c.LogLevel = getEnv("FINQA_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("FINQA_LOG_FORMAT", c.LogFormat)

	var err error
	if c.MaxTokens, err = getEnvInt("FINQA_MAX_TOKENS", c.MaxTokens); err != nil {
		return err
	}
	if c.Workers, err = getEnvInt("FINQA_WORKERS", c.Workers); err != nil {
		return err
	}
	if c.Temperature, err = getEnvFloat("FINQA_TEMPERATURE", c.Temperature); err != nil {
		return err
	}
	return nil
}

// Helper function to get env var or return default
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, value)
	}
	return v, nil
}
