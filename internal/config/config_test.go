package config_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"finqa/internal/config"
)

var envKeys = []string{
	"OPENAI_API_KEY", "OPENAI_BASE_URL",
	"AZURE_OPENAI_API_KEY", "AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_VERSION", "AZURE_OPENAI_DEPLOYMENT_NAME",
	"FINQA_MODEL", "FINQA_MAX_TOKENS", "FINQA_TEMPERATURE", "FINQA_WORKERS", "FINQA_LOG_LEVEL", "FINQA_LOG_FORMAT",
}

// clearEnv unsets every variable the config reads and restores them after each test.
func clearEnv() {
	for _, key := range envKeys {
		if value, ok := os.LookupEnv(key); ok {
			DeferCleanup(os.Setenv, key, value)
		} else {
			DeferCleanup(os.Unsetenv, key)
		}
		Expect(os.Unsetenv(key)).To(Succeed())
	}
}

func setEnv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
}

func writeConfig(content string) string {
	path := filepath.Join(GinkgoT().TempDir(), "finqa.yaml")
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Config", func() {
	BeforeEach(clearEnv)

	Describe("LoadConfig", func() {
		It("falls back to defaults", func() {
			cfg, err := config.LoadConfig("")
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.Default()))
			Expect(cfg.Model).To(Equal("gpt-4o"))
			Expect(cfg.MaxTokens).To(Equal(1000))
			Expect(cfg.Temperature).To(Equal(0.1))
			Expect(cfg.Workers).To(Equal(1))
			Expect(cfg.InputFile).To(Equal(filepath.Join("data", "input", "processed_train.json")))
			Expect(cfg.OutputFile).To(Equal(filepath.Join("data", "output", "predictions.json")))
			Expect(cfg.AzureAPIVersion).To(Equal("2024-02-01"))
			Expect(cfg.NumericPrecheck).To(BeFalse())
		})

		It("reads environment variables", func() {
			setEnv("OPENAI_API_KEY", "sk-abc")
			setEnv("OPENAI_BASE_URL", "http://localhost:8080/v1")
			setEnv("FINQA_MODEL", "gpt-4o-mini")
			setEnv("FINQA_MAX_TOKENS", "512")
			setEnv("FINQA_TEMPERATURE", "0")
			setEnv("FINQA_WORKERS", "4")
			setEnv("FINQA_LOG_LEVEL", "debug")

			cfg, err := config.LoadConfig("")
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.OpenAIAPIKey).To(Equal("sk-abc"))
			Expect(cfg.OpenAIBaseURL).To(Equal("http://localhost:8080/v1"))
			Expect(cfg.Model).To(Equal("gpt-4o-mini"))
			Expect(cfg.MaxTokens).To(Equal(512))
			Expect(cfg.Temperature).To(BeZero())
			Expect(cfg.Workers).To(Equal(4))
			Expect(cfg.LogLevel).To(Equal("debug"))
		})

		It("reads a YAML file and lets the environment win", func() {
			path := writeConfig(`
model: gpt-4.1
max_tokens: 800
judge_temperature: 0
workers: 2
numeric_precheck: true
input_file: in/items.json
output_file: out/predictions.json
evaluation_dir: out/eval
log_format: json
`)
			setEnv("FINQA_WORKERS", "8")

			cfg, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Model).To(Equal("gpt-4.1"))
			Expect(cfg.MaxTokens).To(Equal(800))
			Expect(cfg.JudgeTemperature).To(BeZero())
			Expect(cfg.Workers).To(Equal(8))
			Expect(cfg.NumericPrecheck).To(BeTrue())
			Expect(cfg.InputFile).To(Equal("in/items.json"))
			Expect(cfg.EvaluationDir).To(Equal("out/eval"))
			Expect(cfg.LogFormat).To(Equal("json"))
			Expect(cfg.Temperature).To(Equal(0.1))
		})

		It("accepts an empty file", func() {
			cfg, err := config.LoadConfig(writeConfig(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.Default()))
		})

		It("rejects unknown keys", func() {
			_, err := config.LoadConfig(writeConfig("modle: gpt-4o\n"))
			Expect(err).To(MatchError(ContainSubstring("parse yaml")))
		})

		It("rejects secrets in the file", func() {
			_, err := config.LoadConfig(writeConfig("OpenAIAPIKey: sk-leak\n"))
			Expect(err).To(HaveOccurred())
		})

		It("rejects multiple documents", func() {
			_, err := config.LoadConfig(writeConfig("model: a\n---\nmodel: b\n"))
			Expect(err).To(MatchError(ContainSubstring("multiple documents")))
		})

		It("rejects a missing file", func() {
			_, err := config.LoadConfig(filepath.Join(GinkgoT().TempDir(), "nope.yaml"))
			Expect(err).To(MatchError(os.ErrNotExist))
		})

		It("rejects malformed numbers", func() {
			setEnv("FINQA_WORKERS", "many")
			_, err := config.LoadConfig("")
			Expect(err).To(MatchError(`FINQA_WORKERS: invalid integer "many"`))

			setEnv("FINQA_WORKERS", "1")
			setEnv("FINQA_TEMPERATURE", "warm")
			_, err = config.LoadConfig("")
			Expect(err).To(MatchError(`FINQA_TEMPERATURE: invalid number "warm"`))
		})
	})

	Describe("Validate", func() {
		It("requires an OpenAI key", func() {
			cfg := config.Default()
			Expect(cfg.Validate()).To(MatchError(config.ErrMissingAPIKey))

			cfg.OpenAIAPIKey = "sk-abc"
			Expect(cfg.Validate()).To(Succeed())
		})

		It("requires Azure credentials and a deployment for an Azure endpoint", func() {
			cfg := config.Default()
			cfg.OpenAIAPIKey = "sk-abc"
			cfg.AzureEndpoint = "https://example.openai.azure.com"

			err := cfg.Validate()
			Expect(errors.Is(err, config.ErrMissingAPIKey)).To(BeTrue())
			Expect(errors.Is(err, config.ErrMissingDeployment)).To(BeTrue())

			cfg.AzureAPIKey = "azure-key"
			cfg.AzureDeployment = "gpt-4o-prod"
			Expect(cfg.Validate()).To(Succeed())
		})

		It("reports every problem at once", func() {
			cfg := config.Default()
			cfg.Workers = 0
			cfg.MaxTokens = -1

			err := cfg.Validate()
			Expect(err).To(MatchError(ContainSubstring("workers must be at least 1, got 0")))
			Expect(err).To(MatchError(ContainSubstring("max_tokens must not be negative, got -1")))
			Expect(errors.Is(err, config.ErrMissingAPIKey)).To(BeTrue())
		})
	})

	Describe("EnsureDirectories", func() {
		It("creates the data and output directories", func() {
			root := GinkgoT().TempDir()
			cfg := config.Default()
			cfg.DataDir = filepath.Join(root, "data")
			cfg.InputFile = filepath.Join(root, "data", "input", "items.json")
			cfg.OutputFile = filepath.Join(root, "data", "output", "predictions.json")
			cfg.EvaluationDir = filepath.Join(root, "eval")

			Expect(cfg.EnsureDirectories()).To(Succeed())
			for _, dir := range []string{"data/input", "data/output", "eval"} {
				info, err := os.Stat(filepath.Join(root, dir))
				Expect(err).NotTo(HaveOccurred())
				Expect(info.IsDir()).To(BeTrue())
			}
		})
	})
})
