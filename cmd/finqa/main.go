package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/openai/openai-go/v3/option"
	"github.com/spf13/cobra"

	"finqa/internal/config"
	"finqa/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// appConfig is loaded once before any subcommand runs.
var appConfig *config.Config

// clientOptions are appended to every model client the commands build.
var clientOptions []option.RequestOption

var rootCmd = &cobra.Command{
	Use:   "finqa",
	Short: "Multi-turn financial QA predictions and LLM judging",
	Long: "finqa asks a language model to answer conversational questions about\n" +
		"financial reports with a calculation program and a numeric answer,\n" +
		"and judges those predictions against reference answers.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.configPath, "config", "", "YAML config file")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warning, error")
	f.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.Version = version
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(rootFlags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		cfg.LogFormat = rootFlags.logFormat
	}

	if err := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	appConfig = cfg
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
