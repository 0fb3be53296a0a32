package cmd

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"collegematch/internal/ai"
	"collegematch/internal/ai/gemini"
	"collegematch/internal/enrich"
	"collegematch/internal/images"
	"collegematch/internal/logger"
	"collegematch/internal/match"
	"collegematch/internal/scorecard"
	"collegematch/internal/secrets"
	"collegematch/internal/suggest"
)

const app = "collegematch"

type Config struct {
	Scorecard *ScorecardConfig `mapstructure:"scorecard"`
	Server    *ServerConfig    `mapstructure:"server"`
	Matching  *MatchingConfig  `mapstructure:"matching"`
	AI        *AIConfig        `mapstructure:"ai"`
}

type ScorecardConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

type ServerConfig struct {
	Listen            string  `mapstructure:"listen"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
	Burst             int     `mapstructure:"burst"`
}

type MatchingConfig struct {
	// StrictControl turns the public/private preference into a hard
	// filter instead of leaving it inert.
	StrictControl bool `mapstructure:"strict-control"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "collegematch finds and compares colleges that fit a student profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("scorecard.api-key-file", "SCORECARD_API_KEY_FILE"); err != nil {
		log.Fatalf("binding SCORECARD_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is collegematch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// The config file is optional since the API keys can also arrive via
	// environment variables. A present-but-broken file is still fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// services bundles everything a command needs to run the flows.
type services struct {
	schools   *scorecard.Client
	matcher   *match.Service
	suggester *suggest.Service
}

// buildServices wires the dataset client, the enrichment gateway and the
// image finder into the match and suggest services.
func buildServices(ctx context.Context, config *Config, zl *zap.Logger) (*services, error) {
	apiKeyFile := viper.GetString("scorecard.api-key-file")
	if config.Scorecard != nil && config.Scorecard.APIKeyFile != "" {
		apiKeyFile = config.Scorecard.APIKeyFile
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "college scorecard api key",
		File: apiKeyFile,
		Env:  "SCORECARD_API_KEY",
	})
	if err != nil {
		// Every filtered-mode flow needs the dataset key.
		return nil, err
	}

	schools := scorecard.New(zl, apiKey)

	cache := enrich.New(buildEnricher(ctx, config.AI, zl), zl)

	strictControl := false
	if config.Matching != nil {
		strictControl = config.Matching.StrictControl
	}

	finder := images.NewFinder(zl)

	return &services{
		schools:   schools,
		matcher:   match.NewService(schools, cache, finder, strictControl, zl),
		suggester: suggest.NewService(schools, zl),
	}, nil
}

// buildEnricher returns nil when AI enrichment is not configured; matching
// still works, all enriched attributes stay unknown.
func buildEnricher(ctx context.Context, cfg *AIConfig, zl *zap.Logger) ai.Enricher {
	if cfg == nil || !cfg.Enabled {
		zl.Info("ai enrichment disabled; enriched attributes will be empty")
		return nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		zl.Warn("unsupported ai provider, disabling enrichment", zap.String("provider", cfg.Provider))
		return nil
	}

	geminiCfg := cfg.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: geminiCfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		zl.Warn("no gemini credential, disabling enrichment", zap.Error(err))
		return nil
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, geminiCfg.Model)
	if err != nil {
		zl.Warn("building gemini generator failed, disabling enrichment", zap.Error(err))
		return nil
	}

	enricherLogger := logger.WithEnrichment(zl, "gemini", generator.Model())

	return gemini.NewEnricher(generator, enricherLogger, geminiCfg.MaxLogLength)
}
