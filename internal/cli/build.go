package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/oracle"
	"github.com/veridex/veridex/internal/pipeline"
	"github.com/veridex/veridex/internal/search"
)

// loadConfig merges built-in defaults with the config file and
// VERIDEX_* env overrides, then reads credentials from the process
// environment. Credentials never come from config files.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	_ = viper.Unmarshal(cfg)

	cfg.Oracle.APIKey = os.Getenv("GROQ_API_KEY")
	cfg.Search.SerperAPIKey = os.Getenv("SERPER_API_KEY")

	return cfg
}

// buildPipeline wires the oracle client, search providers and pipeline
// from configuration. An absent search credential silently activates
// fallback-only retrieval; an absent oracle credential is fatal.
func buildPipeline(cfg *model.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	client, err := oracle.NewGroqClient(cfg.Oracle)
	if err != nil {
		return nil, fmt.Errorf("oracle client: %w (set GROQ_API_KEY)", err)
	}

	var primary search.Provider
	if cfg.Search.SerperAPIKey != "" {
		primary = search.NewSerperProvider(cfg.Search.SerperAPIKey, cfg.Search.Timeout)
		logger.Info("primary search provider enabled", zap.String("provider", primary.Name()))
	} else {
		logger.Info("no search credential configured, fallback-only retrieval")
	}

	fallback := search.NewDuckDuckGoProvider(cfg.Search)
	retriever := search.NewRetriever(primary, fallback, cfg.Search, logger)

	return pipeline.NewPipeline(client, retriever, cfg, logger), nil
}
