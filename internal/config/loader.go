package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load builds the configuration from the process environment. A .env file in
// the working directory is merged in first when present; real environment
// variables win over it.
func Load(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using environment only")
	}

	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// The model default depends on the provider.
	if cfg.Translate.Model == "" {
		switch cfg.Translate.Provider {
		case ProviderGemini:
			cfg.Translate.Model = "gemini-1.5-pro"
		default:
			cfg.Translate.Model = "gpt-4o"
		}
	}

	return cfg, nil
}

// setDefaults registers every key with viper so AutomaticEnv picks up the
// matching upper-cased environment variable.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("sitemap_url", cfg.SitemapURL)
	v.SetDefault("input_csv", cfg.InputCSV)
	v.SetDefault("output_csv", cfg.OutputCSV)
	v.SetDefault("recursive", cfg.Recursive)
	v.SetDefault("max_products", cfg.MaxProducts)
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("force_mode", cfg.ForceMode)
	v.SetDefault("brand", cfg.Brand)
	v.SetDefault("listing_footer", cfg.ListingFooter)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("request_delay", cfg.RequestDelay)
	v.SetDefault("translate_provider", cfg.Translate.Provider)
	v.SetDefault("translate_model", cfg.Translate.Model)
	v.SetDefault("translate_endpoint", cfg.Translate.Endpoint)
	v.SetDefault("openai_api_key", cfg.Translate.OpenAIAPIKey)
	v.SetDefault("gemini_api_key", cfg.Translate.GeminiAPIKey)
}
