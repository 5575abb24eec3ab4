package config

import "time"

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for listgen. It is constructed once at
// startup and passed by parameter to every component; there is no ambient
// global lookup.
type Config struct {
	// SitemapURL is the entry point: either a sitemap index or a product
	// sitemap directly. Required.
	SitemapURL string `mapstructure:"sitemap_url"`

	InputCSV  string `mapstructure:"input_csv"`
	OutputCSV string `mapstructure:"output_csv"`

	// Recursive controls whether index children are descended into.
	Recursive bool `mapstructure:"recursive"`

	// MaxProducts caps how many matched products are processed (0 = unbounded).
	MaxProducts int `mapstructure:"max_products"`

	Debug     bool `mapstructure:"debug"`
	ForceMode bool `mapstructure:"force_mode"`

	// Brand is the manufacturer name used by the composer and the
	// sitemap caption matcher (e.g. "Wiha"). Empty means brand-neutral.
	Brand string `mapstructure:"brand"`

	// ListingFooter is inserted after the first line of the Spanish text,
	// right below the translated product name.
	ListingFooter string `mapstructure:"listing_footer"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RequestDelay   time.Duration `mapstructure:"request_delay"`

	Translate TranslateConfig `mapstructure:",squash"`
}

// TranslateConfig configures the translation service adapter.
type TranslateConfig struct {
	Provider     string `mapstructure:"translate_provider"` // openai or gemini
	Model        string `mapstructure:"translate_model"`
	Endpoint     string `mapstructure:"translate_endpoint"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
}

// APIKey returns the credential for the configured provider.
func (c TranslateConfig) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		InputCSV:       "codes.csv",
		OutputCSV:      "products.csv",
		Recursive:      true,
		RequestTimeout: 30 * time.Second,
		RequestDelay:   time.Second,
		Translate: TranslateConfig{
			Provider: ProviderOpenAI,
			Endpoint: "https://api.openai.com/v1",
		},
	}
}
