package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/profitools/listgen/internal/types"
)

// Validate checks the configuration for fatal problems. Anything returned
// here aborts the run before any processing starts.
func Validate(cfg *Config) error {
	if cfg.SitemapURL == "" {
		return &types.ConfigError{Key: "SITEMAP_URL", Err: errors.New("required but not set")}
	}
	if err := ValidateURL(cfg.SitemapURL); err != nil {
		return &types.ConfigError{Key: "SITEMAP_URL", Err: err}
	}
	if cfg.MaxProducts < 0 {
		return &types.ConfigError{Key: "MAX_PRODUCTS", Err: fmt.Errorf("must be >= 0, got %d", cfg.MaxProducts)}
	}
	if cfg.RequestTimeout <= 0 {
		return &types.ConfigError{Key: "REQUEST_TIMEOUT", Err: errors.New("must be > 0")}
	}
	if cfg.RequestDelay < 0 {
		return &types.ConfigError{Key: "REQUEST_DELAY", Err: errors.New("must be >= 0")}
	}
	if cfg.InputCSV == "" || cfg.OutputCSV == "" {
		return &types.ConfigError{Key: "INPUT_CSV/OUTPUT_CSV", Err: errors.New("must not be empty")}
	}
	switch cfg.Translate.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return &types.ConfigError{
			Key: "TRANSLATE_PROVIDER",
			Err: fmt.Errorf("must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, cfg.Translate.Provider),
		}
	}
	return nil
}

// ValidateURL checks that a URL is absolute http(s).
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", types.ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", types.ErrInvalidURL)
	}
	return nil
}
