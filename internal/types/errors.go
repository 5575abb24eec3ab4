package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidURL    = errors.New("invalid URL")
	ErrEmptyResponse = errors.New("empty response body")
	ErrNoSitemaps    = errors.New("no product sitemaps found")
	ErrNameMissing   = errors.New("product name missing from page")
)

// ConfigError indicates missing or invalid startup configuration.
// It is the only error kind that aborts the process before processing.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error (%s): %v", e.Key, e.Err)
	}
	return fmt.Sprintf("config error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// FetchError wraps transport failures and non-2xx HTTP responses.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps malformed XML or HTML documents.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ScrapeError indicates a required field could not be extracted from a
// product page. The product is skipped; the run continues.
type ScrapeError struct {
	URL   string
	Field string
	Err   error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape error for %s (field=%q): %v", e.URL, e.Field, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// TranslateError wraps translation service failures and empty responses.
type TranslateError struct {
	Provider string
	Err      error
}

func (e *TranslateError) Error() string {
	return fmt.Sprintf("translate error (%s): %v", e.Provider, e.Err)
}

func (e *TranslateError) Unwrap() error { return e.Err }

// StorageError wraps failures reading or writing the CSV files.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
