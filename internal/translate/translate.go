// Package translate renders Spanish marketplace descriptions through a
// text-generation service. The service is an opaque text-to-text call; the
// output is post-processed so the plain-text and lb→kg guarantees hold even
// when the model ignores the instructions.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/profitools/listgen/internal/config"
	"github.com/profitools/listgen/internal/types"
)

const systemPrompt = "You are a Spanish-speaking product content writer specializing in professional tools. " +
	"Your job is to create accurate, effective product descriptions that properly represent each specific tool's features and applications."

const promptTemplate = `Create an effective Spanish product description for a marketplace listing based on the following product information.
Focus on ACCURACY first - make sure you correctly describe this specific product's features and uses.

PRODUCT INFORMATION (JSON format):
%s

ENGLISH DESCRIPTION (for reference):
%s

Guidelines:
1. START WITH THE PRODUCT NAME IN SPANISH. The original name is "%s %s" - translate this to Spanish and put it at the TOP of your response.
2. Accurately describe THIS specific product - its exact features, specifications, and intended uses
3. Highlight the practical benefits of THIS specific tool
4. Include relevant application cases where this tool would be used
5. If it's a set, clearly list the items included
6. Maintain a professional marketing tone without exaggeration
7. Keep technical measurements and specifications accurate
8. OUTPUT MUST BE IN PLAIN TEXT format (no markdown, HTML, or other formatting)
9. IMPORTANT: Convert any weight measurements from pounds (lb) to kilograms (kg) using kg = lb * 0.453592 rounded to 2 decimals. For example, "1.5 lb" must become "0.68 kg".

The description should be well-structured with:
- Clear section titles (like "Características:", "Aplicaciones:", etc.)
- Use simple dash or bullet symbol for lists
- Plain text spacing for readability
- No markdown, HTML, or special formatting characters
- All weight measurements in kilograms (kg), not pounds (lb)`

// provider is one text-generation backend.
type provider interface {
	generate(ctx context.Context, system, prompt string) (string, error)
	name() string
}

// Translator sends product data plus the English reference text to the
// configured provider and returns the cleaned Spanish rendering.
type Translator struct {
	provider provider
	footer   string
	logger   *slog.Logger
}

// New creates a Translator for the configured provider. When no API key is
// set the Translator is disabled: rows are still written, with an empty
// Spanish description.
func New(cfg config.TranslateConfig, footer string, logger *slog.Logger) *Translator {
	t := &Translator{footer: footer, logger: logger.With("component", "translator")}
	if cfg.APIKey() == "" {
		logger.Warn("translation API key not set, translation disabled", "provider", cfg.Provider)
		return t
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		t.provider = &geminiProvider{apiKey: cfg.GeminiAPIKey, model: cfg.Model}
	default:
		t.provider = &openAIProvider{
			endpoint: cfg.Endpoint,
			apiKey:   cfg.OpenAIAPIKey,
			model:    cfg.Model,
		}
	}
	return t
}

// Enabled reports whether a provider is configured.
func (t *Translator) Enabled() bool { return t.provider != nil }

// Translate generates the Spanish description for rec. english is the
// composed reference text. Service failures and empty responses come back
// as *types.TranslateError.
func (t *Translator) Translate(ctx context.Context, rec *types.ProductRecord, english string) (string, error) {
	if t.provider == nil {
		return "", &types.TranslateError{Provider: "none", Err: fmt.Errorf("no API key configured")}
	}

	payload, err := rec.TranslationPayload()
	if err != nil {
		return "", &types.TranslateError{Provider: t.provider.name(), Err: err}
	}

	// Convert weights up front so the reference text the model sees is
	// already in kilograms.
	english = ConvertPounds(english)

	prompt := fmt.Sprintf(promptTemplate, ConvertPounds(string(payload)), english, rec.Code, rec.Name)

	raw, err := t.provider.generate(ctx, systemPrompt, prompt)
	if err != nil {
		return "", &types.TranslateError{Provider: t.provider.name(), Err: err}
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &types.TranslateError{Provider: t.provider.name(), Err: types.ErrEmptyResponse}
	}

	// The instruction forbids markup and pounds but does not guarantee
	// either; enforce both here.
	text = StripMarkdown(text)
	text = ConvertPounds(text)

	if t.footer != "" {
		text = insertAfterFirstLine(text, t.footer)
	}

	t.logger.Debug("translation complete", "code", rec.Code, "length", len(text))
	return text, nil
}

// insertAfterFirstLine places extra below the first line, which the prompt
// reserves for the translated product name.
func insertAfterFirstLine(text, extra string) string {
	if i := strings.Index(text, "\n"); i >= 0 {
		return text[:i+1] + "\n" + extra + "\n" + text[i+1:]
	}
	return text + "\n\n" + extra
}
