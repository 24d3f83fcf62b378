// Package translate defines the external translator boundary. The engine
// treats the translator as a black box that turns protected Portuguese text
// into candidate English text; retry and timeout policy live here, not in
// the core.
package translate

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"tm-engine/internal/logger"
	"tm-engine/internal/types"
)

const (
	// MaxRetries is the maximum number of retry attempts for API errors
	MaxRetries = 3
	// BaseRetryDelay is the base delay between retries
	BaseRetryDelay = 2 * time.Second
)

// Translator produces a candidate translation for one protected segment.
// sectionContext is the document-section label the segment came from.
type Translator interface {
	Translate(ctx context.Context, protectedText, sectionContext string) (string, error)
}

const systemPrompt = `You are a professional translator of scientific and engineering articles from Portuguese to English.

Rules:
1. Translate into precise academic English.
2. The text contains opaque protected tokens delimited by the characters U+E000 and U+E001 (they look like "` + "" + `MATH:0` + "" + `"). Copy every such token to the output EXACTLY as it appears, character for character. Never translate, rewrite, reorder, drop, or invent these tokens.
3. Preserve paragraph breaks.
4. Output only the translated text, no commentary.`

// OpenAITranslator calls an OpenAI-compatible chat completion endpoint
// through the eino chat model.
type OpenAITranslator struct {
	chat      *openai.ChatModel
	modelName string
}

// NewOpenAITranslator creates a translator against the configured model.
// baseURL may be empty for the default OpenAI endpoint.
func NewOpenAITranslator(ctx context.Context, apiKey, baseURL, modelName string) (*OpenAITranslator, error) {
	if apiKey == "" {
		return nil, types.NewAppError(types.ErrConfig, "OpenAI API key is not configured", nil)
	}
	if modelName == "" {
		modelName = "gpt-4o"
	}

	chatModelConfig := &openai.ChatModelConfig{
		Model:  modelName,
		APIKey: apiKey,
	}
	if baseURL != "" {
		chatModelConfig.BaseURL = baseURL
	}

	chat, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, types.NewAppError(types.ErrConfig, "failed to create chat model", err)
	}

	return &OpenAITranslator{chat: chat, modelName: modelName}, nil
}

// Translate sends one protected segment for translation, retrying transient
// API failures with exponential backoff.
func (t *OpenAITranslator) Translate(ctx context.Context, protectedText, sectionContext string) (string, error) {
	prompt := protectedText
	if sectionContext != "" {
		prompt = "Document section: " + sectionContext + "\n\n" + protectedText
	}
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			delay := BaseRetryDelay * time.Duration(1<<(attempt-1))
			logger.Warn("retrying translation",
				logger.Int("attempt", attempt),
				logger.String("delay", delay.String()))
			select {
			case <-ctx.Done():
				return "", types.NewAppError(types.ErrAPICall, "translation cancelled", ctx.Err())
			case <-time.After(delay):
			}
		}

		response, err := t.chat.Generate(ctx, messages)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return strings.TrimSpace(response.Content), nil
	}

	return "", types.NewAppError(types.ErrAPICall, "translation failed after retries", lastErr)
}

// MockTranslator is a deterministic stand-in for tests and dry runs. With a
// nil Transform it echoes the input unchanged, which keeps protected tokens
// intact and makes restore exact.
type MockTranslator struct {
	Transform func(protectedText string) string
	Calls     int
}

// Translate applies the configured transform, or echoes the input.
func (m *MockTranslator) Translate(ctx context.Context, protectedText, sectionContext string) (string, error) {
	m.Calls++
	if m.Transform != nil {
		return m.Transform(protectedText), nil
	}
	return protectedText, nil
}
