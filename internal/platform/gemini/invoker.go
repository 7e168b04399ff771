package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/nutri-api/internal/config"
	"github.com/phrazzld/nutri-api/internal/generation"
	"google.golang.org/genai"
)

// contentGenerator is the slice of the genai client the invoker needs.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Invoker implements generation.Invoker on the Gemini API.
type Invoker struct {
	logger      *slog.Logger
	models      contentGenerator
	model       string
	temperature float32
}

var _ generation.Invoker = (*Invoker)(nil)

// NewInvoker creates a Gemini-backed invoker.
//
// Parameters:
//   - ctx: Context for client construction
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name and temperature
//
// Returns:
//   - A ready Invoker, or an error wrapping generation.ErrInvalidConfig
func NewInvoker(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Invoker, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newInvoker(logger, client.Models, cfg), nil
}

func newInvoker(logger *slog.Logger, models contentGenerator, cfg config.LLMConfig) *Invoker {
	return &Invoker{
		logger:      logger.With("component", "gemini"),
		models:      models,
		model:       cfg.ModelName,
		temperature: float32(cfg.Temperature),
	}
}

func validateConfig(cfg config.LLMConfig) error {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	return nil
}

// Invoke sends req to the model in a single attempt.
func (i *Invoker) Invoke(ctx context.Context, req *generation.Request) (*generation.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", generation.ErrInvalidResponse)
	}

	contents := buildContents(req)
	genConfig := i.buildConfig(req)

	i.logger.DebugContext(ctx, "calling Gemini",
		"model", i.model,
		"structured", req.Structured(),
		"history_turns", len(req.History),
		"media_parts", len(req.Media),
		"prompt_length", len(req.Prompt))

	resp, err := i.models.GenerateContent(ctx, i.model, contents, genConfig)
	if err != nil {
		i.logger.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		i.logger.WarnContext(ctx, "Gemini returned no usable output", "error", err)
		return nil, err
	}

	out := &generation.Response{Text: text}
	if req.Structured() {
		value, err := extractJSON(text)
		if err != nil {
			i.logger.WarnContext(ctx, "Gemini returned undecodable JSON",
				"error", err,
				"response_length", len(text))
			return nil, err
		}
		out.Structured = value
	}

	i.logger.DebugContext(ctx, "Gemini call succeeded", "response_length", len(text))
	return out, nil
}

func (i *Invoker) buildConfig(req *generation.Request) *genai.GenerateContentConfig {
	temperature := i.temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}

	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.Structured() {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenaiSchema(req.OutputSchema)
	}
	return cfg
}

// buildContents lays out history turns followed by the final user turn,
// which carries media parts ahead of the prompt text.
func buildContents(req *generation.Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, msg := range req.History {
		role := string(generation.RoleUser)
		if msg.Role == generation.RoleModel {
			role = string(generation.RoleModel)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}

	parts := make([]*genai.Part, 0, len(req.Media)+1)
	for _, m := range req.Media {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: m.MIMEType, Data: m.Data},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	return append(contents, &genai.Content{Role: string(generation.RoleUser), Parts: parts})
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrNoOutput)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no candidates", generation.ErrNoOutput)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", generation.ErrNoOutput)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty text", generation.ErrNoOutput)
	}
	return text, nil
}
