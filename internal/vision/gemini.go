package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"prodtrack/internal/model"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

const extractionPrompt = `Analyze this product image.
Extract:
1. The product name (be concise).
2. The barcode or QR payload if visible (digits/text only).
3. The expiry date (format YYYY-MM-DD). Return null if it is not visible.

Return JSON only.`

// GeminiAnalyzer implements Analyzer against the Gemini vision API with
// a constrained JSON response schema.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer. Construction can
// fail (bad client configuration); extraction itself never does.
func NewGeminiAnalyzer(ctx context.Context, apiKey, modelName string, logger zerolog.Logger) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}

	logger = logger.With().Str("component", "vision").Logger()
	logger.Info().Str("model", modelName).Msg("gemini analyzer initialised")

	return &GeminiAnalyzer{client: client, model: modelName, logger: logger}, nil
}

// Analyze sends the image to Gemini and decodes the structured reply.
// Network failures, quota errors and malformed responses all degrade to
// the empty result so the caller lands in manual entry.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) model.ScanResult {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(extractionPrompt),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {Type: genai.TypeString, Description: "Product name"},
				"code": {Type: genai.TypeString, Description: "Detected barcode or QR payload"},
				"expiry_date": {
					Type:        genai.TypeString,
					Description: "Expiry date as YYYY-MM-DD, null when not found",
					Nullable:    genai.Ptr(true),
				},
			},
			Required: []string{"name", "code", "expiry_date"},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.logger.Warn().Err(err).Msg("extraction call failed, falling back to manual entry")
		return model.ScanResult{}
	}

	return decodeResult(resp.Text(), g.logger)
}

// decodeResult parses the model's JSON payload, degrading to the empty
// result on any shape problem. An expiry value that does not parse as a
// date is dropped rather than stored.
func decodeResult(text string, logger zerolog.Logger) model.ScanResult {
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn().Msg("empty extraction response")
		return model.ScanResult{}
	}

	var raw struct {
		Name       string  `json:"name"`
		Code       string  `json:"code"`
		ExpiryDate *string `json:"expiry_date"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		logger.Warn().Err(err).Msg("malformed extraction response")
		return model.ScanResult{}
	}

	result := model.ScanResult{
		Name: strings.TrimSpace(raw.Name),
		Code: strings.TrimSpace(raw.Code),
	}
	if raw.ExpiryDate != nil {
		if _, ok := model.ParseDay(*raw.ExpiryDate); ok {
			result.ExpiryDate = strings.TrimSpace(*raw.ExpiryDate)
		} else {
			logger.Warn().Str("expiry", *raw.ExpiryDate).Msg("dropping unparseable expiry date")
		}
	}
	return result
}
