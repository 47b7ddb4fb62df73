package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alumniport/internal/models"
	"alumniport/internal/ocr"
)

// Parser names accepted by Extractor.
const (
	ParserRegex  = "regex"
	ParserGemini = "gemini"
)

// Extraction is the outcome of one image.
type Extraction struct {
	Text     string
	Language string
	Entries  []models.AlumniSourceEntry
}

type llmParseFunc func(ctx context.Context, apiKey, ocrText, source string) ([]models.AlumniSourceEntry, error)

// Extractor runs preprocessing, OCR with language fallback and parsing for
// one image at a time.
type Extractor struct {
	Engine       ocr.Engine
	Plan         ocr.Plan
	Parser       string
	GeminiAPIKey string
	// Raw skips grayscale/threshold preprocessing.
	Raw    bool
	Logger *zap.Logger

	llmParse llmParseFunc
}

// Extract recognises image and parses the text into entries. id is used
// as the entries' Source and in error messages.
func (x *Extractor) Extract(ctx context.Context, id string, image []byte) (Extraction, error) {
	log := x.Logger
	if log == nil {
		log = zap.NewNop()
	}

	data := image
	if !x.Raw {
		pre, err := ocr.Preprocess(image)
		if err != nil {
			return Extraction{}, fmt.Errorf("extract: %s: %w", id, err)
		}
		data = pre
	}

	res, err := ocr.RecognizeWithFallback(ctx, x.Engine, ocr.Input{ID: id, Image: data}, x.Plan)
	if err != nil {
		return Extraction{}, fmt.Errorf("extract: %w", err)
	}
	log.Info("text recognized",
		zap.String("image", id),
		zap.String("engine", res.Engine),
		zap.String("language", res.Language),
		zap.Int("chars", len(res.PlainText)))
	log.Debug("ocr text", zap.String("image", id), zap.String("text", res.PlainText))

	out := Extraction{Text: res.PlainText, Language: res.Language}
	switch x.Parser {
	case "", ParserRegex:
		out.Entries, err = Parser{Source: id, Logger: log}.Parse(res.PlainText)
	case ParserGemini:
		parse := x.llmParse
		if parse == nil {
			parse = ParseWithGemini
		}
		out.Entries, err = parse(ctx, x.GeminiAPIKey, res.PlainText, id)
	default:
		return out, fmt.Errorf("extract: unknown parser %q", x.Parser)
	}
	if err != nil {
		return out, fmt.Errorf("extract: %s: %w", id, err)
	}
	return out, nil
}
