package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"alumniport/internal/extract"
	"alumniport/internal/pipeline"
)

// Extractor turns one uploaded image into parsed entries.
type Extractor interface {
	Extract(ctx context.Context, id string, image []byte) (extract.Extraction, error)
}

// Handler serves the admin API. Options and Extractor are read-only after
// construction, so one Handler is shared by all requests.
type Handler struct {
	Options   pipeline.Options
	Extractor Extractor
	Logger    *zap.Logger
}

func New(opts pipeline.Options, x Extractor, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Options: opts, Extractor: x, Logger: logger}
}

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// logDiagnostics reports every finding at warn level.
func (h *Handler) logDiagnostics(res pipeline.Result) {
	for _, d := range res.Diagnostics {
		h.Logger.Warn(d.Message, zap.String("kind", string(d.Kind)), zap.String("serial", d.SerialID), zap.String("other", d.Other))
	}
}
