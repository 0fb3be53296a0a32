package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the enrichment
	// provider name.
	FieldProvider = "enrichment_provider"
	// FieldModel is the structured log field key for the model identifier.
	FieldModel = "enrichment_model"
)

// WithEnrichment attaches the enrichment provider and model to the logger so
// every lookup log line carries them. Blank values are skipped and a nil
// logger falls back to a no-op one.
func WithEnrichment(logger *zap.Logger, provider, model string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := make([]zap.Field, 0, 2)
	if provider = strings.TrimSpace(provider); provider != "" {
		fields = append(fields, zap.String(FieldProvider, provider))
	}
	if model = strings.TrimSpace(model); model != "" {
		fields = append(fields, zap.String(FieldModel, model))
	}

	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
