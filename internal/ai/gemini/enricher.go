package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"collegematch/internal/ai"
	"collegematch/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Enricher asks Gemini for the supplementary attributes of one school and
// maps the loosely shaped answer into a strict record.
type Enricher struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewEnricher(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Enricher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Enricher{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Enrich issues one completion call and parses the JSON object embedded in
// the response text. Malformed or mistyped fields degrade to null
// individually; a bad alumni list does not invalidate a good fun fact.
func (e *Enricher) Enrich(ctx context.Context, id int, name, state string) (*ai.Enrichment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("school name is required")
	}

	prompt := buildPrompt(name, state)

	e.logger.Debug("gemini enrichment request",
		zap.Int("school_id", id),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini enrichment response",
		zap.Int("school_id", id),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseResponse(raw), nil
}

func buildPrompt(name, state string) string {
	school := name
	if s := strings.TrimSpace(state); s != "" {
		school = fmt.Sprintf("%s, %s", name, s)
	}
	return strings.ReplaceAll(promptTemplate, "{{SCHOOL}}", school)
}

// parseResponse never fails outright: when the payload cannot be parsed the
// all-null record is returned and each field is coerced independently.
func parseResponse(raw string) *ai.Enrichment {
	payload, ok := extractJSON(raw)
	if !ok {
		return ai.Empty()
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return ai.Empty()
	}

	return &ai.Enrichment{
		HasGreekLife:  coerceBoolPtr(data["hasGreekLife"]),
		HasD1Sports:   coerceBoolPtr(data["hasD1Sports"]),
		NotableAlumni: coerceNames(data["notableAlumni"]),
		FunFact:       coerceText(data["funFact"]),
	}
}

// extractJSON cuts the substring between the first '{' and the last '}' so
// leading or trailing model commentary is tolerated.
func extractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// coerceBoolPtr keeps only genuine booleans. Anything else, including the
// model answering "unsure" or null, stays unknown.
func coerceBoolPtr(v any) *bool {
	if val, ok := v.(bool); ok {
		return &val
	}
	return nil
}

func coerceNames(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
		if len(names) == ai.MaxNotableAlumni {
			break
		}
	}

	if len(names) == 0 {
		return nil
	}
	return names
}

func coerceText(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
