package suggest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"collegematch/internal/scorecard"
)

const (
	// Queries shorter than this (after trimming) short-circuit to an empty
	// result without any provider call.
	minQueryLen = 2

	// When the provider's own name filter returns fewer rows than this,
	// its matching was likely too strict for the token and the broad-scan
	// fallback kicks in.
	directResultThreshold = 8
)

// NameQuerier is the slice of the dataset client the typeahead path needs.
type NameQuerier interface {
	SearchByName(ctx context.Context, name string) (*scorecard.Schools, error)
	BroadScan(ctx context.Context, match func(name string) bool) (*scorecard.Schools, error)
}

type Service struct {
	schools NameQuerier
	logger  *zap.Logger
}

func NewService(schools NameQuerier, logger *zap.Logger) *Service {
	return &Service{schools: schools, logger: logger}
}

// Suggest resolves a free-text query into ranked suggestions. The direct
// name-filter query runs first; when it under-returns, a bounded broad scan
// of the dataset supplements it with locally matched rows.
func (s *Service) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < minQueryLen {
		return []Suggestion{}, nil
	}

	results, err := s.schools.SearchByName(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("name query: %w", err)
	}

	if results.Len() < directResultThreshold {
		q := Normalize(trimmed)
		scanned, err := s.schools.BroadScan(ctx, func(name string) bool {
			return strings.Contains(Normalize(name), q)
		})
		if err != nil {
			return nil, fmt.Errorf("broad scan: %w", err)
		}

		s.logger.Debug("broad scan supplemented direct name query",
			zap.String("query", trimmed),
			zap.Int("direct", results.Len()),
			zap.Int("scanned", scanned.Len()),
		)

		results.Append(scanned)
	}

	return Rank(trimmed, results), nil
}
