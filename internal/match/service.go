package match

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"collegematch/internal/ai"
	"collegematch/internal/filtering"
	"collegematch/internal/profile"
	"collegematch/internal/scorecard"
)

// NoteNoCandidates is the advisory returned when the geography filters leave
// nothing to score. It is not an error.
const NoteNoCandidates = "No schools matched your location filters. Try widening the state or region."

// Concurrent enrichment and image lookups per request.
const fanOutLimit = 8

// ErrNoSearchSignals rejects profiles with zero supplied dimensions.
var ErrNoSearchSignals = errors.New("at least one academic stat, state or region is required")

// ErrCompareCount rejects compare requests outside the supported 2..3 range.
var ErrCompareCount = errors.New("compare requires between 2 and 3 school ids")

// SchoolQuerier is the slice of the dataset client the service needs.
type SchoolQuerier interface {
	Search(ctx context.Context, filters scorecard.HardFilters) (*scorecard.Schools, error)
	SearchByIDs(ctx context.Context, ids []int) (*scorecard.Schools, error)
}

// EnrichmentSource returns the cached or freshly derived enrichment for one
// school. It never fails; missing data comes back as an all-null record.
type EnrichmentSource interface {
	Enrich(ctx context.Context, id int, name, state string) *ai.Enrichment
}

// ImageSource resolves an optional display image URL for one school.
type ImageSource interface {
	BestImage(ctx context.Context, name, website string) string
}

// Card is the merged, presentation-ready record for one school. MatchScore is
// nil on compare results, which bypass scoring.
type Card struct {
	School     *scorecard.School `json:"school"`
	Enrichment *ai.Enrichment    `json:"enrichment"`
	ImageURL   string            `json:"imageUrl,omitempty"`
	MatchScore *float64          `json:"matchScore,omitempty"`
}

// Response is the outcome of one match request.
type Response struct {
	Results []*Card `json:"results"`
	Note    string  `json:"note,omitempty"`
}

// Service orchestrates the matching flow: hard filters, candidate fetch,
// post-filtering, enrichment join, scoring and ranking.
type Service struct {
	schools       SchoolQuerier
	enricher      EnrichmentSource
	images        ImageSource
	strictControl bool
	logger        *zap.Logger
}

func NewService(schools SchoolQuerier, enricher EnrichmentSource, images ImageSource, strictControl bool, logger *zap.Logger) *Service {
	return &Service{
		schools:       schools,
		enricher:      enricher,
		images:        images,
		strictControl: strictControl,
		logger:        logger,
	}
}

// Match runs the full flow for one student profile.
func (s *Service) Match(ctx context.Context, p profile.StudentProfile) (*Response, error) {
	p = p.Normalized()
	if !p.CanSearch() {
		return nil, ErrNoSearchSignals
	}

	filters := scorecard.BuildHardFilters(p)

	candidates, err := s.schools.Search(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	s.logger.Info("fetched candidate schools",
		zap.Int("count", candidates.Len()),
		zap.Strings("states", filters.States),
	)

	candidates, err = filtering.Run(ctx,
		&filtering.Config{Control: p.Control},
		filtering.Deps{Logger: s.logger},
		s.filterSteps(),
		candidates,
	)
	if err != nil {
		return nil, err
	}

	if candidates.Len() == 0 {
		return &Response{Results: []*Card{}, Note: NoteNoCandidates}, nil
	}

	// Greek life and D1 preferences score against enriched attributes, so
	// those profiles need enrichment before ranking. Otherwise ranking is
	// enrichment-independent and only the final ten need a lookup.
	needBeforeRank := p.GreekLife != profile.PrefNoPreference || p.D1Sports != profile.PrefNoPreference

	enrichments := make(map[int]*ai.Enrichment)
	if needBeforeRank {
		enrichments = s.enrichAll(ctx, candidates.Items)
	}

	ranked := Rank(p, candidates, enrichments)

	if !needBeforeRank {
		top := make([]*scorecard.School, 0, len(ranked))
		for _, r := range ranked {
			top = append(top, r.School)
		}
		enrichments = s.enrichAll(ctx, top)
		for _, r := range ranked {
			r.Enrichment = enrichments[r.School.ID]
		}
	}

	return &Response{Results: s.buildCards(ctx, ranked)}, nil
}

// Compare fetches two or three schools side by side. No scoring happens: the
// records carry enrichment and images but never a match score.
func (s *Service) Compare(ctx context.Context, ids []int) ([]*Card, error) {
	if len(ids) < 2 || len(ids) > 3 {
		return nil, ErrCompareCount
	}

	schools, err := s.schools.SearchByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch schools for compare: %w", err)
	}

	// Preserve the requested order.
	ordered := make([]*Result, 0, len(ids))
	for _, id := range ids {
		if school := schools.FindByID(id); school != nil {
			ordered = append(ordered, &Result{School: school})
		}
	}

	enrichments := s.enrichAll(ctx, schoolsOf(ordered))
	for _, r := range ordered {
		r.Enrichment = enrichments[r.School.ID]
	}

	cards := s.buildCards(ctx, ordered)
	for _, card := range cards {
		card.MatchScore = nil
	}
	return cards, nil
}

func (s *Service) filterSteps() []filtering.Filter {
	return []filtering.Filter{
		filtering.NewUnnamed(),
		filtering.NewDedupe(),
		filtering.NewControl(s.strictControl),
	}
}

// enrichAll fans out the per-school enrichment lookups. They are independent
// and read-only, and the gateway is safe for concurrent use.
func (s *Service) enrichAll(ctx context.Context, schools []*scorecard.School) map[int]*ai.Enrichment {
	var mu sync.Mutex
	enrichments := make(map[int]*ai.Enrichment, len(schools))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	for _, school := range schools {
		g.Go(func() error {
			record := s.enricher.Enrich(gctx, school.ID, school.Name, school.State)
			mu.Lock()
			enrichments[school.ID] = record
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; enrichment degrades to null instead.
	_ = g.Wait()

	return enrichments
}

func (s *Service) buildCards(ctx context.Context, results []*Result) []*Card {
	cards := make([]*Card, len(results))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	for i, r := range results {
		g.Go(func() error {
			score := r.Score
			enrichment := r.Enrichment
			if enrichment == nil {
				enrichment = ai.Empty()
			}
			cards[i] = &Card{
				School:     r.School,
				Enrichment: enrichment,
				ImageURL:   s.images.BestImage(gctx, r.School.Name, r.School.Website),
				MatchScore: &score,
			}
			return nil
		})
	}
	_ = g.Wait()

	return cards
}

func schoolsOf(results []*Result) []*scorecard.School {
	schools := make([]*scorecard.School, 0, len(results))
	for _, r := range results {
		schools = append(schools, r.School)
	}
	return schools
}
