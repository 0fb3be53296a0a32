package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"collegematch/internal/ai"
	"collegematch/internal/profile"
	"collegematch/internal/scorecard"
)

type stubQuerier struct {
	searchResult *scorecard.Schools
	searchErr    error
	searchCalls  int

	byIDsResult *scorecard.Schools
	byIDsErr    error
	byIDsCalls  int
	gotIDs      []int
}

func (s *stubQuerier) Search(ctx context.Context, filters scorecard.HardFilters) (*scorecard.Schools, error) {
	s.searchCalls++
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchResult, nil
}

func (s *stubQuerier) SearchByIDs(ctx context.Context, ids []int) (*scorecard.Schools, error) {
	s.byIDsCalls++
	s.gotIDs = ids
	if s.byIDsErr != nil {
		return nil, s.byIDsErr
	}
	return s.byIDsResult, nil
}

type stubEnricher struct {
	mu      sync.Mutex
	records map[int]*ai.Enrichment
	calls   int
}

func (s *stubEnricher) Enrich(ctx context.Context, id int, name, state string) *ai.Enrichment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if record, ok := s.records[id]; ok {
		return record
	}
	return ai.Empty()
}

type stubImages struct{}

func (stubImages) BestImage(ctx context.Context, name, website string) string {
	return "https://img.example.com/" + name
}

func newTestService(querier *stubQuerier, enricher *stubEnricher) *Service {
	return NewService(querier, enricher, stubImages{}, false, zap.NewNop())
}

func TestMatchRejectsEmptyProfile(t *testing.T) {
	t.Parallel()

	querier := &stubQuerier{}
	svc := newTestService(querier, &stubEnricher{})

	_, err := svc.Match(context.Background(), profile.StudentProfile{})
	if !errors.Is(err, ErrNoSearchSignals) {
		t.Fatalf("expected ErrNoSearchSignals, got %v", err)
	}
	if querier.searchCalls != 0 {
		t.Fatalf("an empty profile must never reach the provider")
	}
}

func TestMatchEmptyCandidatesReturnsNote(t *testing.T) {
	t.Parallel()

	querier := &stubQuerier{searchResult: &scorecard.Schools{}}
	svc := newTestService(querier, &stubEnricher{})

	resp, err := svc.Match(context.Background(), profile.StudentProfile{State: "WY"})
	if err != nil {
		t.Fatalf("zero candidates is not an error, got %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(resp.Results))
	}
	if resp.Note != NoteNoCandidates {
		t.Fatalf("expected the advisory note, got %q", resp.Note)
	}
}

func TestMatchProviderErrorPropagates(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("provider down")
	querier := &stubQuerier{searchErr: wantErr}
	svc := newTestService(querier, &stubEnricher{})

	_, err := svc.Match(context.Background(), profile.StudentProfile{State: "TX"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the provider error to propagate, got %v", err)
	}
}

func TestMatchRanksAndBuildsCards(t *testing.T) {
	t.Parallel()

	querier := &stubQuerier{searchResult: &scorecard.Schools{Items: []*scorecard.School{
		{ID: 1, Name: "Far College", State: "TX", SATAvg: intPtr(1000)},
		{ID: 2, Name: "Exact University", State: "TX", SATAvg: intPtr(1400)},
	}}}
	svc := newTestService(querier, &stubEnricher{})

	resp, err := svc.Match(context.Background(), profile.StudentProfile{SAT: intPtr(1400), State: "TX"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(resp.Results))
	}

	first := resp.Results[0]
	if first.School.ID != 2 {
		t.Fatalf("expected the closest school first, got id %d", first.School.ID)
	}
	if first.MatchScore == nil || *first.MatchScore <= *resp.Results[1].MatchScore {
		t.Fatalf("expected descending scores on cards")
	}
	if first.Enrichment == nil {
		t.Fatalf("cards must always carry an enrichment record, null-valued if unknown")
	}
	if first.ImageURL == "" {
		t.Fatalf("expected the image lookup to populate the card")
	}
}

func TestMatchEnrichesOnlyTopWithoutPreference(t *testing.T) {
	t.Parallel()

	items := make([]*scorecard.School, 0, 30)
	for i := 1; i <= 30; i++ {
		items = append(items, &scorecard.School{ID: i, Name: "College", SATAvg: intPtr(1200)})
	}

	querier := &stubQuerier{searchResult: &scorecard.Schools{Items: items}}
	enricher := &stubEnricher{}
	svc := newTestService(querier, enricher)

	_, err := svc.Match(context.Background(), profile.StudentProfile{SAT: intPtr(1200)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if enricher.calls != MaxResults {
		t.Fatalf("without greek or d1 preferences only the ranked top needs enrichment, got %d calls", enricher.calls)
	}
}

func TestMatchEnrichesAllWithPreference(t *testing.T) {
	t.Parallel()

	items := make([]*scorecard.School, 0, 30)
	for i := 1; i <= 30; i++ {
		items = append(items, &scorecard.School{ID: i, Name: "College", SATAvg: intPtr(1200)})
	}

	querier := &stubQuerier{searchResult: &scorecard.Schools{Items: items}}
	enricher := &stubEnricher{
		records: map[int]*ai.Enrichment{
			// Only this candidate has greek life, so it must win the
			// ranking even though every academic score is identical.
			25: {HasGreekLife: boolPtr(true)},
		},
	}
	svc := newTestService(querier, enricher)

	resp, err := svc.Match(context.Background(), profile.StudentProfile{
		SAT:       intPtr(1200),
		GreekLife: profile.PrefYes,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if enricher.calls != 30 {
		t.Fatalf("greek preference needs every candidate enriched before ranking, got %d calls", enricher.calls)
	}
	if resp.Results[0].School.ID != 25 {
		t.Fatalf("expected the enriched match ranked first, got id %d", resp.Results[0].School.ID)
	}
}

func TestCompareRejectsBadCounts(t *testing.T) {
	t.Parallel()

	querier := &stubQuerier{}
	svc := newTestService(querier, &stubEnricher{})

	for _, ids := range [][]int{nil, {1}, {1, 2, 3, 4}} {
		_, err := svc.Compare(context.Background(), ids)
		if !errors.Is(err, ErrCompareCount) {
			t.Fatalf("ids %v: expected ErrCompareCount, got %v", ids, err)
		}
	}
	if querier.byIDsCalls != 0 {
		t.Fatalf("count validation must happen before any provider call")
	}
}

func TestComparePreservesRequestedOrder(t *testing.T) {
	t.Parallel()

	querier := &stubQuerier{byIDsResult: &scorecard.Schools{Items: []*scorecard.School{
		{ID: 7, Name: "Seven"},
		{ID: 3, Name: "Three"},
		{ID: 9, Name: "Nine"},
	}}}
	svc := newTestService(querier, &stubEnricher{})

	cards, err := svc.Compare(context.Background(), []int{9, 7, 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	if cards[0].School.ID != 9 || cards[1].School.ID != 7 || cards[2].School.ID != 3 {
		t.Fatalf("expected the requested id order, got %d, %d, %d",
			cards[0].School.ID, cards[1].School.ID, cards[2].School.ID)
	}
	for _, card := range cards {
		if card.MatchScore != nil {
			t.Fatalf("compare results must never carry a match score")
		}
	}
}

func TestCompareDropsUnknownIDs(t *testing.T) {
	t.Parallel()

	querier := &stubQuerier{byIDsResult: &scorecard.Schools{Items: []*scorecard.School{
		{ID: 7, Name: "Seven"},
	}}}
	svc := newTestService(querier, &stubEnricher{})

	cards, err := svc.Compare(context.Background(), []int{7, 123456})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cards) != 1 || cards[0].School.ID != 7 {
		t.Fatalf("expected only the resolved school, got %d cards", len(cards))
	}
}
