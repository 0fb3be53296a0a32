package match

import (
	"fmt"
	"testing"

	"collegematch/internal/ai"
	"collegematch/internal/profile"
	"collegematch/internal/scorecard"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func TestSizeBucketBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int
		want profile.SizePref
	}{
		{0, profile.SizeSmall},
		{4999, profile.SizeSmall},
		{5000, profile.SizeMedium},
		{15000, profile.SizeMedium},
		{15001, profile.SizeLarge},
	}

	for _, tt := range tests {
		if got := SizeBucket(tt.size); got != tt.want {
			t.Fatalf("SizeBucket(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestScoreCloserSATScoresHigher(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{SAT: intPtr(1400)}.Normalized()

	near := &scorecard.School{ID: 1, Name: "Near", SATAvg: intPtr(1400)}
	far := &scorecard.School{ID: 2, Name: "Far", SATAvg: intPtr(1200)}

	nearScore := Score(p, near, nil)
	farScore := Score(p, far, nil)

	if nearScore < farScore {
		t.Fatalf("expected the closer school to score at least as high: %v < %v", nearScore, farScore)
	}
	if nearScore != 70 {
		t.Fatalf("an exact academic match should earn the full academic weight, got %v", nearScore)
	}
}

func TestScoreNeutralWithoutComparableData(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{SAT: intPtr(1400)}.Normalized()
	sparse := &scorecard.School{ID: 1, Name: "Sparse"}

	if got := Score(p, sparse, nil); got != 35 {
		t.Fatalf("expected the neutral half-weight for sparse admissions data, got %v", got)
	}
}

func TestScoreSizeBonus(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{
		SAT:  intPtr(1300),
		Size: profile.SizeMedium,
	}.Normalized()

	matching := &scorecard.School{ID: 1, SATAvg: intPtr(1300), UndergradSize: intPtr(5000)}
	other := &scorecard.School{ID: 2, SATAvg: intPtr(1300), UndergradSize: intPtr(40000)}
	unknown := &scorecard.School{ID: 3, SATAvg: intPtr(1300)}

	if got := Score(p, matching, nil); got != 85 {
		t.Fatalf("expected 70 academic + 15 size, got %v", got)
	}
	if got := Score(p, other, nil); got != 70 {
		t.Fatalf("a bucket mismatch must not penalize, got %v", got)
	}
	if got := Score(p, unknown, nil); got != 70 {
		t.Fatalf("missing enrollment must contribute nothing, got %v", got)
	}
}

func TestScoreEnrichmentBonuses(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{
		SAT:       intPtr(1300),
		GreekLife: profile.PrefYes,
		D1Sports:  profile.PrefNo,
	}.Normalized()

	school := &scorecard.School{ID: 1, SATAvg: intPtr(1300)}

	both := &ai.Enrichment{HasGreekLife: boolPtr(true), HasD1Sports: boolPtr(false)}
	if got := Score(p, school, both); got != 85 {
		t.Fatalf("expected both preference bonuses, got %v", got)
	}

	mismatch := &ai.Enrichment{HasGreekLife: boolPtr(false), HasD1Sports: boolPtr(true)}
	if got := Score(p, school, mismatch); got != 70 {
		t.Fatalf("mismatches must never subtract, got %v", got)
	}

	if got := Score(p, school, ai.Empty()); got != 70 {
		t.Fatalf("null attributes must contribute nothing, got %v", got)
	}
	if got := Score(p, school, nil); got != 70 {
		t.Fatalf("a missing enrichment record must contribute nothing, got %v", got)
	}
}

func TestScoreGPAUsesSelectivity(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{GPA: floatPtr(4.0)}.Normalized()

	// Acceptance rate 0 maps to an expected GPA of 4.0.
	selective := &scorecard.School{ID: 1, AcceptanceRate: floatPtr(0)}
	open := &scorecard.School{ID: 2, AcceptanceRate: floatPtr(1)}

	if got := Score(p, selective, nil); got != 70 {
		t.Fatalf("expected a full academic score against the selectivity proxy, got %v", got)
	}
	if got := Score(p, open, nil); got >= 70 {
		t.Fatalf("expected a lower score for a 1.5-point GPA gap, got %v", got)
	}
}

func TestScoreStaysInRange(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{
		SAT:       intPtr(1500),
		ACT:       intPtr(34),
		GPA:       floatPtr(3.9),
		Size:      profile.SizeLarge,
		GreekLife: profile.PrefYes,
		D1Sports:  profile.PrefYes,
	}.Normalized()

	school := &scorecard.School{
		ID:             1,
		SATAvg:         intPtr(1500),
		ACTMid:         intPtr(34),
		AcceptanceRate: floatPtr(0.066),
		UndergradSize:  intPtr(30000),
	}
	enrichment := &ai.Enrichment{HasGreekLife: boolPtr(true), HasD1Sports: boolPtr(true)}

	got := Score(p, school, enrichment)
	if got < 0 || got > 100 {
		t.Fatalf("score must stay in [0,100], got %v", got)
	}
	if got < 95 {
		t.Fatalf("an across-the-board fit should score near the top, got %v", got)
	}
}

func TestRankCapsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{SAT: intPtr(1200)}.Normalized()

	schools := &scorecard.Schools{}
	for i := 0; i < MaxResults+5; i++ {
		schools.Items = append(schools.Items, &scorecard.School{
			ID:     i + 1,
			Name:   fmt.Sprintf("College %d", i+1),
			SATAvg: intPtr(1200),
		})
	}

	ranked := Rank(p, schools, nil)
	if len(ranked) != MaxResults {
		t.Fatalf("expected the list capped at %d, got %d", MaxResults, len(ranked))
	}

	// Identical scores keep provider order.
	for i, r := range ranked {
		if r.School.ID != i+1 {
			t.Fatalf("expected stable ordering, got id %d at position %d", r.School.ID, i)
		}
	}
}

func TestRankHighestFirst(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{SAT: intPtr(1400)}.Normalized()

	schools := &scorecard.Schools{Items: []*scorecard.School{
		{ID: 1, Name: "Far", SATAvg: intPtr(1100)},
		{ID: 2, Name: "Exact", SATAvg: intPtr(1400)},
		{ID: 3, Name: "Close", SATAvg: intPtr(1350)},
	}}

	ranked := Rank(p, schools, nil)
	if ranked[0].School.ID != 2 || ranked[1].School.ID != 3 || ranked[2].School.ID != 1 {
		t.Fatalf("expected descending score order, got %d, %d, %d",
			ranked[0].School.ID, ranked[1].School.ID, ranked[2].School.ID)
	}
}
