package scorecard

import (
	"net/url"
	"sort"
	"testing"

	"collegematch/internal/profile"
	"collegematch/internal/regions"
)

func TestBuildHardFiltersStateWins(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{
		State:  "North Carolina",
		Region: regions.West,
	}

	filters := BuildHardFilters(p)
	if len(filters.States) != 1 || filters.States[0] != "NC" {
		t.Fatalf("expected exact-state filter NC, got %v", filters.States)
	}
}

func TestBuildHardFiltersRegionExpansion(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{Region: regions.Southwest}

	filters := BuildHardFilters(p)

	expect := append([]string{}, regions.StatesForRegion(regions.Southwest)...)
	got := append([]string{}, filters.States...)
	sort.Strings(expect)
	sort.Strings(got)

	if len(got) != len(expect) {
		t.Fatalf("expected %d states, got %d", len(expect), len(got))
	}
	for i := range expect {
		if got[i] != expect[i] {
			t.Fatalf("expected state set %v, got %v", expect, filters.States)
		}
	}
}

func TestBuildHardFiltersInvalidStateFallsBackToRegion(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{State: "Atlantis", Region: regions.Southwest}

	filters := BuildHardFilters(p)
	if len(filters.States) != 4 {
		t.Fatalf("expected region fallback to 4 states, got %v", filters.States)
	}
}

func TestBuildHardFiltersNoGeography(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{Region: regions.NoPreference}

	filters := BuildHardFilters(p)
	if len(filters.States) != 0 {
		t.Fatalf("expected no geographic filter, got %v", filters.States)
	}

	q := url.Values{}
	filters.apply(q)
	if q.Get("school.state") != "" {
		t.Fatalf("expected no school.state parameter, got %q", q.Get("school.state"))
	}
}

func TestHardFiltersApplyCommaJoins(t *testing.T) {
	t.Parallel()

	q := url.Values{}
	HardFilters{States: []string{"AZ", "NM"}}.apply(q)

	if q.Get("school.state") != "AZ,NM" {
		t.Fatalf("expected comma-joined value, got %q", q.Get("school.state"))
	}
}

func TestBuildHardFiltersIgnoresControl(t *testing.T) {
	t.Parallel()

	p := profile.StudentProfile{
		Region:  regions.West,
		Control: profile.ControlPublic,
	}

	q := url.Values{}
	BuildHardFilters(p).apply(q)

	if q.Get("school.ownership") != "" {
		t.Fatalf("control must not become a hard filter, got %q", q.Get("school.ownership"))
	}
}
