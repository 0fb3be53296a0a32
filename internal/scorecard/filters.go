package scorecard

import (
	"net/url"
	"strings"

	"collegematch/internal/profile"
	"collegematch/internal/regions"
)

// HardFilters is the set of provider-side query constraints built from a
// student profile. Hard filters gate which records are fetched; they never
// contribute to the match score.
type HardFilters struct {
	// States is the allowed state-code set, empty when all states are
	// eligible. One entry means an exact-state filter.
	States []string
}

// BuildHardFilters converts normalized preferences into provider filters.
//
// Precedence: a valid state preference wins outright and the region is
// ignored. Otherwise a region expands to its member-state set. The control
// preference is deliberately not translated into a hard filter here; strict
// public/private filtering is a disabled pipeline step (see the filtering
// package).
func BuildHardFilters(p profile.StudentProfile) HardFilters {
	if state := regions.NormalizeState(p.State); state != "" {
		return HardFilters{States: []string{state}}
	}

	if p.Region != regions.NoPreference {
		if states := regions.StatesForRegion(p.Region); len(states) > 0 {
			return HardFilters{States: states}
		}
	}

	return HardFilters{}
}

// apply serializes the filters into query parameters. Multi-value state sets
// use the provider's comma-joined OR syntax.
func (f HardFilters) apply(q url.Values) {
	if len(f.States) > 0 {
		q.Set("school.state", strings.Join(f.States, ","))
	}
}
