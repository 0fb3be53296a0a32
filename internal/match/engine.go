// Package match computes 0-100 fit scores between a student profile and
// candidate schools, and produces the ranked result list.
package match

import (
	"math"
	"sort"

	"collegematch/internal/ai"
	"collegematch/internal/profile"
	"collegematch/internal/scorecard"
)

const (
	// MaxResults caps the ranked list returned to the caller.
	MaxResults = 10

	// Weighting of the score components. Academic proximity dominates;
	// preference matches are positive-only bonuses.
	academicWeight = 70.0
	sizeBonus      = 15.0
	greekBonus     = 7.5
	d1Bonus        = 7.5

	// Proximity bands: a gap of this much or more scores zero for the
	// component.
	satBand = 400.0
	actBand = 12.0
	gpaBand = 1.0

	// Size bucket boundaries on undergraduate enrollment. The lower
	// boundary of medium is inclusive: exactly 5000 is medium.
	smallMax  = 5000
	mediumMax = 15000
)

// SizeBucket classifies an undergraduate enrollment count.
func SizeBucket(undergradSize int) profile.SizePref {
	switch {
	case undergradSize < smallMax:
		return profile.SizeSmall
	case undergradSize <= mediumMax:
		return profile.SizeMedium
	default:
		return profile.SizeLarge
	}
}

// Score computes the fit between a profile and one school. The profile must
// carry at least one signal; callers gate on profile.CanSearch before
// invoking. The enrichment may be nil or all-null: unknown attributes
// contribute nothing, they are never treated as "no".
func Score(p profile.StudentProfile, school *scorecard.School, enrichment *ai.Enrichment) float64 {
	score := academicScore(p, school)

	if p.Size != profile.SizeNoPreference && school.UndergradSize != nil {
		if SizeBucket(*school.UndergradSize) == p.Size {
			score += sizeBonus
		}
	}

	if enrichment != nil {
		score += booleanBonus(p.GreekLife, enrichment.HasGreekLife, greekBonus)
		score += booleanBonus(p.D1Sports, enrichment.HasD1Sports, d1Bonus)
	}

	return clamp(score, 0, 100)
}

// academicScore averages the proximity of each supplied stat to the school's
// figures and scales it to the academic weight. When neither side has
// comparable data the component is neutral rather than zero, so schools with
// sparse admissions data are not buried.
func academicScore(p profile.StudentProfile, school *scorecard.School) float64 {
	var total float64
	var parts int

	if p.SAT != nil && school.SATAvg != nil {
		total += proximity(float64(*p.SAT), float64(*school.SATAvg), satBand)
		parts++
	}

	if p.ACT != nil && school.ACTMid != nil {
		total += proximity(float64(*p.ACT), float64(*school.ACTMid), actBand)
		parts++
	}

	if p.GPA != nil {
		if expected, ok := expectedGPA(school); ok {
			total += proximity(*p.GPA, expected, gpaBand)
			parts++
		}
	}

	if parts == 0 {
		return academicWeight / 2
	}

	return total / float64(parts) * academicWeight
}

// proximity maps the absolute gap between two values onto [0,1]: identical
// values score 1, gaps of band or more score 0. Strictly monotone in the gap
// inside the band.
func proximity(value, target, band float64) float64 {
	gap := math.Abs(value - target)
	if gap >= band {
		return 0
	}
	return 1 - gap/band
}

// expectedGPA estimates the typical admitted GPA from selectivity, since the
// dataset does not publish GPA averages. A fully open school maps to 2.5, the
// most selective to 4.0.
func expectedGPA(school *scorecard.School) (float64, bool) {
	if school.AcceptanceRate == nil {
		return 0, false
	}
	rate := clamp(*school.AcceptanceRate, 0, 1)
	return 2.5 + 1.5*(1-rate), true
}

// booleanBonus rewards a yes/no preference that matches the enriched
// attribute. Unknown attributes and no_preference contribute zero; a mismatch
// is also zero, never a penalty.
func booleanBonus(pref profile.YesNoPref, attr *bool, bonus float64) float64 {
	if pref == profile.PrefNoPreference || attr == nil {
		return 0
	}
	if (pref == profile.PrefYes) == *attr {
		return bonus
	}
	return 0
}

// Result pairs one school with its enrichment and score.
type Result struct {
	School     *scorecard.School
	Enrichment *ai.Enrichment
	Score      float64
}

// Rank scores every candidate and returns at most MaxResults entries, highest
// first. Ties keep provider order.
func Rank(p profile.StudentProfile, schools *scorecard.Schools, enrichments map[int]*ai.Enrichment) []*Result {
	results := make([]*Result, 0, schools.Len())
	for _, school := range schools.Items {
		enrichment := enrichments[school.ID]
		results = append(results, &Result{
			School:     school,
			Enrichment: enrichment,
			Score:      Score(p, school, enrichment),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	return results
}

func clamp(n, min, max float64) float64 {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
