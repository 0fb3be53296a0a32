package scorecard

import "github.com/mitchellh/mapstructure"

// Ownership codes used by the College Scorecard dataset.
const (
	OwnershipPublic           = 1
	OwnershipPrivateNonprofit = 2
	OwnershipPrivateForprofit = 3
)

// Schools is an ordered collection of school records. Provider order is
// preserved because ranking ties are broken by it.
type Schools struct {
	Items []*School
}

// School is one institution record projected from the provider dataset.
// Pointer fields are nil when the dataset has no value for the institution.
type School struct {
	ID      int    `scorecard:"id" json:"id"`
	Name    string `scorecard:"school.name" json:"name"`
	City    string `scorecard:"school.city" json:"city,omitempty"`
	State   string `scorecard:"school.state" json:"state,omitempty"`
	Website string `scorecard:"school.school_url" json:"website,omitempty"`

	Ownership      *int     `scorecard:"school.ownership" json:"ownership,omitempty"`
	UndergradSize  *int     `scorecard:"latest.student.size" json:"undergradSize,omitempty"`
	AcceptanceRate *float64 `scorecard:"latest.admissions.admission_rate.overall" json:"acceptanceRate,omitempty"`
	SATAvg         *int     `scorecard:"latest.admissions.sat_scores.average.overall" json:"satAvg,omitempty"`
	ACTMid         *int     `scorecard:"latest.admissions.act_scores.midpoint.cumulative" json:"actMid,omitempty"`
	TuitionIn      *int     `scorecard:"latest.cost.tuition.in_state" json:"tuitionIn,omitempty"`
	TuitionOut     *int     `scorecard:"latest.cost.tuition.out_of_state" json:"tuitionOut,omitempty"`
}

// IsPublic reports whether the institution is publicly controlled. It returns
// false when the ownership code is absent.
func (s *School) IsPublic() bool {
	return s.Ownership != nil && *s.Ownership == OwnershipPublic
}

// IsPrivate covers both nonprofit and for-profit private institutions.
func (s *School) IsPrivate() bool {
	return s.Ownership != nil &&
		(*s.Ownership == OwnershipPrivateNonprofit || *s.Ownership == OwnershipPrivateForprofit)
}

func (s *Schools) Len() int {
	return len(s.Items)
}

func (s *Schools) FindByID(id int) *School {
	for _, school := range s.Items {
		if school.ID == id {
			return school
		}
	}
	return nil
}

// Append adds records from another collection, keeping order.
func (s *Schools) Append(other *Schools) {
	if other == nil {
		return
	}
	s.Items = append(s.Items, other.Items...)
}

// decodeSchools converts the provider's dotted-key rows into typed records.
// Rows are loosely shaped JSON objects so the strict mapping happens here, at
// the ingestion boundary.
func decodeSchools(rows []map[string]any) (*Schools, error) {
	schools := make([]*School, 0, len(rows))

	for _, row := range rows {
		var school School
		cfg := &mapstructure.DecoderConfig{
			Result:           &school,
			TagName:          "scorecard",
			WeaklyTypedInput: true,
		}

		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(row); err != nil {
			return nil, err
		}

		schools = append(schools, &school)
	}

	return &Schools{Items: schools}, nil
}
