package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"collegematch/internal/profile"
	"collegematch/internal/scorecard"
)

type unnamedFilter struct{}

// NewUnnamed creates a filter that removes dataset rows without a school
// name. They cannot be presented or matched against a query.
func NewUnnamed() Filter {
	return &unnamedFilter{}
}

func (f *unnamedFilter) Name() string { return "unnamed" }

func (f *unnamedFilter) Disable(string) {}

func (f *unnamedFilter) IsEnabled() bool { return true }

func (f *unnamedFilter) Validate(*Config) error { return nil }

func (f *unnamedFilter) Apply(_ context.Context, deps Deps, s *scorecard.Schools) (*scorecard.Schools, Step, error) {
	initial := s.Len()

	kept := make([]*scorecard.School, 0, initial)
	for _, school := range s.Items {
		if school.Name != "" {
			kept = append(kept, school)
		}
	}
	s.Items = kept

	dropped := initial - s.Len()
	if deps.Logger != nil && dropped > 0 {
		deps.Logger.Debug("dropping unnamed dataset rows",
			zap.Int("dropped", dropped),
			zap.Int("schools_left", s.Len()),
		)
	}

	return s, Step{Initial: initial, Dropped: dropped, Left: s.Len()}, nil
}

type dedupeFilter struct{}

// NewDedupe creates a filter that removes duplicate records by institution
// id, keeping the first occurrence so provider order survives.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Disable(string) {}

func (f *dedupeFilter) IsEnabled() bool { return true }

func (f *dedupeFilter) Validate(*Config) error { return nil }

func (f *dedupeFilter) Apply(_ context.Context, deps Deps, s *scorecard.Schools) (*scorecard.Schools, Step, error) {
	initial := s.Len()

	seen := make(map[int]bool, initial)
	kept := make([]*scorecard.School, 0, initial)
	for _, school := range s.Items {
		if seen[school.ID] {
			continue
		}
		seen[school.ID] = true
		kept = append(kept, school)
	}
	s.Items = kept

	dropped := initial - s.Len()
	if deps.Logger != nil && dropped > 0 {
		deps.Logger.Debug("deduplicating schools by id",
			zap.Int("dropped", dropped),
			zap.Int("schools_left", s.Len()),
		)
	}

	return s, Step{Initial: initial, Dropped: dropped, Left: s.Len()}, nil
}

type controlFilter struct {
	disabled bool
	reason   string
	control  profile.ControlPref
}

// NewControl creates a strict public/private filter. The control preference
// is reserved input: the default policy keeps this step disabled, so control
// neither gates candidates nor affects the score. Enable it to turn the
// preference into a hard filter.
func NewControl(enabled bool) Filter {
	f := &controlFilter{}
	if !enabled {
		f.Disable("strict control filtering is disabled by default policy")
	}
	return f
}

func (f *controlFilter) Name() string { return "control" }

func (f *controlFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *controlFilter) IsEnabled() bool { return !f.disabled }

func (f *controlFilter) Validate(cfg *Config) error {
	f.control = profile.ControlNoPreference
	if cfg != nil && cfg.Control != "" {
		f.control = cfg.Control
	}
	return nil
}

func (f *controlFilter) Apply(_ context.Context, deps Deps, s *scorecard.Schools) (*scorecard.Schools, Step, error) {
	initial := s.Len()
	if f.control == profile.ControlNoPreference {
		return s, Step{Initial: initial, Dropped: 0, Left: s.Len()}, nil
	}

	kept := make([]*scorecard.School, 0, initial)
	for _, school := range s.Items {
		// Records without an ownership code survive a strict filter.
		// Hard filters must never prune on missing data.
		if school.Ownership == nil {
			kept = append(kept, school)
			continue
		}
		if f.control == profile.ControlPublic && school.IsPublic() {
			kept = append(kept, school)
			continue
		}
		if f.control == profile.ControlPrivate && school.IsPrivate() {
			kept = append(kept, school)
		}
	}
	s.Items = kept

	dropped := initial - s.Len()
	if deps.Logger != nil && dropped > 0 {
		deps.Logger.Debug("excluding schools by control",
			zap.String("control", string(f.control)),
			zap.Int("dropped", dropped),
			zap.Int("schools_left", s.Len()),
		)
	}

	return s, Step{Initial: initial, Dropped: dropped, Left: s.Len()}, nil
}

func (f *controlFilter) Status() Status {
	details := map[string]string{
		"strict": strconv.FormatBool(f.IsEnabled()),
	}
	if f.control != "" {
		details["control"] = string(f.control)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
