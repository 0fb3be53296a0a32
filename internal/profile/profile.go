// Package profile defines the student profile and preference enums consumed
// by the matching flow.
package profile

import "collegematch/internal/regions"

// YesNoPref is a three-state boolean preference.
type YesNoPref string

const (
	PrefYes          YesNoPref = "yes"
	PrefNo           YesNoPref = "no"
	PrefNoPreference YesNoPref = "no_preference"
)

// SizePref buckets schools by undergraduate enrollment.
type SizePref string

const (
	SizeSmall        SizePref = "small"
	SizeMedium       SizePref = "medium"
	SizeLarge        SizePref = "large"
	SizeNoPreference SizePref = "no_preference"
)

// ControlPref selects public vs private institutions.
type ControlPref string

const (
	ControlPublic       ControlPref = "public"
	ControlPrivate      ControlPref = "private"
	ControlNoPreference ControlPref = "no_preference"
)

// StudentProfile captures the academic stats and preferences supplied for one
// match request. It is immutable once built.
type StudentProfile struct {
	SAT *int     `json:"sat,omitempty" mapstructure:"sat" binding:"omitempty,min=0,max=1600"`
	ACT *int     `json:"act,omitempty" mapstructure:"act" binding:"omitempty,min=0,max=36"`
	GPA *float64 `json:"gpa,omitempty" mapstructure:"gpa" binding:"omitempty,min=0,max=4"`

	Size      SizePref       `json:"size" mapstructure:"size"`
	Region    regions.Region `json:"region" mapstructure:"region"`
	State     string         `json:"state,omitempty" mapstructure:"state"`
	D1Sports  YesNoPref      `json:"d1Sports" mapstructure:"d1_sports"`
	GreekLife YesNoPref      `json:"greekLife" mapstructure:"greek_life"`
	Control   ControlPref    `json:"control" mapstructure:"control"`
}

// Normalized returns a copy with the enums resolved to known values (unknown
// input degrades to no preference, never to a phantom signal) and the state
// preference resolved to a canonical code (cleared when unrecognized).
func (p StudentProfile) Normalized() StudentProfile {
	out := p

	switch out.Size {
	case SizeSmall, SizeMedium, SizeLarge:
	default:
		out.Size = SizeNoPreference
	}
	switch out.D1Sports {
	case PrefYes, PrefNo:
	default:
		out.D1Sports = PrefNoPreference
	}
	switch out.GreekLife {
	case PrefYes, PrefNo:
	default:
		out.GreekLife = PrefNoPreference
	}
	switch out.Control {
	case ControlPublic, ControlPrivate:
	default:
		out.Control = ControlNoPreference
	}

	out.Region = regions.ParseRegion(string(p.Region))
	out.State = regions.NormalizeState(p.State)

	return out
}

// CanSearch reports whether at least one profile dimension was supplied.
// Matching never runs on an all-default profile.
func (p StudentProfile) CanSearch() bool {
	if p.SAT != nil || p.ACT != nil || p.GPA != nil {
		return true
	}
	if regions.NormalizeState(p.State) != "" {
		return true
	}
	if regions.ParseRegion(string(p.Region)) != regions.NoPreference {
		return true
	}
	return false
}
