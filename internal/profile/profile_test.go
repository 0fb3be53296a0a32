package profile

import (
	"testing"

	"collegematch/internal/regions"
)

func intPtr(n int) *int { return &n }

func TestNormalizedDefaultsEnums(t *testing.T) {
	t.Parallel()

	p := StudentProfile{}.Normalized()

	if p.Size != SizeNoPreference || p.Control != ControlNoPreference {
		t.Fatalf("expected enum defaults, got %+v", p)
	}
	if p.Region != regions.NoPreference {
		t.Fatalf("expected region default, got %q", p.Region)
	}
	if p.D1Sports != PrefNoPreference || p.GreekLife != PrefNoPreference {
		t.Fatalf("expected preference defaults, got %+v", p)
	}
}

func TestNormalizedClearsUnknownEnums(t *testing.T) {
	t.Parallel()

	p := StudentProfile{
		Region:    "Mars",
		Size:      "gigantic",
		D1Sports:  "maybe",
		GreekLife: "sometimes",
		Control:   "charter",
	}.Normalized()

	if p.Region != regions.NoPreference {
		t.Fatalf("expected an unknown region cleared, got %q", p.Region)
	}
	if p.Size != SizeNoPreference || p.D1Sports != PrefNoPreference ||
		p.GreekLife != PrefNoPreference || p.Control != ControlNoPreference {
		t.Fatalf("expected unknown enum values cleared, got %+v", p)
	}
}

func TestNormalizedKeepsKnownEnums(t *testing.T) {
	t.Parallel()

	p := StudentProfile{
		Region:    regions.West,
		Size:      SizeMedium,
		D1Sports:  PrefYes,
		GreekLife: PrefNo,
		Control:   ControlPrivate,
	}.Normalized()

	if p.Region != regions.West || p.Size != SizeMedium || p.D1Sports != PrefYes ||
		p.GreekLife != PrefNo || p.Control != ControlPrivate {
		t.Fatalf("known enum values must survive normalization, got %+v", p)
	}
}

func TestNormalizedResolvesState(t *testing.T) {
	t.Parallel()

	p := StudentProfile{State: " texas "}.Normalized()
	if p.State != "TX" {
		t.Fatalf("expected TX, got %q", p.State)
	}

	p = StudentProfile{State: "Narnia"}.Normalized()
	if p.State != "" {
		t.Fatalf("expected an unrecognized state cleared, got %q", p.State)
	}
}

func TestCanSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    StudentProfile
		want bool
	}{
		{"empty", StudentProfile{}, false},
		{"sat only", StudentProfile{SAT: intPtr(1200)}, true},
		{"valid state", StudentProfile{State: "Ohio"}, true},
		{"invalid state only", StudentProfile{State: "Narnia"}, false},
		{"region only", StudentProfile{Region: regions.West}, true},
		{"no-preference region", StudentProfile{Region: regions.NoPreference}, false},
		{"unknown region only", StudentProfile{Region: "Mars"}, false},
		{"size preference alone", StudentProfile{Size: SizeLarge}, false},
	}

	for _, tt := range tests {
		if got := tt.p.CanSearch(); got != tt.want {
			t.Fatalf("%s: CanSearch() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
