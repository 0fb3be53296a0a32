// Package ai defines the enrichment record produced by AI providers and the
// provider interface implemented by them.
package ai

import "context"

// MaxNotableAlumni caps the alumni list kept per school.
const MaxNotableAlumni = 4

// Enrichment holds AI-derived attributes that the primary dataset does not
// carry. Every field is nullable: a nil pointer or empty value means the
// provider was unsure, and scoring must treat it as unknown rather than "no".
type Enrichment struct {
	HasGreekLife  *bool    `json:"hasGreekLife"`
	HasD1Sports   *bool    `json:"hasD1Sports"`
	NotableAlumni []string `json:"notableAlumni"`
	FunFact       string   `json:"funFact"`
}

// Empty is the all-null record used when no provider is configured or a
// lookup failed.
func Empty() *Enrichment {
	return &Enrichment{}
}

// Enricher produces an enrichment record for one school.
type Enricher interface {
	Enrich(ctx context.Context, id int, name, state string) (*Enrichment, error)
}
