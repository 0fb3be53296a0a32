// Package regions maps free-text state and region input to canonical
// two-letter state codes.
package regions

import "strings"

// Region is one of the five census-style regions used by the matcher.
type Region string

const (
	Northeast Region = "Northeast"
	Midwest   Region = "Midwest"
	Southeast Region = "Southeast"
	Southwest Region = "Southwest"
	West      Region = "West"

	// NoPreference disables the geographic region filter.
	NoPreference Region = "no_preference"
)

var regionToStates = map[Region][]string{
	Northeast: {"CT", "ME", "MA", "NH", "RI", "VT", "NJ", "NY", "PA"},
	Midwest:   {"IL", "IN", "MI", "OH", "WI", "IA", "KS", "MN", "MO", "NE", "ND", "SD"},
	Southeast: {"AL", "AR", "DE", "DC", "FL", "GA", "KY", "LA", "MD", "MS", "NC", "SC", "TN", "VA", "WV"},
	Southwest: {"AZ", "NM", "OK", "TX"},
	West:      {"AK", "CA", "CO", "HI", "ID", "MT", "NV", "OR", "UT", "WA", "WY"},
}

var stateNameToAbbr = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR", "california": "CA",
	"colorado": "CO", "connecticut": "CT", "delaware": "DE", "district of columbia": "DC",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID", "illinois": "IL",
	"indiana": "IN", "iowa": "IA", "kansas": "KS", "kentucky": "KY", "louisiana": "LA",
	"maine": "ME", "maryland": "MD", "massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK", "oregon": "OR",
	"pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC", "south dakota": "SD",
	"tennessee": "TN", "texas": "TX", "utah": "UT", "vermont": "VT", "virginia": "VA",
	"washington": "WA", "west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
}

var validCodes = buildValidCodes()

func buildValidCodes() map[string]bool {
	codes := make(map[string]bool, len(stateNameToAbbr))
	for _, code := range stateNameToAbbr {
		codes[code] = true
	}
	return codes
}

// NormalizeState resolves a two-letter code or a full state name
// (case-insensitive, whitespace-trimmed) to its canonical code. It returns an
// empty string when the input is empty or unrecognized.
func NormalizeState(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if len(trimmed) == 2 {
		code := strings.ToUpper(trimmed)
		if validCodes[code] {
			return code
		}
		return ""
	}

	return stateNameToAbbr[strings.ToLower(trimmed)]
}

// StatesForRegion returns the member state codes for the given region, or nil
// for NoPreference and unknown regions. Callers must not mutate the result.
func StatesForRegion(region Region) []string {
	return regionToStates[region]
}

// ParseRegion maps free-form input to a known Region. Unknown input falls back
// to NoPreference.
func ParseRegion(input string) Region {
	switch Region(strings.TrimSpace(input)) {
	case Northeast, Midwest, Southeast, Southwest, West:
		return Region(strings.TrimSpace(input))
	default:
		return NoPreference
	}
}
