// Package scorecard implements the College Scorecard dataset client: field
// projection, hard geographic filters and the query modes used by the
// matching and typeahead flows.
package scorecard

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.data.gov/ed/collegescorecard/v1/schools"
	userAgent = "collegematch (https://github.com/collegematch)"
	// Max value accepted by the provider for per_page.
	perPage = "100"
)

// ErrMissingAPIKey is returned when no provider credential is configured.
// Filtered-mode flows cannot run without one.
var ErrMissingAPIKey = errors.New("college scorecard api key is not configured")

// StatusError reports a non-success response from the provider.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scorecard api error: %s", e.Status)
}

// fullFields is the bounded projection requested by the matching flow. The
// provider uses dotted field paths.
var fullFields = strings.Join([]string{
	"id",
	"school.name",
	"school.city",
	"school.state",
	"school.school_url",
	"school.ownership",
	"latest.student.size",
	"latest.admissions.admission_rate.overall",
	"latest.admissions.sat_scores.average.overall",
	"latest.admissions.act_scores.midpoint.cumulative",
	"latest.cost.tuition.in_state",
	"latest.cost.tuition.out_of_state",
}, ",")

// suggestFields is the narrower projection used by the typeahead flows.
var suggestFields = strings.Join([]string{
	"id",
	"school.name",
	"school.city",
	"school.state",
}, ",")

type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New builds a client for the schools dataset. The api key may be empty; every
// query will then fail with ErrMissingAPIKey.
func New(logger *zap.Logger, apiKey string) *Client {
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}
