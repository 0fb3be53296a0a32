package scorecard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"collegematch/internal/utils"
)

const (
	// Broad-scan bounds: pages of the full dataset scanned, and the number
	// of locally-matched rows that stops the scan early.
	broadScanMaxPages   = 5
	broadScanMaxMatches = 25

	broadScanSort = "latest.student.size:desc"

	// Small pause between broad-scan pages to stay polite with the
	// provider.
	broadScanPageDelay = 100 * time.Millisecond
)

// Search fetches one page of candidate records under the given hard filters.
// This is the filtered mode used by the matching flow: any provider failure
// aborts the request.
func (c *Client) Search(ctx context.Context, filters HardFilters) (*Schools, error) {
	q := url.Values{}
	q.Set("fields", fullFields)
	filters.apply(q)

	resp, err := c.getPage(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search schools: %w", err)
	}

	return decodeSchools(resp.Results)
}

// SearchByName queries the provider's own school.name filter. The provider
// matching is often too strict for partial tokens, so typeahead callers fall
// back to BroadScan when this under-returns.
func (c *Client) SearchByName(ctx context.Context, name string) (*Schools, error) {
	q := url.Values{}
	q.Set("fields", suggestFields)
	q.Set("school.name", name)

	resp, err := c.getPage(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search schools by name: %w", err)
	}

	return decodeSchools(resp.Results)
}

// SearchByIDs fetches the records for an explicit id list in one request,
// using the provider's comma-joined multi-value filter.
func (c *Client) SearchByIDs(ctx context.Context, ids []int) (*Schools, error) {
	if len(ids) == 0 {
		return &Schools{}, nil
	}

	joined := make([]byte, 0, len(ids)*8)
	for i, id := range ids {
		if i > 0 {
			joined = append(joined, ',')
		}
		joined = strconv.AppendInt(joined, int64(id), 10)
	}

	q := url.Values{}
	q.Set("fields", fullFields)
	q.Set("id", string(joined))

	resp, err := c.getPage(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch schools by id: %w", err)
	}

	return decodeSchools(resp.Results)
}

// BroadScan walks up to five pages of the full dataset sorted by descending
// undergraduate size and keeps rows whose name satisfies the match predicate.
// The scan stops early once 25 matches are accumulated. It is a best-effort
// fallback: a failed page stops the scan and whatever was accumulated so far
// is returned. Pages are fetched sequentially because the stopping condition
// depends on the accumulated count.
func (c *Client) BroadScan(ctx context.Context, match func(name string) bool) (*Schools, error) {
	out := &Schools{}

	for page := 0; page < broadScanMaxPages; page++ {
		if page > 0 {
			if err := utils.WaitFor(ctx, broadScanPageDelay); err != nil {
				return out, nil
			}
		}

		q := url.Values{}
		q.Set("fields", suggestFields)
		q.Set("page", strconv.Itoa(page))
		q.Set("sort", broadScanSort)

		resp, err := c.getPage(ctx, q)
		if err != nil {
			// A missing credential is a config problem, not a flaky page.
			if errors.Is(err, ErrMissingAPIKey) {
				return nil, err
			}
			c.logger.Debug("broad scan page failed, keeping accumulated rows",
				zap.Int("page", page),
				zap.Int("accumulated", out.Len()),
				zap.Error(err),
			)
			return out, nil
		}

		rows, err := decodeSchools(resp.Results)
		if err != nil {
			return out, nil
		}

		for _, school := range rows.Items {
			if school.Name == "" {
				continue
			}
			if match(school.Name) {
				out.Items = append(out.Items, school)
			}
		}

		if out.Len() >= broadScanMaxMatches {
			c.logger.Debug("broad scan matched enough rows",
				zap.Int("pages_scanned", page+1),
				zap.Int("accumulated", out.Len()),
			)
			break
		}
	}

	return out, nil
}
