// Package images resolves a display image for a school: a Wikipedia summary
// thumbnail when one exists, then a logo derived from the school's website
// domain. Lookups are best-effort; an empty result means the caller renders a
// placeholder.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	wikiSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary/%s"
	logoURL        = "https://logo.clearbit.com/%s"
)

// Trailing parenthetical qualifiers, e.g. "Miami University (Ohio)".
var parenSuffix = regexp.MustCompile(`\s*\(.*\)\s*$`)

type Finder struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	SummaryURL string
}

func NewFinder(logger *zap.Logger) *Finder {
	return &Finder{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		SummaryURL: wikiSummaryURL,
	}
}

// BestImage tries the encyclopedia thumbnail first and falls back to a logo
// by domain. Both failing yields an empty string, never an error.
func (f *Finder) BestImage(ctx context.Context, name, website string) string {
	if thumb := f.wikiThumb(ctx, name, true); thumb != "" {
		return thumb
	}

	if domain := normalizeDomain(website); domain != "" {
		return fmt.Sprintf(logoURL, domain)
	}

	return ""
}

type wikiSummary struct {
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// wikiThumb fetches the page summary thumbnail. When the exact title misses
// it retries once with the parenthetical suffix stripped; the retry depth is
// fixed at one.
func (f *Finder) wikiThumb(ctx context.Context, title string, allowRetry bool) string {
	endpoint := fmt.Sprintf(f.SummaryURL, url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ""
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		f.logger.Debug("wikipedia summary lookup failed",
			zap.String("title", title),
			zap.Error(err),
		)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return f.retrySimplified(ctx, title, allowRetry)
	}

	var summary wikiSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return ""
	}

	if summary.Thumbnail.Source != "" {
		return summary.Thumbnail.Source
	}

	return f.retrySimplified(ctx, title, allowRetry)
}

func (f *Finder) retrySimplified(ctx context.Context, title string, allowRetry bool) string {
	if !allowRetry {
		return ""
	}

	simplified := strings.TrimSpace(parenSuffix.ReplaceAllString(title, ""))
	if simplified == "" || simplified == title {
		return ""
	}

	return f.wikiThumb(ctx, simplified, false)
}

// normalizeDomain extracts the bare hostname from a school website value,
// tolerating scheme-less URLs and stripping the www prefix.
func normalizeDomain(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}

	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}

	u, err := url.Parse(website)
	if err != nil || u.Hostname() == "" {
		return ""
	}

	return strings.TrimPrefix(u.Hostname(), "www.")
}
