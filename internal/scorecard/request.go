package scorecard

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const contentEncoding = "gzip, deflate, br"

type pageResponse struct {
	Metadata struct {
		Total   int `json:"total"`
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
	} `json:"metadata"`
	Results []map[string]any `json:"results"`
}

// getPage makes one GET request against the provider and decodes a single
// results page. The api key and per_page parameters are always set here so
// callers cannot forget them.
func (c *Client) getPage(ctx context.Context, q url.Values) (*pageResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return nil, err
	}

	q.Set("api_key", c.apiKey)
	q.Set("per_page", perPage)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	c.logger.Debug("make scorecard request",
		zap.String("fields", q.Get("fields")),
		zap.String("page", q.Get("page")),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return c.parsePageResponse(resp)
}

func (c *Client) parsePageResponse(resp *http.Response) (*pageResponse, error) {
	var body io.ReadCloser
	var err error
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		body, err = gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		defer body.Close()
		defer resp.Body.Close()
	default:
		body = resp.Body
		defer body.Close()
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var response pageResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, err
	}

	c.logger.Debug("got response from scorecard",
		zap.Int("total", response.Metadata.Total),
		zap.Int("rows", len(response.Results)),
	)

	return &response, nil
}
