package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"messenger_go/internal/domain"
)

const unsplashEndpoint = "https://api.unsplash.com/search/photos"

// UnsplashClient implements PhotoSearcher against the Unsplash search API.
type UnsplashClient struct {
	accessKey string
	http      *http.Client
	log       *zap.Logger
}

func NewUnsplashClient(accessKey string, log *zap.Logger) *UnsplashClient {
	return &UnsplashClient{
		accessKey: accessKey,
		http:      &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

func (c *UnsplashClient) Search(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, unsplashEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrProvider, err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("unsplash request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("unsplash api error", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: unsplash: %s", domain.ErrProvider, resp.Status)
	}

	var out unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrProvider, err)
	}
	if len(out.Results) == 0 {
		return "", fmt.Errorf("%w: no photos found for %q", domain.ErrProvider, query)
	}
	return out.Results[0].URLs.Regular, nil
}
