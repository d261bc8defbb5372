package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/RC170373/bookie-melissa-sub001/internal/config"
)

// VolumeInfo is one candidate record from the bibliographic source.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Description         string               `json:"description"`
	PageCount           int                  `json:"pageCount"`
	PublishedDate       string               `json:"publishedDate"` // ISO-ish date or year-only
	Categories          []string             `json:"categories"`
	ImageLinks          ImageLinks           `json:"imageLinks"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
}

// ImageLinks carries the cover variants the source offers, smallest to
// largest.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
	ExtraLarge     string `json:"extraLarge"`
}

type IndustryIdentifier struct {
	Type       string `json:"type"` // "ISBN_10" or "ISBN_13"
	Identifier string `json:"identifier"`
}

// VolumeSearcher is the read-only search surface the resolver consumes.
type VolumeSearcher interface {
	SearchVolumes(ctx context.Context, query string) ([]VolumeInfo, error)
}

// GoogleBooksClient queries the Google Books volumes API with per-call
// rate limiting and timeouts.
type GoogleBooksClient struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	langRestrict string
	maxResults   int
	limiter      *Limiter
}

func NewGoogleBooksClient(cfg config.GoogleBooks) *GoogleBooksClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultGoogleBooksBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &GoogleBooksClient{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		apiKey:       cfg.APIKey,
		langRestrict: cfg.LangRestrict,
		maxResults:   maxResults,
		limiter:      NewLimiter(cfg.RateInterval),
	}
}

// SearchVolumes runs one query against the volumes endpoint and returns
// the candidate list, possibly empty.
func (c *GoogleBooksClient) SearchVolumes(ctx context.Context, query string) ([]VolumeInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("orderBy", "relevance")
	if c.langRestrict != "" {
		params.Set("langRestrict", c.langRestrict)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	searchURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Bookie/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	volumes := make([]VolumeInfo, 0, len(result.Items))
	for _, item := range result.Items {
		volumes = append(volumes, item.VolumeInfo)
	}
	return volumes, nil
}

// Google Books API response envelope (internal)

type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}
