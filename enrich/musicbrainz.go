package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("musicbrainz unavailable")

type area struct {
	Codes []string `json:"iso-3166-1-codes"`
}

type artist struct {
	Name      string `json:"name"`
	Country   string `json:"country"`
	Area      *area  `json:"area"`
	BeginArea *area  `json:"begin-area"`
}

type searchResponse struct {
	Artists []artist `json:"artists"`
}

// country reads the direct country first, then the area, then the begin area.
func (a artist) country() string {
	if a.Country != "" {
		return a.Country
	}
	for _, ar := range []*area{a.Area, a.BeginArea} {
		if ar != nil && len(ar.Codes) > 0 && ar.Codes[0] != "" {
			return ar.Codes[0]
		}
	}
	return ""
}

// Match is the outcome of one artists cell.
type Match struct {
	Country string
	Artist  string
	// Failed lists the candidates whose request failed.
	Failed []string
}

// Lookup resolves the origin country of an artists cell.
type Lookup interface {
	ArtistCountry(ctx context.Context, artists string) (Match, error)
}

// Client searches artists on the MusicBrainz web service.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTP       *http.Client
	Limiter    *RateLimiter
	RetryDelay time.Duration
	MaxRetries int
}

func NewClient(baseURL, userAgent string, interval time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		UserAgent:  userAgent,
		HTTP:       &http.Client{Timeout: 10 * time.Second},
		Limiter:    NewRateLimiter(interval),
		RetryDelay: 5 * time.Second,
		MaxRetries: 3,
	}
}

// SplitArtists splits "Lady Gaga, Bruno Mars" into its names, in order.
func SplitArtists(cell string) []string {
	var out []string
	for _, a := range strings.Split(cell, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// ArtistCountry tries every artist of the cell in order and returns the first
// country found. A candidate whose request fails is recorded in Match.Failed
// and the next one is tried. Only context errors abort the lookup.
func (c *Client) ArtistCountry(ctx context.Context, artists string) (Match, error) {
	candidates := SplitArtists(artists)
	var m Match
	for _, name := range candidates {
		m.Artist = name
		found, matched, err := c.search(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return m, ctx.Err()
			}
			m.Failed = append(m.Failed, name)
			continue
		}
		if found != "" {
			m.Country = found
			m.Artist = matched
			return m, nil
		}
	}
	return m, nil
}

func (c *Client) searchURL(name string) string {
	q := url.Values{}
	q.Set("query", "artist:"+name)
	q.Set("fmt", "json")
	return c.BaseURL + "/artist/?" + q.Encode()
}

// search queries one artist name, retrying while the service answers 503.
func (c *Client) search(ctx context.Context, name string) (country, matched string, err error) {
	for attempt := 0; ; attempt++ {
		if err := c.Limiter.Wait(ctx); err != nil {
			return "", "", err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(name), nil)
		if err != nil {
			return "", "", err
		}
		req.Header.Set("User-Agent", c.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return "", "", fmt.Errorf("search %q: %w", name, err)
		}
		if resp.StatusCode == http.StatusServiceUnavailable {
			resp.Body.Close()
			if attempt >= c.MaxRetries {
				return "", "", fmt.Errorf("search %q: %w", name, ErrUnavailable)
			}
			if err := sleepWithContext(ctx, c.RetryDelay); err != nil {
				return "", "", err
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return "", "", fmt.Errorf("search %q: unexpected status %d", name, resp.StatusCode)
		}

		var body searchResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return "", "", fmt.Errorf("search %q: decode: %w", name, err)
		}
		if len(body.Artists) == 0 {
			return "", name, nil
		}
		best := body.Artists[0]
		matched = best.Name
		if matched == "" {
			matched = name
		}
		return best.country(), matched, nil
	}
}
