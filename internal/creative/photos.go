package creative

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/humanosaude/portal/internal/logger"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxPhotoResults = 9

var UnsplashAPIURL = "https://api.unsplash.com/search/photos"

type Photo struct {
	Nome string `json:"nome"`
	URL  string `json:"url"`
}

// PhotoSearch finds background photos for banners. It queries the Unsplash
// API when an access key is configured and falls back to a curated catalog.
type PhotoSearch struct {
	accessKey string
	client    *http.Client
	log       *logger.Logger
}

func NewPhotoSearch(accessKey string, client *http.Client, log *logger.Logger) *PhotoSearch {
	if client == nil {
		client = http.DefaultClient
	}
	return &PhotoSearch{accessKey: accessKey, client: client, log: log}
}

func (s *PhotoSearch) Search(ctx context.Context, query string) []Photo {
	const component = "PhotoSearch"

	query = strings.TrimSpace(query)
	if s.accessKey != "" {
		photos, err := s.searchAPI(ctx, query)
		if err != nil {
			s.log.Warn(component, "unsplash search failed, using curated catalog: query=%q error=%v", query, err)
		} else if len(photos) > 0 {
			return photos
		}
	}

	ids := CuratedPhotoIDs(query)
	photos := make([]Photo, 0, len(ids))
	for i, id := range ids {
		photos = append(photos, Photo{
			Nome: fmt.Sprintf("%s %d", query, i+1),
			URL:  fmt.Sprintf("https://images.unsplash.com/photo-%s?w=1080&q=80&auto=format", id),
		})
	}
	return photos
}

func (s *PhotoSearch) searchAPI(ctx context.Context, query string) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprint(maxPhotoResults))
	params.Set("orientation", "portrait")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, UnsplashAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+s.accessKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash returned %s", resp.Status)
	}

	var body struct {
		Results []struct {
			AltDescription string `json:"alt_description"`
			URLs           struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode unsplash response: %w", err)
	}

	photos := make([]Photo, 0, len(body.Results))
	for _, r := range body.Results {
		name := r.AltDescription
		if name == "" {
			name = query
		}
		photos = append(photos, Photo{Nome: name, URL: r.URLs.Regular})
	}
	return photos, nil
}

// CuratedPhotoIDs picks up to nine catalog photo ids for a free-text query.
// Matching is accent and case insensitive: category names first, then
// aliases contained in the query, then single words. A query that matches
// nothing gets a random mix.
func CuratedPhotoIDs(query string) []string {
	q := NormalizeTerm(query)

	if q != "" {
		for _, c := range curatedPhotos {
			if strings.Contains(q, c.name) || strings.Contains(c.name, q) {
				return firstN(c.ids, maxPhotoResults)
			}
		}
		for _, a := range photoAliases {
			if strings.Contains(q, a.alias) {
				return categoryIDs(a.category)
			}
		}
		for _, word := range strings.Fields(q) {
			if cat, ok := photoWords[word]; ok {
				return categoryIDs(cat)
			}
		}
	}

	var all []string
	for _, c := range curatedPhotos {
		all = append(all, c.ids...)
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return firstN(all, maxPhotoResults)
}

func categoryIDs(name string) []string {
	for _, c := range curatedPhotos {
		if c.name == name {
			return firstN(c.ids, maxPhotoResults)
		}
	}
	return nil
}

func firstN(ids []string, n int) []string {
	if len(ids) > n {
		ids = ids[:n]
	}
	return append([]string(nil), ids...)
}

// NormalizeTerm lowercases and strips diacritics ("Família" -> "familia").
func NormalizeTerm(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
