// Package books looks up book metadata from public catalog APIs. Lookups are
// best effort: enrichment callers treat an empty result as "nothing found",
// never as a failure.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/domain"
)

const (
	googleBooksURL = "https://www.googleapis.com/books/v1/volumes"
	openLibraryURL = "https://openlibrary.org/search.json"

	defaultTimeout = 5 * time.Second
)

// Query identifies a book. Author and ISBN narrow the match when present.
type Query struct {
	Title  string
	Author string
	ISBN   string
}

// Client fetches book metadata, trying Google Books first and falling back
// to Open Library.
type Client struct {
	http   *http.Client
	google string
	openlb string
	logger *zap.Logger
}

// New creates a catalog client with the default endpoints and timeout.
func New(logger *zap.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: defaultTimeout},
		google: googleBooksURL,
		openlb: openLibraryURL,
		logger: logger,
	}
}

// NewWithEndpoints creates a client against explicit endpoints, used by tests.
func NewWithEndpoints(httpClient *http.Client, google, openLibrary string, logger *zap.Logger) *Client {
	return &Client{http: httpClient, google: google, openlb: openLibrary, logger: logger}
}

// Lookup returns whatever metadata could be gathered for q. It never fails:
// provider errors are logged and an empty map is returned.
func (c *Client) Lookup(ctx context.Context, q Query) domain.Metadata {
	if q.Title == "" && q.ISBN == "" {
		return domain.Metadata{}
	}

	if meta, ok := c.fromGoogleBooks(ctx, q); ok {
		return meta
	}
	if meta, ok := c.fromOpenLibrary(ctx, q); ok {
		return meta
	}
	return domain.Metadata{}
}

type googleVolume struct {
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		PageCount           float64  `json:"pageCount"`
		Categories          []string `json:"categories"`
		AverageRating       *float64 `json:"averageRating"`
		RatingsCount        float64  `json:"ratingsCount"`
		ImageLinks          *struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
	} `json:"volumeInfo"`
}

func (c *Client) fromGoogleBooks(ctx context.Context, q Query) (domain.Metadata, bool) {
	var query string
	switch {
	case q.ISBN != "":
		query = "isbn:" + q.ISBN
	case q.Author != "":
		query = fmt.Sprintf("intitle:%s inauthor:%s", q.Title, q.Author)
	default:
		query = "intitle:" + q.Title
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "1")
	params.Set("printType", "books")

	var body struct {
		TotalItems int            `json:"totalItems"`
		Items      []googleVolume `json:"items"`
	}
	if err := c.getJSON(ctx, c.google+"?"+params.Encode(), &body); err != nil {
		c.logger.Warn("google books lookup failed", zap.Error(err), zap.String("title", q.Title))
		return nil, false
	}
	if body.TotalItems == 0 || len(body.Items) == 0 {
		return nil, false
	}

	info := body.Items[0].VolumeInfo
	meta := domain.Metadata{
		"title":     domain.String(firstNonEmpty(info.Title, q.Title)),
		"author":    domain.String(strings.Join(info.Authors, ", ")),
		"publisher": domain.String(info.Publisher),
		"published": domain.String(info.PublishedDate),
	}
	if info.Description != "" {
		meta["description"] = domain.String(info.Description)
	}
	if info.PageCount > 0 {
		meta["page_count"] = domain.Number(info.PageCount)
	}
	if len(info.Categories) > 0 {
		meta["categories"] = domain.StringList(info.Categories)
	}
	if info.ImageLinks != nil {
		cover := firstNonEmpty(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail)
		if cover != "" {
			meta["cover"] = domain.String(strings.Replace(cover, "http:", "https:", 1))
		}
	}
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" || id.Type == "ISBN_10" {
			meta["isbn"] = domain.String(id.Identifier)
			break
		}
	}
	if info.AverageRating != nil {
		meta["rating"] = domain.Number(*info.AverageRating)
		meta["ratings_count"] = domain.Number(info.RatingsCount)
	}

	c.logger.Info("fetched book metadata from google books", zap.String("title", q.Title))
	return meta, true
}

func (c *Client) fromOpenLibrary(ctx context.Context, q Query) (domain.Metadata, bool) {
	params := url.Values{}
	params.Set("title", q.Title)
	params.Set("limit", "1")
	if q.Author != "" {
		params.Set("author", q.Author)
	}

	var body struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			Title            string   `json:"title"`
			AuthorName       []string `json:"author_name"`
			Publisher        []string `json:"publisher"`
			FirstPublishYear int      `json:"first_publish_year"`
			CoverID          int      `json:"cover_i"`
			ISBN             []string `json:"isbn"`
		} `json:"docs"`
	}
	if err := c.getJSON(ctx, c.openlb+"?"+params.Encode(), &body); err != nil {
		c.logger.Warn("open library lookup failed", zap.Error(err), zap.String("title", q.Title))
		return nil, false
	}
	if body.NumFound == 0 || len(body.Docs) == 0 {
		return nil, false
	}

	doc := body.Docs[0]
	meta := domain.Metadata{
		"title":     domain.String(firstNonEmpty(doc.Title, q.Title)),
		"author":    domain.String(strings.Join(doc.AuthorName, ", ")),
		"publisher": domain.String(strings.Join(doc.Publisher, ", ")),
	}
	if doc.FirstPublishYear > 0 {
		meta["published"] = domain.String(strconv.Itoa(doc.FirstPublishYear))
	}
	switch {
	case doc.CoverID > 0:
		meta["cover"] = domain.String(fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverID))
	case len(doc.ISBN) > 0:
		meta["cover"] = domain.String(fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-M.jpg", doc.ISBN[0]))
		meta["isbn"] = domain.String(doc.ISBN[0])
	}

	c.logger.Info("fetched book metadata from open library", zap.String("title", q.Title))
	return meta, true
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
