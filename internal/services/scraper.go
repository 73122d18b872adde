package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/onebase1/guestglow-backend/internal/config"
)

// ScrapedReview is a platform review as returned by a sync source, before
// it is persisted as an ExternalReview.
type ScrapedReview struct {
	ExternalID string    `json:"external_id"`
	Author     string    `json:"author"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// ScraperClient fetches reviews either from the scraping API (JSON, bearer
// token) or by fetching a listing page directly and parsing the HTML.
type ScraperClient struct {
	cfg    *config.ScraperConfig
	client *http.Client
}

func NewScraperClient(cfg *config.ScraperConfig) *ScraperClient {
	return &ScraperClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchReviews calls the scraping API for a platform listing.
func (c *ScraperClient) FetchReviews(ctx context.Context, platform, listingID string) ([]ScrapedReview, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("scraper API not configured")
	}

	endpoint, err := url.Parse(strings.TrimSuffix(c.cfg.BaseURL, "/") + "/v1/reviews")
	if err != nil {
		return nil, fmt.Errorf("invalid scraper base URL: %w", err)
	}
	q := endpoint.Query()
	q.Set("platform", platform)
	q.Set("listing_id", listingID)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scraper returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Reviews []ScrapedReview `json:"reviews"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode scraper response: %w", err)
	}

	return payload.Reviews, nil
}

// FetchPage fetches a review listing page directly and parses its HTML.
// Used for platforms the scraping API does not cover.
func (c *ScraperClient) FetchPage(ctx context.Context, pageURL string) ([]ScrapedReview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "GuestGlow/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	return ParseReviewPage(resp.Body)
}

// ParseReviewPage extracts reviews from a listing page. The markup contract
// is one element per review carrying data-review-id, with .review-author,
// .review-rating (numeric text or data-rating attr), .review-text and an
// optional <time datetime="..."> element.
func ParseReviewPage(r io.Reader) ([]ScrapedReview, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var reviews []ScrapedReview
	doc.Find("[data-review-id]").Each(func(i int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-review-id")
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}

		review := ScrapedReview{
			ExternalID: id,
			Author:     strings.TrimSpace(sel.Find(".review-author").First().Text()),
			Text:       strings.TrimSpace(sel.Find(".review-text").First().Text()),
		}

		ratingSel := sel.Find(".review-rating").First()
		ratingText := strings.TrimSpace(ratingSel.Text())
		if v, ok := ratingSel.Attr("data-rating"); ok {
			ratingText = strings.TrimSpace(v)
		}
		if rating, err := strconv.Atoi(ratingText); err == nil {
			review.Rating = rating
		}

		if ts, ok := sel.Find("time").First().Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				review.ReviewedAt = t
			}
		}
		if review.ReviewedAt.IsZero() {
			review.ReviewedAt = time.Now()
		}

		reviews = append(reviews, review)
	})

	return reviews, nil
}
