package services

import (
	"strings"
	"testing"
	"time"
)

func TestParseReviewPage(t *testing.T) {
	html := `
	<div class="reviews">
	  <article data-review-id="g-1001">
	    <span class="review-author">Maria K.</span>
	    <span class="review-rating" data-rating="2">2 out of 5</span>
	    <p class="review-text">Room was noisy and the wifi barely worked.</p>
	    <time datetime="2026-08-20T10:30:00Z">Aug 20</time>
	  </article>
	  <article data-review-id="g-1002">
	    <span class="review-author">Tom H.</span>
	    <span class="review-rating">5</span>
	    <p class="review-text">Wonderful stay, will come back.</p>
	  </article>
	</div>`

	reviews, err := ParseReviewPage(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseReviewPage: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}

	first := reviews[0]
	if first.ExternalID != "g-1001" {
		t.Errorf("ExternalID = %q, expected g-1001", first.ExternalID)
	}
	if first.Author != "Maria K." {
		t.Errorf("Author = %q", first.Author)
	}
	if first.Rating != 2 {
		t.Errorf("Rating = %d, expected 2 (data-rating wins over text)", first.Rating)
	}
	if !strings.Contains(first.Text, "noisy") {
		t.Errorf("Text = %q", first.Text)
	}
	expected := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	if !first.ReviewedAt.Equal(expected) {
		t.Errorf("ReviewedAt = %v, expected %v", first.ReviewedAt, expected)
	}

	second := reviews[1]
	if second.Rating != 5 {
		t.Errorf("Rating = %d, expected 5 from element text", second.Rating)
	}
	if second.ReviewedAt.IsZero() {
		t.Error("missing timestamp should fall back to now, not zero")
	}
}

func TestParseReviewPage_SkipsEntriesWithoutID(t *testing.T) {
	html := `
	<article data-review-id="">
	  <span class="review-author">Nobody</span>
	</article>
	<article data-review-id="ok-1">
	  <span class="review-author">Someone</span>
	  <span class="review-rating">4</span>
	</article>`

	reviews, err := ParseReviewPage(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseReviewPage: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviews))
	}
	if reviews[0].ExternalID != "ok-1" {
		t.Errorf("ExternalID = %q", reviews[0].ExternalID)
	}
}

func TestParseReviewPage_Empty(t *testing.T) {
	reviews, err := ParseReviewPage(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("ParseReviewPage: %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("expected no reviews, got %d", len(reviews))
	}
}
