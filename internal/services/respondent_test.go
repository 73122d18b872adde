package services

import (
	"strings"
	"testing"
)

func TestDetectIssues(t *testing.T) {
	svc := NewResponderService()

	cases := []struct {
		text     string
		expected []string
	}{
		{"The wifi kept dropping all night", []string{"WiFi connectivity"}},
		{"Breakfast was cold and the room was dirty", []string{"breakfast service", "housekeeping standards"}},
		{"Everything was perfect", nil},
		{"NOISY corridor", []string{"noise levels"}},
	}

	for _, c := range cases {
		got := svc.DetectIssues(c.text)
		if len(got) != len(c.expected) {
			t.Errorf("DetectIssues(%q) = %v, expected %v", c.text, got, c.expected)
			continue
		}
		for i := range got {
			if got[i] != c.expected[i] {
				t.Errorf("DetectIssues(%q)[%d] = %q, expected %q", c.text, i, got[i], c.expected[i])
			}
		}
	}
}

func TestDetectIssues_TopicCountedOnce(t *testing.T) {
	svc := NewResponderService()

	got := svc.DetectIssues("no wifi, terrible wi-fi, internet down")
	if len(got) != 1 {
		t.Errorf("DetectIssues = %v, expected a single label", got)
	}
}

func TestGenerate_RatingBands(t *testing.T) {
	svc := NewResponderService()

	cases := []struct {
		rating   int
		expected string
	}{
		{1, ResponseTypeNegative},
		{2, ResponseTypeNegative},
		{3, ResponseTypeNeutral},
		{4, ResponseTypePositive},
		{5, ResponseTypePositive},
	}

	for _, c := range cases {
		got := svc.Generate("ok stay", c.rating, "Ana", "Seaview Hotel")
		if got.Type != c.expected {
			t.Errorf("Generate(rating=%d).Type = %q, expected %q", c.rating, got.Type, c.expected)
		}
	}
}

func TestGenerate_PositiveMentionsIssue(t *testing.T) {
	svc := NewResponderService()

	got := svc.Generate("Great room, wifi was slow", 5, "Ben", "Seaview Hotel")

	if got.Type != ResponseTypePositive {
		t.Fatalf("Type = %q, expected %q", got.Type, ResponseTypePositive)
	}
	if !strings.Contains(got.Response, "WiFi connectivity") {
		t.Errorf("positive response should still acknowledge detected issues:\n%s", got.Response)
	}
	if !strings.Contains(got.Response, "Ben") {
		t.Errorf("response should address the guest by name:\n%s", got.Response)
	}
}

func TestGenerate_NegativeListsIssues(t *testing.T) {
	svc := NewResponderService()

	got := svc.Generate("Dirty room, broken shower, loud neighbours", 1, "", "")

	if got.Type != ResponseTypeNegative {
		t.Fatalf("Type = %q, expected %q", got.Type, ResponseTypeNegative)
	}
	if !strings.Contains(got.Response, "Dear Guest") {
		t.Errorf("empty guest name should fall back to Guest:\n%s", got.Response)
	}
	if !strings.Contains(got.Response, "housekeeping standards, plumbing and noise levels") {
		t.Errorf("issues should be joined with commas and a final 'and':\n%s", got.Response)
	}
	if !strings.Contains(got.Response, "our hotel") {
		t.Errorf("empty hotel name should fall back to 'our hotel':\n%s", got.Response)
	}
}

func TestJoinIssues(t *testing.T) {
	cases := []struct {
		labels   []string
		expected string
	}{
		{nil, ""},
		{[]string{"parking"}, "parking"},
		{[]string{"parking", "pool area"}, "parking and pool area"},
		{[]string{"parking", "pool area", "bed comfort"}, "parking, pool area and bed comfort"},
	}

	for _, c := range cases {
		if got := joinIssues(c.labels); got != c.expected {
			t.Errorf("joinIssues(%v) = %q, expected %q", c.labels, got, c.expected)
		}
	}
}
