package models

import "testing"

func TestTransition_AllowedPaths(t *testing.T) {
	cases := []struct {
		from  FeedbackStatus
		event FeedbackEvent
		to    FeedbackStatus
	}{
		{StatusNew, EventAcknowledge, StatusAcknowledged},
		{StatusNew, EventResolve, StatusResolved},
		{StatusNew, EventAutoClose, StatusAutoClosed},
		{StatusAcknowledged, EventStartProgress, StatusInProgress},
		{StatusAcknowledged, EventResolve, StatusResolved},
		{StatusAcknowledged, EventAutoClose, StatusAutoClosed},
		{StatusInProgress, EventResolve, StatusResolved},
		{StatusInProgress, EventAutoClose, StatusAutoClosed},
	}

	for _, c := range cases {
		got, err := Transition(c.from, c.event)
		if err != nil {
			t.Errorf("Transition(%s, %s) returned error: %v", c.from, c.event, err)
			continue
		}
		if got != c.to {
			t.Errorf("Transition(%s, %s) = %s, expected %s", c.from, c.event, got, c.to)
		}
	}
}

func TestTransition_Rejected(t *testing.T) {
	cases := []struct {
		from  FeedbackStatus
		event FeedbackEvent
	}{
		{StatusNew, EventStartProgress}, // must acknowledge first
		{StatusResolved, EventResolve},
		{StatusResolved, EventAcknowledge},
		{StatusAutoClosed, EventResolve},
		{StatusAutoClosed, EventAutoClose},
		{StatusInProgress, EventAcknowledge},
	}

	for _, c := range cases {
		if _, err := Transition(c.from, c.event); err == nil {
			t.Errorf("Transition(%s, %s) should be rejected", c.from, c.event)
		}
	}
}

func TestFeedbackStatus_Terminal(t *testing.T) {
	terminal := []FeedbackStatus{StatusResolved, StatusAutoClosed}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
		if s.IsOpen() {
			t.Errorf("%s should not be open", s)
		}
	}

	open := []FeedbackStatus{StatusNew, StatusAcknowledged, StatusInProgress}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
		if !s.IsOpen() {
			t.Errorf("%s should be open", s)
		}
	}
}

func TestDerivedFields(t *testing.T) {
	sentiments := map[int]string{1: "negative", 2: "negative", 3: "neutral", 4: "positive", 5: "positive"}
	for rating, expected := range sentiments {
		if got := SentimentForRating(rating); got != expected {
			t.Errorf("SentimentForRating(%d) = %q, expected %q", rating, got, expected)
		}
	}

	priorities := map[int]string{1: "high", 2: "high", 3: "normal", 4: "low", 5: "low"}
	for rating, expected := range priorities {
		if got := PriorityForRating(rating); got != expected {
			t.Errorf("PriorityForRating(%d) = %q, expected %q", rating, got, expected)
		}
	}
}
