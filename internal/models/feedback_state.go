package models

import "fmt"

// FeedbackStatus is the lifecycle state of a feedback record.
type FeedbackStatus string

const (
	StatusNew          FeedbackStatus = "new"
	StatusAcknowledged FeedbackStatus = "acknowledged"
	StatusInProgress   FeedbackStatus = "in_progress"
	StatusResolved     FeedbackStatus = "resolved"
	StatusAutoClosed   FeedbackStatus = "auto_closed"
)

// FeedbackEvent is a lifecycle event applied to a feedback record.
type FeedbackEvent string

const (
	EventAcknowledge   FeedbackEvent = "acknowledge"
	EventStartProgress FeedbackEvent = "start_progress"
	EventResolve       FeedbackEvent = "resolve"
	EventAutoClose     FeedbackEvent = "auto_close"
)

// feedbackTransitions maps (state, event) to the next state. Both the staff
// endpoints and the SLA checker go through Transition so an illegal status
// change is an error instead of a blindly accepted UPDATE.
var feedbackTransitions = map[FeedbackStatus]map[FeedbackEvent]FeedbackStatus{
	StatusNew: {
		EventAcknowledge: StatusAcknowledged,
		EventResolve:     StatusResolved,
		EventAutoClose:   StatusAutoClosed,
	},
	StatusAcknowledged: {
		EventStartProgress: StatusInProgress,
		EventResolve:       StatusResolved,
		EventAutoClose:     StatusAutoClosed,
	},
	StatusInProgress: {
		EventResolve:   StatusResolved,
		EventAutoClose: StatusAutoClosed,
	},
}

// Transition returns the state that results from applying ev in current.
func Transition(current FeedbackStatus, ev FeedbackEvent) (FeedbackStatus, error) {
	events, ok := feedbackTransitions[current]
	if !ok {
		return current, fmt.Errorf("feedback status %q is terminal", current)
	}
	next, ok := events[ev]
	if !ok {
		return current, fmt.Errorf("event %q not allowed in status %q", ev, current)
	}
	return next, nil
}

// IsTerminal reports whether no further events can be applied.
func (s FeedbackStatus) IsTerminal() bool {
	_, ok := feedbackTransitions[s]
	return !ok
}

// IsOpen reports whether the feedback still needs staff attention.
func (s FeedbackStatus) IsOpen() bool {
	return !s.IsTerminal()
}
