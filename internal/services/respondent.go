package services

import (
	"fmt"
	"strings"
)

// Response template branches selected by rating band.
const (
	ResponseTypeNegative = "negative"
	ResponseTypeNeutral  = "neutral"
	ResponseTypePositive = "positive"
)

// issueTopic maps substring keywords to the label used in the response prose.
type issueTopic struct {
	Label    string
	Keywords []string
}

var issueTopics = []issueTopic{
	{"WiFi connectivity", []string{"wifi", "wi-fi", "internet"}},
	{"breakfast service", []string{"breakfast"}},
	{"housekeeping standards", []string{"dirty", "unclean", "cleanliness", "housekeeping", "dust"}},
	{"room temperature control", []string{"air conditioning", "a/c", "aircon", "too hot", "too cold", "heating"}},
	{"staff service", []string{"staff", "reception was", "service was"}},
	{"plumbing", []string{"shower", "plumbing", "toilet", "water pressure", "leak"}},
	{"noise levels", []string{"noise", "noisy", "loud"}},
	{"check-in experience", []string{"check-in", "check in", "checkin", "front desk"}},
	{"parking", []string{"parking", "car park"}},
	{"pool area", []string{"pool", "jacuzzi"}},
	{"restaurant dining", []string{"restaurant", "dinner", "food quality", "meal"}},
	{"elevator service", []string{"elevator", "lift"}},
	{"bed comfort", []string{"mattress", "bed was", "pillow"}},
}

// GeneratedResponse is the deterministic template output.
type GeneratedResponse struct {
	Response string `json:"response"`
	Type     string `json:"type"`
}

// ResponderService fills one of three prose templates based on the rating
// band and the issues detected in the review text. Deterministic: no model
// call on this path.
type ResponderService struct{}

func NewResponderService() *ResponderService {
	return &ResponderService{}
}

// DetectIssues returns the labels of all topics whose keywords appear in text.
func (s *ResponderService) DetectIssues(text string) []string {
	haystack := strings.ToLower(text)

	var labels []string
	for _, topic := range issueTopics {
		for _, kw := range topic.Keywords {
			if strings.Contains(haystack, kw) {
				labels = append(labels, topic.Label)
				break
			}
		}
	}
	return labels
}

// Generate builds a reply for the given review text and rating.
func (s *ResponderService) Generate(reviewText string, rating int, guestName, hotelName string) *GeneratedResponse {
	if guestName == "" {
		guestName = "Guest"
	}
	if hotelName == "" {
		hotelName = "our hotel"
	}

	issues := s.DetectIssues(reviewText)
	issueFragment := joinIssues(issues)

	switch {
	case rating <= 2:
		return &GeneratedResponse{Type: ResponseTypeNegative, Response: negativeTemplate(guestName, hotelName, issueFragment)}
	case rating == 3:
		return &GeneratedResponse{Type: ResponseTypeNeutral, Response: neutralTemplate(guestName, hotelName, issueFragment)}
	default:
		return &GeneratedResponse{Type: ResponseTypePositive, Response: positiveTemplate(guestName, hotelName, issueFragment)}
	}
}

// joinIssues renders labels as "a", "a and b" or "a, b and c".
func joinIssues(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}

func negativeTemplate(guest, hotel, issues string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", guest)
	fmt.Fprintf(&b, "Thank you for taking the time to share your experience at %s. We are truly sorry that your stay fell short of the standard we hold ourselves to.\n\n", hotel)
	if issues != "" {
		fmt.Fprintf(&b, "We take your comments regarding %s very seriously, and our management team is reviewing them with the departments involved to make sure they are addressed without delay.\n\n", issues)
	} else {
		b.WriteString("Our management team is reviewing your comments to make sure every concern is addressed without delay.\n\n")
	}
	fmt.Fprintf(&b, "We would welcome the chance to make this right. Please contact us directly so we can discuss your experience, and we hope you will give %s another opportunity to show you the stay you deserved.\n\n", hotel)
	b.WriteString("Sincerely,\nGuest Relations Team")
	return b.String()
}

func neutralTemplate(guest, hotel, issues string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", guest)
	fmt.Fprintf(&b, "Thank you for reviewing your recent stay at %s. Feedback like yours is what helps us improve.\n\n", hotel)
	if issues != "" {
		fmt.Fprintf(&b, "We have noted your comments regarding %s and have shared them with the relevant teams so the next stay is a smoother one.\n\n", issues)
	} else {
		b.WriteString("We have shared your comments with our team so the next stay is a smoother one.\n\n")
	}
	b.WriteString("We hope to welcome you back soon and show you the improvements first-hand.\n\nWarm regards,\nGuest Relations Team")
	return b.String()
}

func positiveTemplate(guest, hotel, issues string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", guest)
	fmt.Fprintf(&b, "Thank you so much for your wonderful review of %s! It means a great deal to our whole team that you enjoyed your stay.\n\n", hotel)
	if issues != "" {
		fmt.Fprintf(&b, "We have also noted your comments regarding %s, and we are already working on improvements there.\n\n", issues)
	}
	fmt.Fprintf(&b, "We look forward to welcoming you back to %s before long.\n\nWith appreciation,\nGuest Relations Team", hotel)
	return b.String()
}
