package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/pkg/logger"
	"gorm.io/gorm"
)

// Severity tiers for a risk assessment.
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
)

// riskCategory is one keyword-scanned risk class. Keywords are matched
// case-insensitively as substrings against feedback and response text.
type riskCategory struct {
	Label    string
	Points   int
	Keywords []string
}

var riskCategories = []riskCategory{
	{
		Label:  "Legal threat detected",
		Points: 30,
		Keywords: []string{
			"sue", "lawsuit", "lawyer", "attorney", "legal action",
			"litigation", "court", "solicitor",
		},
	},
	{
		Label:  "Health/safety concern detected",
		Points: 25,
		Keywords: []string{
			"food poisoning", "sick", "ill after", "injury", "injured",
			"unsafe", "bed bugs", "bedbugs", "mold", "mould", "hazard",
			"fire alarm", "carbon monoxide",
		},
	},
	{
		Label:  "Staff misconduct allegation detected",
		Points: 20,
		Keywords: []string{
			"rude", "harass", "discriminat", "racist", "sexist",
			"abuse", "inappropriate", "misconduct",
		},
	},
	{
		Label:  "Media exposure threat detected",
		Points: 15,
		Keywords: []string{
			"journalist", "reporter", "news", "press", "media",
			"go public", "viral", "expose",
		},
	},
	{
		Label:  "Prompt injection attempt detected",
		Points: 50,
		Keywords: []string{
			"ignore previous", "ignore all previous", "disregard instructions",
			"system prompt", "you are now", "jailbreak", "act as if",
		},
	},
	{
		Label:  "Security incident detected",
		Points: 25,
		Keywords: []string{
			"theft", "stolen", "robbery", "robbed", "break-in", "break in",
			"intruder", "security breach",
		},
	},
}

// RiskAssessment is the outcome of scanning a feedback/response pair.
type RiskAssessment struct {
	RiskScore         int      `json:"risk_score"`
	SeverityLevel     string   `json:"severity_level"`
	RequiresApproval  bool     `json:"requires_approval"`
	RiskFactors       []string `json:"risk_factors"`
	RiskExplanation   string   `json:"risk_explanation"`
	AIConfidenceScore float64  `json:"ai_confidence_score"`
}

// RiskService scans feedback and proposed response text for risk signals and
// opens an approval workflow when human sign-off is needed.
type RiskService struct {
	db       *gorm.DB
	approval *ApprovalService
}

func NewRiskService(db *gorm.DB, approval *ApprovalService) *RiskService {
	return &RiskService{db: db, approval: approval}
}

// severityForScore maps a 0-100 risk score to its severity tier.
func severityForScore(score int) string {
	switch {
	case score >= 30:
		return SeverityHigh
	case score >= 15:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Assess computes the additive risk score for the given texts.
// Pure function of its inputs; persistence happens in AssessAndRecord.
func (s *RiskService) Assess(feedbackText, responseText string) *RiskAssessment {
	haystack := strings.ToLower(feedbackText + "\n" + responseText)

	score := 0
	var factors []string

	for _, cat := range riskCategories {
		for _, kw := range cat.Keywords {
			if strings.Contains(haystack, kw) {
				score += cat.Points
				factors = append(factors, cat.Label)
				break
			}
		}
	}

	if score > 100 {
		score = 100
	}

	severity := severityForScore(score)

	requiresApproval := score >= 30 || len(factors) >= 2

	confidence := float64(score)/100 + 0.3
	if confidence < 0.7 {
		confidence = 0.7
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	explanation := "No risk indicators found in guest feedback or proposed response."
	if len(factors) > 0 {
		explanation = fmt.Sprintf("Matched %d risk categor(ies): %s.", len(factors), strings.Join(factors, "; "))
		if requiresApproval {
			explanation += " Human approval required before the response may be sent."
		}
	}

	return &RiskAssessment{
		RiskScore:         score,
		SeverityLevel:     severity,
		RequiresApproval:  requiresApproval,
		RiskFactors:       factors,
		RiskExplanation:   explanation,
		AIConfidenceScore: confidence,
	}
}

// AssessAndRecord runs Assess and, when approval is required, persists a
// pending ResponseApproval with its token pair. Returns the assessment and
// the approval ID when one was created.
func (s *RiskService) AssessAndRecord(tenantID uint, feedbackID *uint, feedbackText, responseText string) (*RiskAssessment, *uint, error) {
	assessment := s.Assess(feedbackText, responseText)

	if !assessment.RequiresApproval {
		return assessment, nil, nil
	}

	factorsJSON, _ := json.Marshal(assessment.RiskFactors)

	approval := &models.ResponseApproval{
		TenantID:      tenantID,
		FeedbackID:    feedbackID,
		ResponseText:  responseText,
		RiskScore:     assessment.RiskScore,
		SeverityLevel: assessment.SeverityLevel,
		RiskFactors:   string(factorsJSON),
		Explanation:   assessment.RiskExplanation,
		Status:        models.ApprovalPending,
		CreatedAt:     time.Now(),
	}

	if err := s.approval.Open(approval); err != nil {
		return nil, nil, fmt.Errorf("failed to open approval: %w", err)
	}

	logger.Infof("[Risk] Opened approval %d (score=%d, severity=%s) for tenant %d",
		approval.ID, assessment.RiskScore, assessment.SeverityLevel, tenantID)

	return assessment, &approval.ID, nil
}
