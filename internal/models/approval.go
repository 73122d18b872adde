package models

import "time"

// Approval status values for ResponseApproval.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ResponseApproval is a risk assessment that requires human sign-off before
// the associated response may be sent. Closed by token redemption.
type ResponseApproval struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TenantID      uint      `gorm:"index;not null" json:"tenant_id"`
	FeedbackID    *uint     `gorm:"index" json:"feedback_id"`
	Feedback      *Feedback `gorm:"foreignKey:FeedbackID" json:"feedback,omitempty"`
	ResponseText  string    `gorm:"type:text" json:"response_text"`
	RiskScore     int       `gorm:"not null" json:"risk_score"`
	SeverityLevel string    `gorm:"size:20;not null" json:"severity_level"` // HIGH, MEDIUM, LOW
	RiskFactors   string    `gorm:"type:text" json:"risk_factors"`          // JSON array of factor labels
	Explanation   string    `gorm:"type:text" json:"explanation"`
	Status        string    `gorm:"size:20;default:pending;index" json:"status"` // pending, approved, rejected
	DecidedAt     *time.Time `json:"decided_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (ResponseApproval) TableName() string { return "response_approvals" }

// Token actions.
const (
	TokenActionApprove = "approve"
	TokenActionReject  = "reject"
)

// ApprovalToken is a single-use, expiring capability granting one action on
// one ResponseApproval. Tokens are issued two at a time, one per action.
type ApprovalToken struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ApprovalID uint              `gorm:"index;not null" json:"approval_id"`
	Approval   *ResponseApproval `gorm:"foreignKey:ApprovalID" json:"approval,omitempty"`
	Token      string            `gorm:"uniqueIndex;size:64;not null" json:"token"`
	Action     string            `gorm:"size:20;not null" json:"action"` // approve, reject
	ExpiresAt  time.Time         `gorm:"index;not null" json:"expires_at"`
	UsedAt     *time.Time        `json:"used_at"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (ApprovalToken) TableName() string { return "approval_tokens" }
