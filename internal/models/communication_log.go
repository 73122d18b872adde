package models

import "time"

// CommunicationLog is an append-only audit record of every outbound email
// attempt. Writing it is best-effort; a failed insert never blocks the send.
type CommunicationLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   uint      `gorm:"index" json:"tenant_id"`
	FeedbackID *uint     `gorm:"index" json:"feedback_id"`
	EmailType  string    `gorm:"size:50;index" json:"email_type"`
	Sender     string    `gorm:"size:255" json:"sender"`
	Recipient  string    `gorm:"size:255;not null" json:"recipient"`
	Subject    string    `gorm:"size:500" json:"subject"`
	MessageID  string    `gorm:"size:200" json:"message_id"` // provider message id
	Transport  string    `gorm:"size:20" json:"transport"`   // sendgrid, smtp
	Succeeded  bool      `gorm:"default:true" json:"succeeded"`
	Error      string    `gorm:"type:text" json:"error"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (CommunicationLog) TableName() string { return "communication_logs" }
