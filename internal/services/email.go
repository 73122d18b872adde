package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/pkg/logger"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	gomail "github.com/wneessen/go-mail"
	"gorm.io/gorm"
)

// Sender is a logical from-address for one email type.
type Sender struct {
	Name    string
	Address string
}

// senderTable maps a logical email type to its sender identity. Unknown types
// fall back to the generic system sender.
var senderTable = map[string]Sender{
	"guest_followup":   {Name: "GuestGlow Guest Relations", Address: "guest-relations@guestglow.com"},
	"escalation_alert": {Name: "GuestGlow Alerts", Address: "alerts@guestglow.com"},
	"manager_alert":    {Name: "GuestGlow Alerts", Address: "alerts@guestglow.com"},
	"approval_request": {Name: "GuestGlow Approvals", Address: "approvals@guestglow.com"},
	"daily_digest":     {Name: "GuestGlow Reports", Address: "reports@guestglow.com"},
}

var systemSender = Sender{Name: "GuestGlow System", Address: "system@guestglow.com"}

// SenderFor resolves the sender identity for an email type.
func SenderFor(emailType string) Sender {
	if s, ok := senderTable[emailType]; ok {
		return s
	}
	return systemSender
}

// SendRequest describes one outbound email.
type SendRequest struct {
	TenantID   uint
	FeedbackID *uint
	EmailType  string
	Recipient  string
	Subject    string
	HTML       string
}

// SendResult reports the outcome of a dispatch.
type SendResult struct {
	EmailID   string `json:"email_id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Transport string `json:"transport"`
}

// EmailService dispatches transactional email. SendGrid's HTTP API is the
// primary transport; when no API key is configured it falls back to SMTP.
// There is no retry: delivery is at-most-once, matching the audit trail.
type EmailService struct {
	db  *gorm.DB
	cfg *config.EmailConfig
}

func NewEmailService(db *gorm.DB, cfg *config.EmailConfig) *EmailService {
	return &EmailService{db: db, cfg: cfg}
}

// Send dispatches one email, then appends a CommunicationLog row.
// The audit write is best-effort: its failure never masks the send result.
func (s *EmailService) Send(req *SendRequest) (*SendResult, error) {
	if req.Recipient == "" {
		return nil, fmt.Errorf("recipient is required")
	}

	sender := SenderFor(req.EmailType)

	var (
		messageID string
		transport string
		err       error
	)

	if s.cfg.SendGridAPIKey != "" {
		transport = "sendgrid"
		messageID, err = s.sendViaSendGrid(sender, req)
	} else if s.cfg.SMTP.Host != "" {
		transport = "smtp"
		messageID, err = s.sendViaSMTP(sender, req)
	} else {
		return nil, fmt.Errorf("no email transport configured")
	}

	s.logAttempt(req, sender, messageID, transport, err)

	if err != nil {
		LogError("email", "send_failed", fmt.Sprintf("%s email to %s failed: %v", req.EmailType, req.Recipient, err), nil, "", "", nil)
		return nil, err
	}

	logger.Infof("[Email] Sent %s email to %s via %s (id=%s)", req.EmailType, req.Recipient, transport, messageID)
	return &SendResult{
		EmailID:   messageID,
		Sender:    sender.Address,
		Recipient: req.Recipient,
		Transport: transport,
	}, nil
}

func (s *EmailService) sendViaSendGrid(sender Sender, req *SendRequest) (string, error) {
	from := sgmail.NewEmail(sender.Name, sender.Address)
	to := sgmail.NewEmail("", req.Recipient)
	message := sgmail.NewSingleEmail(from, req.Subject, to, "", req.HTML)

	client := sendgrid.NewSendClient(s.cfg.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		return "", fmt.Errorf("sendgrid error: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}

	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return uuid.NewString(), nil
}

func (s *EmailService) sendViaSMTP(sender Sender, req *SendRequest) (string, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(sender.Name, sender.Address); err != nil {
		return "", fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(req.Recipient); err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(req.Subject)
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextHTML, req.HTML)

	opts := []gomail.Option{gomail.WithPort(s.cfg.SMTP.Port)}
	if s.cfg.SMTP.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.SMTP.Username),
			gomail.WithPassword(s.cfg.SMTP.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.SMTP.Host, opts...)
	if err != nil {
		return "", fmt.Errorf("smtp client error: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return "", fmt.Errorf("smtp send error: %w", err)
	}

	if ids := msg.GetGenHeader(gomail.HeaderMessageID); len(ids) > 0 {
		return ids[0], nil
	}
	return uuid.NewString(), nil
}

// logAttempt appends the audit row. Errors are swallowed on purpose.
func (s *EmailService) logAttempt(req *SendRequest, sender Sender, messageID, transport string, sendErr error) {
	entry := models.CommunicationLog{
		TenantID:   req.TenantID,
		FeedbackID: req.FeedbackID,
		EmailType:  req.EmailType,
		Sender:     sender.Address,
		Recipient:  req.Recipient,
		Subject:    req.Subject,
		MessageID:  messageID,
		Transport:  transport,
		Succeeded:  sendErr == nil,
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}

	if err := s.db.Create(&entry).Error; err != nil {
		logger.Warnf("[Email] Failed to write communication log: %v", err)
	}
}

// History lists past email attempts for a tenant, newest first.
func (s *EmailService) History(tenantID uint, limit int) ([]models.CommunicationLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []models.CommunicationLog
	err := s.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
