package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type ApprovalHandler struct {
	approvalService *services.ApprovalService
}

func NewApprovalHandler(db *gorm.DB, cfg *config.Config) *ApprovalHandler {
	email := services.NewEmailService(db, &cfg.Email)
	return &ApprovalHandler{
		approvalService: services.NewApprovalService(db, email, cfg),
	}
}

// redeemPage is the HTML shown to the manager who clicked an email link.
var redeemPage = template.Must(template.New("redeem").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>GuestGlow — Response approval</title>
  <style>
    body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 40px 16px; }
    .card { max-width: 560px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 32px; box-shadow: 0 1px 4px rgba(0,0,0,.12); }
    h1 { font-size: 20px; margin-top: 0; }
    .ok { color: #2f855a; }
    .err { color: #c53030; }
    .response { background: #f9f9f9; padding: 16px; border-radius: 4px; white-space: pre-wrap; margin-top: 16px; }
    .footer { color: #888; font-size: 12px; margin-top: 24px; }
  </style>
</head>
<body>
  <div class="card">
    {{if .Err}}
      <h1 class="err">{{.Title}}</h1>
      <p>{{.Message}}</p>
    {{else}}
      <h1 class="ok">{{.Title}}</h1>
      <p>{{.Message}}</p>
      <div class="response">{{.ResponseText}}</div>
    {{end}}
    <p class="footer">Powered by GuestGlow</p>
  </div>
</body>
</html>`))

type redeemView struct {
	Err          bool
	Title        string
	Message      string
	ResponseText string
}

// Redeem consumes an approval token from an email link
// GET /approval/redeem?token=...&action=approve|reject
func (h *ApprovalHandler) Redeem(c *gin.Context) {
	token := c.Query("token")
	action := c.Query("action")

	render := func(status int, view redeemView) {
		c.Status(status)
		c.Header("Content-Type", "text/html; charset=utf-8")
		_ = redeemPage.Execute(c.Writer, view)
	}

	if token == "" || (action != models.TokenActionApprove && action != models.TokenActionReject) {
		render(http.StatusBadRequest, redeemView{
			Err:     true,
			Title:   "Invalid link",
			Message: "This approval link is malformed. Please use the buttons from the notification email.",
		})
		return
	}

	approval, err := h.approvalService.Redeem(token, action)
	switch {
	case errors.Is(err, services.ErrTokenNotFound):
		render(http.StatusNotFound, redeemView{
			Err:     true,
			Title:   "Link not recognised",
			Message: "This approval link does not exist. It may have been replaced by a newer request.",
		})
		return
	case errors.Is(err, services.ErrTokenConsumed):
		render(http.StatusGone, redeemView{
			Err:     true,
			Title:   "Link already used",
			Message: "This approval link has already been used or has expired. No further action was taken.",
		})
		return
	case errors.Is(err, services.ErrNotPending):
		render(http.StatusConflict, redeemView{
			Err:     true,
			Title:   "Already decided",
			Message: "This response has already been approved or rejected by someone else.",
		})
		return
	case err != nil:
		render(http.StatusInternalServerError, redeemView{
			Err:     true,
			Title:   "Something went wrong",
			Message: "The decision could not be recorded. Please try again shortly.",
		})
		return
	}

	if approval.Status == models.ApprovalApproved {
		render(http.StatusOK, redeemView{
			Title:        "Response approved",
			Message:      "The response below has been approved and is being sent to the guest.",
			ResponseText: approval.ResponseText,
		})
		return
	}

	render(http.StatusOK, redeemView{
		Title:        "Response rejected",
		Message:      "The response below was rejected and will not be sent.",
		ResponseText: approval.ResponseText,
	})
}

// ListPending returns pending approvals for a tenant
// GET /api/v1/approvals/pending?tenant_id=...
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant_id")
		return
	}

	approvals, err := h.approvalService.ListPending(uint(tenantID))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, approvals)
}

// Get loads one approval
// GET /api/v1/approvals/:id
func (h *ApprovalHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid approval id")
		return
	}

	approval, err := h.approvalService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "approval not found")
		return
	}
	response.Success(c, approval)
}
