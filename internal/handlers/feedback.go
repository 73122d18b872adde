package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/middleware"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: services.NewFeedbackService(db),
	}
}

// Submit is the public guest submission endpoint
// POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	fb, err := h.feedbackService.Submit(&req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Created(c, fb)
}

// List returns a filtered, paginated staff listing
// GET /api/v1/feedback
func (h *FeedbackHandler) List(c *gin.Context) {
	var req services.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.feedbackService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// Get loads one feedback
// GET /api/v1/feedback/:id
func (h *FeedbackHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid feedback id")
		return
	}

	fb, err := h.feedbackService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "feedback not found")
		return
	}
	response.Success(c, fb)
}

// Acknowledge moves a feedback to acknowledged
// POST /api/v1/feedback/:id/acknowledge
func (h *FeedbackHandler) Acknowledge(c *gin.Context) {
	h.applyEvent(c, h.feedbackService.Acknowledge, "acknowledge")
}

// StartProgress moves a feedback to in_progress
// POST /api/v1/feedback/:id/start
func (h *FeedbackHandler) StartProgress(c *gin.Context) {
	h.applyEvent(c, h.feedbackService.StartProgress, "start_progress")
}

// Resolve closes a feedback with a note
// POST /api/v1/feedback/:id/resolve
func (h *FeedbackHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid feedback id")
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, err.Error())
		return
	}

	fb, err := h.feedbackService.Resolve(uint(id), req.Note)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	uid := middleware.GetUserID(c)
	services.LogInfo("feedback", "resolve", "feedback resolved", &uid, c.ClientIP(), c.Request.UserAgent(),
		map[string]interface{}{"feedback_id": fb.ID})

	response.Success(c, fb)
}

func (h *FeedbackHandler) applyEvent(c *gin.Context, fn func(uint) (*models.Feedback, error), action string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid feedback id")
		return
	}

	fb, err := fn(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	uid := middleware.GetUserID(c)
	services.LogInfo("feedback", action, "feedback status changed", &uid, c.ClientIP(), c.Request.UserAgent(),
		map[string]interface{}{"feedback_id": fb.ID, "status": fb.Status})

	response.Success(c, fb)
}
