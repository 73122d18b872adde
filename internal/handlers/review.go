package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	syncService *services.ReviewSyncService
}

func NewReviewHandler(db *gorm.DB, cfg *config.Config) *ReviewHandler {
	scraper := services.NewScraperClient(&cfg.Scraper)
	return &ReviewHandler{
		syncService: services.NewReviewSyncService(db, scraper),
	}
}

type syncRequest struct {
	TenantID  uint   `json:"tenant_id" binding:"required"`
	Platform  string `json:"platform" binding:"required"`
	Mode      string `json:"mode"` // api (default) or page
	ListingID string `json:"listing_id"`
	PageURL   string `json:"page_url"`
}

// Sync enqueues a review ingestion job
// POST /api/v1/reviews/sync
func (h *ReviewHandler) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = "api"
	}
	switch mode {
	case "api":
		if req.ListingID == "" {
			response.BadRequest(c, "listing_id is required for api mode")
			return
		}
	case "page":
		if req.PageURL == "" {
			response.BadRequest(c, "page_url is required for page mode")
			return
		}
	default:
		response.BadRequest(c, "mode must be api or page")
		return
	}

	queue := services.GetTaskQueue()
	if queue == nil {
		response.ServerError(c, "task queue not initialized")
		return
	}

	err := queue.Enqueue(&services.ReviewSyncTask{
		TenantID:  req.TenantID,
		Platform:  req.Platform,
		Mode:      mode,
		ListingID: req.ListingID,
		PageURL:   req.PageURL,
	})
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"queued": true,
		"async":  queue.IsAsync(),
	})
}

// List returns ingested reviews for a tenant
// GET /api/v1/reviews?tenant_id=...
func (h *ReviewHandler) List(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant_id")
		return
	}

	var req services.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.syncService.List(uint(tenantID), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// Get loads one review
// GET /api/v1/reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	review, err := h.syncService.GetReview(uint(id))
	if err != nil {
		response.NotFound(c, "review not found")
		return
	}
	response.Success(c, review)
}

type draftRequest struct {
	Body     string `json:"body" binding:"required"`
	Source   string `json:"source"`
	Priority string `json:"priority"`
}

// CreateDraft stores a new response version for a review
// POST /api/v1/reviews/:id/responses
func (h *ReviewHandler) CreateDraft(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}

	draft, err := h.syncService.CreateDraft(uint(id), req.Body, source, req.Priority)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, draft)
}

// ListResponses lists all response versions for a review
// GET /api/v1/reviews/:id/responses
func (h *ReviewHandler) ListResponses(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	responses, err := h.syncService.ListResponses(uint(id))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, responses)
}

// SetResponseStatus approves or rejects a draft
// POST /api/v1/review-responses/:id/status
func (h *ReviewHandler) SetResponseStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid response id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=approved rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.syncService.SetDraftStatus(uint(id), req.Status)
	if err != nil {
		if errors.Is(err, services.ErrResponseNotDraft) {
			response.Conflict(c, "response has already been decided")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, resp)
}
