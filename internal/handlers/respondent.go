package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type RespondentHandler struct {
	responder *services.ResponderService
	ai        *services.AIService
}

func NewRespondentHandler(db *gorm.DB, cfg *config.Config) *RespondentHandler {
	return &RespondentHandler{
		responder: services.NewResponderService(),
		ai:        services.NewAIService(db, &cfg.AI),
	}
}

type generateRequest struct {
	ReviewText string `json:"review_text" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	GuestName  string `json:"guest_name"`
	HotelName  string `json:"hotel_name"`
	Platform   string `json:"platform"`
}

// Generate builds a deterministic template response
// POST /api/v1/responses/generate
func (h *RespondentHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result := h.responder.Generate(req.ReviewText, req.Rating, req.GuestName, req.HotelName)
	issues := h.responder.DetectIssues(req.ReviewText)

	response.Success(c, gin.H{
		"response":        result.Response,
		"type":            result.Type,
		"detected_issues": issues,
	})
}

// GenerateAI builds a model-written response through the provider chain
// POST /api/v1/responses/generate-ai
func (h *RespondentHandler) GenerateAI(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	text, err := h.ai.Generate(c.Request.Context(), &services.AIGenerateRequest{
		ReviewText: req.ReviewText,
		Rating:     req.Rating,
		GuestName:  req.GuestName,
		HotelName:  req.HotelName,
		Platform:   req.Platform,
	})
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"response": text, "type": "ai"})
}

// DetectIssues returns the issue labels found in a review text
// POST /api/v1/responses/detect-issues
func (h *RespondentHandler) DetectIssues(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"issues": h.responder.DetectIssues(req.Text)})
}
