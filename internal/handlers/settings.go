package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	configService  *services.SystemConfigService
	holidayService *services.HolidayService
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{
		configService:  services.NewSystemConfigService(db),
		holidayService: services.NewHolidayService(),
	}
}

// GetGroup lists the settings in one config group
// GET /api/v1/admin/settings?group=digest
func (h *SettingsHandler) GetGroup(c *gin.Context) {
	group := c.Query("group")
	if group == "" {
		response.BadRequest(c, "group is required")
		return
	}

	configs, err := h.configService.GetByGroup(group)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, configs)
}

// Set updates one setting by key
// PUT /api/v1/admin/settings
func (h *SettingsHandler) Set(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.configService.Set(req.Key, req.Value); err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"key": req.Key, "value": req.Value})
}

// Countries lists supported business calendar countries for the digest
// GET /api/v1/admin/settings/countries
func (h *SettingsHandler) Countries(c *gin.Context) {
	response.Success(c, h.holidayService.GetSupportedCountries())
}
