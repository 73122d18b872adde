package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type TenantHandler struct {
	tenantService *services.TenantService
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{
		tenantService: services.NewTenantService(db),
	}
}

// GetBranding serves the public theming payload for a tenant
// GET /api/v1/tenants/:slug/branding
func (h *TenantHandler) GetBranding(c *gin.Context) {
	slug := c.Param("slug")

	branding, err := h.tenantService.GetBranding(slug)
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			response.NotFound(c, "tenant not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, branding)
}

// Create registers a new tenant (admin only)
// POST /api/v1/admin/tenants
func (h *TenantHandler) Create(c *gin.Context) {
	var req services.TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.Create(&req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, tenant)
}

// Update modifies a tenant (admin only)
// PUT /api/v1/admin/tenants/:id
func (h *TenantHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant id")
		return
	}

	var req services.TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.Update(uint(id), &req)
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			response.NotFound(c, "tenant not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, tenant)
}

// List returns all tenants (admin only)
// GET /api/v1/admin/tenants
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.tenantService.List()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, tenants)
}
