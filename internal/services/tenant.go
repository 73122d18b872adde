package services

import (
	"errors"
	"fmt"

	"github.com/onebase1/guestglow-backend/internal/models"
	"gorm.io/gorm"
)

var ErrTenantNotFound = errors.New("tenant not found")

type TenantService struct {
	db *gorm.DB
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

// GetBySlug resolves a tenant from its URL slug. Only active tenants resolve.
func (s *TenantService) GetBySlug(slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.Where("slug = ? AND is_active = ?", slug, true).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Branding is the public subset of tenant fields served to the guest SPA.
type Branding struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

func (s *TenantService) GetBranding(slug string) (*Branding, error) {
	tenant, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	return &Branding{
		Slug:           tenant.Slug,
		Name:           tenant.Name,
		LogoURL:        tenant.LogoURL,
		PrimaryColor:   tenant.PrimaryColor,
		SecondaryColor: tenant.SecondaryColor,
	}, nil
}

type TenantRequest struct {
	Slug                string `json:"slug" binding:"required"`
	Name                string `json:"name" binding:"required"`
	LogoURL             string `json:"logo_url"`
	PrimaryColor        string `json:"primary_color"`
	SecondaryColor      string `json:"secondary_color"`
	ContactEmail        string `json:"contact_email"`
	ContactPhone        string `json:"contact_phone"`
	GuestRelationsEmail string `json:"guest_relations_email"`
	GeneralManagerEmail string `json:"general_manager_email"`
}

func (s *TenantService) Create(req *TenantRequest) (*models.Tenant, error) {
	var count int64
	s.db.Model(&models.Tenant{}).Where("slug = ?", req.Slug).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("tenant slug %q already exists", req.Slug)
	}

	tenant := models.Tenant{
		Slug:                req.Slug,
		Name:                req.Name,
		LogoURL:             req.LogoURL,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		GuestRelationsEmail: req.GuestRelationsEmail,
		GeneralManagerEmail: req.GeneralManagerEmail,
		IsActive:            true,
	}
	if req.PrimaryColor != "" {
		tenant.PrimaryColor = req.PrimaryColor
	}
	if req.SecondaryColor != "" {
		tenant.SecondaryColor = req.SecondaryColor
	}

	if err := s.db.Create(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *TenantService) Update(id uint, req *TenantRequest) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	tenant.Name = req.Name
	tenant.LogoURL = req.LogoURL
	tenant.ContactEmail = req.ContactEmail
	tenant.ContactPhone = req.ContactPhone
	tenant.GuestRelationsEmail = req.GuestRelationsEmail
	tenant.GeneralManagerEmail = req.GeneralManagerEmail
	if req.PrimaryColor != "" {
		tenant.PrimaryColor = req.PrimaryColor
	}
	if req.SecondaryColor != "" {
		tenant.SecondaryColor = req.SecondaryColor
	}

	if err := s.db.Save(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *TenantService) List() ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := s.db.Order("name ASC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}
