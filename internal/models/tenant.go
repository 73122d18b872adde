package models

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents a hotel property using the platform. Branding fields are
// served to the SPA which injects them as CSS variables.
type Tenant struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Slug           string `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Name           string `gorm:"size:200;not null" json:"name"`
	LogoURL        string `gorm:"size:500" json:"logo_url"`
	PrimaryColor   string `gorm:"size:20;default:#1a365d" json:"primary_color"`
	SecondaryColor string `gorm:"size:20;default:#d69e2e" json:"secondary_color"`
	ContactEmail   string `gorm:"size:255" json:"contact_email"`
	ContactPhone   string `gorm:"size:50" json:"contact_phone"`

	// Escalation recipients. Level 1 goes to guest relations, level 2 to the GM.
	GuestRelationsEmail string `gorm:"size:255" json:"guest_relations_email"`
	GeneralManagerEmail string `gorm:"size:255" json:"general_manager_email"`

	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tenant) TableName() string { return "tenants" }
