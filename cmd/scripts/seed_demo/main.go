// Seeds a demo tenant with sample feedback, external reviews and a rating
// goal. Intended for local development against a fresh database:
//
//	go run ./cmd/scripts/seed_demo
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.SeedDefaultData(); err != nil {
		log.Fatalf("Failed to seed default data: %v", err)
	}

	db := models.GetDB()

	var tenant models.Tenant
	err = db.Where("slug = ?", "grand-pacific").First(&tenant).Error
	if err == nil {
		fmt.Println("Demo tenant already exists, nothing to do")
		return
	}

	tenant = models.Tenant{
		Slug:                "grand-pacific",
		Name:                "Grand Pacific Hotel",
		PrimaryColor:        "#1a365d",
		SecondaryColor:      "#d69e2e",
		ContactEmail:        "frontdesk@grandpacific.example",
		GuestRelationsEmail: "guestrelations@grandpacific.example",
		GeneralManagerEmail: "gm@grandpacific.example",
		IsActive:            true,
	}
	if err := db.Create(&tenant).Error; err != nil {
		log.Fatalf("Failed to create tenant: %v", err)
	}
	fmt.Printf("Created tenant %q (id=%d)\n", tenant.Slug, tenant.ID)

	feedbacks := []models.Feedback{
		{
			TenantID: tenant.ID, GuestName: "Alice Morgan", GuestEmail: "alice@example.com",
			RoomNumber: "204", Rating: 2, Category: "cleanliness",
			Comment: "The bathroom had not been cleaned properly and towels were missing.",
		},
		{
			TenantID: tenant.ID, GuestName: "Daniel Osei", GuestEmail: "dosei@example.com",
			RoomNumber: "311", Rating: 5, Category: "staff_service",
			Comment: "Reception staff were wonderful, check-in took two minutes.",
		},
		{
			TenantID: tenant.ID, GuestName: "Priya Nair",
			RoomNumber: "118", Rating: 3, Category: "noise",
			Comment: "Room was fine but street noise kept us up past midnight.",
		},
	}
	for i := range feedbacks {
		f := &feedbacks[i]
		f.Sentiment = models.SentimentForRating(f.Rating)
		f.Priority = models.PriorityForRating(f.Rating)
		f.Status = models.StatusNew
		if err := db.Create(f).Error; err != nil {
			log.Fatalf("Failed to create feedback: %v", err)
		}
	}
	fmt.Printf("Created %d feedback entries\n", len(feedbacks))

	reviews := []models.ExternalReview{
		{
			TenantID: tenant.ID, Platform: "google", ExternalID: "demo-g-1",
			Author: "J. Whitfield", Rating: 4, Text: "Lovely stay, great breakfast spread.",
			Sentiment: models.SentimentForRating(4), ReviewedAt: time.Now().AddDate(0, 0, -3),
		},
		{
			TenantID: tenant.ID, Platform: "tripadvisor", ExternalID: "demo-t-1",
			Author: "travelfan88", Rating: 2, Text: "Wifi barely worked and the room smelled musty.",
			Sentiment: models.SentimentForRating(2), ReviewedAt: time.Now().AddDate(0, 0, -1),
		},
	}
	for i := range reviews {
		if err := db.Create(&reviews[i]).Error; err != nil {
			log.Fatalf("Failed to create external review: %v", err)
		}
	}
	fmt.Printf("Created %d external reviews\n", len(reviews))

	deadline := time.Now().AddDate(0, 3, 0)
	goal := models.RatingGoal{
		TenantID:     tenant.ID,
		Platform:     "google",
		TargetRating: 4.5,
		Deadline:     &deadline,
	}
	if err := db.Create(&goal).Error; err != nil {
		log.Fatalf("Failed to create rating goal: %v", err)
	}
	fmt.Println("Created rating goal (google -> 4.5)")

	fmt.Println("")
	fmt.Println("Demo data ready. Log in with the default admin account and try:")
	fmt.Printf("  GET /api/v1/feedback?tenant_id=%d\n", tenant.ID)
	fmt.Printf("  GET /api/v1/dashboard/stats?tenant_id=%d\n", tenant.ID)
	fmt.Printf("  GET /api/v1/qr/feedback?tenant=%s&room=204\n", tenant.Slug)
}
