package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Wikid82/phishwatch/internal/api/middleware"
	"github.com/Wikid82/phishwatch/internal/config"
	"github.com/Wikid82/phishwatch/internal/database"
	"github.com/Wikid82/phishwatch/internal/models"
	"github.com/Wikid82/phishwatch/internal/services"
)

const devTokenTTL = 24 * time.Hour

var seedUsers = []middleware.Identity{
	{UserID: "dev-admin", Name: "Dev Admin", Email: "admin@phishwatch.local", IsAdmin: true},
	{UserID: "dev-user", Name: "Dev User", Email: "user@phishwatch.local"},
}

var seedNotifications = []services.BroadcastInput{
	{
		Type:    models.NotificationTypeGeneral,
		Title:   "Welcome to PhishWatch",
		Content: "Check any link before you click it.",
	},
	{
		Type:    models.NotificationTypeMaintenance,
		Title:   "Scheduled maintenance",
		Content: "Scanning will be unavailable Sunday 02:00-03:00 UTC.",
	},
	{
		Type:    models.NotificationTypeSecurityAlert,
		Title:   "Phishing wave",
		Content: "Fake parcel delivery texts are circulating this week.",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	fmt.Println("✓ Database migrated successfully")

	ctx := context.Background()
	seedAccounts(db)
	seedBroadcasts(ctx, db)
	seedChecks(ctx, db)

	fmt.Println("\n✓ Database seeding completed successfully!")
	fmt.Println("  Development tokens (valid 24h):")
	for _, id := range seedUsers {
		token, err := middleware.GenerateToken(cfg.JWTSecret, id, devTokenTTL)
		if err != nil {
			log.Fatal("Failed to sign token:", err)
		}
		fmt.Printf("  %-10s %s\n", id.UserID, token)
	}
}

func seedAccounts(db *gorm.DB) {
	for _, id := range seedUsers {
		user := models.User{ID: id.UserID, Name: id.Name, Email: id.Email, Role: id.Role()}
		result := db.Where("id = ?", user.ID).FirstOrCreate(&user)
		if result.Error != nil {
			log.Printf("Failed to seed user %s: %v", id.UserID, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created user: %s (%s)\n", user.Email, user.Role)
		} else {
			fmt.Printf("  User already exists: %s\n", user.Email)
		}
	}
}

func seedBroadcasts(ctx context.Context, db *gorm.DB) {
	svc := services.NewNotificationService(db)
	for _, in := range seedNotifications {
		var count int64
		db.Model(&models.Notification{}).Where("title = ?", in.Title).Count(&count)
		if count > 0 {
			fmt.Printf("  Notification already exists: %s\n", in.Title)
			continue
		}
		if _, err := svc.Broadcast(ctx, in); err != nil {
			log.Printf("Failed to seed notification %q: %v", in.Title, err)
			continue
		}
		fmt.Printf("✓ Created notification: [%s] %s\n", in.Type, in.Title)
	}
}

func seedChecks(ctx context.Context, db *gorm.DB) {
	user := seedUsers[1]
	svc := services.NewRiskCheckService(db)

	existing, err := svc.ListForUser(ctx, user.UserID)
	if err != nil {
		log.Printf("Failed to list checks: %v", err)
		return
	}
	if len(existing) > 0 {
		fmt.Printf("  Risk checks already exist for %s\n", user.UserID)
		return
	}

	samples := []struct {
		url    string
		score  float64
		checks [4]bool
	}{
		{"https://example.com", 0, [4]bool{false, false, false, false}},
		{"http://evil.test/login", 3, [4]bool{true, true, true, true}},
	}
	requester := services.Requester{ID: user.UserID, Name: user.Name, Email: user.Email, Role: user.Role()}
	for _, s := range samples {
		score := s.score
		in := services.RecordCheckInput{
			URL:       s.url,
			RiskScore: &score,
			SecurityChecks: &services.SecurityChecksInput{
				DomainFlagged: &s.checks[0],
				URLFlagged:    &s.checks[1],
				AIFlagged:     &s.checks[2],
				NewDomain:     &s.checks[3],
			},
		}
		if _, err := svc.Record(ctx, in, requester); err != nil {
			log.Printf("Failed to seed check %s: %v", s.url, err)
			continue
		}
		fmt.Printf("✓ Recorded risk check: %s (score %.0f)\n", s.url, s.score)
	}
}
