// Seed script to create the initial administrator account
// cmd/seed-admin/main.go
package main

import (
	"flag"
	"log"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/config"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/joho/godotenv"
)

func main() {
	name := flag.String("name", "Administrator", "display name")
	username := flag.String("username", "admin", "login username")
	email := flag.String("email", "admin@desa.local", "login email")
	password := flag.String("password", "", "initial password (required)")
	role := flag.String("role", string(models.RoleAdmin), "ADMIN or KADES")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}
	if ok, reason := utils.ValidatePassword(*password); !ok {
		log.Fatal(reason)
	}
	accountRole := models.Role(*role)
	if accountRole != models.RoleAdmin && accountRole != models.RoleKades {
		log.Fatal("-role must be ADMIN or KADES")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var existing int64
	if err := db.Model(&models.User{}).
		Where("(username = ? OR email = ?) AND delete_at IS NULL", *username, *email).
		Count(&existing).Error; err != nil {
		log.Fatal("Failed to check existing users:", err)
	}
	if existing > 0 {
		log.Fatalf("User %s already exists, nothing to do", *username)
	}

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := models.User{
		Name:       *name,
		Username:   *username,
		Email:      *email,
		Password:   hashed,
		Role:       accountRole,
		IsVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to create user:", err)
	}

	log.Printf("Created %s account %s (user_id=%d)\n", accountRole, *username, user.UserID)
}
