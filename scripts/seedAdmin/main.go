package main

import (
	"errors"
	"flag"
	"lms/config"
	"lms/database"
	"lms/models"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Creates the first admin account, or promotes an existing user to admin.
//
//	go run ./scripts/seedAdmin -email admin@lms.com -name "Site Admin" -password secret123
func main() {
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Administrator", "admin full name")
	password := flag.String("password", "", "admin password (min 8 characters)")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		log.Fatal("Both -email and a -password of at least 8 characters are required")
	}

	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	normalized := strings.ToLower(strings.TrimSpace(*email))

	var user models.User
	err := db.Where("email = ?", normalized).First(&user).Error
	switch {
	case err == nil:
		if err := db.Model(&user).Updates(map[string]interface{}{"role": models.RoleAdmin, "is_deleted": false}).Error; err != nil {
			log.Fatalf("Failed to promote %s: %v", normalized, err)
		}
		log.Printf("Promoted existing user %s (id %d) to admin", normalized, user.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), config.AppConfig.SaltRound)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user = models.User{
			FullName: *name,
			Email:    normalized,
			Password: string(hashed),
			Role:     models.RoleAdmin,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.Printf("Created admin %s (id %d)", normalized, user.ID)
	default:
		log.Fatalf("Failed to look up %s: %v", normalized, err)
	}
}
