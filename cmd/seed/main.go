// Command seed populates the database with sample users, contacts and spam
// reports for local development.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/joho/godotenv"

	"github.com/spamlookup/spamlookup-backend/internal/config"
	"github.com/spamlookup/spamlookup-backend/internal/database"
	"github.com/spamlookup/spamlookup-backend/internal/models"
	"github.com/spamlookup/spamlookup-backend/internal/store"
	"github.com/spamlookup/spamlookup-backend/pkg/utils"
)

var firstNames = []string{"Alice", "Bob", "Carol", "David", "Emma", "Frank", "Grace", "Henry", "Iris", "Jack"}
var lastNames = []string{"Anderson", "Barker", "Chen", "Diaz", "Evans", "Fischer", "Gupta", "Hughes", "Ivanov", "Jones"}

func randomName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

func randomPhone() string {
	return fmt.Sprintf("+1%d", 2000000000+rand.Int63n(7999999999))
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	ctx := context.Background()
	stores := store.NewPostgresStores(database.PostgresDB)

	hashedPassword, err := utils.HashPassword("password")
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	// Sample users, each with a handful of contacts
	for i := 0; i < 10; i++ {
		name := randomName()
		user := &models.User{
			Name:         name,
			Username:     fmt.Sprintf("user%02d", i+1),
			PhoneNumber:  randomPhone(),
			Email:        fmt.Sprintf("user%02d@example.com", i+1),
			PasswordHash: hashedPassword,
		}
		if err := stores.Users.Create(ctx, user); err != nil {
			log.Printf("skipping user %s: %v", user.Username, err)
			continue
		}

		for j := 0; j < 5; j++ {
			contact := &models.Contact{
				OwnerID:     user.ID,
				Name:        randomName(),
				PhoneNumber: randomPhone(),
			}
			if err := stores.Contacts.Create(ctx, contact); err != nil {
				log.Printf("skipping contact for %s: %v", user.Username, err)
			}
		}
	}

	// Sample spam reports
	for i := 0; i < 15; i++ {
		phone := randomPhone()
		for n := rand.Intn(5) + 1; n > 0; n-- {
			if err := stores.Spam.IncrementReport(ctx, phone); err != nil {
				log.Printf("skipping spam report for %s: %v", phone, err)
				break
			}
		}
	}

	log.Println("✅ Database populated with sample data")
}
