// Command main runs the database seeder for Reclaim.
package main

import (
	"flag"
	"log"

	"reclaim/internal/config"
	"reclaim/internal/database"
	"reclaim/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 25, "Number of users to create")
	numItems := flag.Int("items", 60, "Number of items to create")
	numClaims := flag.Int("claims", 15, "Number of claims to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d items, %d claims, clean=%v\n", *numUsers, *numItems, *numClaims, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumItems:    *numItems,
		NumClaims:   *numClaims,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The moderation queue is populated with test data.")
}
