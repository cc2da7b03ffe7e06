// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"reclaim/internal/models"
	"reclaim/internal/repository"
	"reclaim/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumItems    int
	NumClaims   int
	ShouldClean bool
}

var itemTemplates = []struct {
	title       string
	category    string
	tags        []string
	description string
}{
	{"Black iPhone 13", "Electronics", []string{"phone", "black"}, "Lost near the library entrance, black case with a small crack"},
	{"Silver Keys", "Keys", []string{"keys", "silver"}, "Set of three keys on a silver ring, found by the gym"},
	{"Blue Backpack", "Bags", []string{"backpack", "blue"}, "Blue Jansport backpack with physics textbooks inside"},
	{"Calculus Textbook", "Books", []string{"textbook"}, "Stewart Calculus 8th edition, name written inside the cover"},
	{"Gray Hoodie", "Clothing", []string{"hoodie", "gray"}, "University logo hoodie left in lecture hall B"},
	{"Wireless Earbuds", "Electronics", []string{"earbuds", "white"}, "White earbuds in a charging case, found in the cafeteria"},
	{"Student ID Card", "Accessories", []string{"id", "card"}, "Student card found near the bus stop on campus drive"},
	{"Water Bottle", "Other", []string{"bottle", "green"}, "Green metal bottle covered in club stickers"},
}

// Seed populates the database with reference fixtures and generated data.
// Entities are routed through the moderation service so every seeded record
// carries a real spam score and a valid workflow status.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users, %d items, %d claims...", opts.NumUsers, opts.NumItems, opts.NumClaims)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	svc := service.NewModerationService(
		repository.NewItemStore(db),
		repository.NewUserStore(db),
		repository.NewClaimStore(db),
	)
	ctx := context.Background()

	users, err := createUsers(ctx, svc, r, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Seeded %d users", len(users))

	items, err := createItems(ctx, svc, users, r, opts.NumItems)
	if err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}
	log.Printf("Seeded %d items", len(items))

	claims, err := createClaims(ctx, svc, items, r, opts.NumClaims)
	if err != nil {
		return fmt.Errorf("failed to seed claims: %w", err)
	}
	log.Printf("Seeded %d claims", len(claims))

	log.Println("Seeding complete")
	return nil
}

// createUsers seeds generated accounts plus a known suspicious one so the
// dashboard always has something worth triaging.
func createUsers(ctx context.Context, svc *service.ModerationService, r *rand.Rand, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n+1)

	suspicious, err := svc.CreateUser(ctx, service.CreateUserInput{
		Name:         "Burst Poster",
		Email:        "deals4u@temp-mail.org",
		ItemsPosted:  23,
		ReportCount:  2,
		LastActiveAt: time.Now().Add(-2 * time.Hour),
	})
	if err != nil {
		return nil, err
	}
	users = append(users, suspicious)

	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user, err := svc.CreateUser(ctx, service.CreateUserInput{
			Name:         first + " " + last,
			Email:        fmt.Sprintf("%s.%s%d@university.edu", first, last, i),
			ItemsPosted:  r.Intn(8),
			ReportCount:  0,
			LastActiveAt: time.Now().Add(-time.Duration(r.Intn(72)) * time.Hour),
		})
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// createItems seeds the reference listings, one known-spam listing, and
// generated filler.
func createItems(ctx context.Context, svc *service.ModerationService, users []*models.User, r *rand.Rand, n int) ([]*models.Item, error) {
	items := make([]*models.Item, 0, n+len(itemTemplates)+1)

	submitter := func() string {
		if len(users) == 0 {
			return "someone@university.edu"
		}
		return users[r.Intn(len(users))].Email
	}

	for i, tpl := range itemTemplates {
		itemType := models.ItemTypeLost
		if i%2 == 1 {
			itemType = models.ItemTypeFound
		}
		item, err := svc.CreateItem(ctx, service.CreateItemInput{
			Title:       tpl.title,
			Type:        itemType,
			Category:    tpl.category,
			Tags:        tpl.tags,
			Location:    gofakeit.StreetName(),
			OccurredOn:  time.Now().AddDate(0, 0, -r.Intn(14)),
			Description: tpl.description,
			SubmittedBy: submitter(),
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	spammy, err := svc.CreateItem(ctx, service.CreateItemInput{
		Title:       "AMAZING DEALS",
		Type:        models.ItemTypeFound,
		Category:    "Other",
		Description: "BUY NOW!!! AMAZING DEALS!!! CLICK HERE!!! http://a.example http://b.example http://c.example",
		SubmittedBy: "deals4u@temp-mail.org",
	})
	if err != nil {
		return nil, err
	}
	items = append(items, spammy)

	for i := 0; i < n; i++ {
		itemType := models.ItemTypeLost
		if r.Intn(2) == 1 {
			itemType = models.ItemTypeFound
		}
		item, err := svc.CreateItem(ctx, service.CreateItemInput{
			Title:       gofakeit.ProductName(),
			Type:        itemType,
			Category:    models.Categories[r.Intn(len(models.Categories))],
			Tags:        []string{gofakeit.Color()},
			Location:    gofakeit.StreetName(),
			OccurredOn:  time.Now().AddDate(0, 0, -r.Intn(30)),
			Description: gofakeit.Sentence(12),
			SubmittedBy: submitter(),
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// createClaims seeds ownership claims against random seeded items.
func createClaims(ctx context.Context, svc *service.ModerationService, items []*models.Item, r *rand.Rand, n int) ([]*models.Claim, error) {
	if len(items) == 0 {
		return nil, nil
	}

	claims := make([]*models.Claim, 0, n)
	for i := 0; i < n; i++ {
		item := items[r.Intn(len(items))]
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		claim, err := svc.CreateClaim(ctx, service.CreateClaimInput{
			ItemID:         item.ID,
			RequesterName:  first + " " + last,
			RequesterEmail: fmt.Sprintf("%s.%s%d@university.edu", first, last, i),
			Description:    gofakeit.Sentence(10),
		})
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}

	return claims, nil
}

func clearData(db *gorm.DB) error {
	for _, table := range []string{"claims", "items", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
