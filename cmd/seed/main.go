// Package main provides a tool to seed the database with demo data.
//
// This installs the default tag set and, with --demo, a demo user with a few
// recipes so the feed and shopping list have something to show.
//
// Usage:
//
//	DATA_PATH=~/Plateful/data go run ./cmd/seed
//	DATA_PATH=~/Plateful/data go run ./cmd/seed --demo  # Also create demo user and recipes
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/platefulapp/plateful-server/internal/auth"
	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/id"
	"github.com/platefulapp/plateful-server/internal/service"
	"github.com/platefulapp/plateful-server/internal/store"
	"github.com/platefulapp/plateful-server/internal/store/sqlite"
)

var demo = flag.Bool("demo", false, "Create a demo user with sample recipes")

// demoIngredients covers the demo recipes when the catalog is empty.
// A real catalog comes from cmd/importingredients.
var demoIngredients = []struct {
	Name string
	Unit string
}{
	{"Flour", "g"},
	{"Sugar", "g"},
	{"Butter", "g"},
	{"Egg", ""},
	{"Milk", "ml"},
	{"Salt", "g"},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Plateful/data")
	}

	dbPath := filepath.Join(dataPath, "plateful.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	tagService := service.NewTagService(s, logger)
	if err := tagService.SeedDefaults(ctx); err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}

	tags, err := tagService.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list tags: %v", err)
	}
	fmt.Printf("Tags in place: %d\n", len(tags))

	if !*demo {
		fmt.Println("Done. Re-run with --demo for sample data.")
		return
	}

	seedDemo(ctx, s, tags)
}

func seedDemo(ctx context.Context, s *sqlite.Store, tags []*domain.Tag) {
	ingredients := ensureIngredients(ctx, s)
	user := ensureDemoUser(ctx, s)

	recipes := []struct {
		Name        string
		Text        string
		CookingTime int
		TagSlug     string
		Lines       []domain.IngredientLine
	}{
		{
			Name:        "Pancakes",
			Text:        "Whisk everything together and fry in a buttered pan.",
			CookingTime: 20,
			TagSlug:     "breakfast",
			Lines: []domain.IngredientLine{
				{IngredientID: ingredients["Flour"], Amount: 200},
				{IngredientID: ingredients["Milk"], Amount: 300},
				{IngredientID: ingredients["Egg"], Amount: 2},
			},
		},
		{
			Name:        "Shortbread",
			Text:        "Cream butter and sugar, work in the flour, bake until pale gold.",
			CookingTime: 45,
			TagSlug:     "dessert",
			Lines: []domain.IngredientLine{
				{IngredientID: ingredients["Butter"], Amount: 150},
				{IngredientID: ingredients["Sugar"], Amount: 75},
				{IngredientID: ingredients["Flour"], Amount: 225},
			},
		},
	}

	tagBySlug := make(map[string]string, len(tags))
	for _, t := range tags {
		tagBySlug[t.Slug] = t.ID
	}

	created := 0
	for _, r := range recipes {
		now := time.Now()
		recipe := &domain.Recipe{
			ID:          id.MustGenerate("rcp"),
			AuthorID:    user.ID,
			Name:        r.Name,
			Text:        r.Text,
			CookingTime: r.CookingTime,
			PubDate:     now,
			UpdatedAt:   now,
		}

		var tagIDs []string
		if tagID, ok := tagBySlug[r.TagSlug]; ok {
			tagIDs = []string{tagID}
		}

		if err := s.CreateRecipe(ctx, recipe, tagIDs, r.Lines); err != nil {
			log.Printf("Failed to create recipe %s: %v", r.Name, err)
			continue
		}
		created++
	}

	fmt.Printf("Demo user: %s (password: tarragon-and-thyme)\n", user.Email)
	fmt.Printf("Created %d demo recipes\n", created)
}

// ensureIngredients makes sure the demo catalog entries exist and returns
// their IDs keyed by name.
func ensureIngredients(ctx context.Context, s *sqlite.Store) map[string]string {
	byName := make(map[string]string, len(demoIngredients))

	existing, err := s.ListIngredients(ctx)
	if err != nil {
		log.Fatalf("Failed to list ingredients: %v", err)
	}
	for _, ing := range existing {
		byName[ing.Name] = ing.ID
	}

	for _, di := range demoIngredients {
		if _, ok := byName[di.Name]; ok {
			continue
		}
		ing := &domain.Ingredient{
			ID:        id.MustGenerate("ing"),
			Name:      di.Name,
			Unit:      di.Unit,
			CreatedAt: time.Now(),
		}
		if _, err := s.InsertIngredientIfAbsent(ctx, ing); err != nil {
			log.Fatalf("Failed to insert ingredient %s: %v", di.Name, err)
		}
		byName[di.Name] = ing.ID
	}

	return byName
}

// ensureDemoUser creates the demo account if it does not exist yet.
func ensureDemoUser(ctx context.Context, s *sqlite.Store) *domain.User {
	const demoEmail = "demo@plateful.app"

	user, err := s.GetUserByEmail(ctx, demoEmail)
	if err == nil {
		fmt.Println("Demo user already exists")
		return user
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Fatalf("Failed to look up demo user: %v", err)
	}

	hash, err := auth.HashPassword("tarragon-and-thyme")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	user = &domain.User{
		ID:           id.MustGenerate("user"),
		Email:        demoEmail,
		Username:     "demo_cook",
		FirstName:    "Demo",
		LastName:     "Cook",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	return user
}
