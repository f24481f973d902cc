// Package main provides a tool to import the ingredient catalog from CSV.
//
// The CSV has two columns per row: name and measurement unit. A header row
// is optional. Rows already present in the catalog are skipped, so the
// import is safe to re-run. After importing, the search index is rebuilt.
//
// Usage:
//
//	DATA_PATH=~/Plateful/data go run ./cmd/importingredients --file ingredients.csv
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/id"
	"github.com/platefulapp/plateful-server/internal/search"
	"github.com/platefulapp/plateful-server/internal/service"
	"github.com/platefulapp/plateful-server/internal/store/sqlite"
)

var file = flag.String("file", "", "Path to the ingredient CSV file")

func main() {
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: importingredients --file ingredients.csv")
		os.Exit(1)
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Plateful/data")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(filepath.Join(dataPath, "plateful.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	created, skipped, err := importCSV(ctx, s, *file)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Imported %d ingredients, skipped %d duplicates\n", created, skipped)

	// Rebuild the search index over the full catalog.
	index, err := search.NewIngredientIndex(search.Options{DataPath: dataPath, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	ingredientService := service.NewIngredientService(s, index, logger)
	if err := ingredientService.ReindexAll(ctx); err != nil {
		log.Fatalf("Reindex failed: %v", err)
	}

	docCount, _ := index.DocumentCount()
	fmt.Printf("Search index rebuilt: %d documents\n", docCount)
}

// importCSV reads the catalog file and inserts rows that are not present yet.
// Duplicate rows within the file itself are collapsed before hitting the store.
func importCSV(ctx context.Context, s *sqlite.Store, path string) (created, skipped int, err error) {
	f, err := os.Open(path) //#nosec G304 -- CSV path comes from the operator
	if err != nil {
		return 0, 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	seen := make(map[string]bool)
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return created, skipped, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		if len(record) < 1 {
			continue
		}

		name := strings.TrimSpace(record[0])
		unit := ""
		if len(record) > 1 {
			unit = strings.TrimSpace(record[1])
		}

		if name == "" {
			continue
		}
		// Skip a header row if present.
		if line == 1 && strings.EqualFold(name, "name") {
			continue
		}

		// Collapse duplicates inside the file.
		key := strings.ToLower(name) + "\x00" + strings.ToLower(unit)
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true

		ing := &domain.Ingredient{
			ID:        id.MustGenerate("ing"),
			Name:      name,
			Unit:      unit,
			CreatedAt: time.Now(),
		}

		inserted, err := s.InsertIngredientIfAbsent(ctx, ing)
		if err != nil {
			return created, skipped, fmt.Errorf("insert %q: %w", name, err)
		}
		if inserted {
			created++
		} else {
			skipped++
		}
	}

	return created, skipped, nil
}
