package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/platefulapp/plateful-server/internal/domain"
)

// IngredientIndex wraps a Bleve index with catalog-specific operations.
//
// Thread safety: All public methods are safe for concurrent use.
// The mutex protects against index corruption during rebuild operations.
type IngredientIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex // Protects index operations during rebuild
}

// Options configures the ingredient index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (uses stderr if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// This triggers an automatic rebuild on startup when the version doesn't match.
const mappingVersion = "1"

// NewIngredientIndex creates or opens the ingredient index.
// If an existing index is found, it opens it. Otherwise, creates a new one.
// If the existing index is corrupted or has an outdated mapping, it's removed
// and recreated.
func NewIngredientIndex(opts Options) (*IngredientIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "ingredients.bleve")
	versionPath := filepath.Join(opts.DataPath, "ingredients.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("ingredient index has no version file, will rebuild with current mapping",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("ingredient index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		indexMapping := buildIndexMapping()
		index, err = bleve.New(indexPath, indexMapping)
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0644); writeErr != nil {
			logger.Warn("failed to write index version file", "error", writeErr)
		}
		logger.Info("created new ingredient index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing ingredient index", "path", indexPath)
	}

	return &IngredientIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *IngredientIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexIngredient indexes a single catalog entry.
// Implements store.SearchIndexer.
func (s *IngredientIndex) IndexIngredient(_ context.Context, ing *domain.Ingredient) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := NewIngredientDocument(ing)
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexIngredients indexes multiple entries in batches.
// This is significantly faster than calling IndexIngredient in a loop and is
// the path bulk import and startup reindex take.
func (s *IngredientIndex) IndexIngredients(ings []*domain.Ingredient) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(ings); i += batchSize {
		end := i + batchSize
		if end > len(ings) {
			end = len(ings)
		}
		chunk := ings[i:end]

		batch := s.index.NewBatch()
		for _, ing := range chunk {
			doc := NewIngredientDocument(ing)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DeleteIngredient removes an entry from the index.
// Implements store.SearchIndexer.
func (s *IngredientIndex) DeleteIngredient(_ context.Context, ingredientID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(ingredientID)
}

// DocumentCount returns the total number of indexed entries.
func (s *IngredientIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the existing index and creates a new one.
// Acquires an exclusive lock and blocks all other operations; the caller is
// expected to follow up with IndexIngredients over the full catalog.
func (s *IngredientIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	indexMapping := buildIndexMapping()
	index, err := bleve.New(s.path, indexMapping)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt ingredient index", "path", s.path)

	return nil
}
