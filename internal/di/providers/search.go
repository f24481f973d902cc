package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/platefulapp/plateful-server/internal/config"
	"github.com/platefulapp/plateful-server/internal/logger"
	"github.com/platefulapp/plateful-server/internal/search"
	"github.com/platefulapp/plateful-server/internal/service"
)

// SearchIndexHandle wraps the ingredient index with shutdown capability.
type SearchIndexHandle struct {
	*search.IngredientIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve ingredient index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIngredientIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Ingredient index initialized", "documents", docCount)

	return &SearchIndexHandle{IngredientIndex: index}, nil
}

// ProvideIngredientService provides the ingredient catalog service.
func ProvideIngredientService(i do.Injector) (*service.IngredientService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewIngredientService(storeHandle.Store, indexHandle.IngredientIndex, log.Logger)

	// Wire to store so catalog writes keep the index in sync
	storeHandle.SetSearchIndexer(indexHandle.IngredientIndex)

	return svc, nil
}

// TriggerIngredientReindexIfNeeded rebuilds the search index when it is empty
// but the catalog is not. Should be called after all services are wired.
func TriggerIngredientReindexIfNeeded(i do.Injector) {
	ingredientService := do.MustInvoke[*service.IngredientService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := ingredientService.IndexDocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	count, err := storeHandle.CountIngredients(ctx)
	if err != nil || count == 0 {
		return
	}

	log.Info("Search index is empty but ingredients exist, triggering initial reindex",
		"ingredient_count", count,
	)

	go func() {
		reindexCtx := context.Background()
		if err := ingredientService.ReindexAll(reindexCtx); err != nil {
			log.Error("Initial ingredient reindex failed", "error", err)
		}
	}()
}
