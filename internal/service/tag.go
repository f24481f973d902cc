package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/id"
	"github.com/platefulapp/plateful-server/internal/store"
	"github.com/platefulapp/plateful-server/internal/util"
)

// TagService provides tag reads and seeding.
// Tags are reference data: clients only ever list and get them.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// List returns all tags ordered by slug.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Get returns a tag by ID.
func (s *TagService) Get(ctx context.Context, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTagByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// DefaultTag is one entry in the baseline tag set.
type DefaultTag struct {
	Name  string
	Slug  string
	Color string
}

// DefaultTags is the baseline tag set installed on first boot.
var DefaultTags = []DefaultTag{
	{Name: "Breakfast", Slug: "breakfast", Color: "#E26C2D"},
	{Name: "Lunch", Slug: "lunch", Color: "#49B64E"},
	{Name: "Dinner", Slug: "dinner", Color: "#8775D7"},
	{Name: "Dessert", Slug: "dessert", Color: "#F63AC3"},
	{Name: "Snack", Slug: "snack", Color: "#3392F2"},
}

// SeedDefaults installs the baseline tag set if no tags exist yet.
// Safe to call on every startup.
func (s *TagService) SeedDefaults(ctx context.Context) error {
	existing, err := s.store.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, dt := range DefaultTags {
		if _, err := s.Create(ctx, dt.Name, dt.Slug, dt.Color); err != nil {
			return fmt.Errorf("seed tag %s: %w", dt.Slug, err)
		}
	}

	s.logger.Info("Default tags seeded", "count", len(DefaultTags))
	return nil
}

// Create inserts a new tag. Used by the seeder, not exposed over the API.
// The slug is normalized; name, slug, and color must each be unique.
func (s *TagService) Create(ctx context.Context, name, slug, color string) (*domain.Tag, error) {
	if name == "" || len(name) > domain.MaxTagNameLength {
		return nil, domainerrors.Validationf("tag name must be 1-%d characters", domain.MaxTagNameLength)
	}
	if !domain.ValidHexColor(color) {
		return nil, domainerrors.Validation("tag color must be a hex color like #49B64E")
	}

	slug = util.NormalizeSlug(slug)
	if slug == "" || len(slug) > domain.MaxTagSlugLength {
		return nil, domainerrors.Validationf("tag slug must normalize to 1-%d characters", domain.MaxTagSlugLength)
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	tag := &domain.Tag{
		ID:        tagID,
		Name:      name,
		Slug:      slug,
		Color:     color,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a tag with this name, slug, or color already exists")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("Tag created", "tag_id", tagID, "slug", slug)
	return tag, nil
}
