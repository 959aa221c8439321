package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"fightcards/models"
	"fightcards/repository"
)

// TemplateSource provides the raw template definitions
type TemplateSource interface {
	Templates(ctx context.Context) ([]models.Template, error)
}

// CodeTemplateSource serves the templates built into the binary
type CodeTemplateSource struct{}

// Templates returns the built-in templates
func (CodeTemplateSource) Templates(ctx context.Context) ([]models.Template, error) {
	return BuiltinTemplates(), nil
}

// DatabaseTemplateSource reads templates from the templates table
type DatabaseTemplateSource struct {
	repo repository.TemplateRepositoryInterface
}

// NewDatabaseTemplateSource creates a DatabaseTemplateSource
func NewDatabaseTemplateSource(repo repository.TemplateRepositoryInterface) *DatabaseTemplateSource {
	return &DatabaseTemplateSource{repo: repo}
}

// Templates returns every stored template
func (s *DatabaseTemplateSource) Templates(ctx context.Context) ([]models.Template, error) {
	return s.repo.List(ctx)
}

// TemplateCatalog validates and indexes the templates of one source
type TemplateCatalog struct {
	source TemplateSource

	mu        sync.RWMutex
	loaded    bool
	templates []models.Template
	byID      map[string]int
}

// NewTemplateCatalog creates a catalog over a source
func NewTemplateCatalog(source TemplateSource) *TemplateCatalog {
	return &TemplateCatalog{source: source}
}

// Reload reads and validates every template. A single invalid template fails the whole load.
func (c *TemplateCatalog) Reload(ctx context.Context) error {
	templates, err := c.source.Templates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	byID := make(map[string]int, len(templates))
	for i := range templates {
		if err := templates[i].Validate(); err != nil {
			log.Printf("❌ TemplateCatalog: %v", err)
			return err
		}
		if _, dup := byID[templates[i].ID]; dup {
			return fmt.Errorf("%w: duplicate template id %q", models.ErrInvalidTemplate, templates[i].ID)
		}
		byID[templates[i].ID] = i
	}

	c.mu.Lock()
	c.templates = templates
	c.byID = byID
	c.loaded = true
	c.mu.Unlock()

	log.Printf("✓ TemplateCatalog: %d templates loaded", len(templates))
	return nil
}

func (c *TemplateCatalog) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Reload(ctx)
}

// List returns every template in catalog order
func (c *TemplateCatalog) List(ctx context.Context) ([]models.Template, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Template, len(c.templates))
	copy(out, c.templates)
	return out, nil
}

// Get returns one template by id
func (c *TemplateCatalog) Get(ctx context.Context, id string) (*models.Template, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrTemplateNotFound, id)
	}
	t := c.templates[i]
	return &t, nil
}

// standardPositions is the layout shared by the built-in templates
func standardPositions(photoHeight float64) models.Positions {
	return models.Positions{
		Photo:    models.Box{X: 45, Y: 36, Width: 280, Height: photoHeight},
		Username: models.TextPos{X: 180, Y: 35, FontSize: 16},
		Rating:   models.TextPos{X: 15, Y: 75, FontSize: 32},
		Sport:    models.TextPos{X: 33, Y: 105, FontSize: 14},
		Name:     models.TextPos{X: 180, Y: 350, FontSize: 28},
		Flag:     models.Box{X: 33, Y: 135, Width: 40, Height: 30},
		Stats: models.StatsLayout{
			X: 180, Y: 390,
			FontSize: 18, LabelFontSize: 13,
			RowSpacing: 28, ColumnWidth: 120,
		},
	}
}

// BuiltinTemplates returns the card designs shipped with the service
func BuiltinTemplates() []models.Template {
	return []models.Template{
		{ID: "boxing", Name: "Boxing Ring", Category: models.CategoryBoxing, BackgroundImageURL: "/octotun.png", AccentColor: "#EF4444", Positions: standardPositions(300)},
		{ID: "space", Name: "Space Fighter", Category: models.CategoryOther, BackgroundImageURL: "/3dback.png", AccentColor: "#7adeff", Positions: standardPositions(300)},
		{ID: "ufc", Name: "UFC Style", Category: models.CategoryMMA, BackgroundImageURL: "/dark.png", AccentColor: "#10B981", Positions: standardPositions(305)},
		{ID: "laser", Name: "Laser Fighter", Category: models.CategoryOther, BackgroundImageURL: "/3dwhite.png", AccentColor: "#FFFFFF", Positions: standardPositions(300)},
		{ID: "aztek", Name: "Aztek", Category: models.CategoryOther, BackgroundImageURL: "/aztek1.jpg", AccentColor: "#F59E0B", Positions: standardPositions(300)},
		{ID: "paint", Name: "Paint", Category: models.CategoryOther, BackgroundImageURL: "/leonardo1.jpg", AccentColor: "#8B5CF6", Positions: standardPositions(300)},
		{ID: "octogone", Name: "Octogone", Category: models.CategoryMMA, BackgroundImageURL: "/leonardo2.jpg", AccentColor: "#EC4899", Positions: standardPositions(300)},
		{ID: "shaolin", Name: "Shaolin", Category: models.CategoryOther, BackgroundImageURL: "/darktemple.png", AccentColor: "#DC2626", Positions: standardPositions(300)},
	}
}
