package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"fightcards/db"
	"fightcards/models"
)

// TemplateRepository reads card templates from the templates table
// Implements TemplateRepositoryInterface
type TemplateRepository struct{}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{}
}

// Ensure TemplateRepository implements TemplateRepositoryInterface
var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)

func scanTemplate(row rowScanner) (*models.Template, error) {
	var t models.Template
	var category string
	var color sql.NullString
	var positionsJSON []byte

	if err := row.Scan(&t.ID, &t.Name, &category, &t.BackgroundImageURL, &color, &positionsJSON); err != nil {
		return nil, err
	}

	positions, err := models.DecodeTemplatePositions(positionsJSON)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", t.ID, err)
	}
	t.Positions = positions
	t.Category = models.Category(category)
	t.AccentColor = color.String
	if t.AccentColor == "" {
		t.AccentColor = models.DefaultAccentColor
	}
	return &t, nil
}

// List returns every template ordered by id
func (r *TemplateRepository) List(ctx context.Context) ([]models.Template, error) {
	log.Printf("🔍 TemplateRepository.List")

	rows, err := db.DB.QueryContext(ctx, `SELECT id, name, category, image_url, color, positions FROM templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			// A broken template is a configuration error, not something to skip
			return nil, err
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return templates, nil
}

// GetByID returns one template
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	log.Printf("🔍 TemplateRepository.GetByID: id=%s", id)

	row := db.DB.QueryRowContext(ctx, `SELECT id, name, category, image_url, color, positions FROM templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", models.ErrTemplateNotFound, id)
		}
		return nil, err
	}
	return t, nil
}
