package controller

import (
	"context"
	"log"
	"net/http"

	"fightcards/models"
	"fightcards/utils"
)

// TemplateCatalog lists and resolves card templates
type TemplateCatalog interface {
	List(ctx context.Context) ([]models.Template, error)
	Get(ctx context.Context, id string) (*models.Template, error)
}

// TemplateController handles HTTP requests for templates and flags
type TemplateController struct {
	catalog TemplateCatalog
}

// NewTemplateController creates a new TemplateController
func NewTemplateController(catalog TemplateCatalog) *TemplateController {
	return &TemplateController{catalog: catalog}
}

// ListTemplates handles GET /api/templates
func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ListTemplates: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "ListTemplates", http.MethodGet) {
		return
	}

	templates, err := c.catalog.List(r.Context())
	if err != nil {
		writeError(w, "ListTemplates", "list templates", err)
		return
	}

	log.Printf("✅ ListTemplates: Returning %d templates", len(templates))
	writeJSON(w, "ListTemplates", http.StatusOK, templates)
}

// GetTemplate handles GET /api/templates/{id}
func (c *TemplateController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetTemplate: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "GetTemplate", http.MethodGet) {
		return
	}

	parts := pathParts(r.URL.Path, "/api/templates/")
	if len(parts) != 1 {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	tpl, err := c.catalog.Get(r.Context(), parts[0])
	if err != nil {
		writeError(w, "GetTemplate", "get template", err)
		return
	}
	writeJSON(w, "GetTemplate", http.StatusOK, tpl)
}

type validateFlagRequest struct {
	CountryCode string `json:"countryCode"`
}

type validateFlagResponse struct {
	Valid       bool   `json:"valid"`
	CountryCode string `json:"countryCode,omitempty"`
	FlagURL     string `json:"flagUrl,omitempty"`
}

// ValidateFlag handles POST /api/flags/validate
// Example request: {"countryCode": "FR"}
// Example response: {"valid": true, "countryCode": "fr", "flagUrl": "https://flagcdn.com/w320/fr.png"}
func (c *TemplateController) ValidateFlag(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ValidateFlag: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "ValidateFlag", http.MethodPost) {
		return
	}

	var req validateFlagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("❌ ValidateFlag: Failed to decode request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	code, ok := utils.ValidateCountryCode(req.CountryCode)
	if !ok {
		writeJSON(w, "ValidateFlag", http.StatusBadRequest, validateFlagResponse{Valid: false})
		return
	}
	writeJSON(w, "ValidateFlag", http.StatusOK, validateFlagResponse{
		Valid:       true,
		CountryCode: code,
		FlagURL:     utils.FlagURL(code),
	})
}
