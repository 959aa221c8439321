package controller

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"fightcards/models"
	"fightcards/service"
)

// PreviewRenderer builds the live preview document
type PreviewRenderer interface {
	Render(ctx context.Context, tpl *models.Template, cust models.Customization) (string, error)
}

// Snapshotter rasterizes a preview document
type Snapshotter interface {
	Snapshot(ctx context.Context, html string) ([]byte, error)
}

// SessionController handles HTTP requests for editing sessions
type SessionController struct {
	sessions service.SessionServiceInterface
	exports  service.ExportServiceInterface
	catalog  TemplateCatalog
	preview  PreviewRenderer
	snapshot Snapshotter
}

// NewSessionController creates a new SessionController. snapshot may be nil.
func NewSessionController(
	sessions service.SessionServiceInterface,
	exports service.ExportServiceInterface,
	catalog TemplateCatalog,
	preview PreviewRenderer,
	snapshot Snapshotter,
) *SessionController {
	return &SessionController{
		sessions: sessions,
		exports:  exports,
		catalog:  catalog,
		preview:  preview,
		snapshot: snapshot,
	}
}

// sessionID extracts {id} from /api/sessions/{id}[/action]
func sessionID(r *http.Request) string {
	parts := pathParts(r.URL.Path, "/api/sessions/")
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// CreateSession handles POST /api/sessions
// Example request: {"templateId": "ufc"}
// Example response: {"id": "6f1c...", "customization": {"templateId": "ufc", "name": "FIGHTER", ...}, ...}
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateSession: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "CreateSession", http.MethodPost) {
		return
	}

	var req models.CreateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("❌ CreateSession: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.TemplateID == "" {
		http.Error(w, "templateId is required", http.StatusBadRequest)
		return
	}

	session, err := c.sessions.Create(r.Context(), req.TemplateID)
	if err != nil {
		writeError(w, "CreateSession", "create session", err)
		return
	}

	log.Printf("✅ CreateSession: Created session %s", session.ID)
	writeJSON(w, "CreateSession", http.StatusCreated, session)
}

// GetSession handles GET /api/sessions/{id}
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetSession: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "GetSession", http.MethodGet) {
		return
	}

	session, err := c.sessions.Get(sessionID(r))
	if err != nil {
		writeError(w, "GetSession", "get session", err)
		return
	}
	writeJSON(w, "GetSession", http.StatusOK, session)
}

// UpdateSession handles PATCH /api/sessions/{id}
// Example request: {"name": "Jon Jones", "rating": 97, "countryCode": "us", "stats": {"force": 95}}
func (c *SessionController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateSession: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "UpdateSession", http.MethodPatch) {
		return
	}

	var patch models.CustomizationInput
	if err := decodeJSON(w, r, &patch); err != nil {
		log.Printf("❌ UpdateSession: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	session, err := c.sessions.Update(r.Context(), sessionID(r), patch)
	if err != nil {
		writeError(w, "UpdateSession", "update session", err)
		return
	}
	writeJSON(w, "UpdateSession", http.StatusOK, session)
}

// UploadPhoto handles POST /api/sessions/{id}/photo
// Example request: {"photo": "data:image/jpeg;base64,/9j/4AAQ..."}
func (c *SessionController) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UploadPhoto: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "UploadPhoto", http.MethodPost) {
		return
	}

	var req models.UploadPhotoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("❌ UploadPhoto: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	session, err := c.sessions.SetPhoto(sessionID(r), req.Photo)
	if err != nil {
		writeError(w, "UploadPhoto", "upload photo", err)
		return
	}
	writeJSON(w, "UploadPhoto", http.StatusOK, session)
}

// RemoveBackground handles POST /api/sessions/{id}/remove-background
// Example request: {"final": false}
func (c *SessionController) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 RemoveBackground: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "RemoveBackground", http.MethodPost) {
		return
	}

	var req models.RemoveBackgroundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("❌ RemoveBackground: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	session, err := c.sessions.RemoveBackground(r.Context(), sessionID(r), req.Final)
	if err != nil {
		writeError(w, "RemoveBackground", "remove background", err)
		return
	}
	writeJSON(w, "RemoveBackground", http.StatusOK, session)
}

// renderPreview resolves the session and its template and builds the preview document
func (c *SessionController) renderPreview(r *http.Request) (string, error) {
	session, err := c.sessions.Get(sessionID(r))
	if err != nil {
		return "", err
	}
	tpl, err := c.catalog.Get(r.Context(), session.Customization.TemplateID)
	if err != nil {
		return "", err
	}
	return c.preview.Render(r.Context(), tpl, session.Customization)
}

// Preview handles GET /api/sessions/{id}/preview
func (c *SessionController) Preview(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Preview: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "Preview", http.MethodGet) {
		return
	}

	html, err := c.renderPreview(r)
	if err != nil {
		writeError(w, "Preview", "render preview", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// PreviewPNG handles GET /api/sessions/{id}/preview.png
func (c *SessionController) PreviewPNG(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 PreviewPNG: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "PreviewPNG", http.MethodGet) {
		return
	}
	if c.snapshot == nil {
		http.Error(w, "Preview snapshots are not available", http.StatusNotImplemented)
		return
	}

	html, err := c.renderPreview(r)
	if err != nil {
		writeError(w, "PreviewPNG", "render preview", err)
		return
	}
	png, err := c.snapshot.Snapshot(r.Context(), html)
	if err != nil {
		writeError(w, "PreviewPNG", "capture preview", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Export handles POST /api/sessions/{id}/export
// Example request: {"orderId": "0b7e..."}
// Example response: {"finalImageUrl": "https://.../images/fight-card-....png", "customization": {...}}
func (c *SessionController) Export(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Export: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "Export", http.MethodPost) {
		return
	}

	var req models.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("❌ Export: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := c.exports.ExportSession(r.Context(), sessionID(r), req.OrderID)
	if err != nil {
		writeError(w, "Export", "export card", err)
		return
	}

	log.Printf("✅ Export: %s", result.FinalImageURL)
	writeJSON(w, "Export", http.StatusOK, result)
}
