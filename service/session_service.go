package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"fightcards/models"
	"fightcards/utils"
)

// SessionIdleTimeout is how long an untouched session survives
const SessionIdleTimeout = 2 * time.Hour

// TemplateLookup resolves template ids
type TemplateLookup interface {
	Get(ctx context.Context, id string) (*models.Template, error)
}

// SessionServiceInterface defines the contract for editing sessions
type SessionServiceInterface interface {
	Create(ctx context.Context, templateID string) (models.EditSession, error)
	Get(id string) (models.EditSession, error)
	Update(ctx context.Context, id string, patch models.CustomizationInput) (models.EditSession, error)
	SetPhoto(id string, photo string) (models.EditSession, error)
	RemoveBackground(ctx context.Context, id string, final bool) (models.EditSession, error)
	BeginExport(id string) (models.EditSession, error)
	EndExport(id string, result *models.ExportResult)
}

// SessionService owns the editing state of every open tab
type SessionService struct {
	templates TemplateLookup
	remover   BackgroundRemover
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*models.EditSession
}

// Ensure SessionService implements SessionServiceInterface
var _ SessionServiceInterface = (*SessionService)(nil)

// NewSessionService creates a SessionService. remover may be nil when background removal is not configured.
func NewSessionService(templates TemplateLookup, remover BackgroundRemover) *SessionService {
	return &SessionService{
		templates: templates,
		remover:   remover,
		now:       time.Now,
		sessions:  make(map[string]*models.EditSession),
	}
}

// Create opens a session on a template with the placeholder card
func (s *SessionService) Create(ctx context.Context, templateID string) (models.EditSession, error) {
	if _, err := s.templates.Get(ctx, templateID); err != nil {
		return models.EditSession{}, err
	}

	now := s.now()
	session := &models.EditSession{
		ID:            uuid.NewString(),
		Customization: models.DefaultCustomization(templateID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mu.Lock()
	swept := s.sweepLocked(now)
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mu.Unlock()

	if swept > 0 {
		log.Printf("🔄 SessionService: swept %d idle sessions", swept)
	}
	log.Printf("✓ Session created: id=%s template=%s (open=%d)", session.ID, templateID, count)
	return *session, nil
}

// Get returns a copy of a session
func (s *SessionService) Get(id string) (models.EditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return models.EditSession{}, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	return *session, nil
}

// Update merges a partial customization into the session
func (s *SessionService) Update(ctx context.Context, id string, patch models.CustomizationInput) (models.EditSession, error) {
	if patch.TemplateID != nil {
		if _, err := s.templates.Get(ctx, *patch.TemplateID); err != nil {
			return models.EditSession{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.editableLocked(id)
	if err != nil {
		return models.EditSession{}, err
	}

	merged, err := models.MergeCustomization(session.Customization, patch)
	if err != nil {
		return models.EditSession{}, err
	}
	if patch.Photo != nil {
		session.OriginalPhoto = merged.Photo
	}
	session.Customization = merged
	session.UpdatedAt = s.now()
	return *session, nil
}

// SetPhoto validates an uploaded photo data URL and stores it on the session
func (s *SessionService) SetPhoto(id string, photo string) (models.EditSession, error) {
	data, mime, err := utils.ParseImageDataURL(photo)
	if err != nil {
		return models.EditSession{}, fmt.Errorf("%w: %v", models.ErrInvalidImage, err)
	}
	normalized := utils.EncodeDataURL(mime, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.editableLocked(id)
	if err != nil {
		return models.EditSession{}, err
	}
	session.Customization.Photo = normalized
	session.Customization.RemoveBackground = false
	session.OriginalPhoto = normalized
	session.UpdatedAt = s.now()

	log.Printf("📸 Session %s: photo set (%s, %d bytes)", id, mime, len(data))
	return *session, nil
}

// RemoveBackground replaces the session photo with its background-stripped version.
// The remote call runs without holding the session lock.
func (s *SessionService) RemoveBackground(ctx context.Context, id string, final bool) (models.EditSession, error) {
	if s.remover == nil {
		return models.EditSession{}, fmt.Errorf("%w: background removal is not configured", models.ErrBackgroundRemoval)
	}

	current, err := s.Get(id)
	if err != nil {
		return models.EditSession{}, err
	}
	if current.Exporting {
		return models.EditSession{}, models.ErrExportInProgress
	}
	source := current.OriginalPhoto
	if source == "" {
		source = current.Customization.Photo
	}
	if source == "" {
		return models.EditSession{}, fmt.Errorf("%w: no photo on session", models.ErrInvalidImage)
	}

	cutout, err := s.remover.RemoveBackground(ctx, source, final)
	if err != nil {
		return models.EditSession{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.editableLocked(id)
	if err != nil {
		return models.EditSession{}, err
	}
	session.Customization.Photo = cutout
	session.Customization.RemoveBackground = true
	session.UpdatedAt = s.now()
	return *session, nil
}

// BeginExport marks the session as exporting and returns the state to export.
// A session already exporting yields ErrExportInProgress.
func (s *SessionService) BeginExport(id string) (models.EditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return models.EditSession{}, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	if session.Exporting {
		return models.EditSession{}, models.ErrExportInProgress
	}
	session.Exporting = true
	return *session, nil
}

// EndExport clears the exporting flag and records a successful result
func (s *SessionService) EndExport(id string, result *models.ExportResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return
	}
	session.Exporting = false
	// Edits are refused while exporting; only the hosted photo comes back
	if result != nil {
		session.Customization.Photo = result.Customization.Photo
		session.FinalImageURL = result.FinalImageURL
		session.UpdatedAt = s.now()
	}
}

// editableLocked returns a session that accepts edits. The caller holds s.mu.
func (s *SessionService) editableLocked(id string) (*models.EditSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	if session.Exporting {
		return nil, models.ErrExportInProgress
	}
	return session, nil
}

// Sweep drops sessions idle for longer than SessionIdleTimeout
func (s *SessionService) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *SessionService) sweepLocked(now time.Time) int {
	swept := 0
	for id, session := range s.sessions {
		if session.Exporting {
			continue
		}
		if now.Sub(session.UpdatedAt) > SessionIdleTimeout {
			delete(s.sessions, id)
			swept++
		}
	}
	return swept
}
