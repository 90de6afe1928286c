package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ticketdesk/internal/logger"
	"ticketdesk/internal/metrics"
	"ticketdesk/internal/models"
	"ticketdesk/internal/snapshot"
	"ticketdesk/internal/wizard"
)

// SessionService holds one wizard controller per registration session
type SessionService struct {
	platform  Platform
	store     snapshot.Store
	publisher wizard.Publisher
	links     wizard.Links
	ttl       time.Duration

	mu       sync.RWMutex
	sessions map[string]*wizard.Controller
}

func NewSessionService(platform Platform, store snapshot.Store, publisher wizard.Publisher, links wizard.Links, ttl time.Duration) *SessionService {
	return &SessionService{
		platform:  platform,
		store:     store,
		publisher: publisher,
		links:     links,
		ttl:       ttl,
		sessions:  make(map[string]*wizard.Controller),
	}
}

// Create starts a registration session for an event that accepts registrations
func (s *SessionService) Create(ctx context.Context, eventID string) (*wizard.Controller, error) {
	event, err := s.platform.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.Status != models.EventStatusOpen && event.Status != models.EventStatusPreRegistration {
		return nil, fmt.Errorf("%w: status is %q", ErrEventNotOpen, event.Status)
	}

	controller := wizard.NewController(wizard.Options{
		SessionID: uuid.New().String(),
		Event:     *event,
		API:       s.platform,
		Store:     s.store,
		Publisher: s.publisher,
		Links:     s.links,
	})

	s.mu.Lock()
	s.sessions[controller.SessionID()] = controller
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	logger.WithSessionID(controller.SessionID()).Info("Registration session started", "event_id", eventID)
	return controller, nil
}

func (s *SessionService) Get(sessionID string) (*wizard.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	controller, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return controller, nil
}

// Delete ends a session and discards its snapshot
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		logger.WithSessionID(sessionID).Warn("Failed to delete form snapshot", "error", err)
	}
	return nil
}

// ExpireIdle drops sessions idle for longer than the session TTL. Their
// snapshots are kept so the registrant can restore them later. A session
// with a submission in flight is never dropped.
func (s *SessionService) ExpireIdle(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, controller := range s.sessions {
		if controller.LastActivity().Before(cutoff) && !controller.State().IsSubmitting {
			delete(s.sessions, id)
			expired++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))

	return expired
}

func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
