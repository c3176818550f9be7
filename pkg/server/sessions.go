package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/pkg/session"
)

type entry struct {
	ctrl     *session.Controller
	lastSeen time.Time

	// submit serialises the replace-then-submit sequence of one visitor.
	submit sync.Mutex
}

func (s *Server) controllerFor(w http.ResponseWriter, r *http.Request) *session.Controller {
	return s.sessionFor(w, r).ctrl
}

// sessionFor returns the visitor's session, creating one (and setting the
// cookie) when the cookie is missing, unknown or expired.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *entry {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)

	if cookie, err := r.Cookie(s.cookieName); err == nil {
		if e, ok := s.sessions[cookie.Value]; ok {
			e.lastSeen = now
			return e
		}
	}

	id := uuid.NewString()
	e := &entry{ctrl: s.newController(), lastSeen: now}
	s.sessions[id] = e
	s.logger.Debug("session created", zap.String("session", id))

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl / time.Second),
	})
	return e
}

// sweepLocked closes sessions idle for longer than the TTL. Callers hold s.mu.
func (s *Server) sweepLocked(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) <= s.ttl {
			continue
		}
		_ = e.ctrl.Close()
		delete(s.sessions, id)
		s.logger.Debug("session expired", zap.String("session", id))
	}
}

// Sessions reports the number of live sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
