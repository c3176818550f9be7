package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/renderers/vanilla"
	"github.com/goliatone/go-feedbackform/pkg/session"
)

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithControllerFactory controls how per-visitor sessions are created. The
// factory is called once per new cookie.
func WithControllerFactory(fn func() *session.Controller) Option {
	return func(s *Server) {
		if fn != nil {
			s.newController = fn
		}
	}
}

// WithRenderer replaces the embedded HTML renderer.
func WithRenderer(r *vanilla.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithForm replaces the form descriptor used for rendering.
func WithForm(form model.Form) Option {
	return func(s *Server) {
		if len(form.Fields) > 0 {
			s.form = form
		}
	}
}

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithRefreshSeconds sets the auto-refresh interval of the page shown while
// a submission is in flight. Zero disables the refresh.
func WithRefreshSeconds(seconds int) Option {
	return func(s *Server) {
		if seconds >= 0 {
			s.refresh = seconds
		}
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// WithClock overrides time.Now for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}
