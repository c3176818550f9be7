// Package server exposes the feedback form over HTTP. Each visitor gets its
// own session.Controller keyed by a cookie; the page is rendered by the
// vanilla renderer and the submit endpoint is described by an OpenAPI
// document served alongside it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/openapi"
	"github.com/goliatone/go-feedbackform/pkg/renderers/vanilla"
	"github.com/goliatone/go-feedbackform/pkg/session"
)

const (
	// DefaultSessionTTL is how long an idle session survives.
	DefaultSessionTTL = 30 * time.Minute
	// DefaultCookieName names the session cookie.
	DefaultCookieName = "feedback_session"

	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
	maxBodyBytes    = 64 << 10
)

// Server routes form traffic to per-visitor controllers.
type Server struct {
	mu       sync.Mutex
	sessions map[string]*entry

	newController func() *session.Controller
	renderer      *vanilla.Renderer
	form          model.Form
	logger        *zap.Logger
	ttl           time.Duration
	refresh       int
	cookieName    string
	now           func() time.Time

	openapiJSON []byte
	openapiYAML []byte
	mux         *http.ServeMux
}

// New builds a server with its routes registered.
func New(options ...Option) (*Server, error) {
	s := &Server{
		sessions:   make(map[string]*entry),
		form:       model.FeedbackForm(),
		logger:     zap.NewNop(),
		ttl:        DefaultSessionTTL,
		refresh:    1,
		cookieName: DefaultCookieName,
		now:        time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.newController == nil {
		logger := s.logger
		s.newController = func() *session.Controller {
			return session.New(session.WithLogger(logger))
		}
	}
	if s.renderer == nil {
		r, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = r
	}

	doc := openapi.Document(openapi.Options{Title: s.form.Title})
	var err error
	if s.openapiJSON, err = openapi.MarshalJSON(doc); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if s.openapiYAML, err = openapi.MarshalYAML(doc); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /{$}", s.handleSubmit)
	mux.HandleFunc("POST /blur", s.handleBlur)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /openapi.json", s.serveBytes(contentTypeJSON, func() []byte { return s.openapiJSON }))
	mux.HandleFunc("GET /openapi.yaml", s.serveBytes(contentTypeYAML, func() []byte { return s.openapiYAML }))
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
	s.mux = mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Info("http request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
}

// Close discards every live session.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		_ = e.ctrl.Close()
		delete(s.sessions, id)
	}
	return nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		_ = s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	<-errCh
	_ = s.Close()
	if err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllerFor(w, r)
	s.renderState(w, r, ctrl.State(), http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	data, err := decodeSubmission(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	outcome, state, err := s.submit(r.Context(), sess, data)
	switch {
	case errors.Is(err, session.ErrSubmissionPending):
		s.respondPending(w, r, state)
		return
	case err != nil:
		s.fail(w, err)
		return
	}

	if outcome == session.OutcomeRejected {
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, state.Errors)
			return
		}
		s.renderState(w, r, state, http.StatusUnprocessableEntity)
		return
	}
	s.respondPending(w, r, state)
}

// submit stores data and submits it as one step per visitor, so two posts
// with the same cookie cannot interleave their fields.
func (s *Server) submit(ctx context.Context, sess *entry, data model.FormData) (session.Outcome, session.State, error) {
	sess.submit.Lock()
	defer sess.submit.Unlock()

	if err := sess.ctrl.Replace(data); err != nil {
		return session.OutcomeIgnored, sess.ctrl.State(), err
	}
	outcome, err := sess.ctrl.Submit(ctx)
	if err != nil {
		return outcome, session.State{}, err
	}
	return outcome, sess.ctrl.State(), nil
}

type blurRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type blurResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllerFor(w, r)

	var req blurRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid blur payload", http.StatusBadRequest)
		return
	}
	field, ok := model.ParseField(req.Field)
	if !ok {
		http.Error(w, session.ErrUnknownField.Error(), http.StatusBadRequest)
		return
	}

	msg, err := ctrl.Edit(field, req.Value)
	switch {
	case errors.Is(err, session.ErrSubmissionPending):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blurResponse{Field: string(field), Error: msg})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controllerFor(w, r)
	if err := ctrl.Reset(); err != nil {
		s.fail(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type phaseResponse struct {
	Phase session.Phase `json:"phase"`
}

// respondPending answers a submit that is now (or already was) in flight.
func (s *Server) respondPending(w http.ResponseWriter, r *http.Request, state session.State) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusAccepted, phaseResponse{Phase: state.Phase()})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderState(w http.ResponseWriter, r *http.Request, state session.State, status int) {
	out, err := s.renderer.Render(r.Context(), s.form, state, vanilla.RenderOptions{
		Action:         "/",
		ResetAction:    "/reset",
		Stylesheet:     "/assets/" + vanilla.StylesheetName,
		RefreshSeconds: s.refresh,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) serveBytes(contentType string, body func() []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body())
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func decodeSubmission(w http.ResponseWriter, r *http.Request) (model.FormData, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var data model.FormData
	if isJSON(r.Header.Get("Content-Type")) {
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			return model.FormData{}, fmt.Errorf("invalid json payload: %w", err)
		}
		return data, nil
	}

	if err := r.ParseForm(); err != nil {
		return model.FormData{}, fmt.Errorf("invalid form payload: %w", err)
	}
	for _, field := range model.Fields() {
		data, _ = data.With(field, r.PostForm.Get(string(field)))
	}
	return data, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == contentTypeJSON
}

func wantsJSON(r *http.Request) bool {
	return isJSON(r.Header.Get("Content-Type")) ||
		strings.Contains(r.Header.Get("Accept"), contentTypeJSON)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
