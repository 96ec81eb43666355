// Package server exposes the persisted dashboard layout and the UI agent
// command interpreter over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"inphormed/internal/agent"
	"inphormed/internal/client"
	"inphormed/internal/jsonutil"
	"inphormed/internal/layout"
	"inphormed/internal/store"
	"inphormed/internal/trace"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8000"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithTracer sets the tracing provider.
func WithTracer(p *trace.Provider) Option {
	return func(s *Server) { s.tracer = p.Tracer() }
}

// WithInterpreter replaces the command interpreter.
func WithInterpreter(in *agent.Interpreter) Option {
	return func(s *Server) { s.agent = in }
}

// Server serves the layout API.
type Server struct {
	repo   store.Repository
	agent  *agent.Interpreter
	log    *zap.Logger
	tracer oteltrace.Tracer
	server *http.Server
	mux    *http.ServeMux
}

// New creates a server reading and writing the layout through repo.
func New(addr string, repo store.Repository, opts ...Option) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		repo:   repo,
		agent:  agent.New(),
		log:    zap.NewNop(),
		tracer: trace.Noop().Tracer(),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("GET "+client.LayoutPath, s.instrument("get layout", s.handleGetLayout))
	s.mux.HandleFunc("POST "+client.LayoutPath, s.instrument("save layout", s.handleSaveLayout))
	s.mux.HandleFunc("POST "+client.CommandPath, s.instrument("ui agent command", s.handleCommand))
	s.mux.HandleFunc("GET "+client.HealthPath, s.handleHealth)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Serve accepts connections on l until Stop is called. It returns nil after a
// graceful shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info("layout api listening", zap.String("addr", l.Addr().String()))
	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address and serves until Stop.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, span oteltrace.Span) error

// instrument runs h inside a server span tagged with the caller's request id
// (or a fresh one) and logs the outcome.
func (s *Server) instrument(op string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(client.RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(client.RequestIDHeader, requestID)

		ctx, span := s.tracer.Start(r.Context(), op, oteltrace.WithSpanKind(oteltrace.SpanKindServer))
		defer span.End()
		span.SetAttributes(trace.AttrRequestID.String(requestID))

		start := time.Now()
		err := h(w, r.WithContext(ctx), span)
		fields := []zap.Field{
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.Warn("request failed", append(fields, zap.Error(err))...)
			return
		}
		s.log.Debug("request served", fields...)
	}
}

// current returns the persisted layout, or the default when nothing usable
// is stored.
func (s *Server) current(ctx context.Context) layout.Layout {
	l, err := s.repo.Read(ctx)
	if err != nil {
		if !errors.Is(err, layout.ErrNotFound) {
			s.log.Warn("persisted layout unreadable, serving default", zap.Error(err))
		}
		return layout.Default()
	}
	return l
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request, span oteltrace.Span) error {
	l := s.current(r.Context())
	span.SetAttributes(trace.AttrWidgets.Int(len(l.Widgets)))
	return jsonutil.WriteJSON(w, http.StatusOK, l)
}

type saveRequest struct {
	Layout *layout.Layout `json:"layout"`
}

func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request, span oteltrace.Span) error {
	var req saveRequest
	if err := jsonutil.DecodeBody(r.Body, &req, "save layout"); err != nil {
		_ = jsonutil.WriteError(w, http.StatusBadRequest, err.Error())
		return err
	}
	if req.Layout == nil {
		err := errors.New("save layout: missing layout")
		_ = jsonutil.WriteError(w, http.StatusBadRequest, err.Error())
		return err
	}
	if err := req.Layout.Validate(); err != nil {
		_ = jsonutil.WriteError(w, http.StatusBadRequest, err.Error())
		return err
	}
	span.SetAttributes(trace.AttrWidgets.Int(len(req.Layout.Widgets)))
	if err := s.repo.Write(r.Context(), *req.Layout); err != nil {
		_ = jsonutil.WriteError(w, http.StatusInternalServerError, "could not persist layout")
		return err
	}
	return jsonutil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type commandRequest struct {
	Command string         `json:"command"`
	Layout  *layout.Layout `json:"layout,omitempty"`
}

type commandResponse struct {
	Layout layout.Layout `json:"layout"`
	Notes  []string      `json:"notes"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request, span oteltrace.Span) error {
	var req commandRequest
	if err := jsonutil.DecodeBody(r.Body, &req, "ui agent command"); err != nil {
		_ = jsonutil.WriteError(w, http.StatusBadRequest, err.Error())
		return err
	}
	span.SetAttributes(trace.AttrCommand.String(req.Command))

	var base layout.Layout
	if req.Layout != nil && req.Layout.Validate() == nil {
		base = *req.Layout
	} else {
		base = s.current(r.Context())
	}

	next, notes := s.agent.Apply(base, req.Command)
	if notes == nil {
		notes = []string{}
	}
	if err := s.repo.Write(r.Context(), next); err != nil {
		s.log.Warn("could not persist agent layout", zap.Error(err))
	}
	span.SetAttributes(trace.AttrWidgets.Int(len(next.Widgets)))
	return jsonutil.WriteJSON(w, http.StatusOK, commandResponse{Layout: next, Notes: notes})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = jsonutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
