package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"jasper-launcher/internal/application/command/docker_command"
	"jasper-launcher/internal/application/command/patch_settings"
	"jasper-launcher/internal/application/command/save_settings"
	"jasper-launcher/internal/application/notify"
	"jasper-launcher/internal/application/query/fetch_settings"
	"jasper-launcher/internal/application/query/get_history"
	"jasper-launcher/internal/application/query/get_image_tags"
	"jasper-launcher/internal/application/query/get_stack_status"
	"jasper-launcher/internal/domain/model"
	"jasper-launcher/pkg/cqrs"
	"jasper-launcher/pkg/log"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	maxBodyBytes      = 1 << 20
)

// Options carries the optional parts of the control API.
type Options struct {
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// OnSubscribers is called with the number of event subscribers whenever
	// a websocket client connects or leaves.
	OnSubscribers func(n int)
}

// Server exposes the settings and orchestration operations over HTTP and
// streams launcher events over a websocket.
type Server struct {
	commands cqrs.CommandBus
	queries  cqrs.QueryBus
	hub      *notify.Hub
	opts     Options
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// NewServer builds the control API on top of the command and query buses.
func NewServer(commands cqrs.CommandBus, queries cqrs.QueryBus, hub *notify.Hub, opts Options) *Server {
	s := &Server{
		commands: commands,
		queries:  queries,
		hub:      hub,
		opts:     opts,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkLocalOrigin,
		},
	}

	s.mux.HandleFunc("GET /api/settings", s.handleFetchSettings)
	s.mux.HandleFunc("PUT /api/settings", localOnly(s.handleSaveSettings))
	s.mux.HandleFunc("PATCH /api/settings", localOnly(s.handlePatchSettings))
	s.mux.HandleFunc("POST /api/docker/{command}", localOnly(s.handleDockerCommand))
	s.mux.HandleFunc("GET /api/image-tags", s.handleImageTags)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("GET /ws", s.handleEvents)
	if opts.Metrics != nil {
		s.mux.Handle("GET /metrics", opts.Metrics)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Control API shutdown", "error", err)
		}
	}()

	log.Info("Control API listening", "address", listener.Addr().String())
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("control api: %w", err)
	}
	return nil
}

func (s *Server) handleFetchSettings(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, fetch_settings.FetchSettingsQuery{})
}

// localOnly rejects requests sent by pages served from another origin.
func localOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !checkLocalOrigin(r) {
			writeError(w, http.StatusForbidden, fmt.Errorf("origin %q not allowed", r.Header.Get("Origin")))
			return
		}
		next(w, r)
	}
}

// handleSaveSettings replaces the record. Fields missing from the body keep
// their current value.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.queries.Dispatch(r.Context(), fetch_settings.FetchSettingsQuery{})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	settings, ok := current.(model.Settings)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("unexpected settings result %T", current))
		return
	}
	if !decodeBody(w, r, &settings) {
		return
	}
	// The restart outlives a client that hangs up.
	s.command(context.WithoutCancel(r.Context()), w, save_settings.SaveSettingsCommand{Settings: settings})
}

type patchRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.command(r.Context(), w, patch_settings.PatchSettingsCommand{Field: req.Name, Value: req.Value})
}

func (s *Server) handleDockerCommand(w http.ResponseWriter, r *http.Request) {
	s.command(context.WithoutCancel(r.Context()), w, docker_command.DockerCommand{Command: r.PathValue("command")})
}

func (s *Server) handleImageTags(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, get_image_tags.GetImageTagsQuery{})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, get_stack_status.GetStackStatusQuery{})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := get_history.GetHistoryQuery{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		q.Limit = limit
	}
	s.query(w, r, q)
}

func (s *Server) command(ctx context.Context, w http.ResponseWriter, cmd cqrs.Command) {
	if err := s.commands.Dispatch(ctx, cmd); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) query(w http.ResponseWriter, r *http.Request, q cqrs.Query) {
	result, err := s.queries.Dispatch(r.Context(), q)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownCommand),
		errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrPatchType):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrProcessInvocation):
		return http.StatusBadGateway
	case errors.Is(err, cqrs.ErrCommandBusShuttingDown), errors.Is(err, cqrs.ErrQueryBusShuttingDown):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error("Control API request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("Failed to write response", "error", err)
	}
}
