// Package api exposes the orchestrators over HTTP. Request bodies are
// JSON mirrors of the orchestrator inputs; the entity id comes from the
// URL and the writing client identifies itself with the X-Client-ID
// header so its own change events are suppressed on the way back.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/driftcrew/wildsea-api/internal/errors"
	charorch "github.com/driftcrew/wildsea-api/internal/orchestrators/character"
	sessorch "github.com/driftcrew/wildsea-api/internal/orchestrators/session"
	shiporch "github.com/driftcrew/wildsea-api/internal/orchestrators/ship"
	redisclient "github.com/driftcrew/wildsea-api/internal/redis"
	"github.com/driftcrew/wildsea-api/internal/repositories/presence"
)

// ClientIDHeader carries the caller's sync identity on mutating requests.
const ClientIDHeader = "X-Client-ID"

// Handler routes HTTP traffic to the orchestrators.
type Handler struct {
	characters charorch.Service
	ships      shiporch.Service
	sessions   sessorch.Service

	client       redisclient.Client
	presenceRepo presence.Repository
}

// Config contains configuration for the Handler.
type Config struct {
	CharacterService charorch.Service
	ShipService      shiporch.Service
	SessionService   sessorch.Service

	// Client and PresenceRepo back the per-connection sync engines the
	// stream endpoint spins up.
	Client       redisclient.Client
	PresenceRepo presence.Repository
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if cfg.ShipService == nil {
		vb.RequiredField("ShipService")
	}
	if cfg.SessionService == nil {
		vb.RequiredField("SessionService")
	}
	if cfg.Client == nil {
		vb.RequiredField("Client")
	}
	if cfg.PresenceRepo == nil {
		vb.RequiredField("PresenceRepo")
	}
	return vb.Build()
}

// New creates a new Handler.
func New(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Handler{
		characters:   cfg.CharacterService,
		ships:        cfg.ShipService,
		sessions:     cfg.SessionService,
		client:       cfg.Client,
		presenceRepo: cfg.PresenceRepo,
	}, nil
}

// Routes builds the router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/characters", h.characterRoutes)
		r.Route("/ships", h.shipRoutes)
		r.Route("/sessions", h.sessionRoutes)
	})
	return r
}

// clientID reads the caller's sync identity off the request.
func clientID(r *http.Request) string {
	return r.Header.Get(ClientIDHeader)
}

// decode parses the JSON request body into v. An empty body is allowed
// so endpoints whose input is fully determined by the URL need no body.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.InvalidArgument("malformed request body").WithMeta("cause", err.Error())
	}
	return nil
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response", "error", err.Error())
		}
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"error", err.Error())
	}
	body := map[string]any{
		"code":    code.String(),
		"message": errors.GetMessage(err),
	}
	var coded *errors.Error
	if errors.As(err, &coded) && len(coded.Meta) > 0 {
		body["meta"] = coded.Meta
	}
	respond(w, status, body)
}
