// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services and never embed business logic.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studiogate/internal/session"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/httputil"
	"studiogate/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_session.go -destination=mocks/session-mocks.go -package=mocks SessionSource

// SessionSource is the reconciler surface the transport consumes.
type SessionSource interface {
	Current() *session.Session
	State() session.State
	SignOut(ctx context.Context) error
}

// SessionHandler serves the reconciled session of record.
type SessionHandler struct {
	sessions SessionSource
	logger   *slog.Logger
}

func NewSessionHandler(sessions SessionSource, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// Register mounts session endpoints on the router.
func (h *SessionHandler) Register(r chi.Router) {
	r.Get("/session", h.HandleGetSession)
	r.Post("/session/signout", h.HandleSignOut)
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	State         string `json:"state"`
	SubjectID     string `json:"subject_id,omitempty"`
	Role          string `json:"role,omitempty"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Device        string `json:"device,omitempty"`
	EstablishedAt string `json:"established_at,omitempty"`
}

// HandleGetSession handles GET /session requests.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	current := h.sessions.Current()
	resp := sessionResponse{State: string(h.sessions.State())}
	if current != nil {
		resp.Authenticated = true
		resp.SubjectID = current.SubjectID().String()
		resp.Role = string(current.Role())
		resp.Name = current.Profile.Name
		resp.Email = current.Profile.Email
		resp.Device = current.Device
		resp.EstablishedAt = current.EstablishedAt.UTC().Format(time.RFC3339)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSignOut handles POST /session/signout requests.
func (h *SessionHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.sessions.Current() == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no active session"))
		return
	}

	if err := h.sessions.SignOut(ctx); err != nil {
		h.logger.ErrorContext(ctx, "sign-out failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "sign-out failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
