package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studiogate/internal/provisioning"
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/httputil"
	"studiogate/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_admin.go -destination=mocks/admin-mocks.go -package=mocks ProvisioningService

type ProvisioningService interface {
	ProvisionMember(ctx context.Context, req provisioning.ProvisionRequest) (*provisioning.ProvisionResult, error)
	RedeemInvite(ctx context.Context, subjectID domain.SubjectID, code string) error
}

// AdminHandler serves admin-only provisioning endpoints. Authorization is the
// reconciled session of record: only an authenticated admin may provision.
type AdminHandler struct {
	service  ProvisioningService
	sessions SessionSource
	logger   *slog.Logger
}

func NewAdminHandler(service ProvisioningService, sessions SessionSource, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: service, sessions: sessions, logger: logger}
}

// Register mounts admin endpoints on the router.
func (h *AdminHandler) Register(r chi.Router) {
	r.Post("/admin/members", h.HandleProvisionMember)
	r.Post("/invites/redeem", h.HandleRedeemInvite)
}

type provisionMemberRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	PackageID    string `json:"package_id"`
	PackageStart string `json:"package_start"`
}

type provisionMemberResponse struct {
	SubjectID       string `json:"subject_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PackageID       string `json:"package_id"`
	PackageStart    string `json:"package_start"`
	InviteCode      string `json:"invite_code"`
	InviteExpiresAt string `json:"invite_expires_at"`
}

// HandleProvisionMember handles POST /admin/members requests.
func (h *AdminHandler) HandleProvisionMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor := h.sessions.Current()
	if actor == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	if !actor.IsAdmin() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[provisionMemberRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	packageID, err := domain.ParsePackageID(req.PackageID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	start, err := domain.ParseDate(req.PackageStart)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.ProvisionMember(ctx, provisioning.ProvisionRequest{
		Email:          req.Email,
		Name:           req.Name,
		PackageID:      packageID,
		PackageStart:   start,
		ActorSubjectID: actor.SubjectID(),
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "member provisioning failed",
				"request_id", requestID,
				"actor_id", actor.SubjectID(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, provisionMemberResponse{
		SubjectID:       result.Profile.SubjectID.String(),
		Name:            result.Profile.Name,
		Email:           result.Profile.Email,
		PackageID:       result.Profile.CurrentPackageID.String(),
		PackageStart:    result.Profile.PackageStart.String(),
		InviteCode:      result.InviteCode,
		InviteExpiresAt: result.InviteExpiresAt.UTC().Format(time.RFC3339),
	})
}

type redeemInviteRequest struct {
	SubjectID string `json:"subject_id"`
	Code      string `json:"code"`
}

// HandleRedeemInvite handles POST /invites/redeem requests.
func (h *AdminHandler) HandleRedeemInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[redeemInviteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	subjectID, err := domain.ParseSubjectID(req.SubjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.RedeemInvite(ctx, subjectID, req.Code); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "redeemed"})
}
