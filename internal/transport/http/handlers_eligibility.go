package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studiogate/internal/eligibility"
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/httputil"
	"studiogate/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_eligibility.go -destination=mocks/eligibility-mocks.go -package=mocks EligibilityService

type EligibilityService interface {
	Evaluate(ctx context.Context, subjectID domain.SubjectID, packageID domain.PackageID, target *domain.Date) (eligibility.Decision, error)
}

// EligibilityHandler wires eligibility endpoints to the eligibility service.
type EligibilityHandler struct {
	service EligibilityService
	logger  *slog.Logger
}

func NewEligibilityHandler(service EligibilityService, logger *slog.Logger) *EligibilityHandler {
	return &EligibilityHandler{service: service, logger: logger}
}

// Register mounts eligibility endpoints on the router.
func (h *EligibilityHandler) Register(r chi.Router) {
	r.Post("/eligibility/evaluate", h.HandleEvaluate)
}

type evaluateRequest struct {
	SubjectID string `json:"subject_id"`
	PackageID string `json:"package_id"`
	// Date is the optional class date in YYYY-MM-DD form; empty means
	// evaluate as of today.
	Date string `json:"date,omitempty"`
}

// HandleEvaluate handles POST /eligibility/evaluate requests.
func (h *EligibilityHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[evaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	subjectID, err := domain.ParseSubjectID(req.SubjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	packageID, err := domain.ParsePackageID(req.PackageID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var target *domain.Date
	if req.Date != "" {
		parsed, err := domain.ParseDate(req.Date)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		target = &parsed
	}

	decision, err := h.service.Evaluate(ctx, subjectID, packageID, target)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "eligibility evaluation failed",
				"request_id", requestID,
				"subject_id", req.SubjectID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "eligibility evaluated",
		"request_id", requestID,
		"subject_id", req.SubjectID,
		"reason", decision.Reason,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, decision)
}
