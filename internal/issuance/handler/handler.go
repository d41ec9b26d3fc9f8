package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"soulmint/internal/issuance/models"
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
	"soulmint/pkg/platform/httputil"
	"soulmint/pkg/requestcontext"
)

// Service issues certificates.
type Service interface {
	Issue(ctx context.Context, cmd models.IssueCommand) (*models.Receipt, error)
}

// Handler serves the issuance endpoint.
type Handler struct {
	service     Service
	logger      *slog.Logger
	requireAuth func(http.Handler) http.Handler
}

// New creates an issuance Handler. Every route requires an authenticated requester.
func New(service Service, logger *slog.Logger, requireAuth func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, logger: logger, requireAuth: requireAuth}
}

// Register mounts the issuance routes.
func (h *Handler) Register(r chi.Router) {
	r.With(h.requireAuth).Post("/batches/{batchID}/certificates", h.handleIssue)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	requester := requestcontext.Account(ctx)
	if requester.IsNil() {
		h.logger.ErrorContext(ctx, "account missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	batchID, err := id.ParseBatchID(chi.URLParam(r, "batchID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req models.IssueRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid issue request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	cmd, err := req.ToCommand(batchID, requester)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// The service logs its own outcomes; only the response is written here.
	receipt, err := h.service.Issue(ctx, cmd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, receipt)
}
