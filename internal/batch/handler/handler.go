package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"soulmint/internal/batch/models"
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
	"soulmint/pkg/platform/httputil"
	"soulmint/pkg/requestcontext"
)

// Service defines the batch operations the handler needs.
type Service interface {
	CreateBatch(ctx context.Context, cmd models.CreateBatchCommand) (*models.Batch, error)
	GetBatch(ctx context.Context, batchID id.BatchID) (*models.Batch, error)
}

// Handler serves batch registry endpoints.
type Handler struct {
	service     Service
	logger      *slog.Logger
	requireAuth func(http.Handler) http.Handler
}

// New creates a batch Handler. requireAuth guards creation.
func New(service Service, logger *slog.Logger, requireAuth func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, logger: logger, requireAuth: requireAuth}
}

// Register mounts the batch routes.
func (h *Handler) Register(r chi.Router) {
	r.With(h.requireAuth).Post("/batches", h.handleCreateBatch)
	r.Get("/batches/{batchID}", h.handleGetBatch)
}

type batchResponse struct {
	ID            id.BatchID    `json:"id"`
	Authority     id.AccountID  `json:"authority"`
	Treasury      id.AccountID  `json:"treasury"`
	FeeAmount     uint64        `json:"fee_amount"`
	Cap           int           `json:"cap"`
	IssuedCount   int           `json:"issued_count"`
	Remaining     int           `json:"remaining"`
	Completed     bool          `json:"completed"`
	Status        models.Status `json:"status"`
	VoucherSigner *id.AccountID `json:"voucher_signer,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

func toResponse(b *models.Batch) batchResponse {
	resp := batchResponse{
		ID:          b.ID,
		Authority:   b.Authority,
		Treasury:    b.Treasury,
		FeeAmount:   b.FeeAmount,
		Cap:         b.Cap,
		IssuedCount: b.IssuedCount,
		Remaining:   b.Remaining(),
		Completed:   b.Completed,
		Status:      b.Status(),
		CreatedAt:   b.CreatedAt,
		CompletedAt: b.CompletedAt,
	}
	if b.RequiresVoucher() {
		signer := b.VoucherSigner
		resp.VoucherSigner = &signer
	}
	return resp
}

func (h *Handler) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	authority := requestcontext.Account(ctx)
	if authority.IsNil() {
		h.logger.ErrorContext(ctx, "account missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req models.CreateBatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid create batch request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	cmd, err := req.ToCommand(authority)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	batch, err := h.service.CreateBatch(ctx, cmd)
	if err != nil {
		h.logError(ctx, "failed to create batch", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(batch))
}

func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID, err := id.ParseBatchID(chi.URLParam(r, "batchID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	batch, err := h.service.GetBatch(ctx, batchID)
	if err != nil {
		h.logError(ctx, "failed to get batch", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(batch))
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
		return
	}
	h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
}
