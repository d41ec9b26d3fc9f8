// Package handler exposes the reference ledger over HTTP. Operators fund
// accounts and mint dev tokens; anyone can read balances and inspect certificates.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"soulmint/internal/ledger"
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
	"soulmint/pkg/platform/httputil"
	"soulmint/pkg/platform/sentinel"
	"soulmint/pkg/requestcontext"
)

// Ledger is the subset of the reference ledger the handler serves.
type Ledger interface {
	Credit(ctx context.Context, account id.AccountID, amount uint64) (uint64, error)
	Balance(ctx context.Context, account id.AccountID) (uint64, error)
	Certificate(ctx context.Context, certID id.CertificateID) (*ledger.CertificateView, error)
}

// TokenIssuer mints bearer tokens for an account.
type TokenIssuer interface {
	GenerateAccountToken(account id.AccountID, expiresIn time.Duration) (string, error)
}

type Handler struct {
	ledger       Ledger
	logger       *slog.Logger
	requireAdmin func(http.Handler) http.Handler
	tokens       TokenIssuer
	tokenTTL     time.Duration
}

type Option func(*Handler)

// WithTokenIssuer enables POST /accounts/{account}/token for operators.
func WithTokenIssuer(issuer TokenIssuer, ttl time.Duration) Option {
	return func(h *Handler) {
		h.tokens = issuer
		h.tokenTTL = ttl
	}
}

// New creates a ledger Handler. requireAdmin guards funding and token issuance.
func New(l Ledger, logger *slog.Logger, requireAdmin func(http.Handler) http.Handler, opts ...Option) *Handler {
	h := &Handler{ledger: l, logger: logger, requireAdmin: requireAdmin}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.requireAdmin).Post("/accounts/{account}/fund", h.handleFund)
	if h.tokens != nil {
		r.With(h.requireAdmin).Post("/accounts/{account}/token", h.handleIssueToken)
	}
	r.Get("/accounts/{account}", h.handleGetAccount)
	r.Get("/certificates/{certificateID}", h.handleGetCertificate)
}

type fundRequest struct {
	Amount uint64 `json:"amount"`
}

type accountResponse struct {
	Account id.AccountID `json:"account"`
	Balance uint64       `json:"balance"`
}

func (h *Handler) handleFund(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := id.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req fundRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Amount == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "amount must be positive"))
		return
	}
	balance, err := h.ledger.Credit(ctx, account, req.Amount)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidState, "balance would overflow"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to credit account",
			"account", account.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit account"))
		return
	}
	h.logger.InfoContext(ctx, "account funded",
		"account", account.String(),
		"amount", req.Amount,
		"balance", balance,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, accountResponse{Account: account, Balance: balance})
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *Handler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := id.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	token, err := h.tokens.GenerateAccountToken(account, h.tokenTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token",
			"account", account.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
	})
}

func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := id.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	balance, err := h.ledger.Balance(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, accountResponse{Account: account, Balance: balance})
}

func (h *Handler) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	certID, err := id.ParseCertificateID(chi.URLParam(r, "certificateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.ledger.Certificate(r.Context(), certID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "certificate not found"))
			return
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read certificate"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}
