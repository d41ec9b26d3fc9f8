package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "soulmint/internal/jwt_token"
	"soulmint/internal/ledger"
	"soulmint/internal/ledger/memory"
	"soulmint/internal/platform/middleware"
	id "soulmint/pkg/domain"
	"soulmint/pkg/testutil"
)

const adminToken = "operator-secret"

func newLedgerRouter(t *testing.T) (http.Handler, *memory.Ledger) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := memory.New()
	tokens := jwttoken.NewJWTService("test-key", "soulmint", "soulmint-api")
	r := chi.NewRouter()
	New(l, logger, middleware.RequireAdminToken(adminToken, logger), WithTokenIssuer(tokens, time.Hour)).Register(r)
	return r, l
}

func newFundRequest(t *testing.T, account string, amount any, token string) *http.Request {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/accounts/"+account+"/fund", map[string]any{"amount": amount})
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	return req
}

func TestFundAndReadBalance(t *testing.T) {
	router, _ := newLedgerRouter(t)
	account := testutil.Account(0x11)

	rr := testutil.DoRequest(router, newFundRequest(t, account.String(), 700, adminToken))
	testutil.AssertStatusOK(t, rr)
	rr = testutil.DoRequest(router, newFundRequest(t, account.String(), 300, adminToken))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "balance", float64(1000))

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/accounts/"+account.String()))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "account", account.String())
	testutil.AssertJSONContains(t, rr, "balance", float64(1000))
}

func TestFundErrors(t *testing.T) {
	router, _ := newLedgerRouter(t)
	account := testutil.Account(0x11).String()

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{"missing admin token", newFundRequest(t, account, 10, ""), http.StatusForbidden, "forbidden"},
		{"wrong admin token", newFundRequest(t, account, 10, "nope"), http.StatusForbidden, "forbidden"},
		{"zero amount", newFundRequest(t, account, 0, adminToken), http.StatusBadRequest, "validation_error"},
		{"negative amount", newFundRequest(t, account, -5, adminToken), http.StatusBadRequest, "bad_request"},
		{"zero address", newFundRequest(t, "0x0000000000000000000000000000000000000000", 10, adminToken), http.StatusBadRequest, "invalid_input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(router, tt.req)
			testutil.AssertStatusAndError(t, rr, tt.status, tt.code)
		})
	}
}

func TestGetCertificate(t *testing.T) {
	router, l := newLedgerRouter(t)
	ctx := context.Background()
	holder := testutil.Account(0x11)
	authority := testutil.Account(0x01)
	certID := id.NewCertificateID()

	_, err := l.Credit(ctx, holder, memory.RentFor(ledger.MintSpace(ledger.NonTransferable)))
	require.NoError(t, err)
	require.NoError(t, l.Allocate(ctx, certID, holder, ledger.MintSpace(ledger.NonTransferable)))
	require.NoError(t, l.InitNonTransferable(ctx, certID))
	require.NoError(t, l.InitMint(ctx, certID, ledger.Decimals, authority))
	_, err = l.EnsureHolding(ctx, certID, holder)
	require.NoError(t, err)
	require.NoError(t, l.Issue(ctx, certID, holder, authority, ledger.CertificateUnit))
	require.NoError(t, l.RevokeMintAuthority(ctx, certID, authority))
	require.NoError(t, l.Attach(ctx, certID, ledger.CertificateMetadata("Cert", "https://example.com/c.json", authority)))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/certificates/"+certID.String()))
	testutil.AssertStatusOK(t, rr)
	view := testutil.UnmarshalResponse[ledger.CertificateView](t, rr)
	assert.Equal(t, certID, view.ID)
	assert.True(t, view.NonTransferable)
	assert.True(t, view.MintAuthorityRevoked)
	assert.Equal(t, uint64(1), view.Supply)
	assert.Equal(t, uint64(1), view.Holders[holder.String()])
	require.NotNil(t, view.Metadata)
	assert.Equal(t, "SBT", view.Metadata.Symbol)
	assert.False(t, view.Metadata.Mutable)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/certificates/"+id.NewCertificateID().String()))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/certificates/bogus"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
}

func TestIssueToken(t *testing.T) {
	router, _ := newLedgerRouter(t)
	account := testutil.Account(0x11)
	tokens := jwttoken.NewJWTService("test-key", "soulmint", "soulmint-api")

	req := testutil.NewRequest(t, http.MethodPost, "/accounts/"+account.String()+"/token")
	req.Header.Set("X-Admin-Token", adminToken)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)

	resp := testutil.UnmarshalResponse[tokenResponse](t, rr)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	got, err := tokens.ValidateAccountToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account, got)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/accounts/"+account.String()+"/token"))
	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
}
