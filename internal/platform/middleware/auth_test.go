package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulmint/internal/platform/secrets"
	id "soulmint/pkg/domain"
	"soulmint/pkg/requestcontext"
	"soulmint/pkg/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubValidator struct {
	account id.AccountID
	err     error
}

func (v stubValidator) ValidateAccountToken(string) (id.AccountID, error) {
	return v.account, v.err
}

func echoAccount() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Account", requestcontext.Account(r.Context()).String())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuth(t *testing.T) {
	account := testutil.Account(0x11)

	t.Run("valid bearer token", func(t *testing.T) {
		h := RequireAuth(stubValidator{account: account}, discard)(echoAccount())
		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("Authorization", "Bearer good")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusNoContent)
		assert.Equal(t, account.String(), rr.Header().Get("X-Account"))
	})

	t.Run("missing header", func(t *testing.T) {
		h := RequireAuth(stubValidator{account: account}, discard)(echoAccount())
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/"))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("rejected token", func(t *testing.T) {
		h := RequireAuth(stubValidator{err: errors.New("expired")}, discard)(echoAccount())
		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("Authorization", "Bearer stale")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})
}

func TestRequireAdminToken(t *testing.T) {
	hash, err := secrets.Hash("operator-secret")
	require.NoError(t, err)

	guards := map[string]func(http.Handler) http.Handler{
		"plain":  RequireAdminToken("operator-secret", discard),
		"bcrypt": RequireAdminTokenHash(hash, discard),
	}
	for name, guard := range guards {
		t.Run(name, func(t *testing.T) {
			h := guard(echoAccount())

			req := testutil.NewRequest(t, http.MethodPost, "/")
			req.Header.Set("X-Admin-Token", "operator-secret")
			testutil.AssertStatus(t, testutil.DoRequest(h, req), http.StatusNoContent)

			req = testutil.NewRequest(t, http.MethodPost, "/")
			req.Header.Set("X-Admin-Token", "guess")
			testutil.AssertStatusAndError(t, testutil.DoRequest(h, req), http.StatusForbidden, "forbidden")

			rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodPost, "/"))
			testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
		})
	}

	t.Run("unset token disables the endpoint", func(t *testing.T) {
		h := RequireAdminToken("", discard)(echoAccount())
		req := testutil.NewRequest(t, http.MethodPost, "/")
		req.Header.Set("X-Admin-Token", "")
		testutil.AssertStatus(t, testutil.DoRequest(h, req), http.StatusForbidden)
	})
}
