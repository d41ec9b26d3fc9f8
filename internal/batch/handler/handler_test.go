package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulmint/internal/batch/service"
	"soulmint/internal/batch/store"
	id "soulmint/pkg/domain"
	"soulmint/pkg/testutil"
)

var (
	authority = testutil.Account(0x01)
	treasury  = testutil.Account(0x02)
)

// fakeAuth authenticates every request as authority unless the header opts out.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Anonymous") != "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, testutil.WithAccount(r, authority))
	})
}

func newBatchRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(store.NewInMemory(), service.WithLogger(logger))
	r := chi.NewRouter()
	New(svc, logger, fakeAuth).Register(r)
	return r
}

type batchBody struct {
	ID          string `json:"id"`
	Authority   string `json:"authority"`
	Treasury    string `json:"treasury"`
	Cap         int    `json:"cap"`
	IssuedCount int    `json:"issued_count"`
	Remaining   int    `json:"remaining"`
	Status      string `json:"status"`
}

func TestCreateAndGetBatch(t *testing.T) {
	router := newBatchRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/batches", map[string]any{
		"treasury":   treasury.String(),
		"fee_amount": 500,
		"cap":        2,
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	created := testutil.UnmarshalResponse[batchBody](t, rr)
	assert.Equal(t, authority.String(), created.Authority)
	assert.Equal(t, treasury.String(), created.Treasury)
	assert.Equal(t, 2, created.Remaining)
	assert.Equal(t, "active", created.Status)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/batches/"+created.ID))
	testutil.AssertStatusOK(t, rr)
	got := testutil.UnmarshalResponse[batchBody](t, rr)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 0, got.IssuedCount)
}

func TestCreateBatchErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{
			name:   "cap too large",
			body:   `{"treasury":"` + treasury.String() + `","fee_amount":1,"cap":101}`,
			status: http.StatusBadRequest,
			code:   "validation_error",
		},
		{
			name:   "zero fee",
			body:   `{"treasury":"` + treasury.String() + `","fee_amount":0,"cap":1}`,
			status: http.StatusBadRequest,
			code:   "validation_error",
		},
		{
			name:   "malformed treasury",
			body:   `{"treasury":"0x1234","fee_amount":1,"cap":1}`,
			status: http.StatusBadRequest,
			code:   "invalid_input",
		},
		{
			name:   "unknown field",
			body:   `{"treasury":"` + treasury.String() + `","fee_amount":1,"cap":1,"extra":true}`,
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newBatchRouter(t)
			rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/batches", tt.body))
			testutil.AssertStatusAndError(t, rr, tt.status, tt.code)
		})
	}
}

func TestCreateBatchTwiceConflicts(t *testing.T) {
	router := newBatchRouter(t)
	body := map[string]any{"treasury": treasury.String(), "fee_amount": 1, "cap": 1}

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/batches", body))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/batches", body))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
}

func TestCreateBatchRequiresAuth(t *testing.T) {
	router := newBatchRouter(t)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/batches", map[string]any{})
	req.Header.Set("X-Anonymous", "1")
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestGetBatchErrors(t *testing.T) {
	router := newBatchRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/batches/not-a-uuid"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/batches/"+id.NewBatchID().String()))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}
