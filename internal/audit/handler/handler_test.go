package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caregate/internal/audit"
	"caregate/pkg/testutil"
)

func newTestRouter(log *audit.Log) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(log, logger).Register(r)
	return r
}

func TestHandleAppend(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		router := newTestRouter(audit.NewLog())
		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/entries", map[string]any{
			"action":   "access",
			"resource": "patients",
		})

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("rejects a missing action", func(t *testing.T) {
		router := newTestRouter(audit.NewLog())
		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/entries", map[string]any{
			"resource": "patients",
		})
		req = testutil.WithUser(req, "user-1")

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("appends with the caller's identity and masks details", func(t *testing.T) {
		log := audit.NewLog()
		router := newTestRouter(log)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/entries", map[string]any{
			"action":      "update",
			"resource":    "patients",
			"resource_id": "p-17",
			"details": map[string]any{
				"email": "a@b.com",
				"field": "address",
			},
		})
		req = testutil.WithUser(req, "user-1")

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[EntryResponse](t, rr)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "user-1", resp.UserID)
		assert.True(t, resp.Masked)
		email, _ := resp.Details["email"].AsString()
		assert.Equal(t, audit.Redacted, email)
		field, _ := resp.Details["field"].AsString()
		assert.Equal(t, "address", field)

		assert.Equal(t, 1, log.Len())
	})
}

func TestHandleExport(t *testing.T) {
	t.Run("rejects a non-boolean masked parameter", func(t *testing.T) {
		router := newTestRouter(audit.NewLog())
		req := testutil.NewRequest(t, http.MethodGet, "/audit/entries?masked=maybe")

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("defaults to a masked export", func(t *testing.T) {
		log := audit.NewLog()
		log.Append(context.Background(), audit.NewEntry{Action: "access", Resource: "patients"})
		router := newTestRouter(log)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/audit/entries"))

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EntriesResponse](t, rr)
		require.Equal(t, 1, resp.Count)
		assert.True(t, resp.Entries[0].Masked)
	})

	t.Run("masked=false clears the flag without un-redacting", func(t *testing.T) {
		log := audit.NewLog()
		log.Append(context.Background(), audit.NewEntry{
			Action:   "access",
			Resource: "patients",
			Details:  audit.Record{"ssn": audit.String("123-45-6789")},
		})
		router := newTestRouter(log)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/audit/entries?masked=false"))

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EntriesResponse](t, rr)
		require.Equal(t, 1, resp.Count)
		assert.False(t, resp.Entries[0].Masked)
		ssn, _ := resp.Entries[0].Details["ssn"].AsString()
		assert.Equal(t, audit.Redacted, ssn)
	})
}

func TestHandleFilters(t *testing.T) {
	log := audit.NewLog()
	log.Append(context.Background(), audit.NewEntry{UserID: "user-1", Action: "access", Resource: "patients"})
	log.Append(context.Background(), audit.NewEntry{UserID: "user-2", Action: "access", Resource: "orders"})
	log.Append(context.Background(), audit.NewEntry{UserID: "user-1", Action: "update", Resource: "patients"})
	router := newTestRouter(log)

	t.Run("filters by user", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/audit/entries/users/user-1"))

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EntriesResponse](t, rr)
		require.Equal(t, 2, resp.Count)
		for _, entry := range resp.Entries {
			assert.Equal(t, "user-1", entry.UserID)
		}
	})

	t.Run("filters by resource", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/audit/entries/resources/orders"))

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EntriesResponse](t, rr)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "orders", resp.Entries[0].Resource)
	})

	t.Run("no matches is an empty listing", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/audit/entries/users/missing"))

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EntriesResponse](t, rr)
		assert.Zero(t, resp.Count)
		assert.NotNil(t, resp.Entries)
	})
}

func TestHandleSweep(t *testing.T) {
	t.Run("reports the number of removed entries", func(t *testing.T) {
		log := audit.NewLog()
		log.Append(context.Background(), audit.NewEntry{Action: "access", Resource: "patients"})
		router := newTestRouter(log)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/audit/retention/sweep"))

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[SweepResponse](t, rr)
		assert.Zero(t, resp.Removed)
		assert.Equal(t, 1, log.Len())
	})
}
