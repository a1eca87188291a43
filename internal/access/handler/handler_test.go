package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"caregate/internal/access"
	"caregate/internal/access/acl"
	"caregate/internal/audit"
	id "caregate/pkg/domain"
	"caregate/pkg/testutil"
)

func newTestRouter(t *testing.T, sink *audit.Log, store *acl.MemoryStore) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	evaluator, err := access.NewEvaluator(
		access.NewResolver(),
		store,
		access.WithAuditSink(sink),
		access.WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("build evaluator: %v", err)
	}

	r := chi.NewRouter()
	New(evaluator, logger).Register(r)
	return r
}

func TestHandleEvaluate(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		router := newTestRouter(t, audit.NewLog(), acl.NewMemoryStore())
		req := testutil.NewJSONRequest(t, http.MethodPost, "/access/evaluate", map[string]any{
			"required_permissions": []string{"patients:view"},
		})

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("rejects empty permission list", func(t *testing.T) {
		router := newTestRouter(t, audit.NewLog(), acl.NewMemoryStore())
		req := testutil.NewJSONRequest(t, http.MethodPost, "/access/evaluate", map[string]any{
			"required_permissions": []string{},
		})
		req = testutil.WithUser(req, "user-1", "patients:view")

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		router := newTestRouter(t, audit.NewLog(), acl.NewMemoryStore())
		req := testutil.NewJSONRequest(t, http.MethodPost, "/access/evaluate", map[string]any{
			"required_permissions": []string{"patients:view"},
			"mode":                 "most",
		})
		req = testutil.WithUser(req, "user-1", "patients:view")

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("grants a role-only check", func(t *testing.T) {
		router := newTestRouter(t, audit.NewLog(), acl.NewMemoryStore())
		req := testutil.NewJSONRequest(t, http.MethodPost, "/access/evaluate", map[string]any{
			"required_permissions": []string{"patients:view"},
			"mode":                 "all",
			"resource":             "patients",
		})
		req = testutil.WithUser(req, "user-1", "patients:view")

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EvaluateResponse](t, rr)
		assert.True(t, resp.Granted)
		assert.True(t, resp.RolePermissionGranted)
		assert.True(t, resp.VaultCapabilityGranted)
		assert.Empty(t, resp.VaultPath)
		assert.False(t, resp.EvaluatedAt.IsZero())
	})

	t.Run("denial is a 200 with granted=false and is audited", func(t *testing.T) {
		log := audit.NewLog()
		router := newTestRouter(t, log, acl.NewMemoryStore())
		req := testutil.NewJSONRequest(t, http.MethodPost, "/access/evaluate", map[string]any{
			"required_permissions": []string{"patients:view"},
			"mode":                 "all",
			"resource":             "patients",
		})
		req = testutil.WithUser(req, "user-1")

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EvaluateResponse](t, rr)
		assert.False(t, resp.Granted)
		assert.Equal(t, string(access.ReasonRoleDenied), resp.Reason)

		entries := log.EntriesByUser("user-1")
		assert.Len(t, entries, 1)
		assert.Equal(t, "patients", entries[0].Resource)
	})

	t.Run("vault-backed permission consults the capability store", func(t *testing.T) {
		store := acl.NewMemoryStore()
		store.SetCapabilities("user-1", "secret/data/portal", acl.NewTokenSet(acl.TokenRead))
		router := newTestRouter(t, audit.NewLog(), store)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/access/evaluate", map[string]any{
			"required_permissions": []string{"secrets:read"},
			"mode":                 "all",
			"resource":             "secrets",
		})
		req = testutil.WithUser(req, "user-1", "secrets:read")

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EvaluateResponse](t, rr)
		assert.True(t, resp.Granted)
		assert.Equal(t, "secret/data/portal", resp.VaultPath)
	})

	t.Run("vault path override with explicit capability", func(t *testing.T) {
		store := acl.NewMemoryStore()
		store.SetCapabilities("user-1", "secret/data/x", acl.NewTokenSet(acl.TokenList))
		router := newTestRouter(t, audit.NewLog(), store)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/access/evaluate", map[string]any{
			"required_permissions": []string{"patients:view"},
			"mode":                 "all",
			"vault_path":           "secret/data/x",
			"capability":           "list",
		})
		req = testutil.WithUser(req, "user-1", "patients:view")

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EvaluateResponse](t, rr)
		assert.True(t, resp.Granted)
		assert.Equal(t, "list", resp.VaultCapability)
	})

	t.Run("superuser bypasses both checks", func(t *testing.T) {
		router := newTestRouter(t, audit.NewLog(), acl.NewMemoryStore())
		req := testutil.NewJSONRequest(t, http.MethodPost, "/access/evaluate", map[string]any{
			"required_permissions": []string{"secrets:delete"},
			"mode":                 "all",
		})
		req = testutil.WithIdentity(req, id.Identity{UserID: "root-1", Superuser: true})

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EvaluateResponse](t, rr)
		assert.True(t, resp.Granted)
		assert.Equal(t, string(access.ReasonSuperuser), resp.Reason)
	})
}
