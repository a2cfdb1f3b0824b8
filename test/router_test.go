package test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"gavel/internal/jwttoken"
	moderationhandler "gavel/internal/moderation/handler"
	moderationservice "gavel/internal/moderation/service"
	actionstore "gavel/internal/moderation/store/action"
	submissionstore "gavel/internal/moderation/store/submission"
	"gavel/internal/overview"
	overviewhandler "gavel/internal/overview/handler"
	policyhandler "gavel/internal/policy/handler"
	policyservice "gavel/internal/policy/service"
	auditstore "gavel/internal/policy/store/audit"
	documentstore "gavel/internal/policy/store/document"
	versionstore "gavel/internal/policy/store/version"
	httptransport "gavel/internal/transport/http"
	"gavel/pkg/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	moderationSvc, err := moderationservice.New(submissionstore.NewInMemory(), actionstore.NewInMemory())
	if err != nil {
		t.Fatalf("failed to build moderation service: %v", err)
	}
	policySvc, err := policyservice.New(
		documentstore.NewInMemory(),
		versionstore.NewInMemory(),
		auditstore.NewInMemory(),
	)
	if err != nil {
		t.Fatalf("failed to build policy service: %v", err)
	}
	overviewSvc, err := overview.New(moderationSvc, policySvc)
	if err != nil {
		t.Fatalf("failed to build overview service: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := jwttoken.NewJWTService("test-secret", "gavel", "gavel-backoffice")

	return httptransport.NewRouter(httptransport.Deps{
		Moderation: moderationhandler.New(moderationSvc, logger, nil, validator),
		Policy:     policyhandler.New(policySvc, logger, nil, validator),
		Overview:   overviewhandler.New(overviewSvc, logger, nil, validator),
	})
}

func TestRouterAssembly(t *testing.T) {
	router := newTestRouter(t)

	testutil.Given(t, "the assembled governance router", func(t *testing.T) {
		testutil.When(t, "probing /healthz", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))

			testutil.Then(t, "it reports ok with no configured checks", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
				}
				resp := testutil.UnmarshalResponse[map[string]any](t, rec)
				if (*resp)["status"] != "ok" {
					t.Fatalf("expected status ok, got %v", (*resp)["status"])
				}
			})
		})

		testutil.When(t, "scraping /metrics", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))

			testutil.Then(t, "it serves the prometheus exposition", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
				}
			})
		})

		// Each domain hangs off its own prefix; all three must coexist on
		// one mux, and unauthenticated requests are rejected uniformly.
		testutil.When(t, "hitting each domain prefix without a token", func(t *testing.T) {
			for _, target := range []string{
				"/moderation/submissions",
				"/policies/documents",
				"/overview",
			} {
				rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, target, nil))

				testutil.Then(t, "it rejects "+target+" as unauthorized", func(t *testing.T) {
					testutil.AssertStatusAndError(t, rec, http.StatusUnauthorized, "unauthorized")
				})
			}
		})
	})
}
