package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradex-insights/tradex/internal/gateway/domain"
	"github.com/tradex-insights/tradex/pkg/httpx"

	gatewayhttp "github.com/tradex-insights/tradex/internal/gateway/http"
)

func guardedApp(t *testing.T, p *domain.Principal) http.Handler {
	t.Helper()

	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-App-User", httpx.UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	resolve := func(r *http.Request) *domain.Principal { return p }
	return httpx.Chain(app, gatewayhttp.RouteGuard(resolve))
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouteGuardAnonymous(t *testing.T) {
	t.Parallel()

	h := guardedApp(t, nil)

	tests := []struct {
		path     string
		code     int
		location string
	}{
		{"/dashboard", http.StatusFound, "/login"},
		{"/dashboard/reports", http.StatusFound, "/login"},
		{"/mobile", http.StatusFound, "/login"},
		{"/mobile/visits/42", http.StatusFound, "/login"},
		{"/login", http.StatusOK, ""},
		{"/", http.StatusOK, ""},
		{"/about", http.StatusOK, ""},
		// Prefix match is on path segments, not raw strings.
		{"/dashboards", http.StatusOK, ""},
	}

	for _, tt := range tests {
		rec := get(h, tt.path)
		require.Equal(t, tt.code, rec.Code, "path %s", tt.path)
		require.Equal(t, tt.location, rec.Header().Get("Location"), "path %s", tt.path)
	}
}

func TestRouteGuardRoles(t *testing.T) {
	t.Parallel()

	t.Run("manager tier owns the dashboard tree", func(t *testing.T) {
		t.Parallel()

		for _, role := range []domain.Role{domain.RoleManager, domain.RoleSupervisor, domain.RoleAdmin} {
			h := guardedApp(t, &domain.Principal{ID: "u1", Role: role})

			require.Equal(t, http.StatusOK, get(h, "/dashboard").Code, "role %s", role)
			rec := get(h, "/mobile")
			require.Equal(t, http.StatusFound, rec.Code, "role %s", role)
			require.Equal(t, "/dashboard", rec.Header().Get("Location"))
		}
	})

	t.Run("merchandiser owns the mobile tree", func(t *testing.T) {
		t.Parallel()

		h := guardedApp(t, &domain.Principal{ID: "u2", Role: domain.RoleMerchandiser})

		require.Equal(t, http.StatusOK, get(h, "/mobile/visits").Code)
		rec := get(h, "/dashboard")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/mobile", rec.Header().Get("Location"))
	})

	t.Run("unknown role is kept out of both trees", func(t *testing.T) {
		t.Parallel()

		h := guardedApp(t, &domain.Principal{ID: "u3", Role: domain.RoleUnknown})

		for _, path := range []string{"/dashboard", "/mobile"} {
			rec := get(h, path)
			require.Equal(t, http.StatusFound, rec.Code, "path %s", path)
			require.Equal(t, "/login", rec.Header().Get("Location"), "path %s", path)
		}

		// But the login page itself must not redirect-loop.
		require.Equal(t, http.StatusOK, get(h, "/login").Code)
	})

	t.Run("signed-in users skip the login page", func(t *testing.T) {
		t.Parallel()

		rec := get(guardedApp(t, &domain.Principal{ID: "u1", Role: domain.RoleManager}), "/login")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))

		rec = get(guardedApp(t, &domain.Principal{ID: "u2", Role: domain.RoleMerchandiser}), "/login")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/mobile", rec.Header().Get("Location"))
	})

	t.Run("identity is placed on the request context", func(t *testing.T) {
		t.Parallel()

		h := guardedApp(t, &domain.Principal{ID: "u9", Role: domain.RoleAdmin})
		rec := get(h, "/dashboard/settings")
		require.Equal(t, "u9", rec.Header().Get("X-App-User"))
	})
}

func TestRouteGuardStaticAssets(t *testing.T) {
	t.Parallel()

	resolved := 0
	resolve := func(r *http.Request) *domain.Principal { resolved++; return nil }
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := httpx.Chain(app, gatewayhttp.RouteGuard(resolve))

	for _, path := range []string{
		"/_assets/chunks/main.js",
		"/dashboard/logo.svg",
		"/mobile/icons/pin.png",
		"/favicon.ico",
	} {
		require.Equal(t, http.StatusOK, get(h, path).Code, "path %s", path)
	}
	require.Zero(t, resolved, "static asset requests must not resolve identity")
}
