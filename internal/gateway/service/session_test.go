package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradex-insights/tradex/internal/gateway/domain"
	"github.com/tradex-insights/tradex/internal/gateway/service"
	"github.com/tradex-insights/tradex/internal/gateway/session"
	"github.com/tradex-insights/tradex/pkg/authsdk"
)

func requestWithArtifact(t *testing.T, a session.Artifact) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, session.SetArtifact(rec, a, false))

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.Header.Set("Cookie", rec.Header().Get("Set-Cookie"))
	return r
}

func TestResolveArtifact(t *testing.T) {
	t.Parallel()

	t.Run("artifact cookie is trusted at face value", func(t *testing.T) {
		t.Parallel()

		auth := &fakeAuth{}
		svc := &service.SessionService{Auth: auth, Store: newTestStore(t)}

		r := requestWithArtifact(t, session.Artifact{
			ID:    "dir-1",
			Name:  "Demo Manager",
			Email: "demo@tradex.example",
			Role:  domain.RoleManager,
		})

		p := svc.Resolve(r)
		require.NotNil(t, p)
		require.Equal(t, "dir-1", p.ID)
		require.Equal(t, domain.RoleManager, p.Role)
		require.Zero(t, auth.getUserCalls, "artifact resolution must not hit the backend")
	})

	t.Run("artifact wins over a session cookie", func(t *testing.T) {
		t.Parallel()

		auth := &fakeAuth{user: &authsdk.User{ID: "user-9"}}
		svc := &service.SessionService{Auth: auth, Store: newTestStore(t)}

		r := requestWithArtifact(t, session.Artifact{ID: "dir-1", Role: domain.RoleAdmin})
		r.AddCookie(&http.Cookie{Name: session.SessionCookieName, Value: "some-token"})

		p := svc.Resolve(r)
		require.NotNil(t, p)
		require.Equal(t, "dir-1", p.ID)
		require.Zero(t, auth.getUserCalls)
	})

	t.Run("tampered role degrades to unknown", func(t *testing.T) {
		t.Parallel()

		svc := &service.SessionService{Auth: &fakeAuth{}, Store: newTestStore(t)}

		r := requestWithArtifact(t, session.Artifact{ID: "dir-1", Role: "superuser"})
		p := svc.Resolve(r)
		require.NotNil(t, p)
		require.Equal(t, domain.RoleUnknown, p.Role)
	})

	t.Run("malformed artifact is treated as absent", func(t *testing.T) {
		t.Parallel()

		svc := &service.SessionService{Auth: &fakeAuth{getUserErr: authsdk.ErrNoSession}, Store: newTestStore(t)}

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(&http.Cookie{Name: session.ArtifactCookieName, Value: "%zz-not-json"})

		require.Nil(t, svc.Resolve(r))
	})
}

func TestResolveBackendSession(t *testing.T) {
	t.Parallel()

	t.Run("role comes from the profile row", func(t *testing.T) {
		t.Parallel()

		st := newTestStore(t)
		require.NoError(t, st.Profiles().UpsertProfile(context.Background(), domain.Profile{
			ID:    "user-9",
			Name:  "Sam Reyes",
			Email: "sam@tradex.example",
			Role:  domain.RoleSupervisor,
		}))

		auth := &fakeAuth{user: &authsdk.User{ID: "user-9", Email: "sam@tradex.example"}}
		svc := &service.SessionService{Auth: auth, Store: st}

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(&http.Cookie{Name: session.SessionCookieName, Value: "live-token"})

		p := svc.Resolve(r)
		require.NotNil(t, p)
		require.Equal(t, "Sam Reyes", p.Name)
		require.Equal(t, domain.RoleSupervisor, p.Role)
	})

	t.Run("missing profile degrades the role instead of failing", func(t *testing.T) {
		t.Parallel()

		auth := &fakeAuth{user: &authsdk.User{ID: "ghost", Email: "ghost@tradex.example"}}
		svc := &service.SessionService{Auth: auth, Store: newTestStore(t)}

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(&http.Cookie{Name: session.SessionCookieName, Value: "live-token"})

		p := svc.Resolve(r)
		require.NotNil(t, p)
		require.Equal(t, "ghost", p.ID)
		require.Equal(t, domain.RoleUnknown, p.Role)
	})

	t.Run("dead backend session resolves to anonymous", func(t *testing.T) {
		t.Parallel()

		auth := &fakeAuth{getUserErr: authsdk.ErrNoSession}
		svc := &service.SessionService{Auth: auth, Store: newTestStore(t)}

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(&http.Cookie{Name: session.SessionCookieName, Value: "stale-token"})

		require.Nil(t, svc.Resolve(r))
	})

	t.Run("no cookies resolves to anonymous without backend calls", func(t *testing.T) {
		t.Parallel()

		auth := &fakeAuth{}
		svc := &service.SessionService{Auth: auth, Store: newTestStore(t)}

		require.Nil(t, svc.Resolve(httptest.NewRequest(http.MethodGet, "/dashboard", nil)))
		require.Zero(t, auth.getUserCalls)
	})
}
