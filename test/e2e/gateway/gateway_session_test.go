package gateway_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogoutRevokesAndClears(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(account{
		ID: "user-1", Name: "Alice", Email: "alice@tradex.example", Password: "pw", Role: "MERCHANDISER",
	})
	base := setupGateway(t, &fakeDirectory{}, backend)
	client := newBrowser(t)

	resp := doLogin(t, client, base, "alice@tradex.example", "pw")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	out := postJSON(t, client, base+"/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, out.StatusCode)
	out.Body.Close()

	require.Equal(t, 1, backend.revocations())

	// Cookies are gone, so the identity is too.
	me, err := client.Get(base + "/api/auth/me")
	require.NoError(t, err)
	defer me.Body.Close()
	require.Equal(t, http.StatusUnauthorized, me.StatusCode)
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	base := setupGateway(t, &fakeDirectory{}, newFakeBackend())
	client := newBrowser(t)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, client, base+"/api/auth/logout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, "logout %d", i+1)
		resp.Body.Close()
	}
}

func TestMeAnonymous(t *testing.T) {
	t.Parallel()

	base := setupGateway(t, &fakeDirectory{}, newFakeBackend())

	resp, err := http.Get(base + "/api/auth/me")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionSurvivesProfileRole(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(account{
		ID: "user-7", Name: "Priya", Email: "priya@tradex.example", Password: "pw", Role: "SUPERVISOR",
	})
	base := setupGateway(t, &fakeDirectory{}, backend)
	client := newBrowser(t)

	resp := doLogin(t, client, base, "priya@tradex.example", "pw")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var sessionToken string
	for _, c := range resp.Cookies() {
		if c.Name == "tradeX_session" {
			sessionToken = c.Value
		}
	}
	require.NotEmpty(t, sessionToken)

	// Present only the session cookie, forcing resolution through the
	// backend session and the profile row synced at login.
	req, err := http.NewRequest(http.MethodGet, base+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "tradeX_session", Value: sessionToken})

	me, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, me.StatusCode)

	var body struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, me, &body)
	require.Equal(t, "SUPERVISOR", body.User.Role)
}
