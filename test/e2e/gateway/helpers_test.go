package gateway_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	gatewayhttp "github.com/tradex-insights/tradex/internal/gateway/http"
	"github.com/tradex-insights/tradex/internal/gateway/ratelimit"
	"github.com/tradex-insights/tradex/internal/gateway/ratelimit/drivers/memory"
	"github.com/tradex-insights/tradex/internal/gateway/service"
	"github.com/tradex-insights/tradex/internal/gateway/store/drivers/sqlite"
	"github.com/tradex-insights/tradex/pkg/authsdk"
	"github.com/tradex-insights/tradex/pkg/dirsdk"
	"github.com/tradex-insights/tradex/pkg/httpx"
	"github.com/tradex-insights/tradex/pkg/slogx"
)

/*
 * Common helpers for gateway end-to-end tests. The gateway runs in-process
 * over httptest with fake directory and backend auth services, a throwaway
 * SQLite database, and in-memory login counters.
 */

// account is a credential known to the fake directory and/or backend.
type account struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
}

// fakeBackend imitates the backend auth service: password grant, session
// introspection, and revocation.
type fakeBackend struct {
	mu       sync.Mutex
	accounts map[string]account // by email
	sessions map[string]account // by token
	tokens   int
	revoked  int
}

func newFakeBackend(accounts ...account) *fakeBackend {
	b := &fakeBackend{
		accounts: make(map[string]account),
		sessions: make(map[string]account),
	}
	for _, a := range accounts {
		b.accounts[a.Email] = a
	}
	return b
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		defer b.mu.Unlock()

		a, ok := b.accounts[body["email"]]
		if !ok || a.Password != body["password"] {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
			return
		}

		b.tokens++
		token := fmt.Sprintf("opaque-token-%d", b.tokens)
		b.sessions[token] = a

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": token,
			"token_type":   "bearer",
			"expires_in":   3600,
			"user":         backendUserJSON(a),
		})
	})

	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		b.mu.Lock()
		a, ok := b.sessions[token]
		b.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(backendUserJSON(a))
	})

	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		b.mu.Lock()
		if _, ok := b.sessions[token]; ok {
			delete(b.sessions, token)
			b.revoked++
		}
		b.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func (b *fakeBackend) revocations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked
}

func backendUserJSON(a account) map[string]any {
	return map[string]any{
		"id":    a.ID,
		"email": a.Email,
		"user_metadata": map[string]string{
			"name": a.Name,
			"role": a.Role,
		},
	}
}

// fakeDirectory imitates the privileged directory lookup RPC.
type fakeDirectory struct {
	accounts []account
}

func (d *fakeDirectory) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rest/v1/rpc/demo_login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		for _, a := range d.accounts {
			if a.Email == body["login_email"] && a.Password == body["login_password"] {
				_ = json.NewEncoder(w).Encode(map[string]string{
					"id":    a.ID,
					"name":  a.Name,
					"email": a.Email,
					"role":  a.Role,
				})
				return
			}
		}
		_, _ = w.Write([]byte("null"))
	})
	return mux
}

// setupGateway builds a full in-process gateway over the given fakes and
// returns its base URL.
func setupGateway(t *testing.T, dir *fakeDirectory, backend *fakeBackend) string {
	t.Helper()

	dirSrv := httptest.NewServer(dir.handler())
	t.Cleanup(dirSrv.Close)
	backendSrv := httptest.NewServer(backend.handler())
	t.Cleanup(backendSrv.Close)

	st, err := sqlite.NewStore("file:" + t.TempDir() + "/gateway.db?_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	auth := authsdk.NewClient(backendSrv.URL, "test-key")
	directory := dirsdk.NewClient(dirSrv.URL, "test-key")

	logger := slogx.New(slogx.Config{
		Service: "gateway-e2e",
		Env:     "test",
		Level:   "error",
		Format:  "text",
	})

	router := gatewayhttp.NewRouter("test", false, st, logger)
	router.Auth = auth
	router.LoginService = &service.LoginService{Directory: directory, Auth: auth, Store: st}
	router.SessionService = &service.SessionService{Auth: auth, Store: st}
	router.Limiter = ratelimit.NewLimiter(memory.New(), 5, 15*time.Minute)

	// Stand-in application behind the route guard. Echoes the resolved
	// identity so guard tests can see what reached the app.
	router.App = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-App-User", httpx.UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("app:" + r.URL.Path))
	})

	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

// newBrowser returns a client with a cookie jar that does not follow
// redirects, so tests can assert on Location headers.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func doLogin(t *testing.T, client *http.Client, baseURL, email, password string) *http.Response {
	t.Helper()
	return postJSON(t, client, baseURL+"/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v), "body: %s", raw)
}
