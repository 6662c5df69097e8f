package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/tradex-insights/tradex/internal/gateway/domain"
	"github.com/tradex-insights/tradex/pkg/httpx"
)

const (
	managerPrefix = "/dashboard"
	workerPrefix  = "/mobile"
	loginPath     = "/login"
)

// Extensions the app serves as static images. Requests for these carry no
// identity semantics and skip resolution entirely.
var staticExts = map[string]struct{}{
	".svg":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".ico":  {},
	".webp": {},
}

func isStaticAsset(p string) bool {
	if strings.HasPrefix(p, "/_assets/") {
		return true
	}
	_, ok := staticExts[strings.ToLower(path.Ext(p))]
	return ok
}

func underTree(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

// homeFor is where a signed-in user lands when they have no business being
// where they are.
func homeFor(role domain.Role) string {
	switch {
	case role.ManagerTier():
		return managerPrefix
	case role.WorkerTier():
		return workerPrefix
	default:
		return loginPath
	}
}

// RouteGuard enforces the role split between the manager dashboard tree and
// the mobile worker tree. Anonymous visitors to either tree are sent to the
// login page; signed-in users landing in the wrong tree are sent to their
// own. Everything else passes through with the identity on the context.
func RouteGuard(resolve func(*http.Request) *domain.Principal) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isStaticAsset(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			p := resolve(r)
			reqPath := r.URL.Path

			if p == nil {
				if underTree(reqPath, managerPrefix) || underTree(reqPath, workerPrefix) {
					http.Redirect(w, r, loginPath, http.StatusFound)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			home := homeFor(p.Role)

			// Signed-in users with a usable role skip the login page.
			if underTree(reqPath, loginPath) && home != loginPath {
				http.Redirect(w, r, home, http.StatusFound)
				return
			}

			if underTree(reqPath, managerPrefix) && !p.Role.ManagerTier() {
				http.Redirect(w, r, home, http.StatusFound)
				return
			}
			if underTree(reqPath, workerPrefix) && !p.Role.WorkerTier() {
				http.Redirect(w, r, home, http.StatusFound)
				return
			}

			ctx := httpx.ContextWithIdentity(r.Context(), p.ID, p.Role.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
