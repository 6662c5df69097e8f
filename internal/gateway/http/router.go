package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tradex-insights/tradex/internal/gateway/ratelimit"
	"github.com/tradex-insights/tradex/internal/gateway/service"
	"github.com/tradex-insights/tradex/internal/gateway/store"
	"github.com/tradex-insights/tradex/pkg/httpx"
	"github.com/tradex-insights/tradex/pkg/slogx"

	_ "github.com/tradex-insights/tradex/api/gateway" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	secureCookies bool

	store store.Store

	// App is the downstream application the gateway fronts. Every path the
	// gateway does not own itself is routed here behind the route guard.
	App http.Handler

	Auth           service.AuthClient
	LoginService   *service.LoginService
	SessionService *service.SessionService
	Limiter        *ratelimit.Limiter

	// CounterPing probes the shared counter store for the readiness check.
	// Nil when the in-memory store is in use.
	CounterPing func(context.Context) error
}

func NewRouter(
	buildVersion string,
	secureCookies bool,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		secureCookies: secureCookies,
		store:         st,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	app := r.App
	if app == nil {
		app = http.NotFoundHandler()
	}
	r.Mux.Handle("/", httpx.Chain(app, RouteGuard(r.SessionService.Resolve)))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TradeX Insights Gateway API
//	@version		0.1.0
//	@description	Authentication gateway for the TradeX Insights platform. Arbitrates
//	@description	logins between the privileged account directory and the backend auth
//	@description	service, throttles login attempts, and guards the role-gated
//	@description	application trees.
//
//	@contact.name	TradeX Insights Team
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// The login endpoint carries its own windowed limiter keyed on
	// ip+email; stacking the generic per-IP bucket on top would throttle
	// legitimate retries before the window limiter ever speaks.
	r.Mux.Handle("POST /api/auth/login", &LoginHandler{
		Login:         r.LoginService,
		Limiter:       r.Limiter,
		SecureCookies: r.secureCookies,
	})

	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(&LogoutHandler{Auth: r.Auth, SecureCookies: r.secureCookies},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(&MeHandler{Sessions: r.SessionService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.CounterPing),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
