package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"                             // the Echo web framework
    echomw "github.com/labstack/echo/v4/middleware"           // stock echo middleware
    "github.com/prometheus/client_golang/prometheus/promhttp" // /metrics exposition
    "github.com/redis/go-redis/v9"                            // optional response cache backend

    "github.com/iliyamo/tailor-api/internal/config"
    "github.com/iliyamo/tailor-api/internal/handler"
    "github.com/iliyamo/tailor-api/internal/metrics"
    "github.com/iliyamo/tailor-api/internal/middleware"
)

// Deps carries everything the HTTP layer needs.  Redis may be nil, in which
// case the profile cache is a pass-through.
type Deps struct {
    Config    config.Config
    Cache     config.CacheConfig
    Redis     *redis.Client
    Verifier  middleware.AccessVerifier
    Auth      *handler.AuthHandler
    Customers *handler.CustomerHandler
}

// New builds the Echo instance with the global middleware chain, the error
// envelope and every route.
func New(d Deps) *echo.Echo {
    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Validator = handler.NewRequestValidator()
    e.HTTPErrorHandler = handler.ErrorHandler(d.Config.IsProduction())

    // Logger and metrics sit outside Recover so a recovered panic is still
    // logged and counted with its final status.
    e.Use(echomw.RequestID())
    e.Use(middleware.RequestLogger())
    e.Use(metrics.EchoMiddleware())
    e.Use(echomw.Recover())
    e.Use(echomw.CORS())
    e.Use(echomw.Secure())
    e.Use(echomw.Gzip())
    e.Use(echomw.BodyLimit("1M"))

    RegisterRoutes(e, d.Config.Env)
    RegisterAuth(e, d.Auth, d.Verifier, middleware.NewRedisCache(d.Cache, d.Redis))
    RegisterCustomers(e, d.Customers, d.Verifier)
    return e
}

// RegisterRoutes registers routes that do not require authentication: the
// health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, env string) {
    e.GET("/health", handler.Health(env))
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the account and session routes under /api/users.
// Register, login, refresh and logout identify the caller by the body;
// logout-all and profile require an access token.  The profile response is
// cached per user.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, v middleware.AccessVerifier, cache echo.MiddlewareFunc) {
    g := e.Group("/api/users")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)

    jwt := middleware.JWTAuth(v)
    g.POST("/logout-all", a.LogoutAll, jwt)
    g.GET("/profile", a.Profile, jwt, cache)
}
