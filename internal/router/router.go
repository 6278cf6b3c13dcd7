package router // package router wires handlers and middleware onto echo routes

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/stay-booking/internal/config"
	"github.com/iliyamo/stay-booking/internal/handler"
	"github.com/iliyamo/stay-booking/internal/middleware"
	"github.com/iliyamo/stay-booking/internal/model"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Auth         *handler.AuthHandler
	Stays        *handler.StayHandler
	Reservations *handler.ReservationHandler
	Search       *handler.SearchHandler
	Health       *handler.Health
}

// Options carries what the middleware needs besides the handlers.
type Options struct {
	JWTSecret    string
	Cache        config.CacheConfig
	RateLimit    config.RateLimitConfig
	Redis        *redis.Client
	Log          *zap.Logger
	ImageDir     string
	ImageURLBase string
}

// limiters holds the two rate limiters.  user runs after JWTAuth so
// its key can include the caller; anon serves routes without a token
// and is keyed by client IP only.
type limiters struct {
	user echo.MiddlewareFunc
	anon echo.MiddlewareFunc
}

func newLimiters(opt Options) limiters {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	anon := opt.RateLimit
	switch strings.ToLower(anon.KeyStrategy) {
	case "ip", "ip_route":
	case "user_route":
		anon.KeyStrategy = "ip_route"
	case "user":
		anon.KeyStrategy = "ip"
	default:
		anon.KeyStrategy = "ip_route"
	}
	return limiters{
		user: middleware.RateLimit(opt.RateLimit, opt.Redis, log),
		anon: middleware.RateLimit(anon, opt.Redis, log),
	}
}

// RegisterRoutes mounts the whole API on e.
func RegisterRoutes(e *echo.Echo, h Handlers, opt Options) {
	rl := newLimiters(opt)

	e.GET("/healthz", h.Health.Check)
	if opt.ImageDir != "" && opt.ImageURLBase != "" {
		e.Static(opt.ImageURLBase, opt.ImageDir)
	}

	RegisterAuth(e, h.Auth, opt.JWTSecret, rl)
	RegisterPublic(e, h.Stays, rl.anon, middleware.Cache(opt.Cache, opt.Redis))
	RegisterGuest(e, h.Reservations, h.Search, opt.JWTSecret, rl.user)
	RegisterHost(e, h.Stays, h.Reservations, opt.JWTSecret, rl.user)
}

// RegisterAuth exposes register/login under /v1/auth and the token
// introspection endpoint /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rl limiters) {
	g := e.Group("/v1/auth", rl.anon)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	e.GET("/v1/me", a.Me,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleHost, model.RoleGuest),
		rl.user)
}

// RegisterPublic registers unauthenticated stay pages; responses go
// through the Redis cache.
func RegisterPublic(e *echo.Echo, s *handler.StayHandler, limit, cache echo.MiddlewareFunc) {
	e.GET("/v1/public/stays/:id", s.PublicGet, limit, cache)
}
