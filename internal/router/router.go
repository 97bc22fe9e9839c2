// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/foodreggie/internal/handler"
	"github.com/deppfellow/foodreggie/internal/middleware"
	"github.com/deppfellow/foodreggie/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain and
// every route registered.
//
// Order matters: the request id exists before the request logger reads it,
// the New Relic transaction exists before tracing attributes and the
// context logger read it, and Recover sits innermost so a panic still goes
// through logging.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mws := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mws.Global.GlobalErrorHandler

	router.Use(
		mws.RateLimit.Limiter(),
		mws.Global.CORS(),
		mws.Global.Secure(),
		middleware.RequestID(),
		mws.Tracing.NewRelicMiddleware(),
		mws.Tracing.EnhanceTracing(),
		mws.ContextEnhancer.EnhanceContext(),
		mws.Global.RequestLogger(),
		mws.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerFoodRoutes(router, h)

	return router
}
