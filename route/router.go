package route

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"imghost/config"
	"imghost/controller"
	mw "imghost/middlewares"
)

type Handlers struct {
	Auth   *controller.AuthController
	Images *controller.ImagesController
}

type Options struct {
	CORS           config.CORS
	Perimeter      config.Perimeter
	CookieName     string
	RequestTimeout time.Duration
}

// NewRouter assembles the gin engine: recovery and request logging, CORS,
// the optional perimeter rules and both route groups.
func NewRouter(h Handlers, auth mw.Authenticator, opts Options, zl *zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery(), mw.Logger(zl))
	if len(opts.CORS.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(opts.CORS.AllowedOrigins)))
	}
	if opts.Perimeter.Enabled {
		router.Use(mw.Perimeter(opts.Perimeter))
	}
	router.Use(mw.Timeout(opts.RequestTimeout))

	router.NoRoute(controller.NoRoute)
	router.NoMethod(controller.NoMethod)

	var loginLimit gin.HandlerFunc
	if opts.Perimeter.Enabled && opts.Perimeter.LoginRateLimit > 0 {
		loginLimit = mw.NewRateLimiter(opts.Perimeter.LoginRateLimit, opts.Perimeter.LoginRateWindow).Middleware()
	}

	Protected(router, h, mw.JWT(auth, opts.CookieName))
	Unprotected(router, h, loginLimit)

	return router
}

func corsConfig(origins []string) cors.Config {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = struct{}{}
	}

	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			_, ok := allowed[origin]
			return ok
		},
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "ETag"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
