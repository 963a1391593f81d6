package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/catalog-service/internal/docs"
	"github.com/rogerio-castellano/catalog-service/internal/http/handlers"
	mw "github.com/rogerio-castellano/catalog-service/internal/http/middleware"
	rl "github.com/rogerio-castellano/catalog-service/internal/http/rate_limiter"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Deps struct {
	Products *handlers.ProductHandler
	Log      *logrus.Logger

	JWTSecret    []byte
	AdminRole    string
	AuthDisabled bool

	// Visitors enables per-client rate limiting when set.
	Visitors *rl.Visitors
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(d.Log))
	r.Use(chimw.Recoverer)
	if d.Visitors != nil {
		r.Use(mw.RateLimit(d.Visitors, d.Log))
	}

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Get("/products", d.Products.List)
	r.Get("/products/{id}", d.Products.Get)

	r.Group(func(r chi.Router) {
		if d.AuthDisabled {
			d.Log.Warn("authentication is disabled, admin routes are open")
		} else {
			r.Use(mw.Authenticate(d.JWTSecret, d.Log))
			r.Use(mw.RequireRole(d.AdminRole))
		}

		r.Post("/products", d.Products.Create)
		r.Post("/products/import", d.Products.Import)
		r.Patch("/products/{id}", d.Products.Update)
		r.Delete("/products/{id}", d.Products.Delete)
		r.Get("/metrics/catalog", d.Products.Metrics)
	})

	return r
}
