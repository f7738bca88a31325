package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"autostyle/docs"
	"autostyle/internal/auth"
	"autostyle/internal/checkout"
	"autostyle/internal/domain/storage"
	"autostyle/internal/images"
	"autostyle/internal/mailer"
	"autostyle/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// unitOfWork runs fn against tx-scoped repositories.
type unitOfWork interface {
	WithTx(ctx context.Context, fn func(tx *storage.Tx) error) error
}

type application struct {
	config       config
	store        *storage.Container
	uow          unitOfWork
	checkout     *checkout.Service
	images       images.Store
	logger       *zap.SugaredLogger
	adminAuth    auth.AdminTokens
	customerAuth auth.CustomerTokens
	rateLimiter  ratelimiter.Limiter
}

type config struct {
	addr        string
	env         string
	apiURL      string
	db          dbConfig
	auth        authConfig
	mail        mailer.Config
	upload      uploadConfig
	orders      ordersConfig
	rateLimiter ratelimiter.Config
	corsOrigins []string
}

type authConfig struct {
	basic    basicConfig
	admin    tokenConfig
	customer tokenConfig
	iss      string
}

type tokenConfig struct {
	secret string
	exp    time.Duration
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type uploadConfig struct {
	dir           string
	publicPath    string
	cloudinaryURL string
}

type ordersConfig struct {
	referenceSalt string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := app.config.corsOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/v1/swagger/doc.json")))
	})

	if local, ok := app.images.(*images.LocalStore); ok {
		prefix := local.PublicPath()
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(local.Dir())))
		r.Get(prefix+"/*", fs.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", app.listCategoriesHandler)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", app.listProductsHandler)
			r.Get("/{productID}", app.getProductHandler)
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/makes", app.listMakesHandler)
			r.Get("/models/{make}", app.listModelsHandler)
			r.Get("/years/{make}/{model}", app.listYearsHandler)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(app.RateLimiterMiddleware)
			r.Post("/login", app.adminLoginHandler)
			r.Post("/customer/register", app.registerCustomerHandler)
			r.Post("/customer/login", app.customerLoginHandler)
		})

		r.Route("/customer", func(r chi.Router) {
			r.Use(app.CustomerAuthMiddleware)
			r.Get("/profile", app.getProfileHandler)
			r.Put("/profile", app.updateProfileHandler)
			r.Get("/orders", app.listCustomerOrdersHandler)
		})

		r.With(app.OptionalCustomerMiddleware).Post("/orders/checkout", app.checkoutHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AdminAuthMiddleware)

			r.Get("/stats", app.adminStatsHandler)
			r.Post("/upload", app.uploadImageHandler)

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", app.createCategoryHandler)
				r.Get("/{categoryID}", app.getCategoryHandler)
				r.Put("/{categoryID}", app.updateCategoryHandler)
				r.Delete("/{categoryID}", app.deleteCategoryHandler)
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", app.createProductHandler)
				r.Get("/{productID}", app.adminGetProductHandler)
				r.Put("/{productID}", app.updateProductHandler)
				r.Delete("/{productID}", app.deleteProductHandler)
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(app.config.apiURL, "https://"), "http://")

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
