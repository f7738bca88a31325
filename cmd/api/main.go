package main

import (
	"expvar"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"autostyle/internal/auth"
	"autostyle/internal/checkout"
	"autostyle/internal/db"
	"autostyle/internal/domain/orders"
	"autostyle/internal/domain/storage"
	"autostyle/internal/images"
	"autostyle/internal/mailer"
	"autostyle/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultUploadDir        = "public/images/products"
	defaultUploadPublicPath = "/images/products"
	cloudinaryFolder        = "autostyle/products"
)

// NewLogger creates a console zap logger with colored levels.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(os.Stdout),
		zapcore.InfoLevel,
	)

	return zap.New(core).Sugar(), nil
}

// LoadRateLimiterConfig reads the login/register limiter settings.
func LoadRateLimiterConfig(logger *zap.SugaredLogger) ratelimiter.Config {
	return ratelimiter.Config{
		RequestsPerTimeFrame: envInt(logger, "RATELIMITER_REQUESTS_COUNT", 20),
		TimeFrame:            time.Minute,
		Enabled:              envBool(logger, "RATE_LIMITER_ENABLED", false),
	}
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func envInt(logger *zap.SugaredLogger, key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warnw("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envBool(logger *zap.SugaredLogger, key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warnw("invalid boolean in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func loadConfig(logger *zap.SugaredLogger) config {
	return config{
		addr:   envString("ADDR", ":8080"),
		env:    envString("ENV", "development"),
		apiURL: envString("EXTERNAL_URL", "localhost:8080"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(envInt(logger, "DB_MAX_CONNS", 10)),
			maxIdleTime: envString("DB_MAX_IDLE_TIME", "15m"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			admin: tokenConfig{
				secret: os.Getenv("AUTH_ADMIN_TOKEN_SECRET"),
				exp:    auth.AdminTokenTTL,
			},
			customer: tokenConfig{
				secret: os.Getenv("AUTH_CUSTOMER_TOKEN_SECRET"),
				exp:    auth.CustomerTokenTTL,
			},
			iss: "autostyle",
		},
		mail: mailer.Config{
			Host:      os.Getenv("SMTP_HOST"),
			Port:      envInt(logger, "SMTP_PORT", 587),
			Username:  os.Getenv("SMTP_USERNAME"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			FromEmail: envString("MAIL_FROM_EMAIL", "orders@autostyle.com"),
		},
		upload: uploadConfig{
			dir:           envString("UPLOAD_DIR", defaultUploadDir),
			publicPath:    envString("UPLOAD_PUBLIC_PATH", defaultUploadPublicPath),
			cloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		},
		orders: ordersConfig{
			referenceSalt: envString("ORDER_REFERENCE_SALT", "autostyle"),
		},
		rateLimiter: LoadRateLimiterConfig(logger),
		corsOrigins: envList("CORS_ALLOWED_ORIGIN"),
	}
}

func newImageStore(cfg uploadConfig) (images.Store, error) {
	if cfg.cloudinaryURL != "" {
		s, err := images.NewCloudinaryStore(cfg.cloudinaryURL, cloudinaryFolder)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := images.NewLocalStore(cfg.dir, cfg.publicPath)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newNotifier(cfg mailer.Config) (checkout.Notifier, error) {
	if cfg.Host == "" {
		return mailer.Noop{}, nil
	}
	m, err := mailer.NewSMTPMailer(cfg)
	if err != nil {
		return nil, err
	}
	return m, nil
}

var version = "1.0.0"

//	@title			AutoStyle API
//	@description	Storefront and back-office API for AutoStyle car parts.

//	@contact.name	AutoStyle Support
//	@contact.email	support@autostyle.com

//	@BasePath					/api
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token from /auth/login or /auth/customer/login

//	@securityDefinitions.basic	BasicAuth

func main() {
	logger, err := NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Infow("no .env file loaded, using process environment", "error", err)
	}

	cfg := loadConfig(logger)

	if cfg.auth.admin.secret == "" || cfg.auth.customer.secret == "" {
		logger.Fatal("AUTH_ADMIN_TOKEN_SECRET and AUTH_CUSTOMER_TOKEN_SECRET must be set")
	}
	if cfg.auth.admin.secret == cfg.auth.customer.secret {
		logger.Warn("admin and customer token secrets are identical")
	}

	pool, err := db.New(db.Config{
		Addr:        cfg.db.addr,
		MaxConns:    cfg.db.maxConns,
		MaxIdleTime: cfg.db.maxIdleTime,
	})
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	refs, err := orders.NewReferenceGenerator(cfg.orders.referenceSalt)
	if err != nil {
		logger.Fatal(err)
	}

	store := storage.NewContainer(pool, refs)

	imageStore, err := newImageStore(cfg.upload)
	if err != nil {
		logger.Fatal(err)
	}

	notifier, err := newNotifier(cfg.mail)
	if err != nil {
		logger.Fatal(err)
	}

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:       cfg,
		store:        store,
		uow:          store,
		checkout:     checkout.NewService(store, notifier, logger),
		images:       imageStore,
		logger:       logger,
		adminAuth:    auth.NewAdminAuthenticator(cfg.auth.admin.secret, cfg.auth.admin.exp, cfg.auth.iss),
		customerAuth: auth.NewCustomerAuthenticator(cfg.auth.customer.secret, cfg.auth.customer.exp, cfg.auth.iss),
		rateLimiter:  rateLimiter,
	}

	// http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
			"max_conns":      s.MaxConns(),
			"acquire_count":  s.AcquireCount(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
