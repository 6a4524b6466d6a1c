package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	shardedcache "github.com/simp-lee/cache"
	"github.com/simp-lee/ginx"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/advocates/internal/config"
	"github.com/simp-lee/advocates/internal/domain"
	"github.com/simp-lee/advocates/internal/metrics"
	"github.com/simp-lee/advocates/internal/middleware"
	"github.com/simp-lee/advocates/internal/module/advocate"
	"github.com/simp-lee/advocates/web"
)

// listingCacheGroup holds cached GET /api/advocates responses.
const listingCacheGroup = "advocates"

// limiterMaxIdle is how long an idle client's seed bucket is kept.
const limiterMaxIdle = 10 * time.Minute

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine  *gin.Engine
	db      *gorm.DB
	logger  *logger.Logger
	cfg     *config.Config
	cache   shardedcache.CacheInterface
	limiter ginx.RateLimitStore
	metrics *metrics.Metrics
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New wires logging, the advocate store, the directory module, middleware,
// templates and routes from cfg.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("debug mode is listening on all interfaces")
	}

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		closeDB(db)
	}()

	if cfg.Server.Mode == gin.DebugMode || cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(&domain.Advocate{}); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	var cache shardedcache.CacheInterface
	if cfg.Server.Cache.Enabled {
		ttl, _ := time.ParseDuration(cfg.Server.Cache.TTL)
		cache = shardedcache.NewCache(shardedcache.Options{
			MaxSize:           cfg.Server.Cache.MaxSize,
			DefaultExpiration: ttl,
			CleanupInterval:   time.Minute,
			ShardCount:        32,
		})
	}
	defer func() {
		if !success && cache != nil {
			cache.Close()
		}
	}()

	// The ginx default store is process-wide, so each App gets its own.
	var limiter ginx.RateLimitStore
	if cfg.Server.RateLimit.Enabled {
		limiter = ginx.NewMemoryLimiterStore(limiterMaxIdle)
	}
	defer func() {
		if !success && limiter != nil {
			limiter.Close()
		}
	}()

	mod, err := newAdvocateModule(cfg, db, m, cache, limiter)
	if err != nil {
		return nil, err
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log.Logger),
		buildChain(&cfg.Server),
		middleware.Logger(log.Logger),
		middleware.Metrics(m),
	)

	debug := cfg.Server.Mode == gin.DebugMode
	fsys := fs.FS(web.EmbeddedFS)
	if debug {
		if fsys, err = resolveDebugWebFS(); err != nil {
			return nil, fmt.Errorf("resolve debug template fs: %w", err)
		}
	}
	renderer, err := NewTemplateRenderer(fsys, debug)
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer

	deps := &RouteDeps{
		Modules: []Module{mod},
		DB:      db,
		Mode:    cfg.Server.Mode,
	}
	if m != nil {
		deps.Metrics = m.Handler()
		deps.MetricsPath = cfg.Metrics.Path
	}
	if err := RegisterRoutes(engine, deps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine:  engine,
		db:      db,
		logger:  log,
		cfg:     cfg,
		cache:   cache,
		limiter: limiter,
		metrics: m,
	}, nil
}

// newAdvocateModule builds repository, service and handlers for the
// directory. When a cache is given, listing responses are cached and every
// seed invalidates them.
func newAdvocateModule(cfg *config.Config, db *gorm.DB, m *metrics.Metrics, cache shardedcache.CacheInterface, limiter ginx.RateLimitStore) (*advocate.AdvocateModule, error) {
	seed, err := advocate.LoadSeed()
	if err != nil {
		return nil, fmt.Errorf("load seed fixture: %w", err)
	}

	svcOpts := []advocate.ServiceOption{advocate.WithPageWindow(cfg.Directory.PageWindow)}
	if m != nil {
		svcOpts = append(svcOpts, advocate.WithRecorder(m))
	}
	svc := advocate.NewAdvocateService(advocate.NewAdvocateRepository(db), seed, svcOpts...)

	handler := advocate.NewAdvocateHandler(svc)
	pageHandler := advocate.NewAdvocatePageHandler(svc)

	var modOpts []advocate.ModuleOption
	if cache != nil {
		modOpts = append(modOpts, advocate.WithListMiddleware(
			ginx.NewChain().Use(ginx.CacheWithGroup(cache, listingCacheGroup)).Build(),
		))
		handler.OnSeed(func() { cache.Group(listingCacheGroup).Clear() })
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		modOpts = append(modOpts, advocate.WithSeedMiddleware(
			ginx.NewChain().Use(ginx.RateLimit(rl.RPS, rl.Burst, ginx.WithIP(), ginx.WithStore(limiter))).Build(),
		))
	}

	return advocate.NewModule(handler, pageHandler, modOpts...), nil
}

// buildChain assembles the ginx middleware shared by every route: request
// IDs propagated into the slog context, CORS, and the optional handler
// timeout. Values were checked by config.Validate.
func buildChain(s *config.ServerConfig) gin.HandlerFunc {
	chain := ginx.NewChain().
		Use(ginx.RequestID(ginx.WithContextInjector(func(ctx context.Context, id string) context.Context {
			return logger.WithContextAttrs(ctx, slog.String("request_id", id))
		}))).
		Use(ginx.CORS(corsOptions(s)...))

	if s.Timeout != "" {
		d, _ := time.ParseDuration(s.Timeout)
		// Seed writes run in a transaction; keep it out of the buffered timeout writer.
		chain.Unless(ginx.PathIs("/api/seed"), ginx.Timeout(ginx.WithTimeout(d)))
	}
	return chain.Build()
}

func corsOptions(s *config.ServerConfig) []ginx.Option[ginx.CORSConfig] {
	opts := []ginx.Option[ginx.CORSConfig]{
		ginx.WithAllowCredentials(s.CORS.AllowCredentials),
		ginx.WithExposeHeaders("X-Request-ID"),
	}
	switch {
	case len(s.CORS.AllowOrigins) > 0:
		opts = append(opts, ginx.WithAllowOrigins(s.CORS.AllowOrigins...))
	case s.Mode != gin.ReleaseMode && !s.CORS.AllowCredentials:
		// Without an allowlist only non-release modes open up to any origin.
		opts = append(opts, ginx.WithAllowOrigins("*"))
	}
	if len(s.CORS.AllowMethods) > 0 {
		opts = append(opts, ginx.WithAllowMethods(s.CORS.AllowMethods...))
	}
	if len(s.CORS.AllowHeaders) > 0 {
		opts = append(opts, ginx.WithAllowHeaders(s.CORS.AllowHeaders...))
	}
	if s.CORS.MaxAge != "" {
		d, _ := time.ParseDuration(s.CORS.MaxAge)
		opts = append(opts, ginx.WithMaxAge(d))
	}
	return opts
}

func resolveDebugWebFS() (fs.FS, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		webDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "web"))
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	if exePath, err := os.Executable(); err == nil {
		webDir := filepath.Join(filepath.Dir(exePath), "web")
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	return nil, errors.New("debug web directory not found")
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("database close error", slog.Any("error", err))
		return err
	}
	return nil
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down within five
// seconds and releases the cache, rate limiter, database and logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	if a.cache != nil {
		a.cache.Close()
	}
	if a.limiter != nil {
		if err := a.limiter.Close(); err != nil {
			log.Error("rate limiter close error", slog.Any("error", err))
		}
	}
	if a.db != nil {
		if err := closeDB(a.db); err == nil {
			log.Info("database connection closed")
		}
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
