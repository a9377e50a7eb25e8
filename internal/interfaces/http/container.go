package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/application/category"
	"github.com/cinezone/cinezone/internal/application/history"
	"github.com/cinezone/cinezone/internal/application/movie"
	"github.com/cinezone/cinezone/internal/application/note"
	"github.com/cinezone/cinezone/internal/application/user"
	"github.com/cinezone/cinezone/internal/application/watchlist"
	"github.com/cinezone/cinezone/internal/infrastructure/auth"
	"github.com/cinezone/cinezone/internal/infrastructure/cache"
	"github.com/cinezone/cinezone/internal/infrastructure/config"
	"github.com/cinezone/cinezone/internal/infrastructure/permission"
	"github.com/cinezone/cinezone/internal/infrastructure/ratelimit"
	"github.com/cinezone/cinezone/internal/infrastructure/repository"
	"github.com/cinezone/cinezone/internal/infrastructure/storage"
	"github.com/cinezone/cinezone/internal/interfaces/http/dispatch"
	"github.com/cinezone/cinezone/internal/interfaces/http/middleware"
	"github.com/cinezone/cinezone/internal/interfaces/http/routes"
	"github.com/cinezone/cinezone/internal/shared/db"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/services/markdown"
)

// Container wires infrastructure, services and middleware together and
// releases what needs releasing on Shutdown.
type Container struct {
	db  *gorm.DB
	cfg *config.Config
	log logger.Interface

	// Optional; nil when redis is disabled or unreachable
	redis   *redis.Client
	limiter ratelimit.Limiter

	store    *storage.LocalStore
	enforcer *permission.Enforcer
	services *routes.Services

	authMiddleware   *middleware.AuthMiddleware
	uploadMiddleware *middleware.UploadMiddleware
}

func NewContainer(gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		db:  gdb,
		cfg: cfg,
		log: log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initServices()
	c.initMiddleware()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	enforcer, err := permission.NewEnforcer(c.db, c.log.Named("permission"))
	if err != nil {
		return err
	}
	c.enforcer = enforcer

	c.store = storage.NewLocalStore(c.cfg.Upload, c.log)

	if !c.cfg.Redis.Enabled {
		c.log.Infow("redis disabled, API rate limiting is off")
		return nil
	}
	client, err := cache.NewRedisClient(context.Background(), &c.cfg.Redis)
	if err != nil {
		c.log.Warnw("redis unavailable, API rate limiting is off", "error", err)
		return nil
	}
	c.redis = client
	c.limiter = ratelimit.NewFixedWindowLimiter(client, c.cfg.RateLimit.Requests, time.Duration(c.cfg.RateLimit.WindowSeconds)*time.Second)
	return nil
}

func (c *Container) initServices() {
	tx := db.NewTransactionManager(c.db)
	renderer := markdown.NewRenderer()

	userRepo := repository.NewUserRepository(c.db)
	movieRepo := repository.NewMovieRepository(c.db)
	categoryRepo := repository.NewCategoryRepository(c.db)
	noteRepo := repository.NewNoteRepository(c.db)
	watchlistRepo := repository.NewWatchlistRepository(c.db)
	historyRepo := repository.NewHistoryRepository(c.db)

	hasher := auth.NewBcryptPasswordHasher(c.cfg.Auth.Password.BcryptCost)
	jwtService := auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.ExpiresInHours)

	historyService := history.NewService(historyRepo, movieRepo, c.log.Named("history"))
	aggregator := note.NewRatingAggregator(noteRepo, movieRepo, c.log.Named("rating"))

	users := user.NewService(tx, userRepo, noteRepo, movieRepo, aggregator, hasher, jwtService, c.log.Named("user"))
	users.SetAdminRegistration(c.cfg.Auth.AllowAdminRegistration)

	c.services = &routes.Services{
		Users:      users,
		Movies:     movie.NewService(tx, movieRepo, categoryRepo, renderer, c.log.Named("movie")),
		Categories: category.NewService(tx, categoryRepo, renderer, c.log.Named("category")),
		Watchlist:  watchlist.NewService(tx, watchlistRepo, movieRepo, historyService, c.log.Named("watchlist")),
		Notes:      note.NewService(tx, noteRepo, movieRepo, aggregator, historyService, renderer, c.log.Named("note")),
		History:    historyService,
	}
}

func (c *Container) initMiddleware() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.services.Users, c.enforcer, c.log.Named("auth"))
	c.uploadMiddleware = middleware.NewUploadMiddleware(c.store, c.log.Named("upload"))
}

// dispatchMiddleware is the middleware set route descriptors are built from.
func (c *Container) dispatchMiddleware() dispatch.Middleware {
	return dispatch.Middleware{
		Authenticate: c.authMiddleware.RequireAuth(),
		RequireTier:  c.authMiddleware.RequireTier,
		Upload:       c.uploadMiddleware.Single,
		Validators:   middleware.ValidationRules(),
	}
}

// Shutdown closes the redis connection. The database is owned by the caller.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
