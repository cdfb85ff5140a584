package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"careers-backend/internal/account"
	"careers-backend/internal/applications"
	googleauth "careers-backend/internal/auth"
	"careers-backend/internal/extract"
	"careers-backend/internal/jobs"
	"careers-backend/internal/review"
	"careers-backend/internal/shared/config"
	"careers-backend/internal/shared/server"
	"careers-backend/internal/shared/storage/db"
	"careers-backend/internal/shared/storage/object"
	localstore "careers-backend/internal/shared/storage/object/local"
	s3store "careers-backend/internal/shared/storage/object/s3"
	"careers-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	ApplicationsRepo applications.Repo
	JobsRepo         jobs.Repo
	UsersRepo        users.Repo

	ApplicationsService *applications.Service
	JobsService         *jobs.Service
	ReviewService       *review.Service
	UsersService        *users.Service

	AccountHandler      *account.Handler
	ApplicationsHandler *applications.Handler
	JobsHandler         *jobs.Handler
	ReviewHandler       *review.Handler
	UsersHandler        *users.Handler
	GoogleAuth          *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		AccountHandler:      app.AccountHandler,
		ApplicationsHandler: app.ApplicationsHandler,
		JobsHandler:         app.JobsHandler,
		ReviewHandler:       app.ReviewHandler,
		UsersHandler:        app.UsersHandler,
		GoogleAuth:          app.GoogleAuth,
		Roles:               app.UsersService,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var (
		appRepo  applications.Repo
		jobsRepo jobs.Repo
		userRepo users.Repo
	)
	if app.DB != nil {
		appRepo = &applications.PGRepo{DB: app.DB}
		jobsRepo = &jobs.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		appRepo = applications.NewMemoryRepo()
		jobsRepo = jobs.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	jobsSvc := jobs.NewService(jobsRepo)

	appSvc := applications.NewService(appRepo, jobsSvc, app.Store)
	appSvc.ExtractPreview = extract.Preview
	appSvc.ExtractStoredPreview = func(ctx context.Context, storageKey, mimeType string) (string, error) {
		return extract.PreviewStored(ctx, app.Store, storageKey, mimeType)
	}

	reviewSvc := review.NewService(appRepo)
	userSvc := users.NewService(userRepo, app.Config.ReviewerEmails)

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.ApplicationsRepo = appRepo
	app.JobsRepo = jobsRepo
	app.UsersRepo = userRepo
	app.ApplicationsService = appSvc
	app.JobsService = jobsSvc
	app.ReviewService = reviewSvc
	app.UsersService = userSvc
	app.AccountHandler = account.NewHandler(account.NewService(appRepo))
	app.ApplicationsHandler = applications.NewHandler(appSvc)
	app.JobsHandler = jobs.NewHandler(jobsSvc)
	app.ReviewHandler = review.NewHandler(reviewSvc, app.Store)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc

	if app.ApplicationsHandler == nil || app.JobsHandler == nil || app.ReviewHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
