package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-store/internal/api"
	"resume-store/internal/match"
	"resume-store/internal/resumes"
	"resume-store/internal/services/health"
	"resume-store/internal/shared/config"
	"resume-store/internal/shared/server"
	"resume-store/internal/shared/storage/db"
	localstore "resume-store/internal/shared/storage/object/local"
)

// App holds the wired application dependencies.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Repo    resumes.Repo
	Service *api.Service
	Handler *api.Handler
	Health  *health.Service
}

// Build prepares dependencies and wires the router. In dev-like environments
// a missing or unreachable database falls back to the in-memory store.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo resumes.Repo
	if sqlDB != nil {
		repo = &resumes.PGRepo{DB: sqlDB}
	} else {
		repo = resumes.NewMemoryRepo()
	}

	svc := api.NewService(repo, match.KeywordMatcher{})
	if dir := strings.TrimSpace(cfg.LocalStoreDir); dir != "" {
		svc.Archive = localstore.New(dir)
	}
	handler := api.NewHandler(svc)
	healthSvc := health.NewService(sqlDB)

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Repo:    repo,
		Service: svc,
		Handler: handler,
		Health:  healthSvc,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		ResumeHandler: handler,
		Health:        healthSvc,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory store")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory store: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory store: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
