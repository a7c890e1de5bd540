package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"loanfile-backend/internal/documents"
	"loanfile-backend/internal/ingest"
	"loanfile-backend/internal/server"
	"loanfile-backend/internal/services/health"
	"loanfile-backend/internal/shared/config"
	"loanfile-backend/internal/shared/storage/db"
	"loanfile-backend/internal/shared/storage/object"
	localstore "loanfile-backend/internal/shared/storage/object/local"
	s3store "loanfile-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Documents        object.Store
	Thumbnails       object.Store
	DocumentsRepo    documents.Repo
	DocumentsService *documents.Service
	Controller       *ingest.Controller
	DocumentsHandler *documents.Handler
	IngestHandler    *ingest.Handler
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

	docStore, thumbStore, err := buildStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo documents.Repo
	if sqlDB != nil {
		repo = &documents.PGRepo{DB: sqlDB}
	} else {
		repo = documents.NewMemoryRepo()
	}

	svc := &documents.Service{
		Repo:       repo,
		Documents:  docStore,
		Thumbnails: thumbStore,
	}
	ctl := ingest.NewController(svc, docStore, thumbStore, cfg.MaxConcurrentUploads)

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		Documents:        docStore,
		Thumbnails:       thumbStore,
		DocumentsRepo:    repo,
		DocumentsService: svc,
		Controller:       ctl,
		DocumentsHandler: documents.NewHandler(svc),
		IngestHandler:    ingest.NewHandler(ctl),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:    cfg,
		Health:    health.NewService(),
		Ingest:    app.IngestHandler,
		Documents: app.DocumentsHandler,
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

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStores(ctx context.Context, cfg config.Config) (object.Store, object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" {
			return nil, nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION")
		}
		docStore, err := s3store.New(ctx, cfg.AWSRegion, cfg.DocumentsBucket)
		if err != nil {
			return nil, nil, err
		}
		thumbStore, err := s3store.New(ctx, cfg.AWSRegion, cfg.ThumbnailsBucket)
		if err != nil {
			return nil, nil, err
		}
		return docStore, thumbStore, nil
	default:
		base := cfg.LocalStoreDir
		docStore := localstore.New(filepath.Join(base, cfg.DocumentsBucket), cfg.DocumentsBucket)
		thumbStore := localstore.New(filepath.Join(base, cfg.ThumbnailsBucket), cfg.ThumbnailsBucket)
		return docStore, thumbStore, nil
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
