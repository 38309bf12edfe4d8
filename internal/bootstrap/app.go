package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/honterplatform/icetex/internal/classify"
	"github.com/honterplatform/icetex/internal/extract"
	"github.com/honterplatform/icetex/internal/knowledge"
	"github.com/honterplatform/icetex/internal/llm"
	"github.com/honterplatform/icetex/internal/petitions"
	"github.com/honterplatform/icetex/internal/reduce"
	"github.com/honterplatform/icetex/internal/registry"
	"github.com/honterplatform/icetex/internal/shared/config"
	"github.com/honterplatform/icetex/internal/shared/server"
	"github.com/honterplatform/icetex/internal/shared/storage/db"
	"github.com/honterplatform/icetex/internal/shared/storage/object"
	localstore "github.com/honterplatform/icetex/internal/shared/storage/object/local"
	s3store "github.com/honterplatform/icetex/internal/shared/storage/object/s3"
	"github.com/honterplatform/icetex/internal/shared/telemetry"
)

// App holds the wired dependencies for one process.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Extractor *extract.Extractor
	Knowledge *knowledge.Store
	Registry  *registry.Registry
	Engine    *classify.Engine

	PetitionsRepo    petitions.Repo
	PetitionsService *petitions.Service

	PetitionsHandler *petitions.Handler
	KnowledgeHandler *knowledge.Handler
	RegistryHandler  *registry.Handler
	HealthHandler    *server.HealthHandler
}

// Build prepares shared dependencies and wires the router. The classifier
// is optional in dev (no OPENAI_API_KEY means classification endpoints
// return 503) but required in production.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	telemetry.Init(cfg.Env, cfg.LogLevel)
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
		Config:    app.Config,
		Petitions: app.PetitionsHandler,
		Knowledge: app.KnowledgeHandler,
		Registry:  app.RegistryHandler,
		Health:    app.HealthHandler,
	})

	return app, nil
}

// buildDB connects and migrates the petition store. Dev environments fall
// back to in-memory repositories when no database is reachable.
func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{
				"reason": "DATABASE_URL empty",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{
				"reason": "connect failed",
				"error":  err.Error(),
			})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildEngine constructs the classification engine, or nil when no API key
// is configured in a dev-like environment. The engine is never half-built:
// either every collaborator is present or the engine is absent.
func buildEngine(cfg config.Config, kb classify.KnowledgeSource) (*classify.Engine, error) {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.engine.disabled", map[string]any{
				"reason": "OPENAI_API_KEY empty; classification endpoints will return 503",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	client, err := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("build openai client: %w", err)
	}
	reducer := reduce.New(client, cfg.Model)
	return classify.NewEngine(client, cfg.Model, reducer, kb), nil
}

func buildServices(app *App) error {
	cfg := app.Config

	var repo petitions.Repo
	if app.DB != nil {
		repo = &petitions.PGRepo{DB: app.DB}
	} else {
		repo = petitions.NewMemoryRepo()
	}

	extractor := extract.New(extract.Config{
		Pdftoppm:  cfg.OCRPdftoppmPath,
		Tesseract: cfg.OCRTesseractPath,
		Lang:      cfg.OCRLang,
		DPI:       cfg.OCRDPI,
	})

	kbStore, err := knowledge.NewStore(cfg.KnowledgeDir, extractor, app.Store)
	if err != nil {
		return fmt.Errorf("build knowledge store: %w", err)
	}

	var reg *registry.Registry
	if strings.TrimSpace(cfg.RegistryPath) != "" {
		reg, err = registry.Load(cfg.RegistryPath)
		if err != nil {
			telemetry.Warn("bootstrap.registry.disabled", map[string]any{
				"path":  cfg.RegistryPath,
				"error": err.Error(),
			})
			reg = nil
		}
	} else {
		telemetry.Warn("bootstrap.registry.disabled", map[string]any{
			"reason": "REGISTRY_XLSX_PATH empty",
		})
	}

	engine, err := buildEngine(cfg, kbStore)
	if err != nil {
		return err
	}

	svc := &petitions.Service{
		Extractor: extractor,
		Store:     app.Store,
		Repo:      repo,
	}
	if engine != nil {
		svc.Engine = engine
	}

	health := &server.HealthHandler{
		Model:            cfg.Model,
		OpenAIConfigured: strings.TrimSpace(cfg.OpenAIAPIKey) != "",
		Knowledge:        kbStore,
	}
	if reg != nil {
		health.Registry = reg
	}

	app.Extractor = extractor
	app.Knowledge = kbStore
	app.Registry = reg
	app.Engine = engine
	app.PetitionsRepo = repo
	app.PetitionsService = svc
	app.PetitionsHandler = petitions.NewHandler(svc, cfg.MaxUploadBytes)
	app.KnowledgeHandler = knowledge.NewHandler(kbStore, cfg.MaxUploadBytes)
	app.RegistryHandler = registry.NewHandler(reg)
	app.HealthHandler = health

	return nil
}
