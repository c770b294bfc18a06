package main

import (
	"context"
	"fmt"

	"storefront/internal/analytics"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/repository"
)

// app agrupa las dependencias compartidas por los subcomandos
type app struct {
	cfg   *config.Config
	log   *logger.ZapLogger
	mongo *database.Mongo

	products   *repository.ProductRepository
	categories *repository.CategoryRepository
	orders     *repository.OrderRepository
	reviews    *repository.ReviewRepository
	posts      *repository.PostRepository
	comments   *repository.CommentRepository
	engine     analytics.Engine
}

func bootstrap(envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	if cfg.EnvFile != "" {
		log.Info(".env file loaded", "path", cfg.EnvFile)
	} else {
		log.Info("using system environment variables")
	}

	mongo, err := database.Connect(database.Config{
		URI:              cfg.MongoURI,
		Database:         cfg.MongoDB,
		ConnectTimeout:   cfg.MongoConnectTimeout,
		OperationTimeout: cfg.MongoOperationTimeout,
	}, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	db := mongo.Database()
	a := &app{
		cfg:        cfg,
		log:        log,
		mongo:      mongo,
		products:   repository.NewProductRepository(db.Collection(database.ProductsCollection)),
		categories: repository.NewCategoryRepository(db.Collection(database.CategoriesCollection)),
		orders:     repository.NewOrderRepository(db.Collection(database.OrdersCollection)),
		reviews:    repository.NewReviewRepository(db.Collection(database.ReviewsCollection)),
		posts:      repository.NewPostRepository(db.Collection(database.PostsCollection)),
		comments:   repository.NewCommentRepository(db.Collection(database.CommentsCollection)),
	}

	native := repository.NewAnalyticsRepository(a.orders, a.reviews, a.products, a.categories)
	a.engine = newEngine(cfg.AnalyticsEngine, native, log)
	log.Info("analytics engine selected", "engine", cfg.AnalyticsEngine)

	return a, nil
}

// newEngine elige entre el pipeline de agregación de MongoDB y el pipeline en memoria
func newEngine(kind string, native *repository.AnalyticsRepository, log logger.Logger) analytics.Engine {
	var engine analytics.Engine = native
	if kind == config.EnginePipeline {
		engine = analytics.NewService(native)
	}
	return analytics.NewInstrumented(engine, log)
}

func (a *app) ensureIndexes(ctx context.Context) error {
	if err := database.EnsureIndexes(ctx, a.mongo.Database()); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

func (a *app) close() {
	if err := a.mongo.Close(); err != nil {
		a.log.Error("close mongodb", "error", err)
	}
	_ = a.log.Sync()
}
