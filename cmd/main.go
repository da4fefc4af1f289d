package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	// Instrumentation
	"github.com/exaring/otelpgx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/jupiterclapton/pictogram/config"
	http_adapter "github.com/jupiterclapton/pictogram/internal/adapters/primary/http"
	"github.com/jupiterclapton/pictogram/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/pictogram/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/pictogram/internal/adapters/secondary/security"
	"github.com/jupiterclapton/pictogram/internal/adapters/secondary/sessions"
	"github.com/jupiterclapton/pictogram/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg := config.Load()
	initLogger(cfg)
	slog.Info("🚀 Starting Pictogram", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Télémétrie (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Infrastructure: Base de données (Postgres)
	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		slog.Error("Unable to parse DB config", "error", err)
		os.Exit(1)
	}
	// Instrumentation SQL (Pour voir les requêtes dans Jaeger)
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := repository.EnsureSchema(ctx, dbPool); err != nil {
		slog.Error("Unable to ensure database schema", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Postgres")

	// 4. Infrastructure: Graphe social (Neo4j)
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		slog.Error("Failed to create neo4j driver", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	graphRepo := repository.NewNeo4jGraphRepo(driver)
	if err := graphRepo.EnsureSchema(ctx); err != nil {
		slog.Error("Unable to ensure graph schema", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Neo4j")

	// 5. Infrastructure: Redis (révocation de tokens)
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	// Instrumentation Redis
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		panic(err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("✅ Connected to Redis")

	// 6. Infrastructure: Event Broker (NATS)
	nc, err := nats.Connect(cfg.NatsUrl)
	if err != nil {
		slog.Error("Unable to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	slog.Info("✅ Connected to NATS")

	// 7. Initialisation des Adapters (Driven)
	userRepo := repository.NewPostgresUserRepo(dbPool)
	postRepo := repository.NewPostgresPostRepo(dbPool)
	commentRepo := repository.NewPostgresCommentRepo(dbPool)
	likeSet := repository.NewPostgresLikeSet(dbPool)
	bookmarkSet := repository.NewPostgresBookmarkSet(dbPool)
	convRepo := repository.NewPostgresChatRepo(dbPool)
	eventPub := eventbroker.NewNatsPublisher(nc)
	hasher := security.NewArgon2Hasher(security.DefaultParams)
	revoker := sessions.NewRedisRevoker(rdb)

	privPEM, err := os.ReadFile(cfg.JWTPrivateKeyFile)
	if err != nil {
		slog.Error("Unable to read JWT private key", "error", err)
		os.Exit(1)
	}
	pubPEM, err := os.ReadFile(cfg.JWTPublicKeyFile)
	if err != nil {
		slog.Error("Unable to read JWT public key", "error", err)
		os.Exit(1)
	}
	tokens, err := security.NewJWTProvider(privPEM, pubPEM)
	if err != nil {
		slog.Error("Unable to parse JWT keys", "error", err)
		os.Exit(1)
	}

	// 8. Initialisation du Core (Domain Logic)
	identitySvc := services.NewIdentityService(userRepo, hasher, tokens, revoker, eventPub)
	graphSvc := services.NewGraphService(graphRepo, userRepo, eventPub)
	postSvc := services.NewPostService(postRepo, userRepo, eventPub)
	interactionSvc := services.NewInteractionService(postRepo, commentRepo, likeSet, bookmarkSet)
	feedSvc := services.NewFeedService(postRepo, commentRepo, likeSet, userRepo, graphRepo)
	chatSvc := services.NewChatService(convRepo, userRepo, eventPub)

	// 9. Initialisation du Primary Adapter (HTTP)
	server := &http_adapter.Server{
		Logger:       slog.Default(),
		Identity:     identitySvc,
		Graph:        graphSvc,
		Posts:        postSvc,
		Interactions: interactionSvc,
		Feed:         feedSvc,
		Chat:         chatSvc,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           otelhttp.NewHandler(server, "pictogram-http"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 10. Démarrage
	slog.Info("📡 Pictogram listening", "port", cfg.HTTPPort)

	// Graceful Shutdown
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1) // Fatal en prod
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
	slog.Info("👋 Server exited")
}

// --- Helpers (À déplacer un jour dans pkg/telemetry et pkg/logger) ---

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("pictogram"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
