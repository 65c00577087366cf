package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-herbal-store/internal/aws"
	"github.com/imrishuroy/go-herbal-store/internal/config"
	"github.com/imrishuroy/go-herbal-store/internal/handlers"
	"github.com/imrishuroy/go-herbal-store/internal/logging"
	"github.com/imrishuroy/go-herbal-store/internal/seed"
	"github.com/imrishuroy/go-herbal-store/internal/store"
)

const shutdownTimeout = 10 * time.Second

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(cfg.Logger))
	r.Use(handlers.CORS())

	handlers.RegisterRoutes(r, cfg)

	return r
}

// needsAWS reports whether any configured component talks to AWS.
func needsAWS(cfg *config.Config) bool {
	return cfg.OrderEventsQueueURL != "" ||
		cfg.MetricsNamespace != "" ||
		strings.HasPrefix(strings.ToLower(cfg.DatabaseURL), "dynamodb://")
}

// newHandlerConfig wires the optional AWS sinks that are both configured and reachable.
func newHandlerConfig(cfg *config.Config, s store.Store, clients *aws.Clients, logger log.FieldLogger) handlers.HandlerConfig {
	hcfg := handlers.HandlerConfig{
		Store:          s,
		DatabaseURLSet: cfg.DatabaseURLSet(),
		Logger:         logger,
	}
	if pub := clients.Publisher(cfg.OrderEventsQueueURL); pub != nil {
		hcfg.Publisher = pub
	}
	if m := clients.Metrics(cfg.MetricsNamespace); m != nil {
		hcfg.Metrics = m
	}
	return hcfg
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, os.Stdout)
	ctx := context.Background()

	var clients *aws.Clients
	if needsAWS(cfg) {
		clients, err = aws.NewClients(ctx)
		if err != nil {
			// Events and metrics are optional; a dynamodb store falls back to Unavailable.
			logger.WithError(err).Warn("aws clients unavailable, order events and metrics disabled")
		}
	}

	opts := store.Options{
		URL:          cfg.DatabaseURL,
		DatabaseName: cfg.DatabaseName,
		Logger:       logger,
	}
	if clients != nil {
		opts.DynamoDB = clients.DynamoDB
	}
	s := store.Open(ctx, opts)
	defer func() {
		if err := s.Close(context.Background()); err != nil {
			logger.WithError(err).Warn("failed to close store")
		}
	}()

	seed.Run(ctx, s, logger)

	hcfg := newHandlerConfig(cfg, s, clients, logger)
	r := setupRouter(hcfg)

	if config.InLambda() {
		adapter := ginadapter.New(r)
		lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return adapter.ProxyWithContext(ctx, req)
		})
		return
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}
	go func() {
		logger.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
}
