package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/auth"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/chat"
	cfgpkg "github.com/daniel-gharavi/CollegeMarketplace/internal/config"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/events"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/gateway"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/handlers"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/logger"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/marketplace"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/media"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/middleware"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/presence"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/push"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/realtime"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/repository"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/server"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/ws"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := cfgpkg.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	lg, err := logger.New(logger.Config{
		Development: cfg.App.Env != "production",
		Level:       cfg.App.LogLevel,
	})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	mc, err := repository.NewMongoClient(cfg)
	if err != nil {
		lg.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.Database)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	conversations := repository.NewConversationRepo(db.Collection(cfg.Mongo.ConversationsCollection))
	messages := repository.NewMessageRepo(db.Collection(cfg.Mongo.MessagesCollection))
	profiles := repository.NewProfileRepo(db.Collection(cfg.Mongo.ProfilesCollection))
	items := repository.NewItemRepo(db.Collection(cfg.Mongo.ItemsCollection))

	presenceStore := presence.NewStore(rdb, cfg.Redis.Prefix, cfg.PresenceTTL)
	hub := realtime.NewHub()
	instanceID := uuid.NewString()

	var producer *events.Producer
	var consumer *events.Consumer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicMessageSent, instanceID)
		consumer = events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicMessageSent, cfg.Kafka.GroupID, instanceID, logger.Named("events"))
	}

	var lifecycle *events.LifecyclePublisher
	if cfg.Nats.URL != "" {
		lifecycle, err = events.NewLifecyclePublisher(cfg.Nats.URL)
		if err != nil {
			lg.Warnw("nats connect", "err", err)
		}
	}

	pusher := push.NewExpoClient(cfg.Push.Endpoint, cfg.PushTimeout)

	gw := gateway.New(gateway.Deps{
		Conversations: conversations,
		Messages:      messages,
		Profiles:      profiles,
		Presence:      presenceStore,
		Hub:           hub,
		Producer:      producer,
		Lifecycle:     lifecycle,
		Pusher:        pusher,
		Log:           lg,
	})
	gate := chat.NewGate(gw, lg, rate.Limit(cfg.Push.RatePerSecond), cfg.Push.Burst)

	var mediaHandler *handlers.MediaHandler
	if cfg.S3.Bucket != "" {
		store, err := media.NewS3Store(context.Background(), cfg.S3.Region, cfg.S3.Bucket, cfg.S3.PublicRead)
		if err != nil {
			lg.Fatalw("s3 init", "err", err)
		}
		mediaHandler = handlers.NewMediaHandler(media.NewService(store))
	}

	validator, err := auth.NewJWTValidator(cfg.JWT.SigningMethod, cfg.JWT.Secret, cfg.JWT.PublicKeyPath)
	if err != nil {
		lg.Fatalw("jwt validator", "err", err)
	}

	app := server.New(server.Deps{
		Chat:      handlers.NewChatHandler(gw, gate, conversations, profiles, logger.Named("chat")),
		Items:     handlers.NewItemHandler(marketplace.NewService(items)),
		Media:     mediaHandler,
		WS:        ws.NewServer(gw, logger.Named("ws")),
		Validator: validator,
		RateLimit: middleware.NewRateLimiter(rdb, cfg.Redis.Prefix, cfg.RateLimit.Requests, cfg.RateLimitWindow),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if consumer != nil {
		go gw.RunEventBridge(ctx, consumer)
	}

	go func() {
		if err := app.Listen(cfg.ListenAddr()); err != nil {
			lg.Fatalw("server listen", "err", err)
		}
	}()
	lg.Infow("server started", "addr", cfg.ListenAddr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	if producer != nil {
		_ = producer.Close()
	}
	if consumer != nil {
		_ = consumer.Close()
	}
	lifecycle.Close()
	lg.Infow("server stopped")
}
