package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/medibot/clinic-assistant/internal/api"
	"github.com/medibot/clinic-assistant/internal/assistant"
	"github.com/medibot/clinic-assistant/internal/auth"
	"github.com/medibot/clinic-assistant/internal/booking"
	"github.com/medibot/clinic-assistant/internal/config"
	"github.com/medibot/clinic-assistant/internal/db"
	redisclient "github.com/medibot/clinic-assistant/internal/redis"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	revoked := auth.NewRedisRevocationStore(rdb)
	creds := auth.DoctorCredentials{
		Username:     cfg.DoctorUsername,
		PasswordHash: cfg.DoctorPassword,
		FullName:     cfg.DoctorFullName,
	}

	repo := booking.NewPgRepository(pgPool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	bookings := booking.NewService(repo, locker, cfg.SlotDuration)

	var responder assistant.Responder
	if cfg.OpenAIAPIKey != "" {
		responder = assistant.NewOpenAIResponder(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Println("OPENAI_API_KEY not set, using the local datetime parser only")
	}
	chatSvc := assistant.NewService(responder, bookings)

	router := api.NewRouter(api.RouterConfig{
		Issuer:         issuer,
		Revoked:        revoked,
		DoctorCreds:    creds,
		Assistant:      chatSvc,
		Bookings:       bookings,
		UserinfoURL:    cfg.UserinfoURL,
		FeedWindowDays: cfg.FeedWindowDays,
		PgPool:         pgPool,
		Redis:          rdb,
		Env:            cfg.Env,
		Version:        version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
