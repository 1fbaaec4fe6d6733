package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"orbit-server/internal/config"
	"orbit-server/internal/db"
	"orbit-server/internal/email"
	apihttp "orbit-server/internal/http"
	"orbit-server/internal/match"
	"orbit-server/internal/metrics"
	"orbit-server/internal/repository"
	"orbit-server/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	quizAnswerRepo := repository.NewPgQuizAnswerRepository(pool)
	crewRepo := repository.NewPgCrewRepository(pool)
	missionRepo := repository.NewPgMissionRepository(pool)
	signalRepo := repository.NewPgSignalRepository(pool)
	podRepo := repository.NewPgPodRepository(pool)
	contactRepo := repository.NewPgContactInfoRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		otpLimiter  service.OTPRateLimiter
		tokenStore  service.RefreshTokenStore
		matchCache  service.MatchCache
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, 10*time.Minute, 3)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			matchCache = service.NewRedisMatchCache(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)

	quizEngine, err := match.NewQuizEngine(match.VibeCheckQuestions())
	if err != nil {
		logger.Fatal("quiz engine init", zap.Error(err))
	}
	ranker := match.NewRanker()

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics()
	if err := m.Register(registry); err != nil {
		logger.Fatal("metrics register", zap.Error(err))
	}

	userSvc := service.NewUserService(logger, userRepo, emailSender, otpLimiter)
	profileSvc := service.NewProfileService(logger, profileRepo, contactRepo, matchCache)
	quizSvc := service.NewVibeCheckService(logger, quizEngine, quizAnswerRepo, profileRepo, matchCache, m)
	discoverSvc := service.NewDiscoveryService(logger, profileRepo, crewRepo, missionRepo, ranker, matchCache, m, cfg.DiscoverPoolSize)
	signalSvc := service.NewSignalService(logger, signalRepo, podRepo, profileRepo, contactRepo, ranker, m, cfg.DiscoverPoolSize)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	profileHandler := apihttp.NewProfileHandler(logger, profileSvc)
	quizHandler := apihttp.NewQuizHandler(logger, quizSvc)
	discoverHandler := apihttp.NewDiscoverHandler(logger, discoverSvc)
	signalHandler := apihttp.NewSignalHandler(logger, signalSvc)
	healthHandler := apihttp.NewHealthHandler(pool, redisClient)

	router := apihttp.NewRouter(logger, jwtSvc, userHandler, profileHandler, quizHandler, discoverHandler, signalHandler, healthHandler, registry)

	// Barrido periodico de signals vencidas.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := signalSvc.ExpireSignals(ctx); err != nil {
				logger.Warn("expire signals failed", zap.Error(err))
			}
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
