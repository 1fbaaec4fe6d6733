package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"orbit-server/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtServ *service.JWTService,
	userH *UserHandler,
	profileH *ProfileHandler,
	quizH *QuizHandler,
	discoverH *DiscoverHandler,
	signalH *SignalHandler,
	healthH *HealthHandler,
	registry *prometheus.Registry,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	// Rutas publicas.
	r.GET("/health", healthH.Health)
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	users := r.Group("/users")
	users.POST("", userH.CreateUser)

	auth := r.Group("/auth")
	auth.POST("/otp/request", userH.RequestOTP)
	auth.POST("/otp/verify", userH.VerifyOTP)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	// Rutas autenticadas.
	authed := r.Group("", JWTAuthMiddleware(jwtServ))

	profiles := authed.Group("/profiles")
	profiles.GET("/me", profileH.GetMe)
	profiles.PUT("/me", profileH.UpdateMe)
	profiles.GET("/:user_id", profileH.GetByUserID)

	authed.PUT("/contact-info", profileH.UpdateContactInfo)

	quiz := authed.Group("/quiz")
	quiz.GET("/questions", quizH.Questions)
	quiz.POST("/answers", quizH.SubmitAnswers)
	quiz.POST("/complete", quizH.Complete)
	quiz.POST("/skip", quizH.Skip)

	discover := authed.Group("/discover")
	discover.GET("/users", discoverH.Users)
	discover.GET("/crews", discoverH.Crews)
	discover.GET("/missions", discoverH.Missions)

	signals := authed.Group("/signals")
	signals.POST("/search", signalH.Search)
	signals.GET("/pending", signalH.Pending)
	signals.POST("/:id/accept", signalH.Accept)

	pods := authed.Group("/pods")
	pods.GET("/active", signalH.ActivePods)
	pods.POST("/:id/reveal", signalH.Reveal)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
