package rest

import (
	"crypto/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"coachdash/config"
	"coachdash/internal/content"
	"coachdash/internal/service"
	"coachdash/internal/transport/websocket"
)

type Handler struct {
	services *service.Services
	hub      *websocket.NotificationHub
	terms    *content.Terms
	logger   *zap.Logger
	config   *config.Config
	limiter  *ipRateLimiter
	csrfKey  []byte
}

func NewHandler(services *service.Services, hub *websocket.NotificationHub, terms *content.Terms, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		hub:      hub,
		terms:    terms,
		logger:   logger,
		config:   config,
		limiter:  newIPRateLimiter(config.RateLimit.AuthPerMinute, config.RateLimit.AuthBurst),
		csrfKey:  csrfKey(config.CSRF.Key, logger),
	}
}

// csrfKey turns the configured secret into the 32-byte key gorilla/csrf needs.
// Without a secret a random key is used, so tokens do not survive a restart.
func csrfKey(secret string, logger *zap.Logger) []byte {
	if secret == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(err)
		}
		logger.Warn("CSRF_KEY not set, using a random key")
		return key
	}
	if len(secret) == 32 {
		return []byte(secret)
	}
	sum := blake2b.Sum256([]byte(secret))
	return sum[:]
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.securityHeaders())

	router.Use(h.corsMiddleware())

	router.Use(h.csrfMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NoRoute(func(c *gin.Context) {
		notFoundResponse(c, "Route not found")
	})

	api := router.Group("/api/v1")
	{
		api.GET("/terms", h.getTerms)
		api.GET("/csrf", h.getCSRFToken)
		api.GET("/services", h.getServices)

		registration := api.Group("/registration")
		{
			registration.POST("", h.startRegistration)
			registration.GET("/:id", h.getRegistration)
			registration.GET("/:id/events", h.registrationEvents)
			registration.PUT("/:id/basic", h.advanceRegistration)
			registration.POST("/:id/back", h.retreatRegistration)
			registration.PUT("/:id/professional", h.saveProfessional)

			registration.POST("/:id/skills", h.addSkill)
			registration.PUT("/:id/skills/:index", h.updateSkill)
			registration.DELETE("/:id/skills/:index", h.removeSkill)

			registration.POST("/:id/availability", h.addAvailability)
			registration.PUT("/:id/availability/:day", h.updateDay)
			registration.DELETE("/:id/availability/:day", h.removeAvailability)
			registration.POST("/:id/availability/:day/slots", h.addSlot)
			registration.PUT("/:id/availability/:day/slots/:slot", h.updateSlot)
			registration.DELETE("/:id/availability/:day/slots/:slot", h.removeSlot)

			registration.POST("/:id/profile-picture", h.uploadProfilePicture)
			registration.POST("/:id/certifications", h.uploadCertifications)
			registration.DELETE("/:id/certifications/:fileId", h.removeCertification)

			registration.POST("/:id/submit", h.submitRegistration)
		}

		auth := api.Group("/auth")
		{
			auth.GET("/login-defaults", h.loginDefaults)
			auth.POST("/logout", h.logout)

			limited := auth.Group("", h.rateLimitMiddleware())
			{
				limited.POST("/login", h.login)
				limited.POST("/forget-password", h.forgetPassword)
				limited.POST("/verify-code", h.verifyCode)
				limited.POST("/reset-password", h.resetPassword)
			}
		}

		coach := api.Group("", h.authMiddleware(), h.coachMiddleware())
		{
			profile := coach.Group("/profile")
			{
				profile.GET("", h.getProfile)
				profile.GET("/user", h.getProfileUser)
				profile.PUT("", h.updateProfile)
				profile.POST("/change-password", h.changePassword)
			}

			dashboard := coach.Group("/dashboard")
			{
				dashboard.GET("/stats", h.getStats)
				dashboard.GET("/bookings", h.getBookings)
				dashboard.PUT("/bookings/:id/approve", h.approveBooking)
				dashboard.GET("/wallet", h.getWallet)
			}

			coach.GET("/ws/notifications", h.notifications)
		}
	}
}

// StartLimiterSweeper drops idle rate-limit buckets until stop is closed.
func (h *Handler) StartLimiterSweeper(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				h.limiter.sweep(now, 10*time.Minute)
			}
		}
	}()
}

func pathIndex(c *gin.Context, name string) (int, bool) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil || i < 0 {
		badRequestResponse(c, "Invalid "+name)
		return 0, false
	}
	return i, true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
