package rest

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"coachdash/internal/domain"
)

const (
	authorizationHeader = "Authorization"
	sessionCookie       = "coachdash_session"
	rememberCookie      = "coachdash_remember_email"
	sessionCtx          = "session"
)

func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := h.logger.With(
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		)

		if status >= 500 {
			logger.Error("server error")
		} else if status >= 400 {
			logger.Warn("client error")
		} else {
			logger.Info("request processed")
		}
	}
}

func (h *Handler) errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			h.logger.Debug("request error", zap.String("path", c.FullPath()), zap.Error(err))
		}
	}
}

func (h *Handler) securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     h.config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// Credentials are never shared with a wildcard origin.
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}

// csrfMiddleware protects cookie-authenticated form posts. JSON and bearer
// requests cannot be forged by a plain HTML form and pass through.
func (h *Handler) csrfMiddleware() gin.HandlerFunc {
	protect := csrf.Protect(
		h.csrfKey,
		csrf.Secure(h.config.HTTP.SecureCookie),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(h.config.CSRF.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.logger.Warn("csrf check failed", zap.String("path", r.URL.Path), zap.Error(csrf.FailureReason(r)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"status":"error","message":"Invalid CSRF token","code":403}`))
		})),
	)

	return func(c *gin.Context) {
		if csrfExempt(c.Request) {
			c.Next()
			return
		}

		r := c.Request
		if !h.config.HTTP.SecureCookie {
			r = csrf.PlaintextHTTPRequest(r)
		}

		passed := false
		protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, r)

		if !passed {
			c.Abort()
		}
	}
}

func csrfExempt(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return r.URL.Path != "/api/v1/csrf"
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	if strings.HasPrefix(r.Header.Get(authorizationHeader), "Bearer ") {
		return true
	}
	_, err := r.Cookie(sessionCookie)
	return err != nil
}

// ipRateLimiter hands out one token bucket per client IP.
type ipRateLimiter struct {
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(perMinute, burst int) *ipRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (l *ipRateLimiter) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep forgets IPs idle for longer than idle.
func (l *ipRateLimiter) sweep(now time.Time, idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, v := range l.limiters {
		if now.Sub(v.lastSeen) > idle {
			delete(l.limiters, ip)
		}
	}
}

func (h *Handler) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !h.limiter.get(ip, time.Now()).Allow() {
			h.logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			errorResponse(c, http.StatusTooManyRequests, "Too many attempts. Try again later.")
			return
		}
		c.Next()
	}
}

// bearerToken reads the session JWT from the Authorization header or the session cookie.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader(authorizationHeader); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorizedResponse(c)
			return
		}

		session, err := h.services.Auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.handleError(c, err, "Authentication required")
			return
		}

		c.Set(sessionCtx, session)
		c.Next()
	}
}

func (h *Handler) coachMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := getSession(c)
		if !ok {
			unauthorizedResponse(c)
			return
		}
		if session.Role != domain.RoleCoach {
			errorResponse(c, http.StatusForbidden, "Only coaches can access the dashboard")
			return
		}
		c.Next()
	}
}

func getSession(c *gin.Context) (*domain.Session, bool) {
	v, ok := c.Get(sessionCtx)
	if !ok {
		return nil, false
	}
	session, ok := v.(*domain.Session)
	return session, ok && session != nil
}
