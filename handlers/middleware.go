package handlers

import (
	"fmt"
	"math"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vit0-9/domain_lookup/models"
)

const (
	SessionCookieName = "sessionId"
	sessionContextKey = "sessionId"
	sessionMaxAge     = 30 * 24 * 60 * 60 // seconds
)

var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,61}[a-zA-Z0-9]?\.[a-zA-Z]{2,}$`)

// CORSMiddleware allows credentialed requests from the listed origins and answers preflights.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// SessionMiddleware issues a sessionId cookie when the request carries none.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(SessionCookieName, sessionID, sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionContextKey, sessionID)
		c.Next()
	}
}

// SessionID returns the session assigned by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a per-client fixed-window request limiter.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	message string
	clients map[string]*rateWindow
	now     func() time.Time
}

func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{
		window:  window,
		limit:   limit,
		message: "Too many requests from this IP, please try again later",
		clients: make(map[string]*rateWindow),
		now:     time.Now,
	}
}

// Allow counts a request from key and reports whether it is within the limit.
// When it is not, the time until the window resets is returned.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, w := range l.clients {
		if !now.Before(w.resetAt) {
			delete(l.clients, k)
		}
	}

	w, ok := l.clients[key]
	if !ok {
		w = &rateWindow{resetAt: now.Add(l.window)}
		l.clients[key] = w
	}
	if w.count >= l.limit {
		return false, w.resetAt.Sub(now)
	}
	w.count++
	return true, 0
}

// Middleware rejects clients over the limit with 429 and a retryAfter hint.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := l.Allow(c.ClientIP())
		if !ok {
			retryAfter := int(math.Ceil(wait.Seconds()))
			c.Header("Retry-After", fmt.Sprint(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.RateLimitResponse{
				Error:      l.message,
				RetryAfter: retryAfter,
			})
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// ErrorHandler turns panics and unanswered handler errors into a 500 JSON body.
// In production the error text is replaced with a generic message.
func ErrorHandler(log *zap.Logger, production bool) gin.HandlerFunc {
	respond := func(c *gin.Context, err error) {
		message := err.Error()
		if production {
			message = "Internal server error"
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic while handling request", zap.Any("panic", r), zap.String("path", c.Request.URL.Path))
				respond(c, fmt.Errorf("%v", r))
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			log.Error("request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			respond(c, err)
		}
	}
}

// ValidateDomain rejects requests whose domain query parameter is missing or malformed.
func ValidateDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := c.Query("domain")
		if d == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Domain parameter is required"})
			return
		}
		if !domainPattern.MatchString(d) {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid domain format"})
			return
		}
		c.Next()
	}
}
