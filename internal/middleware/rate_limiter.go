package middleware

import (
	"net/http"
	"sync"
	"time"

	"commet/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// limiter is an in-memory fixed-window counter keyed by client IP.
// Entries for IPs that stop sending traffic are purged in the background.
type limiter struct {
	mu      sync.Mutex
	entries map[string]*windowCounter
	limit   int
	window  time.Duration
	mensaje string
}

type windowCounter struct {
	count     int
	windowEnd time.Time
}

func newLimiter(limit int, window time.Duration, mensaje string) *limiter {
	l := &limiter{
		entries: make(map[string]*windowCounter),
		limit:   limit,
		window:  window,
		mensaje: mensaje,
	}
	go l.purgeLoop()
	return l
}

// allow counts one hit for ip and reports whether it stays under the limit.
// The window end is returned for the Retry-After header.
func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	wc, ok := l.entries[ip]
	if !ok || now.After(wc.windowEnd) {
		wc = &windowCounter{windowEnd: now.Add(l.window)}
		l.entries[ip] = wc
	}
	wc.count++
	return wc.count <= l.limit, wc.windowEnd
}

func (l *limiter) purgeLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		purged := 0
		for ip, wc := range l.entries {
			if now.After(wc.windowEnd) {
				delete(l.entries, ip)
				purged++
			}
		}
		l.mu.Unlock()
		if purged > 0 {
			log.Debug().Int("purged", purged).Msg("rate limiter: entradas expiradas eliminadas")
		}
	}
}

func (l *limiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// RateLimiter is the general limiter applied to the whole API surface.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimiter(limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}
