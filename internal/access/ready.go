package access

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Readiness is a one-shot "dependencies are up" signal. Callers wait on it
// instead of retrying until the store answers.
type Readiness struct {
	once sync.Once
	ch   chan struct{}
}

// NewReadiness creates an unready signal.
func NewReadiness() *Readiness {
	return &Readiness{ch: make(chan struct{})}
}

// MarkReady flips the signal. Subsequent calls are no-ops.
func (r *Readiness) MarkReady() {
	r.once.Do(func() { close(r.ch) })
}

// Ready reports whether MarkReady has been called.
func (r *Readiness) Ready() bool {
	select {
	case <-r.ch:
		return true
	default:
		return false
	}
}

// Wait blocks until ready or ctx is done.
func (r *Readiness) Wait(ctx context.Context) error {
	select {
	case <-r.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Middleware holds requests for up to timeout while the signal is unready
// and answers 503 if it does not flip in time.
func (r *Readiness) Middleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.Ready() {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		if err := r.Wait(ctx); err != nil {
			c.Header("Retry-After", "5")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":     "moderation service not ready",
				"retryable": true,
			})
			return
		}
		c.Next()
	}
}
