// Package handler is the HTTP surface the view layer talks to. Every
// endpoint maps the error taxonomy onto a status code and flags the
// transient classes as retryable so the UI can word its message
// accordingly.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/server-craftsman/manage-post/internal/auth"
	"github.com/server-craftsman/manage-post/internal/models"
	"github.com/server-craftsman/manage-post/internal/notify"
	"github.com/server-craftsman/manage-post/internal/posts"
	"github.com/server-craftsman/manage-post/internal/remote"
	"github.com/server-craftsman/manage-post/internal/session"
	"github.com/server-craftsman/manage-post/internal/validation"
)

type Handler struct {
	auth       *auth.Service
	posts      *posts.Manager
	sessions   session.Store
	notify     *notify.Poller
	sessionTTL time.Duration
}

func NewHandler(
	authService *auth.Service,
	postManager *posts.Manager,
	sessionStore session.Store,
	poller *notify.Poller,
	sessionTTL time.Duration,
) *Handler {
	return &Handler{
		auth:       authService,
		posts:      postManager,
		sessions:   sessionStore,
		notify:     poller,
		sessionTTL: sessionTTL,
	}
}

func cookieOptions() session.CookieOptions {
	return session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// startSession persists a new session record for user and issues the
// cookie. Returns false after writing the error response on failure.
func (h *Handler) startSession(c *gin.Context, user models.User) bool {

	sessionID, err := session.GenerateID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return false
	}

	now := time.Now()
	expiresAt := now.Add(h.sessionTTL)

	rec := session.Record{
		SessionID: sessionID,
		User:      user,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := h.sessions.Create(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return false
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, cookieOptions())
	return true
}

// writeError maps the error taxonomy to HTTP. Transient failures get a
// retryable hint; nothing here retries on the caller's behalf.
func writeError(c *gin.Context, err error) {

	var fieldErr validation.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Error()})
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrUnauthorizedRole):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, posts.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, posts.ErrInvalidStatus),
		errors.Is(err, posts.ErrImageTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case remote.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case remote.IsPayloadTooLarge(err):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
	case remote.IsServiceUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "service unavailable, try again later",
			"retryable": true,
		})
	case remote.IsNetworkOrTimeout(err):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "could not reach the backing store",
			"retryable": true,
		})
	default:
		var re *remote.Error
		if errors.As(err, &re) {
			msg := re.Message
			if msg == "" {
				msg = "store rejected the request"
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
