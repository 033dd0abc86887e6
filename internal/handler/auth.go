package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/server-craftsman/manage-post/internal/auth"
	"github.com/server-craftsman/manage-post/internal/logger"
	"github.com/server-craftsman/manage-post/internal/middleware"
	"github.com/server-craftsman/manage-post/internal/models"
	"github.com/server-craftsman/manage-post/internal/session"
	"github.com/server-craftsman/manage-post/internal/validation"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v := validation.New().
		Required("email", req.Email).
		Required("password", req.Password)
	if v.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": v.FirstError()})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	if !h.startSession(c, *user) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"` // data-URI, already compressed client-side
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v := validation.New().
		Required("name", req.Name).
		MaxLength("name", req.Name, 100).
		Required("email", req.Email).
		Email("email", req.Email).
		Required("password", req.Password).
		MinLength("password", req.Password, 6)
	if v.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": v.FirstError()})
		return
	}

	// Self-registration is always a customer account.
	user, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
		Role:     models.RoleCustomer,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if !h.startSession(c, *user) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.Public()})
}

// Logout destroys the session. The store delete is best-effort; the
// cookie is cleared and the caller gets 204 no matter what.
func (h *Handler) Logout(c *gin.Context) {

	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(c.Request.Context(), cookie.Value); err != nil {
			logger.Warn("session delete on logout failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	session.ClearCookie(c.Writer, cookieOptions())

	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	rec, ok := middleware.CurrentSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": rec.User.Public()})
}

type updateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`

	// Email change requires re-stating the current email.
	Email    *string `json:"email"`
	OldEmail string  `json:"oldEmail"`

	// Password change requires the current password.
	NewPassword string `json:"newPassword"`
	OldPassword string `json:"oldPassword"`
}

// UpdateMe applies a partial profile change for the logged-in user and
// reconciles the persisted session with the updated record. The
// reconcile only ever targets the caller's own session: this endpoint
// cannot touch another user's record.
func (h *Handler) UpdateMe(c *gin.Context) {
	rec, ok := middleware.CurrentSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	changes := auth.ProfileChanges{
		Name:   req.Name,
		Avatar: req.Avatar,
	}

	if req.Email != nil {
		v := validation.New().
			Required("oldEmail", req.OldEmail).
			Required("email", *req.Email).
			Email("email", *req.Email)
		if v.HasErrors() {
			c.JSON(http.StatusBadRequest, gin.H{"error": v.FirstError()})
			return
		}
		if !auth.CheckOldEmail(rec.User, req.OldEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "current email is incorrect"})
			return
		}
		if *req.Email == req.OldEmail {
			c.JSON(http.StatusBadRequest, gin.H{"error": "new email must differ from the current one"})
			return
		}
		changes.Email = req.Email
	}

	if req.NewPassword != "" {
		v := validation.New().
			Required("oldPassword", req.OldPassword).
			MinLength("newPassword", req.NewPassword, 6)
		if v.HasErrors() {
			c.JSON(http.StatusBadRequest, gin.H{"error": v.FirstError()})
			return
		}
		if !auth.CheckOldPassword(rec.User, req.OldPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "current password is incorrect"})
			return
		}
		if req.NewPassword == req.OldPassword {
			c.JSON(http.StatusBadRequest, gin.H{"error": "new password must differ from the current one"})
			return
		}
		changes.Password = &req.NewPassword
	}

	updated, err := h.auth.UpdateProfile(c.Request.Context(), rec.User.ID, changes)
	if err != nil {
		writeError(c, err)
		return
	}

	// Reconcile cache and persisted copy with the updated record.
	rec.User = *updated
	if err := h.sessions.Update(c.Request.Context(), *rec); err != nil {
		logger.Warn("session reconcile failed", map[string]any{
			"error": err.Error(),
			"user":  updated.ID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"user": updated.Public()})
}

// CheckEmail is the advisory pre-flight the registration and profile
// forms call while the user types.
func (h *Handler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	exists, err := h.auth.CheckEmailExists(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
