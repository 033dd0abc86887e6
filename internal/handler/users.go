package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/server-craftsman/manage-post/internal/auth"
	"github.com/server-craftsman/manage-post/internal/logger"
	"github.com/server-craftsman/manage-post/internal/middleware"
	"github.com/server-craftsman/manage-post/internal/models"
	"github.com/server-craftsman/manage-post/internal/validation"
)

// Admin user management. Routes in this file sit behind the admin role
// gate.

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]models.PublicUser, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.auth.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
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
		MinLength("password", req.Password, 6).
		Required("role", req.Role).
		OneOf("role", req.Role, models.RoleAdmin, models.RoleCustomer)
	if v.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": v.FirstError()})
		return
	}

	user, err := h.auth.CreateUser(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
		Role:     req.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.Public()})
}

type adminUpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UpdateUser applies an admin's partial change to any user record. The
// admin's own session is reconciled if and only if the edited record
// is their own; editing someone else never rewrites the editor's
// session.
func (h *Handler) UpdateUser(c *gin.Context) {
	rec, _ := middleware.CurrentSession(c.Request.Context())

	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Email != nil {
		v := validation.New().
			Required("email", *req.Email).
			Email("email", *req.Email)
		if v.HasErrors() {
			c.JSON(http.StatusBadRequest, gin.H{"error": v.FirstError()})
			return
		}
	}
	if req.Password != nil {
		v := validation.New().MinLength("password", *req.Password, 6)
		if v.HasErrors() {
			c.JSON(http.StatusBadRequest, gin.H{"error": v.FirstError()})
			return
		}
	}

	id := c.Param("id")

	updated, err := h.auth.UpdateProfile(c.Request.Context(), id, auth.ProfileChanges{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if rec != nil && rec.User.ID == updated.ID {
		rec.User = *updated
		if err := h.sessions.Update(c.Request.Context(), *rec); err != nil {
			logger.Warn("session reconcile failed", map[string]any{
				"error": err.Error(),
				"user":  updated.ID,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": updated.Public()})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.auth.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
