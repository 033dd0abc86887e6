package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/server-craftsman/manage-post/internal/middleware"
	"github.com/server-craftsman/manage-post/internal/models"
	"github.com/server-craftsman/manage-post/internal/posts"
	"github.com/server-craftsman/manage-post/internal/validation"
)

// ListPosts fetches the collection and applies the client-side
// filter/sort/pagination the store cannot do: status, free-text query,
// creation-date range, newest-first, offset/limit.
func (h *Handler) ListPosts(c *gin.Context) {

	all, err := h.posts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	f := posts.Filter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			f.CreatedFrom = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			f.CreatedTo = t
		}
	}

	filtered := posts.Apply(all, f)
	posts.SortNewestFirst(filtered)

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	page := posts.Paginate(filtered, offset, limit)

	c.JSON(http.StatusOK, gin.H{
		"posts": page,
		"total": len(filtered),
	})
}

func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.posts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *Handler) PostsByUser(c *gin.Context) {
	list, err := h.posts.ByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	posts.SortNewestFirst(list)
	c.JSON(http.StatusOK, gin.H{"posts": list})
}

func (h *Handler) PostCount(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	count, err := h.posts.CountByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type createPostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`

	// Either a ready-made data-URI string, or raw base64 bytes plus a
	// content type for the server to encode.
	PostImage string `json:"postImage"`
	ImageData string `json:"imageData"`
	ImageType string `json:"imageType"`
}

func (h *Handler) CreatePost(c *gin.Context) {
	rec, _ := middleware.CurrentSession(c.Request.Context())

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v := validation.New().
		Required("title", req.Title).
		MaxLength("title", req.Title, 255).
		Required("description", req.Description).
		OneOf("status", req.Status,
			models.StatusPublished, models.StatusDraft, models.StatusPrivate)
	if v.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": v.FirstError()})
		return
	}

	var image []byte
	if req.ImageData != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "imageData: must be valid base64"})
			return
		}
		image = decoded
	}

	var actor *models.User
	if rec != nil {
		actor = &rec.User
	}

	created, err := h.posts.Create(c.Request.Context(), actor, models.Post{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		PostImage:   req.PostImage,
	}, image, req.ImageType)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": created})
}

type updatePostRequest struct {
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	PostImage   string    `json:"postImage"`
	CreateDate  time.Time `json:"createDate"`
}

// UpdatePost is a full-record replace: the caller supplies the whole
// post and nothing gets silently dropped. UpdateDate is rewritten by
// the manager regardless of what the caller sent.
func (h *Handler) UpdatePost(c *gin.Context) {
	rec, ok := middleware.CurrentSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v := validation.New().
		Required("title", req.Title).
		MaxLength("title", req.Title, 255).
		Required("description", req.Description).
		OneOf("status", req.Status,
			models.StatusPublished, models.StatusDraft, models.StatusPrivate)
	if v.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": v.FirstError()})
		return
	}

	id := c.Param("id")

	// Ownership comes from the stored record, not from whatever userId
	// the caller put in the body.
	userID := req.UserID
	if rec.User.Role != models.RoleAdmin {
		existing, err := h.posts.GetByID(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		if existing.UserID != rec.User.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit your own posts"})
			return
		}
		userID = existing.UserID
	}

	updated, err := h.posts.Update(c.Request.Context(), models.Post{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		PostImage:   req.PostImage,
		CreateDate:  req.CreateDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": updated})
}

func (h *Handler) DeletePost(c *gin.Context) {
	rec, ok := middleware.CurrentSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := c.Param("id")

	if rec.User.Role != models.RoleAdmin {
		post, err := h.posts.GetByID(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		if post.UserID != rec.User.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own posts"})
			return
		}
	}

	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
