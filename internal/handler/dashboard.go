package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type userPostCount struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

// Dashboard aggregates the totals the admin landing page charts. Both
// collections are fetched whole; the store has no aggregates.
func (h *Handler) Dashboard(c *gin.Context) {

	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	allPosts, err := h.posts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	perUser := make(map[string]int, len(users))
	for _, p := range allPosts {
		perUser[p.UserID]++
	}

	counts := make([]userPostCount, 0, len(users))
	for _, u := range users {
		counts = append(counts, userPostCount{
			UserID: u.ID,
			Name:   u.Name,
			Count:  perUser[u.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":   len(users),
		"totalPosts":   len(allPosts),
		"postsPerUser": counts,
	})
}

// Notifications returns the most recent poll of new-post counts.
func (h *Handler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"newNotificationsCount": h.notify.Count(),
	})
}
