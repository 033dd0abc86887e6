package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/server-craftsman/manage-post/internal/auth"
	"github.com/server-craftsman/manage-post/internal/config"
	"github.com/server-craftsman/manage-post/internal/handler"
	"github.com/server-craftsman/manage-post/internal/middleware"
	"github.com/server-craftsman/manage-post/internal/models"
	"github.com/server-craftsman/manage-post/internal/notify"
	"github.com/server-craftsman/manage-post/internal/posts"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	authService := auth.NewService(infra.Remote)
	postManager := posts.NewManager(infra.Remote, cfg.MaxUploadBytes)
	poller := notify.NewPoller(infra.Remote, cfg.NotifyPollInterval)

	h := handler.NewHandler(
		authService,
		postManager,
		infra.Sessions,
		poller,
		cfg.SessionTTL,
	)

	authMiddleware := middleware.NewAuthMiddleware(infra.Sessions)

	// Poller stops when the app context is canceled.
	pollCtx, stopPoller := context.WithCancel(context.Background())
	go poller.Run(pollCtx)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	router.POST("/auth/login", h.Login)
	router.POST("/auth/register", h.Register)
	router.POST("/auth/logout", h.Logout)
	router.GET("/auth/check-email", h.CheckEmail)

	router.GET("/posts", h.ListPosts)
	router.GET("/posts/user/:userId", h.PostsByUser)
	router.GET("/posts/:id", h.GetPost)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Authenticated API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", h.Me)
	api.PUT("/me", h.UpdateMe)

	api.POST("/posts", h.CreatePost)
	api.PUT("/posts/:id", h.UpdatePost)
	api.DELETE("/posts/:id", h.DeletePost)
	api.GET("/posts/count", h.PostCount)

	api.GET("/notifications", h.Notifications)

	// ----------------------------
	// Admin Routes
	// ----------------------------

	admin := router.Group("/api/admin")
	admin.Use(middleware.GinRequireRole(authMiddleware, models.RoleAdmin))

	admin.GET("/users", h.ListUsers)
	admin.POST("/users", h.CreateUser)
	admin.GET("/users/:id", h.GetUser)
	admin.PUT("/users/:id", h.UpdateUser)
	admin.DELETE("/users/:id", h.DeleteUser)

	admin.GET("/dashboard", h.Dashboard)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		stopPoller()
		if infra.Redis != nil {
			return infra.Redis.Close()
		}
		return nil
	}, nil
}
