package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet/backend/internal/identity"
	"socialnet/backend/internal/social"
)

func registerRoutes(router *gin.Engine, store *identity.Store, coordinator *social.Coordinator, queries *social.QueryService, reconciler *social.Reconciler, log *zap.Logger) {
	api := router.Group("/api")

	api.POST("/signup", func(c *gin.Context) {
		var req struct {
			FirstName string   `json:"first_name" binding:"required"`
			LastName  string   `json:"last_name" binding:"required"`
			Email     string   `json:"email" binding:"required"`
			Password  string   `json:"password" binding:"required"`
			Interests []string `json:"interests"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		person, err := coordinator.SignUp(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password, req.Interests)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, person)
	})

	api.POST("/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		person, err := coordinator.LogIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, person)
	})

	api.GET("/users/:id", func(c *gin.Context) {
		person, err := store.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, person)
	})

	api.DELETE("/users/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		person, err := store.FindByID(ctx, c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		if err := coordinator.DeleteUser(ctx, person); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	})

	// Both sides of a relationship mutation are resolved fresh per request;
	// there is no server-side session user
	relation := func(handle func(c *gin.Context, current, target *identity.Person)) gin.HandlerFunc {
		return func(c *gin.Context) {
			var req struct {
				TargetID string `json:"target_id" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			ctx := c.Request.Context()
			current, err := store.FindByID(ctx, c.Param("id"))
			if err != nil {
				respondError(c, log, err)
				return
			}
			target, err := store.FindByID(ctx, req.TargetID)
			if err != nil {
				respondError(c, log, err)
				return
			}
			handle(c, current, target)
		}
	}

	api.POST("/users/:id/follow", relation(func(c *gin.Context, current, target *identity.Person) {
		if err := coordinator.Follow(c.Request.Context(), current, target); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "following"})
	}))

	api.POST("/users/:id/unfollow", relation(func(c *gin.Context, current, target *identity.Person) {
		if err := coordinator.Unfollow(c.Request.Context(), current, target); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "not_following"})
	}))

	api.GET("/users/:id/relationship/:target", func(c *gin.Context) {
		ctx := c.Request.Context()
		current, err := store.FindByID(ctx, c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		target, err := store.FindByID(ctx, c.Param("target"))
		if err != nil {
			respondError(c, log, err)
			return
		}

		rel, err := queries.RelationshipOf(ctx, current, target)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"relationship": rel})
	})

	api.GET("/users/:id/path/:target", func(c *gin.Context) {
		ctx := c.Request.Context()
		current, err := store.FindByID(ctx, c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		target, err := store.FindByID(ctx, c.Param("target"))
		if err != nil {
			respondError(c, log, err)
			return
		}

		path, err := queries.ShortestPath(ctx, current, target)
		if err != nil {
			respondError(c, log, err)
			return
		}
		if path == nil {
			c.JSON(http.StatusOK, gin.H{"reachable": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reachable": true, "distance": len(path) - 1, "path": path})
	})

	api.GET("/users/:id/feed", func(c *gin.Context) {
		ctx := c.Request.Context()
		person, err := store.FindByID(ctx, c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		posts, err := store.FeedOf(ctx, person)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, posts)
	})

	api.GET("/users/:id/posts", func(c *gin.Context) {
		posts, err := store.PostsOfUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, posts)
	})

	api.POST("/users/:id/posts", func(c *gin.Context) {
		var req struct {
			Title string `json:"title" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		person, err := store.FindByID(ctx, c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		post, err := store.CreatePost(ctx, person.ID, req.Title)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, post)
	})

	api.POST("/posts/:id/like", func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.LikePost(c.Request.Context(), req.UserID, c.Param("id")); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "liked"})
	})

	api.POST("/posts/:id/unlike", func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.UnlikePost(c.Request.Context(), req.UserID, c.Param("id")); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "unliked"})
	})

	api.POST("/posts/:id/comments", func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id" binding:"required"`
			Text   string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.AddComment(c.Request.Context(), req.UserID, c.Param("id"), req.Text); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "commented"})
	})

	api.POST("/admin/reconcile", func(c *gin.Context) {
		stats, err := reconciler.Repair(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	})
}
