package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"go-ezynotify/internal/config"
	"go-ezynotify/internal/database"
	"go-ezynotify/internal/models"

	"github.com/gin-gonic/gin"
)

type createCheckRequest struct {
	URL                       string   `json:"url" binding:"required"`
	Keywords                  []string `json:"keywords"`
	TelegramID                int64    `json:"telegram_id"`
	CheckUpdates              bool     `json:"check_updates"`
	ShouldContinueCheck       bool     `json:"should_continue_check"`
	ShouldSendDetailedUpdates bool     `json:"should_send_detailed_updates"`
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ezynotify is running!",
			"status":  "healthy",
		})
	})

	r.GET("/status", func(c *gin.Context) {
		stats, err := repo.CountChecks(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/checks/:id", func(c *gin.Context) {
		check, err := repo.GetCheckByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, check)
	})

	r.POST("/checks", func(c *gin.Context) {
		var req createCheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.Keywords) == 0 && !req.CheckUpdates {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a check needs keywords or check_updates"})
			return
		}

		check, err := repo.CreateCheck(c.Request.Context(), &models.Check{
			URL:                       req.URL,
			Keywords:                  models.KeywordSet{Keywords: req.Keywords},
			TelegramID:                req.TelegramID,
			CheckUpdates:              req.CheckUpdates,
			ShouldContinueCheck:       req.ShouldContinueCheck,
			ShouldSendDetailedUpdates: req.ShouldSendDetailedUpdates,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, check)
	})

	log.Printf("Server listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
