package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hornossanz/shift-planner/pkg/auth"
	"github.com/hornossanz/shift-planner/pkg/config"
	"github.com/hornossanz/shift-planner/pkg/database"
	"github.com/hornossanz/shift-planner/pkg/rules"
	"github.com/hornossanz/shift-planner/pkg/scheduler"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB           *gorm.DB
	Auth         *auth.Authenticator
	Repo         *database.Repository
	Orchestrator *scheduler.Orchestrator
	Finder       *scheduler.Finder
	Assigner     *scheduler.Assigner
	Log          *logrus.Entry
}

// New wires the planner services on top of a database connection
func New(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) (*Handler, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	window, err := cfg.SubstituteWindow()
	if err != nil {
		return nil, err
	}

	log := logrus.NewEntry(logger)
	repo := database.NewRepository(db)
	orch := scheduler.NewOrchestrator(repo, rules.NewEngine(rules.DefaultRegistry(), cfg.Buffer()), log)

	return &Handler{
		DB:           db,
		Auth:         auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Repo:         repo,
		Orchestrator: orch,
		Finder: scheduler.NewFinder(orch, scheduler.FinderOptions{
			TopN:            cfg.SubstituteTopN,
			IsolateFailures: cfg.SubstituteIsolateFailures,
		}, log),
		Assigner: scheduler.NewAssigner(repo, window, log),
		Log:      log.WithField("component", "http"),
	}, nil
}

func bearer(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key of planner routes
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		// Only issued keys have a record; a revoked key is gone
		var apiKey database.APIKey
		err = h.DB.Where(&database.APIKey{Key: key}).First(&apiKey).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked or unknown"})
			return
		}
		if err != nil {
			h.Log.WithError(err).Error("Could not load API key record")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not verify API Key"})
			return
		}

		now := time.Now()
		apiKey.LastUsed = &now
		h.DB.Model(&apiKey).Update("last_used", now)

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// RecordUsage adds one request and its result sizes to today's usage row
func (h *Handler) RecordUsage(c *gin.Context, shiftCount, candidateCount int) {
	apiKey, ok := apiKeyFrom(c)
	if !ok {
		return
	}

	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":    gorm.Expr("request_count + ?", 1),
			"total_shifts":     gorm.Expr("total_shifts + ?", shiftCount),
			"total_candidates": gorm.Expr("total_candidates + ?", candidateCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:           apiKey.ID,
		Date:            today(),
		RequestCount:    1,
		TotalShifts:     shiftCount,
		TotalCandidates: candidateCount,
	}).Error
	if err != nil {
		h.Log.WithError(err).WithField("key", apiKey.ID).Warn("Could not record usage")
	}
}

// fail maps a core error to an HTTP status
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, scheduler.ErrStoreNotFound),
		errors.Is(err, scheduler.ErrEmployeeNotFound),
		errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, scheduler.ErrSameEmployee),
		errors.Is(err, scheduler.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Auth.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new API key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required,excludes=.,max=80"`
		RateLimit int    `json:"rate_limit" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apiKey, key, err := h.Auth.IssueKey(h.DB, req.Name, req.RateLimit)
	if err != nil {
		h.Log.WithError(err).Error("Could not create key record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create key record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": apiKey.ID, "name": apiKey.Name, "key": key, "rate_limit": apiKey.RateLimit})
}

// ListKeys returns all API keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	if err := h.DB.Order("id").Find(&keys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list keys"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey deletes an API key
func (h *Handler) RevokeKey(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res := h.DB.Delete(&database.APIKey{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete key"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit" binding:"required,gt=0"`
	}

	// Try JSON first, then Form/Query
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate_limit is required"})
			return
		}
	}

	if err := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update key limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns usage stats for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", id).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// Health pings the database
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
