package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hornossanz/shift-planner/pkg/database"
	"gorm.io/gorm"
)

// usageHistoryDays bounds the per-day breakdown returned to a key
const usageHistoryDays = 30

// usageDay is one day of planner traffic for a key
type usageDay struct {
	Date       string `json:"date"`
	Requests   int    `json:"requests"`
	Shifts     int    `json:"shifts"`
	Candidates int    `json:"candidates"`
}

func apiKeyFrom(c *gin.Context) (*database.APIKey, bool) {
	raw, exists := c.Get("apiKey")
	if !exists {
		return nil, false
	}
	apiKey, ok := raw.(*database.APIKey)
	return apiKey, ok
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// requestsToday counts what the key has already spent of its daily quota
func (h *Handler) requestsToday(keyID uint) (int, error) {
	var usage database.APIUsage
	err := h.DB.Where(&database.APIUsage{KeyID: keyID, Date: today()}).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return usage.RequestCount, err
}

// QuotaMiddleware rejects planner calls once a key reaches its daily rate limit
func (h *Handler) QuotaMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey, ok := apiKeyFrom(c)
		if !ok || apiKey.RateLimit <= 0 {
			c.Next()
			return
		}

		used, err := h.requestsToday(apiKey.ID)
		if err != nil {
			h.Log.WithError(err).WithField("key", apiKey.ID).Error("Could not read usage")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not verify quota"})
			return
		}
		if used >= apiKey.RateLimit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Daily rate limit reached",
				"rate_limit": apiKey.RateLimit,
			})
			return
		}
		c.Next()
	}
}

// GetMyUsage reports the authenticated key's traffic per day, its totals and
// what is left of today's quota
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKey, ok := apiKeyFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}

	var usage []database.APIUsage
	err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(usageHistoryDays).Find(&usage).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	days := make([]usageDay, 0, len(usage))
	var total usageDay
	usedToday := 0
	for _, u := range usage {
		days = append(days, usageDay{
			Date:       u.Date,
			Requests:   u.RequestCount,
			Shifts:     u.TotalShifts,
			Candidates: u.TotalCandidates,
		})
		total.Requests += u.RequestCount
		total.Shifts += u.TotalShifts
		total.Candidates += u.TotalCandidates
		if u.Date == today() {
			usedToday = u.RequestCount
		}
	}

	remaining := apiKey.RateLimit - usedToday
	if remaining < 0 {
		remaining = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":   apiKey.Name,
		"rate_limit": apiKey.RateLimit,
		"today": gin.H{
			"requests":  usedToday,
			"remaining": remaining,
		},
		"days": days,
		"totals": gin.H{
			"requests":   total.Requests,
			"shifts":     total.Shifts,
			"candidates": total.Candidates,
		},
	})
}
