package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/links"
	"storefront/internal/query"
	"storefront/internal/service"
	"storefront/internal/util"
	"storefront/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is a dependency the readiness probe checks
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	storefront *service.StorefrontService
	checks     []Pinger
}

// NewHandler creates a new HTTP handler
func NewHandler(storefront *service.StorefrontService, checks ...Pinger) *Handler {
	return &Handler{
		storefront: storefront,
		checks:     checks,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog/items", h.listItems)
		v1.GET("/catalog/categories", h.listCategories)
		v1.GET("/catalog/community-picks", h.listCommunityPicks)
		v1.GET("/contacts", h.listContacts)

		v1.POST("/cards", h.openCard)
		v1.GET("/cards/:session", h.getCard)
		v1.PUT("/cards/:session/options", h.changeOption)
		v1.DELETE("/cards/:session", h.closeCard)

		v1.POST("/contact/plan", h.planContact)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not ready",
				"details": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listItems(c *gin.Context) {
	criteria := query.Criteria{
		SearchText: c.Query("search"),
		Category:   c.DefaultQuery("category", query.AllCategories),
		SortKey:    query.SortKey(c.DefaultQuery("sort", string(query.SortFeatured))),
	}

	c.JSON(http.StatusOK, h.storefront.Browse(c.Request.Context(), criteria, isMobile(c)))
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"all":        query.AllCategories,
		"categories": h.storefront.Categories(),
	})
}

func (h *Handler) listCommunityPicks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"picks": h.storefront.CommunityPicks(isMobile(c)),
	})
}

func (h *Handler) listContacts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"seller":   h.storefront.Seller(),
		"contacts": h.storefront.Contacts(isMobile(c)),
	})
}

type openCardRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

func (h *Handler) openCard(c *gin.Context) {
	var req openCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	state, err := h.storefront.OpenCard(c.Request.Context(), req.ItemID, isMobile(c))
	if err != nil {
		writeError(c, "Failed to open card", err)
		return
	}

	c.JSON(http.StatusCreated, state)
}

func (h *Handler) getCard(c *gin.Context) {
	state, err := h.storefront.GetCard(c.Request.Context(), c.Param("session"), isMobile(c))
	if err != nil {
		writeError(c, "Failed to load card", err)
		return
	}

	c.JSON(http.StatusOK, state)
}

type changeOptionRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

func (h *Handler) changeOption(c *gin.Context) {
	var req changeOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	state, err := h.storefront.ChangeOption(c.Request.Context(), c.Param("session"), req.Key, req.Value, isMobile(c))
	if err != nil {
		writeError(c, "Failed to change option", err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *Handler) closeCard(c *gin.Context) {
	if err := h.storefront.CloseCard(c.Request.Context(), c.Param("session")); err != nil {
		writeError(c, "Failed to close card", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) planContact(c *gin.Context) {
	var req service.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	if req.ItemID == "" && req.Kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Either itemId or kind is required",
		})
		return
	}

	plan, err := h.storefront.PlanContact(c.Request.Context(), &req, isMobile(c))
	if err != nil {
		writeError(c, "Failed to plan contact", err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func isMobile(c *gin.Context) bool {
	return links.DetectMobile(c.GetHeader("User-Agent"))
}

func writeError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrItemNotFound), errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, view.ErrUnknownOption),
		errors.Is(err, view.ErrInvalidChoice),
		errors.Is(err, service.ErrUnknownContactKind),
		errors.Is(err, service.ErrUnknownChannel):
		status = http.StatusBadRequest
	default:
		util.GetLogger().Error(msg, zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}
