// Package api exposes the stored postings and run summaries over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"aujobs-pipeline/internal/crawl"
	"aujobs-pipeline/internal/store"
)

const (
	defaultJobLimit = 20
	maxJobLimit     = 200
	healthTimeout   = 3 * time.Second
)

// HealthCheck is pinged by GET /health. A nil check always reports healthy.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Reader store.Reader
	Runs   store.SummaryStore
	Health HealthCheck
	// LastRuns returns the latest scheduler cycle. Optional.
	LastRuns func() []crawl.Result
}

type handler struct {
	deps Deps
}

func NewRouter(deps Deps) *gin.Engine {
	h := &handler{deps: deps}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", h.health)
	r.GET("/runs", h.lastRuns)
	r.GET("/runs/:id", h.run)
	r.GET("/categories", h.categories)
	r.GET("/jobs", h.jobs)
	return r
}

func (h *handler) health(c *gin.Context) {
	if h.deps.Health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := h.deps.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *handler) run(c *gin.Context) {
	if h.deps.Runs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run summaries are not stored"})
		return
	}
	rec, found, err := h.deps.Runs.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handler) lastRuns(c *gin.Context) {
	var runs []gin.H
	if h.deps.LastRuns != nil {
		for _, r := range h.deps.LastRuns() {
			runs = append(runs, gin.H{"run_id": r.RunID, "site": r.Site, "summary": r.Summary, "skipped": r.Skipped})
		}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *handler) categories(c *gin.Context) {
	cats, err := h.deps.Reader.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *handler) jobs(c *gin.Context) {
	limit := defaultJobLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxJobLimit)
	}

	jobs, err := h.deps.Reader.RecentJobs(c.Request.Context(), limit, c.Query("source"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}
