package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/newswire/app/database"
	"github.com/lysyi3m/newswire/app/news"
	"github.com/lysyi3m/newswire/app/tasks"
)

func NewHandler(fetcher FetcherInterface, registry *news.Registry, cache *news.Cache,
	snapshots database.SnapshotRepository, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		fetcher:   fetcher,
		registry:  registry,
		cache:     cache,
		snapshots: snapshots,
		scheduler: scheduler,
	}
}

// GetSource serves one source. The latest query parameter (presence,
// not value) bypasses the cache. An unknown id is a 404; an exhausted
// strategy chain is a 500 carrying the error envelope with the
// aggregate reason.
func (h *Handler) GetSource(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id parameter"})
		return
	}
	_, latest := c.GetQuery("latest")

	resp, err := h.fetcher.Fetch(c.Request.Context(), id, latest)
	if err != nil {
		if errors.Is(err, news.ErrUnknownSource) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown source: " + id})
			return
		}
		slog.Error("Source fetch failed", "source", id, "error", err)
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type entireRequest struct {
	Sources []string `json:"sources" binding:"required"`
}

// GetEntire fetches several sources in one request. Each source gets
// its own envelope; one failing source never fails the batch.
func (h *Handler) GetEntire(c *gin.Context) {
	var req entireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	responses := make([]news.SourceResponse, 0, len(req.Sources))
	for _, id := range req.Sources {
		resp, err := h.fetcher.Fetch(c.Request.Context(), id, false)
		if err != nil {
			if errors.Is(err, news.ErrUnknownSource) {
				resp = news.SourceResponse{Status: news.StatusError, ID: id, Message: "unknown source"}
			}
			slog.Warn("Batch source fetch failed", "source", id, "error", err)
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": responses,
		"total":   len(responses),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   h.registry.Len(),
	}

	if h.snapshots != nil {
		if count, err := h.snapshots.GetSnapshotCount(); err == nil {
			health["snapshots"] = count
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"sources":        h.registry.Len(),
		"cached_sources": h.cache.Len(),
	}

	if h.snapshots != nil {
		if sourceStats, err := h.snapshots.GetSourceStats(); err == nil {
			archive := make([]map[string]interface{}, 0, len(sourceStats))
			for _, s := range sourceStats {
				entry := map[string]interface{}{
					"source":    s.SourceID,
					"snapshots": s.SnapshotCount,
				}
				if s.LastFetchedAt != nil {
					entry["last_fetched_at"] = s.LastFetchedAt.Format(time.RFC3339)
				}
				archive = append(archive, entry)
			}
			stats["archive"] = archive
		}
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSources(c *gin.Context) {
	ids := h.registry.IDs()

	sources := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		src, ok := h.registry.Lookup(id)
		if !ok {
			continue
		}

		info := map[string]interface{}{
			"id":    src.ID,
			"title": src.Title,
			"type":  string(src.Type),
			"ttl":   src.TTL.String(),
		}
		if _, updated, ok := h.cache.Peek(id); ok {
			info["updated_at"] = updated.Format(time.RFC3339)
		}

		sources = append(sources, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) APIGetSourceDetails(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source id parameter"})
		return
	}

	src, ok := h.registry.Lookup(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown source: " + id})
		return
	}

	details := map[string]interface{}{
		"id":    src.ID,
		"title": src.Title,
		"type":  string(src.Type),
		"ttl":   src.TTL.String(),
	}

	if items, updated, ok := h.cache.Peek(id); ok {
		details["cache"] = map[string]interface{}{
			"items":      len(items),
			"updated_at": updated.Format(time.RFC3339),
			"stale":      time.Since(updated) > src.TTL,
		}
	}

	if h.snapshots != nil {
		if snapshot, err := h.snapshots.GetLatest(id); err == nil && snapshot != nil {
			details["last_snapshot"] = map[string]interface{}{
				"items":      snapshot.ItemCount,
				"fetched_at": snapshot.FetchedAt.Format(time.RFC3339),
			}
		}
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APIRefreshSource(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source id parameter"})
		return
	}

	if _, ok := h.registry.Lookup(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown source: " + id})
		return
	}

	task := tasks.NewRefreshSourceTask(id, h.fetcher, h.snapshots)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing refresh task", "source", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue refresh task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Refresh task enqueued successfully",
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}
