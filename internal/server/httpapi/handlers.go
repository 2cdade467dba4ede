package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/annemirova/innerflow/internal/errs"
	"github.com/annemirova/innerflow/internal/model"
	"github.com/annemirova/innerflow/internal/service"
)

// Handler holds the journal service shared by all routes.
type Handler struct {
	svc *service.Journal
	log *zap.Logger
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SaveEntry persists an entry local-first; the remote mirror runs in
// the background after the response is sent.
func (h *Handler) SaveEntry(c *gin.Context) {
	var e model.Entry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if e.ID == "" {
		e.ID = model.NewEntryID()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}
	if e.DrainerLevel == "" {
		e.DrainerLevel = model.DrainerNone
	}

	if err := h.svc.Save(c.Request.Context(), e); err != nil {
		h.log.Error("local save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// ListEntries returns the current local collection, descending by date.
func (h *Handler) ListEntries(c *gin.Context) {
	entries := h.svc.GetAll(c.Request.Context())
	if entries == nil {
		entries = []model.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// Today returns today's entry or 404.
func (h *Handler) Today(c *gin.Context) {
	e, ok := h.svc.GetToday(c.Request.Context())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no entry for today"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// Relative returns the entry offset days from today (?offset=-1).
func (h *Handler) Relative(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}
	e, ok := h.svc.GetByRelativeDay(c.Request.Context(), offset)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no entry for that day"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// AttachInsight generates and attaches a reflection to a stored entry.
// Generation itself never fails; it degrades to a fallback payload.
func (h *Handler) AttachInsight(c *gin.Context) {
	e, err := h.svc.AttachInsight(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown entry"})
			return
		}
		h.log.Error("attach insight failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "attach failed"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// Stats returns derived counters over the current collection.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"recordedDays": h.svc.CountRecordedDays(c.Request.Context()),
	})
}

// Migrate uploads every local entry to the remote store and reports a
// per-entry summary.
func (h *Handler) Migrate(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.MigrateLocalToRemote(c.Request.Context()))
}
