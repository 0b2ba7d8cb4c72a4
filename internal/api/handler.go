// Package api is the funder's HTTP surface.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-payroll-funder/internal/auth"
	"github.com/0gfoundation/0g-payroll-funder/internal/funding"
	"github.com/0gfoundation/0g-payroll-funder/internal/outbox"
)

// ActionEvaluate is the signed action required by POST /api/evaluate.
const ActionEvaluate = "evaluate"

// Trigger is satisfied by *runner.Runner.
type Trigger interface {
	RunOnce(ctx context.Context) (outbox.Record, error)
}

// Records is satisfied by *outbox.Store.
type Records interface {
	Last(ctx context.Context) (outbox.Record, bool, error)
	History(ctx context.Context, limit int) ([]outbox.Record, error)
	Pending(ctx context.Context) (int64, error)
}

type Handler struct {
	trigger Trigger
	records Records
	log     *zap.Logger
}

func NewHandler(trigger Trigger, records Records, log *zap.Logger) *Handler {
	return &Handler{trigger: trigger, records: records, log: log}
}

// NewRouter builds the full HTTP surface. guard protects the manual trigger.
func NewRouter(h *Handler, guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Register(r.Group("/api"), guard)
	return r
}

// Register mounts the /api routes.
func (h *Handler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	// ── Manual trigger ─────────────────────────────────────────────────────
	rg.POST("/evaluate", guard, h.handleEvaluate)

	// ── Read-only ──────────────────────────────────────────────────────────
	rg.GET("/decisions/last", h.handleLast)
	rg.GET("/decisions", h.handleHistory)
	rg.GET("/queue", h.handleQueue)
}

func (h *Handler) handleEvaluate(c *gin.Context) {
	operator := c.GetString(auth.ContextOperator)
	rec, err := h.trigger.RunOnce(c.Request.Context())
	if err != nil {
		var cre *funding.ContractReadError
		var pe *funding.PolicyError
		switch {
		case errors.As(err, &cre):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		case errors.As(err, &pe):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		case rec.EvaluatedAt.IsZero():
			h.log.Error("evaluate failed", zap.String("operator", operator), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		default:
			// evaluated but not published
			h.log.Error("evaluate: publish failed", zap.String("operator", operator), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "decision not published", "record": rec})
		}
		return
	}
	h.log.Info("manual evaluation",
		zap.String("operator", operator),
		zap.Bool("execute", rec.Decision.ShouldExecute),
		zap.String("reason", rec.Decision.Reason),
	)
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) handleLast(c *gin.Context) {
	rec, ok, err := h.records.Last(c.Request.Context())
	if err != nil {
		h.log.Error("read last decision", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no decision yet"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) handleHistory(c *gin.Context) {
	limit := outbox.HistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	recs, err := h.records.History(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("read decision history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": recs})
}

func (h *Handler) handleQueue(c *gin.Context) {
	n, err := h.records.Pending(c.Request.Context())
	if err != nil {
		h.log.Error("read queue length", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": n})
}
