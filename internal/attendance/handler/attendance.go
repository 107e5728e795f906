// Package handler exposes the attendance ledger over HTTP: the record and
// audit endpoints, the operator token endpoint, Prometheus metrics, and the
// per-IP rate limiter.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/attendance"
	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/identity"
	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/ledger"
)

// Handler exposes the attendance ledger endpoints.
type Handler struct {
	svc    *attendance.Service
	tokens *identity.TokenIssuer // nil = reset endpoint is unguarded
	logger *zap.Logger
}

// NewHandler creates a Handler. tokens may be nil to leave the reset
// endpoint unguarded; main logs a warning when that is the case.
func NewHandler(svc *attendance.Service, tokens *identity.TokenIssuer, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

// Register mounts the attendance routes on the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/attendance")
	{
		a.POST("/records", h.RecordAttendance)
		a.GET("/records", h.GetChain)
		a.GET("/records/:index", h.GetRecord)
		a.GET("/summary", h.GetSummary)
		a.GET("/verify", h.Verify)
		a.POST("/reset", h.requireOperator(), h.Reset)
	}
}

// requireOperator gates a route on a verified operator token. Without a
// token issuer the gate is a no-op.
func (h *Handler) requireOperator() gin.HandlerFunc {
	if h.tokens == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return identity.RequireOperator(h.tokens)
}

// ─── Request types ───────────────────────────────────────────────────────────

type recordRequest struct {
	SubjectID string `json:"subject_id" binding:"required"`
	Status    string `json:"status"     binding:"required"`
	Date      string `json:"date"       binding:"required"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// ─── Handlers ────────────────────────────────────────────────────────────────

// RecordAttendance handles POST /attendance/records — appends one entry.
func (h *Handler) RecordAttendance(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.svc.Record(c.Request.Context(), req.SubjectID, req.Status, req.Date)
	if err != nil {
		var valErr *attendance.ErrValidation
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Msg})
			return
		}
		var dup *ledger.DuplicateEntryError
		if errors.As(err, &dup) {
			RecordDuplicateRejected()
			c.JSON(http.StatusConflict, gin.H{
				"error":    "duplicate entry",
				"existing": dup.Existing,
			})
			return
		}
		h.logger.Error("record attendance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record attendance"})
		return
	}

	RecordAppend(string(rec.Payload.Status))
	SetChainLength(float64(h.svc.Len()))
	c.JSON(http.StatusCreated, rec)
}

// GetChain handles GET /attendance/records — returns the full chain,
// genesis included.
func (h *Handler) GetChain(c *gin.Context) {
	recs := h.svc.Chain()
	c.JSON(http.StatusOK, gin.H{
		"records": recs,
		"count":   len(recs),
	})
}

// GetRecord handles GET /attendance/records/:index — returns one record.
func (h *Handler) GetRecord(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a non-negative integer"})
		return
	}

	rec, ok := h.svc.Get(idx)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetSummary handles GET /attendance/summary — aggregated statistics and the
// eligibility decision.
func (h *Handler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Summary())
}

// Verify handles GET /attendance/verify — walks the full chain and reports
// integrity. An invalid chain is still a successful query: the response is
// 200 with valid=false, not a server error.
func (h *Handler) Verify(c *gin.Context) {
	if v := h.svc.Validate(); v != nil {
		RecordIntegrityCheck(false)
		h.logger.Warn("chain integrity check failed",
			zap.Int("index", v.Index),
			zap.String("reason", v.Reason),
		)
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"violation": gin.H{
				"index":  v.Index,
				"reason": v.Reason,
			},
		})
		return
	}

	RecordIntegrityCheck(true)
	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"entries": h.svc.Len(),
	})
}

// Reset handles POST /attendance/reset — discards all records and starts a
// fresh chain. The body must carry confirm=true.
func (h *Handler) Reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Reset(c.Request.Context(), req.Confirm); err != nil {
		if errors.Is(err, attendance.ErrResetNotConfirmed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reset requires confirm=true"})
			return
		}
		h.logger.Error("reset ledger", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset ledger"})
		return
	}

	if claims := identity.OperatorFromCtx(c); claims != nil {
		h.logger.Info("ledger reset by operator",
			zap.String("subject", claims.Subject),
			zap.String("jti", claims.ID),
		)
	}

	RecordReset()
	SetChainLength(float64(h.svc.Len()))
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
