package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/http/middleware"
)

// SessionHandlers exposes multi-device session management.
type SessionHandlers struct {
	sessionSvc domain.SessionService
	auditSvc   domain.AuditService
}

// NewSessionHandlers creates new session handlers
func NewSessionHandlers(sessionSvc domain.SessionService, auditSvc domain.AuditService) *SessionHandlers {
	return &SessionHandlers{sessionSvc: sessionSvc, auditSvc: auditSvc}
}

// List handles GET /auth/sessions
func (h *SessionHandlers) List(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	sessions, err := h.sessionSvc.ListActive(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, gin.H{
			"id":           s.ID,
			"device":       s.DeviceLabel,
			"ip":           s.IP,
			"created_at":   s.CreatedAt,
			"last_used_at": s.LastUsedAt,
			"expires_at":   s.ExpiresAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// Revoke handles DELETE /auth/sessions/:id. Revoking a session that
// does not exist or is not yours responds identically to success.
func (h *SessionHandlers) Revoke(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session id"})
		return
	}

	if err := h.sessionSvc.Revoke(c.Request.Context(), uint(sessionID), accountID); err != nil {
		respondError(c, err)
		return
	}

	h.auditSvc.Record(c.Request.Context(),
		domain.NewAuditEvent(domain.AuditSessionRevoked, &accountID).
			WithClient(clientContext(c)).
			WithResource("session", c.Param("id")))

	c.JSON(http.StatusOK, gin.H{"message": "Session revoked"})
}

// RevokeAll handles POST /auth/sessions/revoke-all: log out everywhere.
func (h *SessionHandlers) RevokeAll(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.sessionSvc.RevokeAll(c.Request.Context(), accountID); err != nil {
		respondError(c, err)
		return
	}

	h.auditSvc.Record(c.Request.Context(),
		domain.NewAuditEvent(domain.AuditSessionRevokedAll, &accountID).
			WithClient(clientContext(c)))

	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "All sessions revoked"})
}
