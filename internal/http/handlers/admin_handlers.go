package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/eventauth/domain"
)

// AdminHandlers exposes the admin portal's security operations. The
// router gates every route here behind the admin role.
type AdminHandlers struct {
	authSvc   domain.AuthService
	auditSvc  domain.AuditService
	policySvc domain.PolicyService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(authSvc domain.AuthService, auditSvc domain.AuditService, policySvc domain.PolicyService) *AdminHandlers {
	return &AdminHandlers{authSvc: authSvc, auditSvc: auditSvc, policySvc: policySvc}
}

// AuditByAccount handles GET /admin/audit/:accountID
func (h *AdminHandlers) AuditByAccount(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Param("accountID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account id"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events, err := h.auditSvc.QueryByAccount(c.Request.Context(), uint(accountID), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]gin.H, 0, len(events))
	for _, e := range events {
		views = append(views, gin.H{
			"id":         e.ID,
			"action":     e.Action,
			"success":    e.Success,
			"reason":     e.Reason,
			"ip":         e.IP,
			"user_agent": e.UserAgent,
			"metadata":   e.Metadata,
			"created_at": e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": views})
}

// UnlockAccount handles POST /admin/accounts/:id/unlock
func (h *AdminHandlers) UnlockAccount(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account id"})
		return
	}

	if err := h.authSvc.UnlockAccount(c.Request.Context(), uint(accountID), clientContext(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account unlocked"})
}

// PolicyRequest carries a policy triple.
type PolicyRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// ListPolicies handles GET /admin/policies
func (h *AdminHandlers) ListPolicies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"policies": h.policySvc.GetPolicies()})
}

// AddPolicy handles POST /admin/policies
func (h *AdminHandlers) AddPolicy(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policySvc.AddPolicy(req.Role, req.Resource, req.Action); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add policy"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Policy added"})
}

// RemovePolicy handles DELETE /admin/policies
func (h *AdminHandlers) RemovePolicy(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policySvc.RemovePolicy(req.Role, req.Resource, req.Action); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove policy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy removed"})
}
