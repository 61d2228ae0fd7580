package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"ewallet/internal/core/domain"
	"ewallet/internal/core/ports"
	"ewallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful write requests.
// Handlers name the affected resource by setting CtxResourceID.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.GetString(CtxResourceID),
			Details:      string(details),
			IPAddress:    c.ClientIP(),
			RequestID:    c.GetString(response.RequestIDKey),
			CreatedAt:    time.Now(),
		})
	}
}

// mapRouteToAction matches on the registered route template, not the raw path.
func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/api/v1/wallets" && method == http.MethodPost:
		return domain.AuditActionWalletCreate, "wallet"
	case route == "/api/v1/wallets/:slug" && method == http.MethodPut:
		return domain.AuditActionWalletRename, "wallet"
	case route == "/api/v1/wallets/:slug" && method == http.MethodDelete:
		return domain.AuditActionWalletDelete, "wallet"
	case route == "/api/v1/transactions" && method == http.MethodPost:
		return domain.AuditActionTransactionApply, "transaction"
	case route == "/api/v1/transactions/:id" && method == http.MethodDelete:
		return domain.AuditActionTransactionReverse, "transaction"
	}
	return "", ""
}
