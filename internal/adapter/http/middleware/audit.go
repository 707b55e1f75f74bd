package middleware

import (
	"strings"

	"mexared-ledger/pkg/logger"
	"mexared-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuditLog writes one audit line per successful state-changing request.
// The ledger itself is the financial record; this trail captures who asked.
func AuditLog(log zerolog.Logger) gin.HandlerFunc {
	audit := logger.Component(log, "audit")
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resource := mapPathToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		event := audit.Info().
			Str("action", action).
			Str("resource", resource).
			Str("request_id", c.GetString(response.RequestIDKey)).
			Str("client_ip", c.ClientIP()).
			Int("status", status)
		if id, ok := ActorID(c); ok {
			event = event.Str("actor_id", id.String()).Str("role", string(Role(c)))
		}
		event.Msg("audit")
	}
}

func mapPathToAction(path, method string) (action, resource string) {
	const v1 = "/api/v1"
	p := strings.TrimPrefix(path, v1)
	switch {
	case method == "POST" && strings.HasPrefix(p, "/wallets/"):
		return "WALLET_" + strings.ToUpper(strings.TrimPrefix(p, "/wallets/")), "wallet"
	case method == "POST" && p == "/transfers":
		return "TRANSFER", "transfer"
	case method == "POST" && p == "/margins":
		return "MARGIN_CONFIGURE", "offer_margin"
	case method == "PUT" && p == "/margins/vendor-price":
		return "MARGIN_REPRICE", "offer_margin"
	case method == "POST" && p == "/margins/archive":
		return "MARGIN_ARCHIVE", "offer_margin"
	case method == "POST" && p == "/reconcile/:wallet_id/clear":
		return "INTEGRITY_CLEAR", "wallet"
	}
	return "", ""
}
