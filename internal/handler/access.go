package handler

import (
	"net"
	"net/http"
	"strings"

	"helpdesk-console/internal/guard"
	"helpdesk-console/internal/model"
	"helpdesk-console/internal/service"
)

// requireCapability enforces one flag of the signed-in user's permission
// matrix. Denials are written to the audit trail before the caller sees
// the error.
func requireCapability(r *http.Request, audit *service.AuditService, module string, capability string) error {
	ev := guard.EvaluatorFromContext(r.Context())
	if ev.Has(module, capability) {
		return nil
	}

	entry := auditActor(r)
	entry.Action = model.AuditPermissionDenied
	entry.Module = module
	entry.Detail = capability
	audit.Record(r.Context(), entry)

	return model.ErrForbidden
}

// auditActor seeds an audit entry with whoever is attached to the request.
func auditActor(r *http.Request) model.AuditEntry {
	entry := model.AuditEntry{}
	if profile, ok := guard.ProfileFromContext(r.Context()); ok && profile != nil {
		entry.ActorID = profile.UserID
		entry.ActorName = profile.FullName
	}
	return entry
}

func clientIP(r *http.Request) string {
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	xri := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}

	return strings.TrimSpace(r.RemoteAddr)
}
