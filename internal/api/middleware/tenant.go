package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/eshaffer321/receipt-inbox/internal/api/dto"
)

// TenantHeader carries the caller's tenant. Authenticating it is the job of
// whatever sits in front of this service.
const TenantHeader = "X-Tenant-ID"

type tenantKey struct{}

// Tenant requires the tenant header and stores it on the request context.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant := strings.TrimSpace(r.Header.Get(TenantHeader))
		if tenant == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(dto.BadRequestError(TenantHeader + " header is required"))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
	})
}

// WithTenant returns a context carrying tenant.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenant)
}

// TenantFrom returns the tenant stored by Tenant, or "".
func TenantFrom(ctx context.Context) string {
	tenant, _ := ctx.Value(tenantKey{}).(string)
	return tenant
}
